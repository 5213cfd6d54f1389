package keymap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/keydraw/keydraw/pkg/errors"
	"github.com/keydraw/keydraw/pkg/layout"
)

// document mirrors the on-disk YAML keymap format. Layers are kept as a
// raw node so the mapping order in the file is preserved; map decoding
// would lose it.
type document struct {
	Layout layout.Spec `yaml:"layout"`
	Layers yaml.Node   `yaml:"layers"`
	Combos []comboDoc  `yaml:"combos"`
}

// legendDoc decodes a key legend that is either a bare scalar (tap text)
// or a mapping with explicit slots.
type legendDoc struct {
	Tap     string `yaml:"t"`
	Hold    string `yaml:"h"`
	Shifted string `yaml:"s"`
	Type    string `yaml:"type"`
}

func (d *legendDoc) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*d = legendDoc{}
			return nil
		}
		var tap string
		if err := node.Decode(&tap); err != nil {
			return err
		}
		*d = legendDoc{Tap: tap}
		return nil
	case yaml.MappingNode:
		type plain legendDoc
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*d = legendDoc(p)
		return nil
	default:
		return fmt.Errorf("line %d: key legend must be a scalar or mapping", node.Line)
	}
}

func (d legendDoc) legend() KeyLegend {
	return KeyLegend{Tap: d.Tap, Hold: d.Hold, Shifted: d.Shifted, Type: d.Type}
}

type comboDoc struct {
	KeyPositions []int     `yaml:"p"`
	Key          legendDoc `yaml:"k"`
	Align        string    `yaml:"a"`
	Offset       float64   `yaml:"o"`
	Slide        *float64  `yaml:"slide"`
	Dendron      string    `yaml:"dendron"`
	Type         string    `yaml:"type"`
	Layers       []string  `yaml:"l"`
}

func (d comboDoc) combo() Combo {
	return Combo{
		KeyPositions: d.KeyPositions,
		Key:          d.Key.legend(),
		Align:        d.Align,
		Offset:       d.Offset,
		Slide:        d.Slide,
		Dendron:      d.Dendron,
		Type:         d.Type,
		Layers:       d.Layers,
	}
}

// Parse decodes a YAML keymap document, builds its physical layout and
// returns the validated Keymap.
func Parse(data []byte) (*Keymap, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidKeymap, err, "decode keymap document")
	}

	l, err := layout.New(doc.Layout)
	if err != nil {
		return nil, err
	}

	names, layers, err := decodeLayers(&doc.Layers)
	if err != nil {
		return nil, err
	}

	combos := make([]Combo, len(doc.Combos))
	for i, c := range doc.Combos {
		combos[i] = c.combo()
	}

	return New(l, names, layers, combos)
}

// Load reads and parses a YAML keymap file.
func Load(path string) (*Keymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "keymap file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidKeymap, err, "read keymap file %s", path)
	}
	return Parse(data)
}

// decodeLayers walks the raw layers mapping node pairwise, keeping the
// layer order exactly as written in the document.
func decodeLayers(node *yaml.Node) ([]string, map[string]Layer, error) {
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return nil, nil, errors.New(errors.ErrCodeInvalidKeymap, "keymap document has no layers")
	}
	if node.Kind != yaml.MappingNode {
		return nil, nil, errors.New(errors.ErrCodeInvalidKeymap, "layers must be a mapping of name to key list")
	}

	var names []string
	layers := make(map[string]Layer, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		var name string
		if err := keyNode.Decode(&name); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidKeymap, err, "decode layer name")
		}
		if _, dup := layers[name]; dup {
			return nil, nil, errors.New(errors.ErrCodeInvalidLayer, "duplicate layer %q", name)
		}

		var docs []legendDoc
		if err := valNode.Decode(&docs); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidLayer, err, "decode layer %q", name)
		}
		layer := make(Layer, len(docs))
		for j, d := range docs {
			layer[j] = d.legend()
		}

		names = append(names, name)
		layers[name] = layer
	}
	return names, layers, nil
}
