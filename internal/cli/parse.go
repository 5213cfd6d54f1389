package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/keydraw/keydraw/pkg/keymap"
	"github.com/keydraw/keydraw/pkg/parse"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	output     string   // output file path, empty for stdout
	layerNames []string // override auto-generated layer names
	skip       bool     // skip binding parsing, emit keycodes verbatim
}

// newParseCmd creates the parse command for converting QMK keymaps.
func newParseCmd() *cobra.Command {
	var layerNamesStr string
	opts := parseOpts{}

	cmd := &cobra.Command{
		Use:   "parse [keymap.json]",
		Short: "Convert a json-format QMK keymap to keymap YAML",
		Long: `Convert a json-format QMK keymap to keymap YAML.

Accepts QMK Configurator exports and 'qmk c2json' output. Binding strings
such as MO(1), LT(2, KC_SPC) or LSFT_T(KC_A) are decoded into tap/hold
legends. The emitted document contains the QMK keyboard/layout hints;
replace them with a physical layout spec (type: ortho or raw) before
drawing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.layerNames = splitList(layerNamesStr)
			return runParse(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&layerNamesStr, "layer-names", "", "layer name(s) to use instead of L0..Ln (comma-separated)")
	cmd.Flags().BoolVar(&opts.skip, "raw-bindings", false, "emit binding strings verbatim instead of parsing them")

	return cmd
}

// runParse converts the QMK keymap and writes the YAML document.
func runParse(ctx context.Context, input string, opts *parseOpts) error {
	logger := loggerFromContext(ctx)

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	result, err := parse.QmkJSON(data, parse.Options{
		LayerNames:         opts.layerNames,
		SkipBindingParsing: opts.skip,
	})
	if err != nil {
		return err
	}
	logger.Debugf("parsed %d layers from %s", len(result.LayerNames), input)

	doc := buildKeymapNode(result)
	out := os.Stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.output, err)
		}
		defer f.Close()
		out = f
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(doc)
}

// buildKeymapNode assembles the output document as a yaml.Node tree so
// layer order survives encoding.
func buildKeymapNode(r *parse.Result) *yaml.Node {
	root := mappingNode()

	layoutNode := mappingNode()
	if r.Keyboard != "" {
		appendPair(layoutNode, "qmk_keyboard", scalarNode(r.Keyboard))
	}
	if r.QmkLayout != "" {
		appendPair(layoutNode, "qmk_layout", scalarNode(r.QmkLayout))
	}
	appendPair(root, "layout", layoutNode)

	layersNode := mappingNode()
	for _, name := range r.LayerNames {
		layerNode := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, legend := range r.Layers[name] {
			layerNode.Content = append(layerNode.Content, legendNode(legend))
		}
		appendPair(layersNode, name, layerNode)
	}
	appendPair(root, "layers", layersNode)

	return root
}

// legendNode encodes a legend compactly: a bare scalar when only the tap
// slot is set, a mapping otherwise.
func legendNode(l keymap.KeyLegend) *yaml.Node {
	if l.Hold == "" && l.Shifted == "" && l.Type == "" {
		return scalarNode(l.Tap)
	}
	n := mappingNode()
	appendPair(n, "t", scalarNode(l.Tap))
	if l.Hold != "" {
		appendPair(n, "h", scalarNode(l.Hold))
	}
	if l.Shifted != "" {
		appendPair(n, "s", scalarNode(l.Shifted))
	}
	if l.Type != "" {
		appendPair(n, "type", scalarNode(l.Type))
	}
	return n
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalarNode(key), value)
}
