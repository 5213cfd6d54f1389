// Package parse converts keymap source formats into keymap data.
//
// Currently it understands json-format QMK keymaps, like Configurator
// exports or `qmk c2json` output. Binding strings (MO, LT, mod-taps and
// friends) are decoded into tap/hold legends; everything else becomes a
// plain tap legend with the KC_ prefix stripped and underscores spaced.
package parse

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/keydraw/keydraw/pkg/errors"
	"github.com/keydraw/keydraw/pkg/keymap"
)

// Default labels for special bindings.
const (
	defaultTransLegend = "▽"
	defaultToggleLabel = "toggle"
	defaultStickyLabel = "sticky"

	// heldType tags keys that activate the layer they appear on.
	heldType = "held"
)

// Options adjust QMK keymap parsing.
type Options struct {
	// LayerNames overrides the auto-generated L0..Ln names. Length must
	// match the number of layers in the input.
	LayerNames []string

	// KeycodeMap maps QMK keycodes (after KC_ stripping) to display
	// legends, e.g. "SCLN" -> ";".
	KeycodeMap map[string]string

	// RawBindingMap maps full binding strings to display legends before
	// any parsing, e.g. "MO(3)" -> "Fn".
	RawBindingMap map[string]string

	// SkipBindingParsing emits every binding verbatim as a tap legend.
	SkipBindingParsing bool

	TransLegend string // legend for transparent keys, default "▽"
	ToggleLabel string // hold label for toggled layers, default "toggle"
	StickyLabel string // hold label for one-shot bindings, default "sticky"
}

// Result is a parsed QMK keymap: ordered layers plus the physical layout
// hints carried by the input file.
type Result struct {
	Keyboard   string // QMK keyboard name, if present
	QmkLayout  string // QMK layout macro name, if present
	LayerNames []string
	Layers     map[string]keymap.Layer
}

var (
	prefixRe = regexp.MustCompile(`\bKC_`)
	transRe  = regexp.MustCompile(`^(TRANSPARENT|TRNS|_______)$`)
	moRe     = regexp.MustCompile(`^MO\((\d+)\)$`)
	togRe    = regexp.MustCompile(`^(TG|TO|DF)\((\d+)\)$`)
	mtsRe    = regexp.MustCompile(`^([A-Z_]+)_T\((\S+)\)$`)
	mtlRe    = regexp.MustCompile(`^MT\((\S+), *(\S+)\)$`)
	ltRe     = regexp.MustCompile(`^LT\((\d+), *(\S+)\)$`)
	osmRe    = regexp.MustCompile(`^OSM\(MOD_(\S+)\)$`)
	oslRe    = regexp.MustCompile(`^OSL\((\d+)\)$`)
)

// qmkFile mirrors the json-format QMK keymap structure.
type qmkFile struct {
	Keyboard string     `json:"keyboard"`
	Layout   string     `json:"layout"`
	Layers   [][]string `json:"layers"`
}

type parser struct {
	opts       Options
	layerNames []string

	// heldPositions records, per target layer index, the key positions
	// holding a layer-activating binding on some other layer. Those
	// positions are tagged as held on the target layer afterwards.
	heldPositions map[int][]int
}

// QmkJSON parses a json-format QMK keymap.
func QmkJSON(data []byte, opts Options) (*Result, error) {
	if opts.TransLegend == "" {
		opts.TransLegend = defaultTransLegend
	}
	if opts.ToggleLabel == "" {
		opts.ToggleLabel = defaultToggleLabel
	}
	if opts.StickyLabel == "" {
		opts.StickyLabel = defaultStickyLabel
	}

	var raw qmkFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode QMK keymap")
	}
	if len(raw.Layers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "QMK keymap has no layers")
	}

	p := &parser{opts: opts, heldPositions: map[int][]int{}}
	if len(opts.LayerNames) > 0 {
		if len(opts.LayerNames) != len(raw.Layers) {
			return nil, errors.New(errors.ErrCodeInvalidKeymap,
				"provided %d layer names for %d parsed layers", len(opts.LayerNames), len(raw.Layers))
		}
		p.layerNames = opts.LayerNames
	} else {
		p.layerNames = make([]string, len(raw.Layers))
		for i := range raw.Layers {
			p.layerNames[i] = "L" + strconv.Itoa(i)
		}
	}

	layers := make(map[string]keymap.Layer, len(raw.Layers))
	for ind, rawLayer := range raw.Layers {
		layer := make(keymap.Layer, len(rawLayer))
		for pos, binding := range rawLayer {
			layer[pos] = p.bindingToLegend(binding, pos)
		}
		layers[p.layerNames[ind]] = layer
	}
	p.markHeldKeys(layers)

	return &Result{
		Keyboard:   raw.Keyboard,
		QmkLayout:  raw.Layout,
		LayerNames: p.layerNames,
		Layers:     layers,
	}, nil
}

// bindingToLegend decodes one QMK binding string into a key legend.
func (p *parser) bindingToLegend(binding string, pos int) keymap.KeyLegend {
	if spec, ok := p.opts.RawBindingMap[binding]; ok {
		return keymap.KeyLegend{Tap: spec}
	}
	if p.opts.SkipBindingParsing {
		return keymap.KeyLegend{Tap: binding}
	}

	key := prefixRe.ReplaceAllString(binding, "")

	switch {
	case transRe.MatchString(key):
		return keymap.KeyLegend{Tap: p.opts.TransLegend, Type: "trans"}
	case moRe.MatchString(key): // momentary layer
		to := atoi(moRe.FindStringSubmatch(key)[1])
		p.activate(to, pos)
		return keymap.KeyLegend{Tap: p.layerName(to)}
	case togRe.MatchString(key): // toggled or default layer
		to := atoi(togRe.FindStringSubmatch(key)[2])
		return keymap.KeyLegend{Tap: p.layerName(to), Hold: p.opts.ToggleLabel}
	case mtsRe.MatchString(key): // short mod-tap syntax
		m := mtsRe.FindStringSubmatch(key)
		tap := p.mapped(m[2])
		return keymap.KeyLegend{Tap: tap.Tap, Hold: m[1], Shifted: tap.Shifted}
	case mtlRe.MatchString(key): // long mod-tap syntax
		m := mtlRe.FindStringSubmatch(key)
		tap := p.mapped(strings.TrimSpace(m[2]))
		return keymap.KeyLegend{Tap: tap.Tap, Hold: strings.TrimSpace(m[1]), Shifted: tap.Shifted}
	case ltRe.MatchString(key): // layer-tap
		m := ltRe.FindStringSubmatch(key)
		to := atoi(m[1])
		p.activate(to, pos)
		tap := p.mapped(strings.TrimSpace(m[2]))
		return keymap.KeyLegend{Tap: tap.Tap, Hold: p.layerName(to), Shifted: tap.Shifted}
	case osmRe.MatchString(key): // one-shot mod
		tap := p.mapped(osmRe.FindStringSubmatch(key)[1])
		return keymap.KeyLegend{Tap: tap.Tap, Hold: p.opts.StickyLabel, Shifted: tap.Shifted}
	case oslRe.MatchString(key): // one-shot layer
		to := atoi(oslRe.FindStringSubmatch(key)[1])
		p.activate(to, pos)
		return keymap.KeyLegend{Tap: p.layerName(to), Hold: p.opts.StickyLabel}
	default:
		return p.mapped(key)
	}
}

// mapped resolves a plain keycode through the user keycode map, spacing
// underscores otherwise.
func (p *parser) mapped(key string) keymap.KeyLegend {
	if spec, ok := p.opts.KeycodeMap[key]; ok {
		return keymap.KeyLegend{Tap: spec}
	}
	return keymap.KeyLegend{Tap: strings.ReplaceAll(key, "_", " ")}
}

// layerName returns the display name for a layer index, tolerating
// out-of-range references the way QMK itself does.
func (p *parser) layerName(ind int) string {
	if ind < 0 || ind >= len(p.layerNames) {
		return "L" + strconv.Itoa(ind)
	}
	return p.layerNames[ind]
}

func (p *parser) activate(toLayer, pos int) {
	p.heldPositions[toLayer] = append(p.heldPositions[toLayer], pos)
}

// markHeldKeys tags, on each activated layer, the key positions whose
// hold activates that layer.
func (p *parser) markHeldKeys(layers map[string]keymap.Layer) {
	for ind, positions := range p.heldPositions {
		if ind < 0 || ind >= len(p.layerNames) {
			continue
		}
		layer := layers[p.layerNames[ind]]
		for _, pos := range positions {
			if pos < 0 || pos >= len(layer) {
				continue
			}
			layer[pos].Type = heldType
		}
	}
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
