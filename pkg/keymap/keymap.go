// Package keymap models the logical content of a keyboard keymap: named
// layers assigning a legend to every physical key, and combo definitions
// that chord multiple keys into one behavior.
//
// A Keymap is validated on construction against its physical layout and
// is read-only afterwards. Layer order is preserved from the source
// document and determines top-to-bottom stacking in the rendered output.
package keymap

import (
	"slices"

	"github.com/keydraw/keydraw/pkg/errors"
	"github.com/keydraw/keydraw/pkg/layout"
)

// Combo alignment values: where the combo box is anchored relative to
// its participant keys.
const (
	AlignMid    = "mid"
	AlignTop    = "top"
	AlignBottom = "bottom"
	AlignLeft   = "left"
	AlignRight  = "right"
)

// Dendron modes controlling connector paths from combo box to keys.
const (
	DendronAuto   = "auto"   // draw when the box is far enough from the key
	DendronAlways = "always" // draw unconditionally
	DendronNever  = "never"  // skip entirely
)

// KeyLegend is the displayed content of one key on one layer: up to three
// text slots plus a type tag used for CSS styling. Any slot may be empty.
type KeyLegend struct {
	Tap     string
	Hold    string
	Shifted string
	Type    string
}

// Layer is an ordered legend sequence aligned 1:1 with the layout keys.
type Layer []KeyLegend

// Combo describes a chorded behavior triggered by pressing several keys
// together. KeyPositions index into the physical layout.
type Combo struct {
	KeyPositions []int
	Key          KeyLegend
	Align        string   // one of the Align* constants, default mid
	Offset       float64  // outward offset, scaled by the layout's min dimension
	Slide        *float64 // in [-1, 1], only meaningful with >= 2 participants
	Dendron      string   // one of the Dendron* constants, default auto
	Type         string
	Layers       []string // layer names where active; empty means all
}

// ActiveOn reports whether the combo is rendered on the named layer.
func (c Combo) ActiveOn(name string) bool {
	return len(c.Layers) == 0 || slices.Contains(c.Layers, name)
}

// Keymap is the full document: ordered named layers, combos and the
// physical layout they refer to.
type Keymap struct {
	layerNames []string
	layers     map[string]Layer
	combos     []Combo
	layout     *layout.Layout
}

// New validates layers and combos against the layout and constructs a
// Keymap. It checks every invariant the renderer relies on, so rendering
// never starts from inconsistent data:
//   - every layer's length equals the layout key count
//   - every combo participant index is in range
//   - slide is only set on combos with more than one participant
//   - alignment and dendron tags are known
func New(l *layout.Layout, names []string, layers map[string]Layer, combos []Combo) (*Keymap, error) {
	if l == nil {
		return nil, errors.New(errors.ErrCodeInvalidKeymap, "keymap needs a physical layout")
	}
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidKeymap, "keymap needs at least one layer")
	}
	if len(names) != len(layers) {
		return nil, errors.New(errors.ErrCodeInvalidKeymap,
			"layer name order (%d entries) does not match layer map (%d entries)", len(names), len(layers))
	}
	for _, name := range names {
		layer, ok := layers[name]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidLayer, "layer %q listed in order but not defined", name)
		}
		if len(layer) != l.Len() {
			return nil, errors.New(errors.ErrCodeInvalidLayer,
				"layer %q has %d keys but the layout has %d", name, len(layer), l.Len())
		}
	}

	normalized := make([]Combo, len(combos))
	for i, c := range combos {
		nc, err := normalizeCombo(c, l, names)
		if err != nil {
			return nil, err
		}
		normalized[i] = nc
	}

	return &Keymap{
		layerNames: slices.Clone(names),
		layers:     layers,
		combos:     normalized,
		layout:     l,
	}, nil
}

func normalizeCombo(c Combo, l *layout.Layout, layerNames []string) (Combo, error) {
	if len(c.KeyPositions) == 0 {
		return Combo{}, errors.New(errors.ErrCodeInvalidCombo, "combo has no key positions")
	}
	for _, p := range c.KeyPositions {
		if p < 0 || p >= l.Len() {
			return Combo{}, errors.New(errors.ErrCodeInvalidCombo,
				"combo key position %d out of range [0, %d)", p, l.Len())
		}
	}
	if c.Align == "" {
		c.Align = AlignMid
	}
	switch c.Align {
	case AlignMid, AlignTop, AlignBottom, AlignLeft, AlignRight:
	default:
		return Combo{}, errors.New(errors.ErrCodeInvalidCombo, "unknown combo alignment %q", c.Align)
	}
	if c.Dendron == "" {
		c.Dendron = DendronAuto
	}
	switch c.Dendron {
	case DendronAuto, DendronAlways, DendronNever:
	default:
		return Combo{}, errors.New(errors.ErrCodeInvalidCombo, "unknown dendron mode %q", c.Dendron)
	}
	if c.Slide != nil {
		if len(c.KeyPositions) < 2 {
			return Combo{}, errors.New(errors.ErrCodeInvalidCombo,
				"combo slide needs at least two key positions")
		}
		if s := *c.Slide; s < -1 || s > 1 {
			return Combo{}, errors.New(errors.ErrCodeInvalidCombo, "combo slide %g outside [-1, 1]", s)
		}
	}
	for _, name := range c.Layers {
		if !slices.Contains(layerNames, name) {
			return Combo{}, errors.New(errors.ErrCodeInvalidCombo,
				"combo references unknown layer %q", name)
		}
	}
	return c, nil
}

// Layout returns the physical layout the keymap is bound to.
func (k *Keymap) Layout() *layout.Layout {
	return k.layout
}

// LayerNames returns layer names in document order.
func (k *Keymap) LayerNames() []string {
	return k.layerNames
}

// Layer returns the named layer.
func (k *Keymap) Layer(name string) (Layer, bool) {
	l, ok := k.layers[name]
	return l, ok
}

// Combos returns all combo definitions.
func (k *Keymap) Combos() []Combo {
	return k.combos
}

// CombosOn returns the combos active on the named layer, in definition
// order.
func (k *Keymap) CombosOn(name string) []Combo {
	var active []Combo
	for _, c := range k.combos {
		if c.ActiveOn(name) {
			active = append(active, c)
		}
	}
	return active
}

// SelectLayers resolves a requested layer subset, preserving document
// order. An empty request selects all layers. Unknown names fail before
// any rendering output is produced.
func (k *Keymap) SelectLayers(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return k.layerNames, nil
	}
	for _, name := range requested {
		if _, ok := k.layers[name]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidLayer,
				"layer %q selected for drawing is not in the keymap", name)
		}
	}
	selected := make([]string, 0, len(requested))
	for _, name := range k.layerNames {
		if slices.Contains(requested, name) {
			selected = append(selected, name)
		}
	}
	return selected, nil
}
