// Package draw renders a keymap as an SVG document.
//
// The entry point is New, which binds a visual Config to a validated
// keymap.Keymap; a Drawer cannot be constructed without both. Render then
// produces the whole document in a single streaming pass: per-layer
// groups of key rectangles and legends, combo boxes with dendron
// connector paths, a shared glyph <defs> block and a verbatim stylesheet.
//
// All validation happens before the first byte is written, so callers
// never see partial output from a configuration error. A Drawer holds no
// mutable state across calls; independent renders may run concurrently.
package draw

import (
	"fmt"
	"io"
	"slices"

	"github.com/keydraw/keydraw/pkg/errors"
	"github.com/keydraw/keydraw/pkg/keymap"
	"github.com/keydraw/keydraw/pkg/layout"
)

// Drawer renders one keymap with one visual configuration.
type Drawer struct {
	cfg    Config
	keymap *keymap.Keymap
	layout *layout.Layout
}

// New creates a Drawer. The keymap carries its resolved physical layout;
// cfg must pass Validate. Both requirements are checked here so an
// unusable Drawer is unrepresentable.
func New(cfg Config, km *keymap.Keymap) (*Drawer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if km == nil {
		return nil, errors.New(errors.ErrCodeInvalidKeymap, "drawer needs a keymap with a resolved layout")
	}
	return &Drawer{cfg: cfg, keymap: km, layout: km.Layout()}, nil
}

// RenderOption adjusts a single Render call.
type RenderOption func(*renderOpts)

type renderOpts struct {
	layers     []string
	keysOnly   bool
	combosOnly bool
}

// WithLayers restricts rendering to the named layers, keeping document
// order. Unknown names fail before any output is written.
func WithLayers(names ...string) RenderOption {
	return func(o *renderOpts) { o.layers = names }
}

// KeysOnly suppresses combo boxes and dendrons.
func KeysOnly() RenderOption {
	return func(o *renderOpts) { o.keysOnly = true }
}

// CombosOnly renders blank keys so only combos stand out.
func CombosOnly() RenderOption {
	return func(o *renderOpts) { o.combosOnly = true }
}

// svgWriter wraps the output sink and latches the first write error so
// drawing code can stay free of error plumbing.
type svgWriter struct {
	w   io.Writer
	err error
}

func (w *svgWriter) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

// Render writes the full SVG document to out.
func (d *Drawer) Render(out io.Writer, opts ...RenderOption) error {
	var o renderOpts
	for _, opt := range opts {
		opt(&o)
	}

	names, err := d.keymap.SelectLayers(o.layers)
	if err != nil {
		return err
	}

	combosPerLayer := make(map[string][]keymap.Combo, len(names))
	for _, name := range names {
		if o.keysOnly {
			combosPerLayer[name] = nil
			continue
		}
		combosPerLayer[name] = d.keymap.CombosOn(name)
	}

	type layerOffsets struct{ top, bottom float64 }
	offsets := make(map[string]layerOffsets, len(names))
	for _, name := range names {
		var off layerOffsets
		for _, c := range combosPerLayer[name] {
			v := c.Offset * d.layout.MinHeight()
			switch c.Align {
			case keymap.AlignTop:
				off.top = max(off.top, v)
			case keymap.AlignBottom:
				off.bottom = max(off.bottom, v)
			}
		}
		offsets[name] = off
	}

	boardW := d.layout.Width() + 2*d.cfg.OuterPadW
	boardH := float64(len(names))*d.layout.Height() + float64(len(names)+1)*d.cfg.OuterPadH
	for _, off := range offsets {
		boardH += off.top + off.bottom
	}

	w := &svgWriter{w: out}
	w.printf(`<svg width="%v" height="%v" viewBox="0 0 %v %v" class="keymap" xmlns="http://www.w3.org/2000/svg">`+"\n",
		boardW, boardH, boardW, boardH)

	d.writeGlyphDefs(w, names, combosPerLayer)
	w.printf("<style>%s</style>\n", d.cfg.Style)

	p := layout.Pt(d.cfg.OuterPadW, 0)
	for _, name := range names {
		w.printf("<g class=\"layer-%s\">\n", name)

		header := name
		if d.cfg.AppendColonToLayerHeader {
			header += ":"
		}
		d.drawText(w, p.Add(layout.Pt(0, d.cfg.OuterPadH/2)), header, "label")

		p = p.Add(layout.Pt(0, d.cfg.OuterPadH+offsets[name].top))
		d.drawLayer(w, p, name, combosPerLayer[name], o.combosOnly)
		p = p.Add(layout.Pt(0, d.layout.Height()+offsets[name].bottom))

		w.printf("</g>\n")
	}

	w.printf("</svg>\n")
	return w.err
}

// drawLayer draws every key of the layer at origin p, then its combos.
func (d *Drawer) drawLayer(w *svgWriter, p layout.Point, name string, combos []keymap.Combo, blankKeys bool) {
	legends, _ := d.keymap.Layer(name)
	for i, key := range d.layout.Keys() {
		legend := legends[i]
		if blankKeys {
			legend = keymap.KeyLegend{}
		}
		d.drawKey(w, p, key, legend)
	}
	for _, c := range combos {
		d.drawCombo(w, p, c)
	}
}

// drawKey draws one key rectangle with up to three legends, rotated as a
// group around the key center when the key declares a rotation.
func (d *Drawer) drawKey(w *svgWriter, origin layout.Point, k layout.Key, legend keymap.KeyLegend) {
	p := origin.Add(k.Pos())
	if k.Rotation != 0 {
		w.printf("<g transform=\"rotate(%v, %v, %v)\">\n", k.Rotation, p.X, p.Y)
	}
	d.drawRect(w, p, k.Width-2*d.cfg.InnerPadW, k.Height-2*d.cfg.InnerPadH, legend.Type, "key")

	tapLines := SplitLegend(legend.Tap)

	// A two-line tap legend shifts away from whichever edge legend is
	// present so the lines stay clear of it.
	var shift float64
	if len(tapLines) == 2 {
		switch {
		case legend.Shifted != "" && legend.Hold == "":
			shift = -1
		case legend.Hold != "" && legend.Shifted == "":
			shift = 1
		}
	}

	edge := k.Height/2 - d.cfg.InnerPadH - d.cfg.SmallPad
	d.drawLegend(w, p, tapLines, legend.Type, legendTap, shift)
	d.drawLegend(w, p.Add(layout.Pt(0, edge)), []string{legend.Hold}, legend.Type, legendHold, 0)
	d.drawLegend(w, p.Sub(layout.Pt(0, edge)), []string{legend.Shifted}, legend.Type, legendShifted, 0)

	if k.Rotation != 0 {
		w.printf("</g>\n")
	}
}

// drawLegend renders one legend slot: a glyph when the legend is a
// resolvable glyph reference, a single text element for one line, or a
// tspan block for several. Unresolvable glyph references fall back to
// their literal text.
func (d *Drawer) drawLegend(w *svgWriter, p layout.Point, lines []string, keyType, legendType string, shift float64) {
	if len(lines) == 0 {
		return
	}

	if name := glyphRef(lines); name != "" && d.drawGlyph(w, p, name, legendType, keyType) {
		return
	}

	if len(lines) == 1 {
		d.drawText(w, p, lines[0], keyType, legendType)
		return
	}
	d.drawTextBlock(w, p, lines, shift, keyType, legendType)
}

// drawGlyph emits a <use> reference to a defs glyph, scaled to the slot's
// configured height with width preserving the glyph's aspect ratio.
// Returns false when the glyph is unknown or its viewBox cannot be
// parsed; the caller then renders the literal token instead.
func (d *Drawer) drawGlyph(w *svgWriter, p layout.Point, name, legendType, keyType string) bool {
	markup, ok := d.cfg.Glyphs[name]
	if !ok {
		return false
	}
	vb, ok := parseViewBox(markup)
	if !ok {
		return false
	}

	height, dy := d.cfg.glyphMetrics(legendType)
	width := vb.w * (height / vb.h)

	w.printf("<use href=\"#%s\" x=\"%v\" y=\"%v\" height=\"%v\" width=\"%v\"%s/>\n",
		name, p.X-width/2, p.Y-dy, height, width,
		classAttr(keyType, legendType, "glyph", name))
	return true
}

func (d *Drawer) drawRect(w *svgWriter, p layout.Point, width, height float64, classes ...string) {
	w.printf("<rect rx=\"%v\" ry=\"%v\" x=\"%v\" y=\"%v\" width=\"%v\" height=\"%v\"%s/>\n",
		d.cfg.KeyRx, d.cfg.KeyRy, p.X-width/2, p.Y-height/2, width, height, classAttr(classes...))
}

func (d *Drawer) drawText(w *svgWriter, p layout.Point, text string, classes ...string) {
	if text == "" {
		return
	}
	w.printf("<text x=\"%v\" y=\"%v\"%s>%s</text>\n", p.X, p.Y, classAttr(classes...), escape(text))
}

// drawTextBlock stacks lines vertically around p. shift skews the block's
// starting offset; the tap legend uses it to dodge hold/shifted legends.
func (d *Drawer) drawTextBlock(w *svgWriter, p layout.Point, lines []string, shift float64, classes ...string) {
	w.printf("<text x=\"%v\" y=\"%v\"%s>\n", p.X, p.Y, classAttr(classes...))
	dy0 := float64(len(lines)-1) * (d.cfg.LineSpacing * (1 + shift) / 2)
	w.printf("<tspan x=\"%v\" dy=\"-%vem\">%s</tspan>", p.X, dy0, escape(lines[0]))
	for _, line := range lines[1:] {
		w.printf("<tspan x=\"%v\" dy=\"%vem\">%s</tspan>", p.X, d.cfg.LineSpacing, escape(line))
	}
	w.printf("</text>\n")
}

// writeGlyphDefs embeds every glyph referenced by the selected layers or
// their combos into a <defs> block, scrubbed of explicit dimensions so
// each <use> site controls sizing.
func (d *Drawer) writeGlyphDefs(w *svgWriter, names []string, combosPerLayer map[string][]keymap.Combo) {
	used := d.referencedGlyphs(names, combosPerLayer)
	if len(used) == 0 {
		return
	}

	w.printf("<defs>\n")
	for _, name := range used {
		w.printf("<svg id=\"%s\">\n", name)
		w.printf("%s\n</svg>\n", scrubDims(d.cfg.Glyphs[name]))
	}
	w.printf("</defs>\n")
}

// referencedGlyphs collects the names of configured glyphs that any
// rendered legend refers to, sorted for deterministic output.
func (d *Drawer) referencedGlyphs(names []string, combosPerLayer map[string][]keymap.Combo) []string {
	seen := make(map[string]struct{})
	collect := func(legend keymap.KeyLegend) {
		for _, text := range []string{legend.Tap, legend.Hold, legend.Shifted} {
			name := glyphRef(SplitLegend(text))
			if name == "" {
				continue
			}
			if _, ok := d.cfg.Glyphs[name]; ok {
				seen[name] = struct{}{}
			}
		}
	}

	for _, name := range names {
		legends, _ := d.keymap.Layer(name)
		for _, legend := range legends {
			collect(legend)
		}
		for _, c := range combosPerLayer[name] {
			collect(c.Key)
		}
	}

	used := make([]string, 0, len(seen))
	for name := range seen {
		used = append(used, name)
	}
	slices.Sort(used)
	return used
}
