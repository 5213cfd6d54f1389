package draw

import (
	"regexp"
	"strconv"
)

// Legend slot identifiers, also used as CSS classes on legend elements.
const (
	legendTap     = "tap"
	legendHold    = "hold"
	legendShifted = "shifted"
)

var (
	// glyphNameRe matches a legend that is exactly one glyph reference,
	// e.g. "$$media_play$$". Anchored so trailing or leading text never
	// resolves as a glyph.
	glyphNameRe = regexp.MustCompile(`^\$\$(.+)\$\$$`)

	// viewBoxRe extracts the 4-tuple viewBox declaration from raw glyph
	// markup.
	viewBoxRe = regexp.MustCompile(
		`(?is)<svg[^>]*\bviewbox="(-?\d+(?:\.\d+)?)[\s,]+(-?\d+(?:\.\d+)?)[\s,]+(\d+(?:\.\d+)?)[\s,]+(\d+(?:\.\d+)?)"`)

	// scrubDimsRe removes explicit width/height attributes from glyph
	// markup so the referencing <use> element controls sizing.
	scrubDimsRe = regexp.MustCompile(` (width|height)=".*?"`)
)

// glyphRef returns the glyph name if the legend lines are exactly one
// glyph-reference token, or "" otherwise.
func glyphRef(lines []string) string {
	if len(lines) != 1 {
		return ""
	}
	m := glyphNameRe.FindStringSubmatch(lines[0])
	if m == nil {
		return ""
	}
	return m[1]
}

// viewBox is the parsed viewBox declaration of a glyph: origin plus
// width and height.
type viewBox struct {
	x, y, w, h float64
}

// parseViewBox extracts the viewBox from raw glyph markup. Returns false
// when the markup has no parsable declaration, in which case the caller
// falls back to a plain text render.
func parseViewBox(markup string) (viewBox, bool) {
	m := viewBoxRe.FindStringSubmatch(markup)
	if m == nil {
		return viewBox{}, false
	}
	var vals [4]float64
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return viewBox{}, false
		}
		vals[i] = v
	}
	vb := viewBox{x: vals[0], y: vals[1], w: vals[2], h: vals[3]}
	if vb.w <= 0 || vb.h <= 0 {
		return viewBox{}, false
	}
	return vb, true
}

// scrubDims strips width/height attributes from glyph markup.
func scrubDims(markup string) string {
	return scrubDimsRe.ReplaceAllString(markup, "")
}

// glyphMetrics returns the render height and the downward offset from the
// anchor point for a legend slot.
func (c Config) glyphMetrics(legendType string) (height, dy float64) {
	switch legendType {
	case legendHold:
		return c.GlyphHoldSize, c.GlyphHoldSize
	case legendShifted:
		return c.GlyphShiftedSize, 0
	default:
		return c.GlyphTapSize, 0.5 * c.GlyphTapSize
	}
}
