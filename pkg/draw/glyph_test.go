package draw

import "testing"

func TestGlyphRef(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "plain glyph token",
			lines: []string{"$$icon$$"},
			want:  "icon",
		},
		{
			name:  "namespaced glyph",
			lines: []string{"$$mdi:backspace$$"},
			want:  "mdi:backspace",
		},
		{
			name:  "trailing text does not resolve",
			lines: []string{"$$icon$$extra"},
			want:  "",
		},
		{
			name:  "leading text does not resolve",
			lines: []string{"x$$icon$$"},
			want:  "",
		},
		{
			name:  "two tokens do not resolve",
			lines: []string{"$$icon$$", "extra"},
			want:  "",
		},
		{
			name:  "empty name does not resolve",
			lines: []string{"$$$$"},
			want:  "",
		},
		{
			name:  "no lines",
			lines: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := glyphRef(tt.lines); got != tt.want {
				t.Errorf("glyphRef(%q) = %q, want %q", tt.lines, got, tt.want)
			}
		})
	}
}

func TestParseViewBox(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   viewBox
		ok     bool
	}{
		{
			name:   "integer viewbox",
			markup: `<svg viewBox="0 0 24 24"><path d="M0 0"/></svg>`,
			want:   viewBox{0, 0, 24, 24},
			ok:     true,
		},
		{
			name:   "negative origin and decimals",
			markup: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="-2 -4.5 20.5 16">`,
			want:   viewBox{-2, -4.5, 20.5, 16},
			ok:     true,
		},
		{
			name:   "lowercase attribute",
			markup: `<svg viewbox="0 0 10 10">`,
			want:   viewBox{0, 0, 10, 10},
			ok:     true,
		},
		{
			name:   "missing viewbox",
			markup: `<svg width="24" height="24">`,
			ok:     false,
		},
		{
			name:   "zero extent",
			markup: `<svg viewBox="0 0 0 10">`,
			ok:     false,
		},
		{
			name:   "not svg markup",
			markup: `<div viewBox="0 0 1 1">`,
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseViewBox(tt.markup)
			if ok != tt.ok {
				t.Fatalf("parseViewBox() ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("parseViewBox() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScrubDims(t *testing.T) {
	in := `<svg width="24" height="24" viewBox="0 0 24 24">`
	want := `<svg viewBox="0 0 24 24">`
	if got := scrubDims(in); got != want {
		t.Errorf("scrubDims() = %q, want %q", got, want)
	}
}

func TestGlyphMetrics(t *testing.T) {
	cfg := Default()

	tests := []struct {
		slot       string
		wantHeight float64
		wantDy     float64
	}{
		{legendTap, cfg.GlyphTapSize, cfg.GlyphTapSize / 2},
		{legendHold, cfg.GlyphHoldSize, cfg.GlyphHoldSize},
		{legendShifted, cfg.GlyphShiftedSize, 0},
	}

	for _, tt := range tests {
		t.Run(tt.slot, func(t *testing.T) {
			h, dy := cfg.glyphMetrics(tt.slot)
			if h != tt.wantHeight || dy != tt.wantDy {
				t.Errorf("glyphMetrics(%s) = (%g, %g), want (%g, %g)", tt.slot, h, dy, tt.wantHeight, tt.wantDy)
			}
		})
	}
}
