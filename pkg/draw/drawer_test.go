package draw

import (
	"strings"
	"testing"

	"github.com/keydraw/keydraw/pkg/errors"
	"github.com/keydraw/keydraw/pkg/keymap"
	"github.com/keydraw/keydraw/pkg/layout"
)

const glyphMarkup = `<svg width="24" height="24" viewBox="0 0 24 24"><path d="M0 0h24v24H0z"/></svg>`

func testKeymap(t *testing.T) *keymap.Keymap {
	t.Helper()
	l, err := layout.New(layout.Spec{Type: layout.TypeOrtho, Rows: 1, Columns: 2})
	if err != nil {
		t.Fatalf("layout.New() error = %v", err)
	}
	km, err := keymap.New(l, []string{"base", "nav"},
		map[string]keymap.Layer{
			"base": {
				{Tap: "a", Hold: "Sft"},
				{Tap: "$$backspace$$"},
			},
			"nav": {
				{Tap: "Page Up"},
				{Tap: "Home"},
			},
		},
		[]keymap.Combo{
			{KeyPositions: []int{0, 1}, Key: keymap.KeyLegend{Tap: "Esc"}, Layers: []string{"base"}},
		})
	if err != nil {
		t.Fatalf("keymap.New() error = %v", err)
	}
	return km
}

func render(t *testing.T, km *keymap.Keymap, cfg Config, opts ...RenderOption) string {
	t.Helper()
	d, err := New(cfg, km)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	var sb strings.Builder
	if err := d.Render(&sb, opts...); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return sb.String()
}

func TestNewValidation(t *testing.T) {
	bad := Default()
	bad.ComboW = 0
	if _, err := New(bad, testKeymap(t)); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("New() with zero combo_w error = %v, want INVALID_CONFIG", err)
	}

	if _, err := New(Default(), nil); !errors.Is(err, errors.ErrCodeInvalidKeymap) {
		t.Errorf("New() with nil keymap error = %v, want INVALID_KEYMAP", err)
	}
}

func TestRenderDocument(t *testing.T) {
	out := render(t, testKeymap(t), Default())

	if !strings.HasPrefix(out, `<svg width="`) || !strings.HasSuffix(out, "</svg>\n") {
		t.Fatalf("Render() output is not a complete document:\n%s", out)
	}
	if !strings.Contains(out, `class="keymap"`) {
		t.Error("Render() missing document class")
	}
	if !strings.Contains(out, "<style>") {
		t.Error("Render() missing stylesheet")
	}

	for _, name := range []string{"base", "nav"} {
		if !strings.Contains(out, `<g class="layer-`+name+`">`) {
			t.Errorf("Render() missing layer group %q", name)
		}
		if !strings.Contains(out, ">"+name+"</text>") {
			t.Errorf("Render() missing header for layer %q", name)
		}
	}

	// Two layers of two keys each.
	if got := strings.Count(out, `class="key"`); got != 4 {
		t.Errorf("Render() drew %d key rects, want 4", got)
	}
	// One combo, active on the base layer only.
	if got := strings.Count(out, `<rect`); got != 5 {
		t.Errorf("Render() drew %d rects, want 5", got)
	}
	if !strings.Contains(out, ">Esc</text>") {
		t.Error("Render() missing combo legend")
	}
}

func TestRenderLayerSubset(t *testing.T) {
	out := render(t, testKeymap(t), Default(), WithLayers("nav"))

	if strings.Contains(out, "layer-base") {
		t.Error("Render() included an unselected layer")
	}
	if !strings.Contains(out, "layer-nav") {
		t.Error("Render() missing the selected layer")
	}
	if strings.Contains(out, ">Esc</text>") {
		t.Error("Render() drew a combo not active on the selected layer")
	}
}

func TestRenderUnknownLayerWritesNothing(t *testing.T) {
	d, err := New(Default(), testKeymap(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	var sb strings.Builder
	if err := d.Render(&sb, WithLayers("media")); !errors.Is(err, errors.ErrCodeInvalidLayer) {
		t.Fatalf("Render() error = %v, want INVALID_LAYER", err)
	}
	if sb.Len() != 0 {
		t.Errorf("Render() wrote %d bytes before failing, want 0", sb.Len())
	}
}

func TestRenderGlyphDefs(t *testing.T) {
	cfg := Default()
	cfg.Glyphs["backspace"] = glyphMarkup

	out := render(t, testKeymap(t), cfg)
	if !strings.Contains(out, `<svg id="backspace">`) {
		t.Fatal("Render() missing glyph definition")
	}
	if strings.Contains(out, `width="24" height="24"`) {
		t.Error("Render() kept explicit dimensions on the embedded glyph")
	}
	if !strings.Contains(out, `<use href="#backspace"`) {
		t.Error("Render() missing glyph reference")
	}
}

func TestRenderSkipsUnreferencedGlyphs(t *testing.T) {
	cfg := Default()
	cfg.Glyphs["backspace"] = glyphMarkup
	cfg.Glyphs["unused"] = glyphMarkup

	out := render(t, testKeymap(t), cfg)
	if strings.Contains(out, `id="unused"`) {
		t.Error("Render() embedded a glyph no legend references")
	}
}

func TestRenderUnknownGlyphFallsBackToText(t *testing.T) {
	out := render(t, testKeymap(t), Default())
	if !strings.Contains(out, ">$$backspace$$</text>") {
		t.Error("Render() did not fall back to the literal token")
	}
	if strings.Contains(out, "<defs>") {
		t.Error("Render() emitted a defs block with no glyphs configured")
	}
}

func TestRenderKeysOnly(t *testing.T) {
	out := render(t, testKeymap(t), Default(), KeysOnly())
	if strings.Contains(out, `class="combo"`) {
		t.Error("Render() drew combos in keys-only mode")
	}
}

func TestRenderCombosOnly(t *testing.T) {
	out := render(t, testKeymap(t), Default(), CombosOnly())
	if strings.Contains(out, ">a</text>") || strings.Contains(out, ">Sft</text>") {
		t.Error("Render() drew key legends in combos-only mode")
	}
	if !strings.Contains(out, ">Esc</text>") {
		t.Error("Render() missing combo legend in combos-only mode")
	}
}

func TestRenderLayerHeaderColon(t *testing.T) {
	cfg := Default()
	cfg.AppendColonToLayerHeader = true

	out := render(t, testKeymap(t), cfg, WithLayers("base"))
	if !strings.Contains(out, ">base:</text>") {
		t.Error("Render() missing colon on layer header")
	}
}

func TestRenderRotatedKey(t *testing.T) {
	l, err := layout.New(layout.Spec{Type: layout.TypeRaw, Keys: []layout.KeySpec{
		{X: 10, Y: 10, Width: 10, Height: 10, Rotation: 15},
	}})
	if err != nil {
		t.Fatalf("layout.New() error = %v", err)
	}
	km, err := keymap.New(l, []string{"base"},
		map[string]keymap.Layer{"base": {{Tap: "a"}}}, nil)
	if err != nil {
		t.Fatalf("keymap.New() error = %v", err)
	}

	out := render(t, km, Default())
	if !strings.Contains(out, `transform="rotate(15,`) {
		t.Error("Render() missing rotation transform")
	}
}

func TestRenderTwoLineTapShift(t *testing.T) {
	l, err := layout.New(layout.Spec{Type: layout.TypeRaw, Keys: []layout.KeySpec{
		{X: 0, Y: 0, Width: 59, Height: 54},
	}})
	if err != nil {
		t.Fatalf("layout.New() error = %v", err)
	}
	km, err := keymap.New(l, []string{"base"},
		map[string]keymap.Layer{"base": {{Tap: "Page Up", Hold: "Nav"}}}, nil)
	if err != nil {
		t.Fatalf("keymap.New() error = %v", err)
	}

	out := render(t, km, Default())

	// Hold is present and shifted absent, so the two-line block starts a
	// full line spacing above center: (2-1) * 1.2 * (1+1)/2 = 1.2em.
	if !strings.Contains(out, `dy="-1.2em">Page</tspan>`) {
		t.Errorf("Render() missing shifted tspan block:\n%s", out)
	}
	if !strings.Contains(out, `dy="1.2em">Up</tspan>`) {
		t.Error("Render() missing continuation tspan")
	}
}
