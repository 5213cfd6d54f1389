package draw

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/keydraw/keydraw/pkg/errors"
)

// Config holds the visual constants for rendering. A zero Config is not
// usable; start from Default and override, or load overrides from a TOML
// file with LoadConfig.
type Config struct {
	// Corner radii of key rectangles.
	KeyRx float64 `toml:"key_rx"`
	KeyRy float64 `toml:"key_ry"`

	// Inner padding shrinks each key rectangle inside its physical
	// footprint; outer padding frames the whole document and separates
	// stacked layers.
	InnerPadW float64 `toml:"inner_pad_w"`
	InnerPadH float64 `toml:"inner_pad_h"`
	OuterPadW float64 `toml:"outer_pad_w"`
	OuterPadH float64 `toml:"outer_pad_h"`

	// SmallPad insets hold/shifted legends from the key edge.
	SmallPad float64 `toml:"small_pad"`

	// LineSpacing is the tspan line advance in em units for multi-line
	// legends.
	LineSpacing float64 `toml:"line_spacing"`

	// Combo box dimensions and dendron arc parameters.
	ComboW    float64 `toml:"combo_w"`
	ComboH    float64 `toml:"combo_h"`
	ArcRadius float64 `toml:"arc_radius"`
	ArcScale  float64 `toml:"arc_scale"`

	// Render heights for glyph legends, per legend slot.
	GlyphTapSize     float64 `toml:"glyph_tap_size"`
	GlyphHoldSize    float64 `toml:"glyph_hold_size"`
	GlyphShiftedSize float64 `toml:"glyph_shifted_size"`

	// AppendColonToLayerHeader adds ":" after each layer name header.
	AppendColonToLayerHeader bool `toml:"append_colon_to_layer_header"`

	// Style is embedded verbatim in the document's <style> block.
	Style string `toml:"style"`

	// Glyphs maps glyph names to raw SVG markup, embedded once in the
	// document <defs> and referenced by id.
	Glyphs map[string]string `toml:"glyphs"`
}

// defaultStyle is the baseline stylesheet shipped with keydraw. Consumers
// typically replace or extend it via the config file.
const defaultStyle = `svg.keymap {
    font-family: SF Pro Text, Helvetica, Arial, sans-serif;
    font-size: 14px;
    font-kerning: normal;
    text-rendering: optimizeLegibility;
    fill: #24292e;
}
rect.key, rect.combo {
    fill: #f6f8fa;
    stroke: #c9cccf;
    stroke-width: 1;
}
text {
    text-anchor: middle;
    dominant-baseline: middle;
}
text.label {
    font-weight: bold;
    text-anchor: start;
    stroke: white;
    stroke-width: 2;
    paint-order: stroke;
}
text.hold {
    font-size: 11px;
}
text.shifted {
    font-size: 10px;
}
path.combo {
    stroke-width: 1;
    stroke: gray;
    fill: none;
}
`

// Default returns the stock visual configuration.
func Default() Config {
	return Config{
		KeyRx:                    6,
		KeyRy:                    6,
		InnerPadW:                2,
		InnerPadH:                2,
		OuterPadW:                30,
		OuterPadH:                56,
		SmallPad:                 4,
		LineSpacing:              1.2,
		ComboW:                   28,
		ComboH:                   26,
		ArcRadius:                6,
		ArcScale:                 1,
		GlyphTapSize:             14,
		GlyphHoldSize:            12,
		GlyphShiftedSize:         10,
		AppendColonToLayerHeader: false,
		Style:                    defaultStyle,
		Glyphs:                   map[string]string{},
	}
}

// LoadConfig reads a TOML config file and applies it on top of the
// defaults, so partial files only override what they mention.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the geometric constants the renderer divides by or
// sizes boxes with are positive.
func (c Config) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"combo_w", c.ComboW},
		{"combo_h", c.ComboH},
		{"line_spacing", c.LineSpacing},
		{"glyph_tap_size", c.GlyphTapSize},
		{"glyph_hold_size", c.GlyphHoldSize},
		{"glyph_shifted_size", c.GlyphShiftedSize},
	}
	for _, ch := range checks {
		if ch.value <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %g", ch.name, ch.value)
		}
	}
	if c.InnerPadW < 0 || c.InnerPadH < 0 || c.OuterPadW < 0 || c.OuterPadH < 0 || c.SmallPad < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "padding values cannot be negative")
	}
	if c.ArcRadius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "arc_radius cannot be negative, got %g", c.ArcRadius)
	}
	return nil
}
