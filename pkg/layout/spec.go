package layout

import (
	"github.com/keydraw/keydraw/pkg/errors"
)

// Layout type discriminants accepted by New.
const (
	TypeOrtho = "ortho"
	TypeRaw   = "raw"
)

// KeySpec is a raw key description as found in keymap files. Zero values
// for Width and Height are replaced with the defaults.
type KeySpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Width    float64 `yaml:"w,omitempty"`
	Height   float64 `yaml:"h,omitempty"`
	Rotation float64 `yaml:"r,omitempty"`
}

// Spec selects and parameterizes a layout variant. Type decides which of
// the remaining fields apply: Keys for "raw", the grid parameters for
// "ortho".
type Spec struct {
	Type string `yaml:"type"`

	// Raw layout: literal key list.
	Keys []KeySpec `yaml:"keys,omitempty"`

	// Ortho layout: grid parameters.
	Rows    int  `yaml:"rows,omitempty"`
	Columns int  `yaml:"columns,omitempty"`
	Thumbs  int  `yaml:"thumbs,omitempty"`
	Split   bool `yaml:"split,omitempty"`
}

// New builds a Layout from a Spec, dispatching on the Type tag.
// Unknown type tags and invalid grid parameters are configuration errors;
// no geometry is generated when validation fails.
func New(spec Spec) (*Layout, error) {
	switch spec.Type {
	case TypeOrtho:
		return newOrtho(spec)
	case TypeRaw:
		return newRaw(spec.Keys)
	default:
		return nil, errors.New(errors.ErrCodeInvalidLayout, "unsupported layout type %q", spec.Type)
	}
}

// newRaw builds a layout from a literal key list, applying default
// dimensions where the spec omits them.
func newRaw(specs []KeySpec) (*Layout, error) {
	keys := make([]Key, len(specs))
	for i, s := range specs {
		k := Key{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height, Rotation: s.Rotation}
		if k.Width == 0 {
			k.Width = KeyWidth
		}
		if k.Height == 0 {
			k.Height = KeyHeight
		}
		keys[i] = k
	}
	return newLayout(keys)
}
