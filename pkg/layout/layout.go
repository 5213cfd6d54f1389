// Package layout models the physical geometry of a keyboard: an ordered
// sequence of key shapes with positions, sizes and rotations.
//
// A Layout is constructed once, either from a literal list of key
// specifications ("raw") or generated from grid parameters ("ortho"),
// and is immutable afterwards. Key order is a contract: other packages
// reference keys by index (combo participants, per-layer legends).
package layout

import (
	"sync"

	"github.com/keydraw/keydraw/pkg/errors"
)

// Default key dimensions in SVG user units.
const (
	KeyWidth  = 59.0
	KeyHeight = 54.0

	// SplitGap is the horizontal gap between the two halves of a split
	// ortho layout.
	SplitGap = KeyWidth / 2
)

// Key describes the physical shape of a single key. X and Y locate the
// key center; Rotation is in degrees around that center.
type Key struct {
	X, Y     float64
	Width    float64
	Height   float64
	Rotation float64
}

// Pos returns the center of the key as a Point.
func (k Key) Pos() Point {
	return Point{X: k.X, Y: k.Y}
}

// Layout is an immutable ordered collection of physical keys.
// Derived extents are computed on first access and cached; keys must not
// be mutated after construction.
type Layout struct {
	keys []Key

	once                sync.Once
	width, height       float64
	minWidth, minHeight float64
}

// newLayout validates key dimensions and wraps them in a Layout.
func newLayout(keys []Key) (*Layout, error) {
	if len(keys) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "layout must contain at least one key")
	}
	for i, k := range keys {
		if k.Width <= 0 || k.Height <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidLayout,
				"key %d has non-positive dimensions %gx%g", i, k.Width, k.Height)
		}
	}
	return &Layout{keys: keys}, nil
}

// Len returns the number of keys.
func (l *Layout) Len() int {
	return len(l.keys)
}

// Key returns the key at index i. Index validity is the caller's contract,
// matching Go slice semantics.
func (l *Layout) Key(i int) Key {
	return l.keys[i]
}

// Keys returns the ordered key sequence. The returned slice must be
// treated as read-only.
func (l *Layout) Keys() []Key {
	return l.keys
}

// derive computes all cached extents in one pass. Guarded by sync.Once
// since the key set cannot change after construction.
func (l *Layout) derive() {
	l.once.Do(func() {
		l.minWidth = l.keys[0].Width
		l.minHeight = l.keys[0].Height
		for _, k := range l.keys {
			if v := k.X + k.Width/2; v > l.width {
				l.width = v
			}
			if v := k.Y + k.Height/2; v > l.height {
				l.height = v
			}
			if k.Width < l.minWidth {
				l.minWidth = k.Width
			}
			if k.Height < l.minHeight {
				l.minHeight = k.Height
			}
		}
	})
}

// Width returns the horizontal extent of the layout: the maximum of key
// center plus half width over all keys.
func (l *Layout) Width() float64 {
	l.derive()
	return l.width
}

// Height returns the vertical extent of the layout.
func (l *Layout) Height() float64 {
	l.derive()
	return l.height
}

// MinWidth returns the smallest key width in the layout. Combo offsets
// are scaled by this value so they stay proportional on dense boards.
func (l *Layout) MinWidth() float64 {
	l.derive()
	return l.minWidth
}

// MinHeight returns the smallest key height in the layout.
func (l *Layout) MinHeight() float64 {
	l.derive()
	return l.minHeight
}
