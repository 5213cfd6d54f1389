package layout

import (
	"github.com/keydraw/keydraw/pkg/errors"
)

// newOrtho generates an ortholinear grid layout from row/column/thumb
// parameters.
//
// Emission order is the index contract for the rest of the system:
// row-major, left half before right half within a row, main rows before
// thumb rows. Thumb rows (one per half) sit below the main grid and are
// anchored to the right edge of their half's column block.
func newOrtho(spec Spec) (*Layout, error) {
	if spec.Rows <= 0 || spec.Columns <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidLayout,
			"ortho layout needs positive rows and columns, got %dx%d", spec.Rows, spec.Columns)
	}
	if spec.Thumbs < 0 {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "thumbs cannot be negative, got %d", spec.Thumbs)
	}
	if spec.Thumbs > 0 {
		if spec.Thumbs > spec.Columns {
			return nil, errors.New(errors.ErrCodeInvalidLayout,
				"number of thumbs (%d) cannot exceed columns (%d)", spec.Thumbs, spec.Columns)
		}
		if !spec.Split {
			return nil, errors.New(errors.ErrCodeInvalidLayout,
				"thumb keys require a split layout")
		}
	}

	nkeys := spec.Rows * spec.Columns
	if spec.Split {
		nkeys *= 2
	}
	keys := make([]Key, 0, nkeys+2*spec.Thumbs)

	row := func(x, y float64, ncols int) {
		for i := 0; i < ncols; i++ {
			keys = append(keys, Key{
				X:      x + KeyWidth/2,
				Y:      y + KeyHeight/2,
				Width:  KeyWidth,
				Height: KeyHeight,
			})
			x += KeyWidth
		}
	}

	var y float64
	for r := 0; r < spec.Rows; r++ {
		row(0, y, spec.Columns)
		if spec.Split {
			row(float64(spec.Columns)*KeyWidth+SplitGap, y, spec.Columns)
		}
		y += KeyHeight
	}
	if spec.Thumbs > 0 {
		row(float64(spec.Columns-spec.Thumbs)*KeyWidth, y, spec.Thumbs)
		row(float64(spec.Columns)*KeyWidth+SplitGap, y, spec.Thumbs)
	}

	return newLayout(keys)
}
