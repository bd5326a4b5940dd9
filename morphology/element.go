// Package morphology implements grayscale and binary morphological
// operations over a structuring element.
//
// Erode and Dilate are the two primitives: per channel, the output pixel
// is the minimum (respectively maximum) of the input samples under the
// element's "on" offsets. For binary buffers min and max coincide with
// AND and OR. Every other operation in this package is defined purely as
// a composition of the two primitives and a saturating subtraction, so
// their correctness follows from the primitives'.
//
// Out-of-bounds samples under the element extend the edge value
// (replicate) so that erosion and dilation at borders do not introduce
// spurious zeros.
package morphology

import (
	"fmt"

	"github.com/ironsheep/vision-core/pixel"
)

// StructuringElement is a binary mask with odd dimensions and an anchor.
// A zero entry means the offset is skipped, not that the sample is
// compared against zero.
type StructuringElement struct {
	Width   int
	Height  int
	AnchorX int
	AnchorY int
	Mask    []bool // row-major, len == Width*Height
}

// NewStructuringElement builds an element from a 0/1 mask with the
// anchor at the center.
//
// Returns an error wrapping pixel.ErrInvalidParameter if the mask is
// empty, ragged, has an even dimension, or has no "on" entry.
func NewStructuringElement(mask [][]bool) (*StructuringElement, error) {
	h := len(mask)
	if h == 0 || h%2 == 0 {
		return nil, fmt.Errorf("%w: element height %d must be odd and >= 1",
			pixel.ErrInvalidParameter, h)
	}
	w := len(mask[0])
	if w == 0 || w%2 == 0 {
		return nil, fmt.Errorf("%w: element width %d must be odd and >= 1",
			pixel.ErrInvalidParameter, w)
	}
	e := &StructuringElement{
		Width:   w,
		Height:  h,
		AnchorX: w / 2,
		AnchorY: h / 2,
		Mask:    make([]bool, 0, w*h),
	}
	on := false
	for _, row := range mask {
		if len(row) != w {
			return nil, fmt.Errorf("%w: ragged element row of length %d, want %d",
				pixel.ErrInvalidParameter, len(row), w)
		}
		for _, v := range row {
			on = on || v
		}
		e.Mask = append(e.Mask, row...)
	}
	if !on {
		return nil, fmt.Errorf("%w: element has no on entries", pixel.ErrInvalidParameter)
	}
	return e, nil
}

// Rect returns a fully-on size x size element.
//
// Returns an error wrapping pixel.ErrInvalidParameter if size is even or
// smaller than 1.
func Rect(size int) (*StructuringElement, error) {
	if size < 1 || size%2 == 0 {
		return nil, fmt.Errorf("%w: element size %d must be odd and >= 1",
			pixel.ErrInvalidParameter, size)
	}
	mask := make([][]bool, size)
	for i := range mask {
		mask[i] = make([]bool, size)
		for j := range mask[i] {
			mask[i][j] = true
		}
	}
	return NewStructuringElement(mask)
}

// Cross returns a size x size element with only the center row and
// column on.
func Cross(size int) (*StructuringElement, error) {
	if size < 1 || size%2 == 0 {
		return nil, fmt.Errorf("%w: element size %d must be odd and >= 1",
			pixel.ErrInvalidParameter, size)
	}
	c := size / 2
	mask := make([][]bool, size)
	for i := range mask {
		mask[i] = make([]bool, size)
		for j := range mask[i] {
			mask[i][j] = i == c || j == c
		}
	}
	return NewStructuringElement(mask)
}

// Ellipse returns a size x size element with the inscribed ellipse on.
func Ellipse(size int) (*StructuringElement, error) {
	if size < 1 || size%2 == 0 {
		return nil, fmt.Errorf("%w: element size %d must be odd and >= 1",
			pixel.ErrInvalidParameter, size)
	}
	c := float64(size / 2)
	r := c + 0.5
	mask := make([][]bool, size)
	for i := range mask {
		mask[i] = make([]bool, size)
		for j := range mask[i] {
			dy := float64(i) - c
			dx := float64(j) - c
			mask[i][j] = dx*dx+dy*dy < r*r
		}
	}
	return NewStructuringElement(mask)
}
