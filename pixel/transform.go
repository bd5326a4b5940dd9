package pixel

import "fmt"

// Resize returns a copy scaled to w x h using nearest-neighbor sampling.
// Nearest neighbor is fast and depth-agnostic; it can look blocky when
// upscaling. Callers that want smoother resampling should go through the
// imageio adapters and a resampling library.
//
// Returns an error wrapping ErrInvalidDimensions if w or h is not
// positive.
func (b *Buffer[T]) Resize(w, h int) (*Buffer[T], error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: resize target %dx%d", ErrInvalidDimensions, w, h)
	}
	out, err := NewChannels[T](w, h, b.Channels, b.Model)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		sy := y * b.Height / h
		for x := 0; x < w; x++ {
			sx := x * b.Width / w
			src := b.Offset(sx, sy, 0)
			dst := out.Offset(x, y, 0)
			copy(out.Pix[dst:dst+b.Channels], b.Pix[src:src+b.Channels])
		}
	}
	return out, nil
}

// Crop returns a copy of the region with top-left corner (x1, y1)
// inclusive and bottom-right corner (x2, y2) exclusive.
//
// Returns an error wrapping ErrInvalidParameter for a degenerate
// rectangle and ErrOutOfBounds for corners outside the buffer.
func (b *Buffer[T]) Crop(x1, y1, x2, y2 int) (*Buffer[T], error) {
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("%w: crop rectangle (%d,%d)-(%d,%d)",
			ErrInvalidParameter, x1, y1, x2, y2)
	}
	if x1 < 0 || y1 < 0 || x2 > b.Width || y2 > b.Height {
		return nil, fmt.Errorf("%w: crop rectangle (%d,%d)-(%d,%d) for size %dx%d",
			ErrOutOfBounds, x1, y1, x2, y2, b.Width, b.Height)
	}
	out, err := NewChannels[T](x2-x1, y2-y1, b.Channels, b.Model)
	if err != nil {
		return nil, err
	}
	rowLen := out.Width * out.Channels
	for y := y1; y < y2; y++ {
		src := b.Offset(x1, y, 0)
		dst := out.Offset(0, y-y1, 0)
		copy(out.Pix[dst:dst+rowLen], b.Pix[src:src+rowLen])
	}
	return out, nil
}
