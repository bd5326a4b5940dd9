package morphology

import (
	"fmt"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/vision-core/pixel"
)

// Erode sets each output sample to the minimum input sample under the
// element's on offsets, per channel. Border samples replicate the edge.
func Erode[T pixel.Sample](src *pixel.Buffer[T], e *StructuringElement) (*pixel.Buffer[T], error) {
	return apply(src, e, func(best, v T) bool { return v < best })
}

// Dilate sets each output sample to the maximum input sample under the
// element's on offsets, per channel. Border samples replicate the edge.
func Dilate[T pixel.Sample](src *pixel.Buffer[T], e *StructuringElement) (*pixel.Buffer[T], error) {
	return apply(src, e, func(best, v T) bool { return v > best })
}

// Open erodes then dilates, removing bright speckles smaller than the
// element. Opening never increases any sample relative to the original.
func Open[T pixel.Sample](src *pixel.Buffer[T], e *StructuringElement) (*pixel.Buffer[T], error) {
	eroded, err := Erode(src, e)
	if err != nil {
		return nil, err
	}
	return Dilate(eroded, e)
}

// Close dilates then erodes, filling dark gaps smaller than the element.
func Close[T pixel.Sample](src *pixel.Buffer[T], e *StructuringElement) (*pixel.Buffer[T], error) {
	dilated, err := Dilate(src, e)
	if err != nil {
		return nil, err
	}
	return Erode(dilated, e)
}

// Gradient returns dilate(src) - erode(src), the morphological edge
// strength.
func Gradient[T pixel.Sample](src *pixel.Buffer[T], e *StructuringElement) (*pixel.Buffer[T], error) {
	dilated, err := Dilate(src, e)
	if err != nil {
		return nil, err
	}
	eroded, err := Erode(src, e)
	if err != nil {
		return nil, err
	}
	return subtract(dilated, eroded), nil
}

// TopHat returns src - open(src), the bright detail removed by opening.
func TopHat[T pixel.Sample](src *pixel.Buffer[T], e *StructuringElement) (*pixel.Buffer[T], error) {
	opened, err := Open(src, e)
	if err != nil {
		return nil, err
	}
	return subtract(src, opened), nil
}

// BlackHat returns close(src) - src, the dark detail filled by closing.
func BlackHat[T pixel.Sample](src *pixel.Buffer[T], e *StructuringElement) (*pixel.Buffer[T], error) {
	closed, err := Close(src, e)
	if err != nil {
		return nil, err
	}
	return subtract(closed, src), nil
}

// apply runs one min/max sweep of the element over every channel.
func apply[T pixel.Sample](src *pixel.Buffer[T], e *StructuringElement, better func(best, v T) bool) (*pixel.Buffer[T], error) {
	if e == nil || len(e.Mask) != e.Width*e.Height {
		return nil, fmt.Errorf("%w: malformed structuring element", pixel.ErrInvalidParameter)
	}
	out := src.Shaped()
	w, h, c := src.Width, src.Height, src.Channels

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				for ch := 0; ch < c; ch++ {
					first := true
					var best T
					for ey := 0; ey < e.Height; ey++ {
						sy := clampIndex(y+ey-e.AnchorY, h)
						for ex := 0; ex < e.Width; ex++ {
							if !e.Mask[ey*e.Width+ex] {
								continue
							}
							sx := clampIndex(x+ex-e.AnchorX, w)
							v := src.Pix[src.Offset(sx, sy, ch)]
							if first || better(best, v) {
								best = v
								first = false
							}
						}
					}
					out.Pix[out.Offset(x, y, ch)] = best
				}
			}
		}
	})
	return out, nil
}

// subtract returns a - b per sample, saturating at zero for integer
// depths.
func subtract[T pixel.Sample](a, b *pixel.Buffer[T]) *pixel.Buffer[T] {
	out := a.Shaped()
	for i := range a.Pix {
		out.Pix[i] = pixel.Quantize[T](float64(a.Pix[i]) - float64(b.Pix[i]))
	}
	return out
}

// clampIndex is the replicate border rule fixed for morphology.
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
