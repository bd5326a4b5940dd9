package filter

import (
	"fmt"
	"math"
	"slices"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/vision-core/pixel"
)

// Median replaces each sample with the median of the window x window
// neighborhood of its channel. A window of 1 is the identity transform.
//
// Returns an error wrapping pixel.ErrInvalidParameter if window is even
// or smaller than 1.
func Median[T pixel.Sample](src *pixel.Buffer[T], window int, border Border) (*pixel.Buffer[T], error) {
	if window < 1 || window%2 == 0 {
		return nil, fmt.Errorf("%w: median window %d must be odd and >= 1",
			pixel.ErrInvalidParameter, window)
	}
	out := src.Shaped()
	w, h, c := src.Width, src.Height, src.Channels
	r := window / 2

	parallel.Line(h, func(start, end int) {
		scratch := make([]T, 0, window*window)
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				for ch := 0; ch < c; ch++ {
					scratch = scratch[:0]
					for dy := -r; dy <= r; dy++ {
						sy, okY := border.index(y+dy, h)
						for dx := -r; dx <= r; dx++ {
							sx, okX := border.index(x+dx, w)
							if okY && okX {
								scratch = append(scratch, src.Pix[src.Offset(sx, sy, ch)])
							} else {
								scratch = append(scratch, 0)
							}
						}
					}
					slices.Sort(scratch)
					out.Pix[out.Offset(x, y, ch)] = scratch[len(scratch)/2]
				}
			}
		}
	})
	return out, nil
}

// Mean replaces each sample with the arithmetic average of its window x
// window neighborhood, computed as a separable box convolution.
//
// Returns an error wrapping pixel.ErrInvalidParameter if window is even
// or smaller than 1.
func Mean[T pixel.Sample](src *pixel.Buffer[T], window int, border Border) (*pixel.Buffer[T], error) {
	if window < 1 || window%2 == 0 {
		return nil, fmt.Errorf("%w: mean window %d must be odd and >= 1",
			pixel.ErrInvalidParameter, window)
	}
	w1 := make([]float64, window)
	for i := range w1 {
		w1[i] = 1 / float64(window)
	}
	return ConvolveSeparable(src, w1, w1, border)
}

// Bilateral applies an edge-preserving smoothing filter: each neighbor is
// weighted by a spatial Gaussian of its distance times a range Gaussian
// of its intensity difference, and the weights are normalized to sum to 1
// per pixel. Neighbors across an intensity edge receive near-zero weight,
// so edges survive while flat regions smooth.
//
// The window radius is ceil(3*spatialSigma). rangeSigma is expressed in
// raw sample units of the buffer depth (for float32 buffers that is the
// [0,1] range).
//
// Returns an error wrapping pixel.ErrInvalidParameter if either sigma is
// not positive.
func Bilateral[T pixel.Sample](src *pixel.Buffer[T], spatialSigma, rangeSigma float64, border Border) (*pixel.Buffer[T], error) {
	if spatialSigma <= 0 || rangeSigma <= 0 {
		return nil, fmt.Errorf("%w: bilateral sigmas %g/%g must be positive",
			pixel.ErrInvalidParameter, spatialSigma, rangeSigma)
	}
	out := src.Shaped()
	w, h, c := src.Width, src.Height, src.Channels
	r := int(math.Ceil(3 * spatialSigma))
	invSpatial := -1 / (2 * spatialSigma * spatialSigma)
	invRange := -1 / (2 * rangeSigma * rangeSigma)

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				for ch := 0; ch < c; ch++ {
					center := float64(src.Pix[src.Offset(x, y, ch)])
					sum, norm := 0.0, 0.0
					for dy := -r; dy <= r; dy++ {
						sy, okY := border.index(y+dy, h)
						if !okY {
							continue
						}
						for dx := -r; dx <= r; dx++ {
							sx, okX := border.index(x+dx, w)
							if !okX {
								continue
							}
							v := float64(src.Pix[src.Offset(sx, sy, ch)])
							d := v - center
							wt := math.Exp(float64(dx*dx+dy*dy)*invSpatial) *
								math.Exp(d*d*invRange)
							sum += v * wt
							norm += wt
						}
					}
					out.Pix[out.Offset(x, y, ch)] = pixel.Quantize[T](sum / norm)
				}
			}
		}
	})
	return out, nil
}
