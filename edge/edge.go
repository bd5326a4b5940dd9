// Package edge computes gradient-based edge maps: Sobel and Laplacian
// responses, and the full Canny detector.
//
// Canny is the most stateful algorithm in the library. Smoothing,
// gradient computation and non-maximum suppression are per-pixel and run
// row-parallel; the final hysteresis trace walks the whole gradient map
// from every strong seed and is inherently sequential, so it runs as a
// single pass.
package edge

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/vision-core/filter"
	"github.com/ironsheep/vision-core/pixel"
)

// Gradient holds the Sobel response of a single-channel buffer. Mag is
// the gradient magnitude sqrt(gx^2+gy^2) in raw sample units; Dir is the
// gradient direction atan2(gy, gx) in radians, indexed y*Width+x.
type Gradient struct {
	Width  int
	Height int
	Mag    []float64
	Dir    []float64
}

// MagBuffer copies the magnitude plane into a float32 gray buffer, for
// callers that want to feed the response back through the library.
func (g *Gradient) MagBuffer() *pixel.Buffer[float32] {
	out, _ := pixel.New[float32](g.Width, g.Height, pixel.Gray)
	for i, v := range g.Mag {
		out.Pix[i] = float32(v)
	}
	return out
}

// Sobel computes the gradient of a single-channel buffer with the 3x3
// Sobel operators, accumulating in float64 with replicate borders.
//
// Returns an error wrapping pixel.ErrInvalidParameter for a
// multi-channel buffer.
func Sobel[T pixel.Sample](src *pixel.Buffer[T]) (*Gradient, error) {
	if src.Channels != 1 {
		return nil, fmt.Errorf("%w: sobel requires a single-channel buffer, got %d channels",
			pixel.ErrInvalidParameter, src.Channels)
	}
	return sobelPlane(src), nil
}

// Laplacian convolves a buffer with the 4-neighbor Laplacian kernel.
// Note that integer depths clamp negative responses to zero; use a
// float32 buffer to keep the signed response.
func Laplacian[T pixel.Sample](src *pixel.Buffer[T], border filter.Border) (*pixel.Buffer[T], error) {
	return filter.Convolve(src, filter.Laplacian(), border)
}

// Canny runs the full Canny detector on a single-channel buffer:
// Gaussian smoothing with the given sigma, Sobel gradients, non-maximum
// suppression along the gradient direction quantized to 8 compass
// sectors, then hysteresis. Pixels with magnitude >= high seed the edge
// set; pixels >= low join only if 8-connected to a seed through other
// candidates. Thresholds are in raw sample units of the buffer depth.
//
// The output is binary: the depth's maximum level on edges, zero
// elsewhere.
//
// Returns an error wrapping pixel.ErrInvalidParameter if sigma <= 0,
// low < 0, or low >= high, or the buffer has more than one channel.
func Canny[T pixel.Sample](src *pixel.Buffer[T], sigma, low, high float64) (*pixel.Buffer[T], error) {
	if src.Channels != 1 {
		return nil, fmt.Errorf("%w: canny requires a single-channel buffer, got %d channels",
			pixel.ErrInvalidParameter, src.Channels)
	}
	if sigma <= 0 {
		return nil, fmt.Errorf("%w: sigma %g must be positive", pixel.ErrInvalidParameter, sigma)
	}
	if low < 0 || low >= high {
		return nil, fmt.Errorf("%w: thresholds low=%g high=%g must satisfy 0 <= low < high",
			pixel.ErrInvalidParameter, low, high)
	}

	blurred, err := filter.GaussianBlur(src, sigma, filter.Reflect)
	if err != nil {
		return nil, err
	}
	grad := sobelPlane(blurred)
	suppressed := nonMaxSuppress(grad)

	w, h := src.Width, src.Height
	out := src.Shaped()
	highLvl := T(pixel.MaxLevel[T]())

	// Hysteresis: flood from every strong seed through candidate
	// pixels. Runs sequentially since a trace crosses row boundaries.
	visited := make([]bool, w*h)
	stack := make([]int, 0, w*h/8)
	for i, m := range suppressed {
		if m >= high && !visited[i] {
			visited[i] = true
			stack = append(stack, i)
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				out.Pix[p] = highLvl
				px, py := p%w, p/w
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := px+dx, py+dy
						if nx < 0 || nx >= w || ny < 0 || ny >= h {
							continue
						}
						n := ny*w + nx
						if !visited[n] && suppressed[n] >= low {
							visited[n] = true
							stack = append(stack, n)
						}
					}
				}
			}
		}
	}
	return out, nil
}

// sobelPlane computes magnitude and direction with replicate borders.
func sobelPlane[T pixel.Sample](src *pixel.Buffer[T]) *Gradient {
	w, h := src.Width, src.Height
	g := &Gradient{
		Width:  w,
		Height: h,
		Mag:    make([]float64, w*h),
		Dir:    make([]float64, w*h),
	}
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			ym := clampIndex(y-1, h)
			yp := clampIndex(y+1, h)
			for x := 0; x < w; x++ {
				xm := clampIndex(x-1, w)
				xp := clampIndex(x+1, w)

				tl := float64(src.Pix[src.Offset(xm, ym, 0)])
				tc := float64(src.Pix[src.Offset(x, ym, 0)])
				tr := float64(src.Pix[src.Offset(xp, ym, 0)])
				ml := float64(src.Pix[src.Offset(xm, y, 0)])
				mr := float64(src.Pix[src.Offset(xp, y, 0)])
				bl := float64(src.Pix[src.Offset(xm, yp, 0)])
				bc := float64(src.Pix[src.Offset(x, yp, 0)])
				br := float64(src.Pix[src.Offset(xp, yp, 0)])

				gx := tr + 2*mr + br - tl - 2*ml - bl
				gy := bl + 2*bc + br - tl - 2*tc - tr

				i := y*w + x
				g.Mag[i] = math.Sqrt(gx*gx + gy*gy)
				g.Dir[i] = math.Atan2(gy, gx)
			}
		}
	})
	return g
}

// nonMaxSuppress zeroes every magnitude that is not a local maximum
// along its gradient direction, quantized to 8 compass sectors. Ties
// along a two-pixel plateau keep only the first pixel (strict comparison
// against one neighbor), thinning edges to a single pixel. Image-border
// pixels are suppressed; their gradients are half-defined.
func nonMaxSuppress(g *Gradient) []float64 {
	w, h := g.Width, g.Height
	out := make([]float64, w*h)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			if y == 0 || y == h-1 {
				continue
			}
			for x := 1; x < w-1; x++ {
				i := y*w + x
				mag := g.Mag[i]
				if mag == 0 {
					continue
				}
				angle := g.Dir[i]

				var n1, n2 float64
				switch {
				case (angle >= -math.Pi/8 && angle < math.Pi/8) ||
					angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
					n1 = g.Mag[i-1]
					n2 = g.Mag[i+1]
				case (angle >= math.Pi/8 && angle < 3*math.Pi/8) ||
					(angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
					n1 = g.Mag[i-w+1]
					n2 = g.Mag[i+w-1]
				case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) ||
					(angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
					n1 = g.Mag[i-w]
					n2 = g.Mag[i+w]
				default:
					n1 = g.Mag[i-w-1]
					n2 = g.Mag[i+w+1]
				}

				if mag > n1 && mag >= n2 {
					out[i] = mag
				}
			}
		}
	})
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
