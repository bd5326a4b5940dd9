package filter

import (
	"fmt"
	"math"

	"github.com/ironsheep/vision-core/pixel"
)

// Kernel is a small odd-dimensioned matrix of floating weights with an
// anchor point. The anchor defaults to the center and marks which tap
// lands on the output pixel.
type Kernel struct {
	Width   int
	Height  int
	AnchorX int
	AnchorY int
	Weights []float64 // row-major, len == Width*Height
}

// NewKernel builds a kernel from a rectangular weight matrix with the
// anchor at the center.
//
// Returns an error wrapping pixel.ErrInvalidParameter if the matrix is
// empty, ragged, or has an even dimension.
func NewKernel(weights [][]float64) (*Kernel, error) {
	kh := len(weights)
	if kh == 0 || kh%2 == 0 {
		return nil, fmt.Errorf("%w: kernel height %d must be odd and >= 1",
			pixel.ErrInvalidParameter, kh)
	}
	kw := len(weights[0])
	if kw == 0 || kw%2 == 0 {
		return nil, fmt.Errorf("%w: kernel width %d must be odd and >= 1",
			pixel.ErrInvalidParameter, kw)
	}
	k := &Kernel{
		Width:   kw,
		Height:  kh,
		AnchorX: kw / 2,
		AnchorY: kh / 2,
		Weights: make([]float64, 0, kw*kh),
	}
	for _, row := range weights {
		if len(row) != kw {
			return nil, fmt.Errorf("%w: ragged kernel row of length %d, want %d",
				pixel.ErrInvalidParameter, len(row), kw)
		}
		k.Weights = append(k.Weights, row...)
	}
	return k, nil
}

// WithAnchor returns a copy with the anchor moved to (ax, ay).
//
// Returns an error wrapping pixel.ErrInvalidParameter if the anchor lies
// outside the kernel.
func (k *Kernel) WithAnchor(ax, ay int) (*Kernel, error) {
	if ax < 0 || ax >= k.Width || ay < 0 || ay >= k.Height {
		return nil, fmt.Errorf("%w: anchor (%d,%d) outside %dx%d kernel",
			pixel.ErrInvalidParameter, ax, ay, k.Width, k.Height)
	}
	out := *k
	out.Weights = append([]float64(nil), k.Weights...)
	out.AnchorX, out.AnchorY = ax, ay
	return &out, nil
}

// Wt returns the weight at kernel column kx, row ky.
func (k *Kernel) Wt(kx, ky int) float64 {
	return k.Weights[ky*k.Width+kx]
}

// gaussian1D returns normalized Gaussian weights of radius ceil(3*sigma).
func gaussian1D(sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	w := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		w[i+radius] = v
		sum += v
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// Gaussian1DWindow returns normalized Gaussian weights spanning exactly
// window taps (window must be odd and >= 1), with sigma = window/6 so
// the weights taper to near zero at the window edge. Used where the
// caller fixes the window size rather than the sigma, such as adaptive
// thresholding.
func Gaussian1DWindow(window int) []float64 {
	r := window / 2
	sigma := float64(window) / 6
	if sigma <= 0 {
		return []float64{1}
	}
	w := make([]float64, window)
	sum := 0.0
	for i := -r; i <= r; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		w[i+r] = v
		sum += v
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// GaussianKernel returns the full 2D Gaussian kernel for sigma, with
// radius ceil(3*sigma) and weights normalized to sum to 1.
//
// Returns an error wrapping pixel.ErrInvalidParameter if sigma <= 0.
func GaussianKernel(sigma float64) (*Kernel, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("%w: sigma %g must be positive", pixel.ErrInvalidParameter, sigma)
	}
	w1 := gaussian1D(sigma)
	n := len(w1)
	k := &Kernel{
		Width:   n,
		Height:  n,
		AnchorX: n / 2,
		AnchorY: n / 2,
		Weights: make([]float64, n*n),
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			k.Weights[y*n+x] = w1[y] * w1[x]
		}
	}
	return k, nil
}

// SobelX returns the horizontal Sobel gradient kernel.
func SobelX() *Kernel {
	k, _ := NewKernel([][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	})
	return k
}

// SobelY returns the vertical Sobel gradient kernel.
func SobelY() *Kernel {
	k, _ := NewKernel([][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	})
	return k
}

// Laplacian returns the 4-neighbor Laplacian kernel.
func Laplacian() *Kernel {
	k, _ := NewKernel([][]float64{
		{0, 1, 0},
		{1, -4, 1},
		{0, 1, 0},
	})
	return k
}

// Box returns a normalized size x size averaging kernel.
//
// Returns an error wrapping pixel.ErrInvalidParameter if size is even or
// smaller than 1.
func Box(size int) (*Kernel, error) {
	if size < 1 || size%2 == 0 {
		return nil, fmt.Errorf("%w: box size %d must be odd and >= 1",
			pixel.ErrInvalidParameter, size)
	}
	row := make([]float64, size)
	for i := range row {
		row[i] = 1 / float64(size*size)
	}
	weights := make([][]float64, size)
	for i := range weights {
		weights[i] = row
	}
	return NewKernel(weights)
}
