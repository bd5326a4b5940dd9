// Package threshold produces binary buffers from grayscale input using
// global, locally adaptive, or Otsu-selected thresholds.
//
// All functions operate on single-channel buffers; convert with
// pixel/colorspace first. Binary output uses the depth's maximum level
// for high and zero for low.
package threshold

import (
	"fmt"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/vision-core/filter"
	"github.com/ironsheep/vision-core/histogram"
	"github.com/ironsheep/vision-core/pixel"
)

// Method selects the local statistic for Adaptive.
type Method int

const (
	// Mean thresholds against the arithmetic average of the window.
	Mean Method = iota
	// Gaussian thresholds against a Gaussian-weighted average of the
	// window, with sigma = window/6 so the weights taper to the window
	// edge.
	Gaussian
)

// Global binarizes src against a fixed threshold in raw sample units:
// high where sample >= value, low elsewhere.
//
// Returns an error wrapping pixel.ErrInvalidParameter for a
// multi-channel buffer.
func Global[T pixel.Sample](src *pixel.Buffer[T], value float64) (*pixel.Buffer[T], error) {
	if src.Channels != 1 {
		return nil, fmt.Errorf("%w: threshold requires a single-channel buffer, got %d channels",
			pixel.ErrInvalidParameter, src.Channels)
	}
	out := src.Shaped()
	high := T(pixel.MaxLevel[T]())
	for i, v := range src.Pix {
		if float64(v) >= value {
			out.Pix[i] = high
		}
	}
	return out, nil
}

// Adaptive binarizes src against a per-pixel threshold: the window's
// local statistic minus offset. The window uses replicate borders.
//
// Returns an error wrapping pixel.ErrInvalidParameter for a
// multi-channel buffer or an even or sub-3 window.
func Adaptive[T pixel.Sample](src *pixel.Buffer[T], window int, offset float64, method Method) (*pixel.Buffer[T], error) {
	if src.Channels != 1 {
		return nil, fmt.Errorf("%w: threshold requires a single-channel buffer, got %d channels",
			pixel.ErrInvalidParameter, src.Channels)
	}
	if window < 3 || window%2 == 0 {
		return nil, fmt.Errorf("%w: adaptive window %d must be odd and >= 3",
			pixel.ErrInvalidParameter, window)
	}
	weights, err := windowWeights(window, method)
	if err != nil {
		return nil, err
	}

	w, h := src.Width, src.Height
	r := window / 2
	out := src.Shaped()
	high := T(pixel.MaxLevel[T]())

	// Separable weighted average in float64; quantizing the local
	// statistic before comparing would shift thresholds by rounding.
	mid := make([]float64, len(src.Pix))
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				sum := 0.0
				for i, wt := range weights {
					sum += float64(src.Pix[src.Offset(clampIndex(x+i-r, w), y, 0)]) * wt
				}
				mid[src.Offset(x, y, 0)] = sum
			}
		}
	})
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				sum := 0.0
				for i, wt := range weights {
					sum += mid[src.Offset(x, clampIndex(y+i-r, h), 0)] * wt
				}
				if float64(src.Pix[src.Offset(x, y, 0)]) >= sum-offset {
					out.Pix[out.Offset(x, y, 0)] = high
				}
			}
		}
	})
	return out, nil
}

// Otsu selects the threshold maximizing the between-class variance
// w0*w1*(mu0-mu1)^2 over every candidate split level, ties broken toward
// the lowest level, then binarizes: samples in bins at or above the
// chosen level map high, matching Global's comparison. The chosen level
// is returned in raw sample units, so Global(src, level) reproduces the
// returned buffer.
//
// Returns an error wrapping pixel.ErrEmptyBuffer for a zero-pixel buffer
// and pixel.ErrInvalidParameter for a multi-channel buffer.
func Otsu[T pixel.Sample](src *pixel.Buffer[T]) (T, *pixel.Buffer[T], error) {
	var zero T
	if src.Empty() {
		return zero, nil, fmt.Errorf("%w: otsu on empty buffer", pixel.ErrEmptyBuffer)
	}
	if src.Channels != 1 {
		return zero, nil, fmt.Errorf("%w: threshold requires a single-channel buffer, got %d channels",
			pixel.ErrInvalidParameter, src.Channels)
	}
	hist, err := histogram.Compute(src, 0)
	if err != nil {
		return zero, nil, err
	}

	total := src.Width * src.Height
	sumAll := 0.0
	for i, n := range hist {
		sumAll += float64(i) * float64(n)
	}

	// Candidate level k puts bins below k in class 0 and the rest in
	// class 1, so the winning k binarizes with the same >= rule Global
	// uses.
	bestK := 0
	bestVar := -1.0
	n0 := 0
	sum0 := 0.0
	for k := 1; k < len(hist); k++ {
		n0 += hist[k-1]
		sum0 += float64(k-1) * float64(hist[k-1])
		n1 := total - n0
		if n0 == 0 || n1 == 0 {
			continue
		}
		mu0 := sum0 / float64(n0)
		mu1 := (sumAll - sum0) / float64(n1)
		d := mu0 - mu1
		v := float64(n0) / float64(total) * float64(n1) / float64(total) * d * d
		if v > bestVar {
			bestVar = v
			bestK = k
		}
	}

	bins := len(hist)
	out := src.Shaped()
	high := T(pixel.MaxLevel[T]())
	for i, v := range src.Pix {
		if sampleBin(v, bins) >= bestK {
			out.Pix[i] = high
		}
	}
	return binLevel[T](bestK, bins), out, nil
}

// windowWeights builds the normalized 1D weights for one adaptive pass.
func windowWeights(window int, method Method) ([]float64, error) {
	switch method {
	case Mean:
		w := make([]float64, window)
		for i := range w {
			w[i] = 1 / float64(window)
		}
		return w, nil
	case Gaussian:
		return filter.Gaussian1DWindow(window), nil
	}
	return nil, fmt.Errorf("%w: unknown adaptive method %d", pixel.ErrInvalidParameter, method)
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

// sampleBin maps a sample to its histogram bin, mirroring the histogram
// package's binning.
func sampleBin[T pixel.Sample](v T, bins int) int {
	var z T
	if _, ok := any(z).(float32); ok {
		f := float64(v)
		if f < 0 {
			f = 0
		} else if f > 1 {
			f = 1
		}
		return int(f*float64(bins-1) + 0.5)
	}
	return int(v)
}

// binLevel converts a bin index back to a sample value.
func binLevel[T pixel.Sample](bin, bins int) T {
	var z T
	if _, ok := any(z).(float32); ok {
		return T(float64(bin) / float64(bins-1))
	}
	return T(bin)
}
