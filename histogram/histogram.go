// Package histogram builds per-channel intensity histograms and performs
// global and tiled adaptive (CLAHE) equalization.
//
// Histograms are built fresh on every call; buffers are assumed mutable
// between calls, so nothing is cached. Bin counts follow the sample
// depth: 256 bins for uint8, 65536 for uint16, and 256 bins over the
// [0,1] range for float32.
package histogram

import (
	"fmt"

	"github.com/ironsheep/vision-core/pixel"
)

// Compute returns the intensity histogram of one channel. The counts sum
// to Width*Height.
//
// Returns an error wrapping pixel.ErrOutOfBounds for a channel outside
// the buffer and pixel.ErrEmptyBuffer for a zero-pixel buffer.
func Compute[T pixel.Sample](buf *pixel.Buffer[T], channel int) ([]int, error) {
	if buf.Empty() {
		return nil, fmt.Errorf("%w: histogram of empty buffer", pixel.ErrEmptyBuffer)
	}
	if channel < 0 || channel >= buf.Channels {
		return nil, fmt.Errorf("%w: channel %d of %d", pixel.ErrOutOfBounds, channel, buf.Channels)
	}
	bins := pixel.Levels[T]()
	hist := make([]int, bins)
	for i := channel; i < len(buf.Pix); i += buf.Channels {
		hist[binOf(buf.Pix[i], bins)]++
	}
	return hist, nil
}

// Equalize stretches each channel's contrast by mapping every level
// through its cumulative distribution. The mapping subtracts the smallest
// nonzero cumulative count before normalizing, so the darkest occupied
// bin maps to level 0 without degenerating when it dominates. A buffer
// with a single flat intensity is returned unchanged.
//
// Returns an error wrapping pixel.ErrEmptyBuffer for a zero-pixel buffer.
func Equalize[T pixel.Sample](buf *pixel.Buffer[T]) (*pixel.Buffer[T], error) {
	if buf.Empty() {
		return nil, fmt.Errorf("%w: equalize of empty buffer", pixel.ErrEmptyBuffer)
	}
	out := buf.Shaped()
	bins := pixel.Levels[T]()
	max := pixel.MaxLevel[T]()
	for ch := 0; ch < buf.Channels; ch++ {
		hist, err := Compute(buf, ch)
		if err != nil {
			return nil, err
		}
		m := equalizeMapping(hist)
		for i := ch; i < len(buf.Pix); i += buf.Channels {
			out.Pix[i] = pixel.Quantize[T](m[binOf(buf.Pix[i], bins)] * max)
		}
	}
	return out, nil
}

// binOf maps a sample to its histogram bin. Integer depths index
// directly; float32 is clamped to [0,1] and scaled across the bins.
func binOf[T pixel.Sample](v T, bins int) int {
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

// equalizeMapping converts a histogram to its equalization mapping: for
// each input bin, the normalized [0,1] output level
// (cdf - cdfMin) / (total - cdfMin), where cdfMin is the smallest nonzero
// cumulative count. A flat histogram (total == cdfMin) yields the
// identity mapping.
func equalizeMapping(hist []int) []float64 {
	bins := len(hist)
	total := 0
	for _, v := range hist {
		total += v
	}
	cdfMin := 0
	cum := 0
	for _, v := range hist {
		cum += v
		if cum > 0 {
			cdfMin = cum
			break
		}
	}
	m := make([]float64, bins)
	if total == 0 || total == cdfMin {
		for i := range m {
			m[i] = float64(i) / float64(bins-1)
		}
		return m
	}
	denom := float64(total - cdfMin)
	cum = 0
	for i, v := range hist {
		cum += v
		lvl := float64(cum-cdfMin) / denom
		if lvl < 0 {
			lvl = 0
		} else if lvl > 1 {
			lvl = 1
		}
		m[i] = lvl
	}
	return m
}
