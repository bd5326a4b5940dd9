package histogram

import (
	"fmt"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/vision-core/pixel"
)

// DefaultClipPasses bounds the clip-and-redistribute loop. Redistribution
// can push other bins over the clip limit, so the loop repeats; the exact
// convergence bound is a policy choice, and residual excess past the cap
// is accepted rather than iterated away.
const DefaultClipPasses = 5

// Options tunes CLAHE behavior beyond the required parameters.
type Options struct {
	// ClipPasses is the maximum number of clip-and-redistribute passes
	// per tile histogram. Values below 1 fall back to DefaultClipPasses.
	ClipPasses int
}

// CLAHE performs contrast-limited adaptive histogram equalization.
//
// The buffer is partitioned into rows x cols tiles, with remainder rows
// and columns spread evenly across the grid. Each tile's histogram is
// clipped at
// clipLimit (an absolute bin count; pass a value of at least the tile's
// pixel count to disable clipping) with the excess redistributed
// uniformly, then turned into an equalization mapping. A tile holding a
// single intensity skips clipping, so flat content passes through
// unchanged. Each output pixel
// bilinearly interpolates among the mappings of the four nearest tile
// centers; pixels beyond the outermost centers use the nearest tile's
// mapping (clamped interpolation).
//
// Returns an error wrapping pixel.ErrInvalidParameter if rows or cols is
// smaller than 1, a tile would be smaller than one pixel, or clipLimit is
// not positive, and pixel.ErrEmptyBuffer for a zero-pixel buffer.
func CLAHE[T pixel.Sample](buf *pixel.Buffer[T], rows, cols int, clipLimit float64, opts *Options) (*pixel.Buffer[T], error) {
	if buf.Empty() {
		return nil, fmt.Errorf("%w: clahe of empty buffer", pixel.ErrEmptyBuffer)
	}
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: tile grid %dx%d must be at least 1x1",
			pixel.ErrInvalidParameter, rows, cols)
	}
	if buf.Width/cols < 1 || buf.Height/rows < 1 {
		return nil, fmt.Errorf("%w: %dx%d grid leaves tiles under one pixel for %dx%d buffer",
			pixel.ErrInvalidParameter, rows, cols, buf.Width, buf.Height)
	}
	if !(clipLimit > 0) {
		return nil, fmt.Errorf("%w: clip limit %g must be positive",
			pixel.ErrInvalidParameter, clipLimit)
	}
	passes := DefaultClipPasses
	if opts != nil && opts.ClipPasses >= 1 {
		passes = opts.ClipPasses
	}

	// Tile edges; tile (i,j) spans [xs[j],xs[j+1]) x [ys[i],ys[i+1]).
	xs := tileEdges(buf.Width, cols)
	ys := tileEdges(buf.Height, rows)
	cxs := tileCenters(xs)
	cys := tileCenters(ys)

	out := buf.Shaped()
	bins := pixel.Levels[T]()
	max := pixel.MaxLevel[T]()

	for ch := 0; ch < buf.Channels; ch++ {
		// Per-tile mappings; tiles are disjoint, so they build in
		// parallel.
		maps := make([][]float64, rows*cols)
		parallel.Line(rows*cols, func(start, end int) {
			for t := start; t < end; t++ {
				i, j := t/cols, t%cols
				hist := tileHistogram(buf, ch, xs[j], ys[i], xs[j+1], ys[i+1], bins)
				// A single occupied bin equalizes to the identity
				// mapping; clipping would smear its mass into empty
				// bins and remap the flat level.
				if occupiedBins(hist) > 1 {
					clipHistogram(hist, clipLimit, passes)
				}
				maps[t] = equalizeMapping(hist)
			}
		})

		parallel.Line(buf.Height, func(start, end int) {
			for y := start; y < end; y++ {
				i0, i1, ty := bracket(cys, float64(y))
				for x := 0; x < buf.Width; x++ {
					j0, j1, tx := bracket(cxs, float64(x))
					bin := binOf(buf.Pix[buf.Offset(x, y, ch)], bins)

					var lvl float64
					switch {
					case i0 == i1 && j0 == j1:
						lvl = maps[i0*cols+j0][bin]
					case i0 == i1:
						lvl = lerp(maps[i0*cols+j0][bin], maps[i0*cols+j1][bin], tx)
					case j0 == j1:
						lvl = lerp(maps[i0*cols+j0][bin], maps[i1*cols+j0][bin], ty)
					default:
						top := lerp(maps[i0*cols+j0][bin], maps[i0*cols+j1][bin], tx)
						bot := lerp(maps[i1*cols+j0][bin], maps[i1*cols+j1][bin], tx)
						lvl = lerp(top, bot, ty)
					}
					out.Pix[out.Offset(x, y, ch)] = pixel.Quantize[T](lvl * max)
				}
			}
		})
	}
	return out, nil
}

// tileEdges splits length n into count spans without gaps or overlap.
func tileEdges(n, count int) []int {
	edges := make([]int, count+1)
	for i := 0; i <= count; i++ {
		edges[i] = i * n / count
	}
	return edges
}

// tileCenters returns the center coordinate of each span.
func tileCenters(edges []int) []float64 {
	centers := make([]float64, len(edges)-1)
	for i := range centers {
		centers[i] = (float64(edges[i]) + float64(edges[i+1]-1)) / 2
	}
	return centers
}

// bracket locates v between neighboring tile centers, returning the two
// tile indices and the interpolation fraction. Positions outside the
// outermost centers clamp to the nearest tile (both indices equal).
func bracket(centers []float64, v float64) (lo, hi int, t float64) {
	if v <= centers[0] {
		return 0, 0, 0
	}
	last := len(centers) - 1
	if v >= centers[last] {
		return last, last, 0
	}
	lo = 0
	for lo < last-1 && v > centers[lo+1] {
		lo++
	}
	hi = lo + 1
	t = (v - centers[lo]) / (centers[hi] - centers[lo])
	return lo, hi, t
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// occupiedBins counts nonzero bins, stopping at two since callers only
// care whether the histogram is a single spike.
func occupiedBins(hist []int) int {
	n := 0
	for _, v := range hist {
		if v > 0 {
			n++
			if n > 1 {
				return n
			}
		}
	}
	return n
}

// tileHistogram builds the histogram of one channel over a tile.
func tileHistogram[T pixel.Sample](buf *pixel.Buffer[T], ch, x1, y1, x2, y2, bins int) []int {
	hist := make([]int, bins)
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			hist[binOf(buf.Pix[buf.Offset(x, y, ch)], bins)]++
		}
	}
	return hist
}

// clipHistogram clips bins exceeding the limit and spreads the excess
// uniformly, repeating up to passes times since redistribution can
// overflow other bins. Counts are preserved exactly; bins may end above
// the limit once the pass budget runs out.
func clipHistogram(hist []int, clipLimit float64, passes int) {
	total := 0
	for _, v := range hist {
		total += v
	}
	if clipLimit >= float64(total) {
		return
	}
	limit := int(clipLimit)
	if limit < 1 {
		limit = 1
	}
	for pass := 0; pass < passes; pass++ {
		excess := 0
		for i, v := range hist {
			if v > limit {
				excess += v - limit
				hist[i] = limit
			}
		}
		if excess == 0 {
			return
		}
		share := excess / len(hist)
		rem := excess % len(hist)
		for i := range hist {
			hist[i] += share
		}
		for i := 0; i < rem; i++ {
			hist[i]++
		}
	}
}
