// Package filter implements kernel convolution and windowed nonlinear
// filters over pixel buffers.
//
// All filters read their input buffer, allocate a fresh output buffer and
// accumulate in float64 regardless of the input depth. Results are
// clamped and rounded (round-half-to-even) to the output depth at write
// time, which fixes the rounding rule and prevents integer overflow in
// intermediates.
//
// Out-of-bounds kernel taps are resolved by an explicit Border policy
// passed to each call; there is no process-wide border configuration.
//
// Output rows are partitioned across goroutines with bild's parallel
// helper. Each goroutine writes a disjoint slice of the output, so no
// locking is needed.
package filter
