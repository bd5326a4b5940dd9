package filter

// Border selects how out-of-bounds kernel taps are resolved.
type Border int

const (
	// Reflect mirrors samples across the edge, edge pixel included:
	// index -1 maps to 0, -2 to 1.
	Reflect Border = iota
	// Replicate extends the edge sample outward.
	Replicate
	// Zero treats out-of-bounds samples as zero.
	Zero
	// Wrap tiles the image, reading from the opposite edge.
	Wrap
)

// String returns the lowercase policy name.
func (b Border) String() string {
	switch b {
	case Reflect:
		return "reflect"
	case Replicate:
		return "replicate"
	case Zero:
		return "zero"
	case Wrap:
		return "wrap"
	}
	return "unknown"
}

// index resolves coordinate i against an axis of length n. The second
// return is false only for the Zero policy outside the axis, in which
// case the tap contributes nothing.
func (b Border) index(i, n int) (int, bool) {
	if i >= 0 && i < n {
		return i, true
	}
	switch b {
	case Replicate:
		if i < 0 {
			return 0, true
		}
		return n - 1, true
	case Zero:
		return 0, false
	case Wrap:
		return ((i % n) + n) % n, true
	default: // Reflect
		// Fold until inside; kernels wider than the image need
		// repeated folding.
		for i < 0 || i >= n {
			if i < 0 {
				i = -i - 1
			}
			if i >= n {
				i = 2*n - i - 1
			}
		}
		return i, true
	}
}
