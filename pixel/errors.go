package pixel

import "errors"

// Sentinel errors shared by every vision-core package. Concrete errors
// wrap one of these with fmt.Errorf("...: %w", ...), so callers should
// test with errors.Is rather than equality.
var (
	// ErrInvalidDimensions reports a zero or negative width, height or
	// channel count passed to a buffer constructor.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrOutOfBounds reports a coordinate access outside the buffer
	// extent.
	ErrOutOfBounds = errors.New("coordinates out of bounds")

	// ErrInvalidParameter reports an operation parameter violating its
	// precondition, such as an even window size or a non-positive sigma.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrEmptyBuffer reports an operation that requires nonzero content,
	// such as Otsu thresholding on a zero-pixel buffer.
	ErrEmptyBuffer = errors.New("empty buffer")

	// ErrUnsupportedConversion reports a color model conversion that is
	// not defined between the source and target models.
	ErrUnsupportedConversion = errors.New("unsupported conversion")
)
