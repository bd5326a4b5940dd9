package pixel

import (
	"fmt"
	"math"
)

// Sample is the closed set of sample depths supported by a Buffer:
// 8-bit unsigned, 16-bit unsigned and 32-bit floating point.
type Sample interface {
	uint8 | uint16 | float32
}

// Model identifies the channel semantics of a buffer.
type Model int

const (
	// Gray is a single luminance channel.
	Gray Model = iota
	// GrayAlpha is luminance plus alpha.
	GrayAlpha
	// RGB is red, green, blue.
	RGB
	// RGBA is red, green, blue, alpha.
	RGBA
	// HSV is hue, saturation, value. Hue is stored scaled to the
	// buffer's depth range, not in raw degrees.
	HSV
	// HSL is hue, saturation, lightness, stored like HSV.
	HSL
)

// Channels returns the channel count implied by the model.
func (m Model) Channels() int {
	switch m {
	case Gray:
		return 1
	case GrayAlpha:
		return 2
	case RGB, HSV, HSL:
		return 3
	case RGBA:
		return 4
	}
	return 0
}

// HasAlpha reports whether the model carries an alpha channel.
func (m Model) HasAlpha() bool {
	return m == GrayAlpha || m == RGBA
}

// String returns the canonical lowercase name of the model.
func (m Model) String() string {
	switch m {
	case Gray:
		return "grayscale"
	case GrayAlpha:
		return "grayscale_alpha"
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	case HSV:
		return "hsv"
	case HSL:
		return "hsl"
	}
	return "unknown"
}

// Buffer is a W x H grid of samples with Channels interleaved samples
// per pixel. The fields are exported for efficient pixel loops; treat
// them as read-only outside constructors unless the buffer is exclusively
// owned.
//
// Invariant: len(Pix) == Width*Height*Channels.
type Buffer[T Sample] struct {
	Width    int
	Height   int
	Channels int
	Model    Model
	Pix      []T
}

// New allocates a zeroed buffer for the given model.
//
// Returns an error wrapping ErrInvalidDimensions if w or h is not
// positive.
func New[T Sample](w, h int, model Model) (*Buffer[T], error) {
	c := model.Channels()
	if c == 0 {
		return nil, fmt.Errorf("%w: unknown model %d", ErrInvalidDimensions, model)
	}
	return NewChannels[T](w, h, c, model)
}

// NewChannels allocates a zeroed buffer with an explicit channel count.
// The count must be between 1 and 4 and must match the model when the
// model implies one.
func NewChannels[T Sample](w, h, c int, model Model) (*Buffer[T], error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	if c < 1 || c > 4 {
		return nil, fmt.Errorf("%w: channel count %d", ErrInvalidDimensions, c)
	}
	if mc := model.Channels(); mc != 0 && mc != c {
		return nil, fmt.Errorf("%w: model %s requires %d channels, got %d",
			ErrInvalidDimensions, model, mc, c)
	}
	return &Buffer[T]{
		Width:    w,
		Height:   h,
		Channels: c,
		Model:    model,
		Pix:      make([]T, w*h*c),
	}, nil
}

// FromPix wraps an existing sample slice in a buffer without copying.
// The slice length must be exactly w*h*model.Channels().
func FromPix[T Sample](w, h int, model Model, pix []T) (*Buffer[T], error) {
	b, err := New[T](w, h, model)
	if err != nil {
		return nil, err
	}
	if len(pix) != len(b.Pix) {
		return nil, fmt.Errorf("%w: pix length %d, want %d",
			ErrInvalidDimensions, len(pix), len(b.Pix))
	}
	b.Pix = pix
	return b, nil
}

// Offset returns the index into Pix of channel ch of the pixel at (x, y).
// It performs no bounds checking; use At/Set for checked access.
func (b *Buffer[T]) Offset(x, y, ch int) int {
	return (y*b.Width+x)*b.Channels + ch
}

// At returns the sample for channel ch of the pixel at (x, y).
//
// Returns an error wrapping ErrOutOfBounds if the coordinates or channel
// are outside the buffer extent.
func (b *Buffer[T]) At(x, y, ch int) (T, error) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		var zero T
		return zero, fmt.Errorf("%w: (%d,%d) for size %dx%d",
			ErrOutOfBounds, x, y, b.Width, b.Height)
	}
	if ch < 0 || ch >= b.Channels {
		var zero T
		return zero, fmt.Errorf("%w: channel %d of %d", ErrOutOfBounds, ch, b.Channels)
	}
	return b.Pix[b.Offset(x, y, ch)], nil
}

// Set writes the sample for channel ch of the pixel at (x, y).
//
// Returns an error wrapping ErrOutOfBounds if the coordinates or channel
// are outside the buffer extent.
func (b *Buffer[T]) Set(x, y, ch int, v T) error {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return fmt.Errorf("%w: (%d,%d) for size %dx%d",
			ErrOutOfBounds, x, y, b.Width, b.Height)
	}
	if ch < 0 || ch >= b.Channels {
		return fmt.Errorf("%w: channel %d of %d", ErrOutOfBounds, ch, b.Channels)
	}
	b.Pix[b.Offset(x, y, ch)] = v
	return nil
}

// Clone returns a deep copy that shares no storage with the receiver.
func (b *Buffer[T]) Clone() *Buffer[T] {
	out := &Buffer[T]{
		Width:    b.Width,
		Height:   b.Height,
		Channels: b.Channels,
		Model:    b.Model,
		Pix:      make([]T, len(b.Pix)),
	}
	copy(out.Pix, b.Pix)
	return out
}

// Empty reports whether the buffer holds no pixels.
func (b *Buffer[T]) Empty() bool {
	return b == nil || b.Width*b.Height == 0
}

// Shaped allocates a zeroed buffer with the same dimensions, channel
// count and model as the receiver.
func (b *Buffer[T]) Shaped() *Buffer[T] {
	return &Buffer[T]{
		Width:    b.Width,
		Height:   b.Height,
		Channels: b.Channels,
		Model:    b.Model,
		Pix:      make([]T, len(b.Pix)),
	}
}

// MaxLevel returns the nominal top of the depth range for T:
// 255 for uint8, 65535 for uint16 and 1.0 for float32.
func MaxLevel[T Sample]() float64 {
	var z T
	switch any(z).(type) {
	case uint8:
		return 255
	case uint16:
		return 65535
	default:
		return 1.0
	}
}

// Levels returns the number of histogram levels for T: 256 for uint8,
// 65536 for uint16 and 256 for float32 (binned over [0,1]).
func Levels[T Sample]() int {
	var z T
	switch any(z).(type) {
	case uint16:
		return 65536
	default:
		return 256
	}
}

// Quantize converts a floating intermediate to the sample depth T.
// Integer depths are rounded half-to-even and clamped to [0, MaxLevel];
// float32 passes through unchanged so intermediates such as gradient
// magnitudes are not truncated.
func Quantize[T Sample](v float64) T {
	var z T
	if _, ok := any(z).(float32); ok {
		return T(v)
	}
	v = math.RoundToEven(v)
	if v < 0 {
		v = 0
	} else if max := MaxLevel[T](); v > max {
		v = max
	}
	return T(v)
}
