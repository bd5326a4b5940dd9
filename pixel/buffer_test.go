package pixel

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		model   Model
		wantErr error
	}{
		{"gray", 4, 3, Gray, nil},
		{"rgba", 2, 2, RGBA, nil},
		{"zero width", 0, 3, Gray, ErrInvalidDimensions},
		{"zero height", 4, 0, RGB, ErrInvalidDimensions},
		{"negative width", -1, 3, Gray, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := New[uint8](tt.w, tt.h, tt.model)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New(%d,%d): err = %v, want %v", tt.w, tt.h, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%d,%d) failed: %v", tt.w, tt.h, err)
			}
			if want := tt.w * tt.h * tt.model.Channels(); len(buf.Pix) != want {
				t.Errorf("len(Pix) = %d, want %d", len(buf.Pix), want)
			}
		})
	}
}

func TestNewChannels_ModelMismatch(t *testing.T) {
	if _, err := NewChannels[uint8](4, 4, 2, RGB); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("2-channel RGB: err = %v, want ErrInvalidDimensions", err)
	}
	if _, err := NewChannels[uint8](4, 4, 5, Gray); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("5 channels: err = %v, want ErrInvalidDimensions", err)
	}
}

func TestFromPix(t *testing.T) {
	pix := make([]uint8, 4*3*3)
	buf, err := FromPix(4, 3, RGB, pix)
	if err != nil {
		t.Fatalf("FromPix failed: %v", err)
	}
	// No copy: same backing array.
	pix[0] = 42
	if buf.Pix[0] != 42 {
		t.Error("FromPix should wrap the slice without copying")
	}

	if _, err := FromPix(4, 3, RGB, make([]uint8, 5)); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("short pix: err = %v, want ErrInvalidDimensions", err)
	}
}

func TestAtSet(t *testing.T) {
	buf, err := New[uint8](3, 2, RGB)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := buf.Set(2, 1, 1, 200); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, err := buf.At(2, 1, 1)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if v != 200 {
		t.Errorf("At(2,1,1) = %d, want 200", v)
	}

	oob := []struct {
		name      string
		x, y, ch  int
	}{
		{"x negative", -1, 0, 0},
		{"x too big", 3, 0, 0},
		{"y too big", 0, 2, 0},
		{"channel too big", 0, 0, 3},
	}
	for _, tt := range oob {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buf.At(tt.x, tt.y, tt.ch); !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("At(%d,%d,%d): err = %v, want ErrOutOfBounds", tt.x, tt.y, tt.ch, err)
			}
			if err := buf.Set(tt.x, tt.y, tt.ch, 1); !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("Set(%d,%d,%d): err = %v, want ErrOutOfBounds", tt.x, tt.y, tt.ch, err)
			}
		})
	}
}

func TestClone_NoAliasing(t *testing.T) {
	buf, _ := New[uint16](2, 2, Gray)
	buf.Pix[0] = 7
	cp := buf.Clone()
	cp.Pix[0] = 9
	if buf.Pix[0] != 7 {
		t.Error("mutating a clone changed the original")
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want uint8
	}{
		{"round half to even down", 76.5, 76},
		{"round half to even up", 77.5, 78},
		{"plain round", 76.245, 76},
		{"clamp low", -5, 0},
		{"clamp high", 300, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quantize[uint8](tt.in); got != tt.want {
				t.Errorf("Quantize[uint8](%g) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}

	// Float depth passes through without clamping or rounding.
	if got := Quantize[float32](1.5); got != 1.5 {
		t.Errorf("Quantize[float32](1.5) = %g, want 1.5", got)
	}
	if got := Quantize[float32](-0.25); got != -0.25 {
		t.Errorf("Quantize[float32](-0.25) = %g, want -0.25", got)
	}
}

func TestDepthConstants(t *testing.T) {
	if MaxLevel[uint8]() != 255 || MaxLevel[uint16]() != 65535 || MaxLevel[float32]() != 1.0 {
		t.Error("MaxLevel mismatch")
	}
	if Levels[uint8]() != 256 || Levels[uint16]() != 65536 || Levels[float32]() != 256 {
		t.Error("Levels mismatch")
	}
}

func TestModel(t *testing.T) {
	tests := []struct {
		model    Model
		channels int
		str      string
		alpha    bool
	}{
		{Gray, 1, "grayscale", false},
		{GrayAlpha, 2, "grayscale_alpha", true},
		{RGB, 3, "rgb", false},
		{RGBA, 4, "rgba", true},
		{HSV, 3, "hsv", false},
		{HSL, 3, "hsl", false},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if got := tt.model.Channels(); got != tt.channels {
				t.Errorf("Channels() = %d, want %d", got, tt.channels)
			}
			if got := tt.model.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if got := tt.model.HasAlpha(); got != tt.alpha {
				t.Errorf("HasAlpha() = %v, want %v", got, tt.alpha)
			}
		})
	}
}
