package colorspace

import (
	"errors"
	"math"
	"testing"

	"github.com/ironsheep/vision-core/pixel"
)

func TestConvert_GrayLuma(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    uint8
	}{
		{"red", 255, 0, 0, 76},
		{"green", 0, 255, 0, 150},
		{"blue", 0, 0, 255, 29},
		{"white", 255, 255, 255, 255},
		{"black", 0, 0, 0, 0},
		{"mixed", 200, 100, 50, 124},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, _ := pixel.FromPix(1, 1, pixel.RGB, []uint8{tt.r, tt.g, tt.b})
			out, err := Convert(src, pixel.Gray)
			if err != nil {
				t.Fatalf("Convert failed: %v", err)
			}
			if out.Pix[0] != tt.want {
				t.Errorf("luma(%d,%d,%d) = %d, want %d", tt.r, tt.g, tt.b, out.Pix[0], tt.want)
			}
		})
	}
}

func TestConvert_Alpha(t *testing.T) {
	// Dropped when the target has none.
	src, _ := pixel.FromPix(1, 1, pixel.RGBA, []uint8{10, 20, 30, 128})
	out, err := Convert(src, pixel.RGB)
	if err != nil {
		t.Fatalf("RGBA->RGB failed: %v", err)
	}
	if out.Pix[0] != 10 || out.Pix[1] != 20 || out.Pix[2] != 30 {
		t.Errorf("RGBA->RGB = %v, want [10 20 30]", out.Pix)
	}

	// Synthesized opaque when only the target has one.
	src, _ = pixel.FromPix(1, 1, pixel.RGB, []uint8{10, 20, 30})
	out, err = Convert(src, pixel.RGBA)
	if err != nil {
		t.Fatalf("RGB->RGBA failed: %v", err)
	}
	if out.Pix[3] != 255 {
		t.Errorf("synthesized alpha = %d, want 255", out.Pix[3])
	}

	// Passed through when both carry it.
	src, _ = pixel.FromPix(1, 1, pixel.GrayAlpha, []uint8{200, 128})
	out, err = Convert(src, pixel.RGBA)
	if err != nil {
		t.Fatalf("GrayAlpha->RGBA failed: %v", err)
	}
	if out.Pix[0] != 200 || out.Pix[1] != 200 || out.Pix[2] != 200 || out.Pix[3] != 128 {
		t.Errorf("GrayAlpha->RGBA = %v, want [200 200 200 128]", out.Pix)
	}
}

func TestConvert_HSVKnownValues(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		h, s, v uint8
	}{
		{"red", 255, 0, 0, 0, 255, 255},
		{"green", 0, 255, 0, 85, 255, 255},
		{"blue", 0, 0, 255, 170, 255, 255},
		{"gray", 128, 128, 128, 0, 0, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, _ := pixel.FromPix(1, 1, pixel.RGB, []uint8{tt.r, tt.g, tt.b})
			out, err := Convert(src, pixel.HSV)
			if err != nil {
				t.Fatalf("Convert failed: %v", err)
			}
			if out.Pix[0] != tt.h || out.Pix[1] != tt.s || out.Pix[2] != tt.v {
				t.Errorf("HSV = %v, want [%d %d %d]", out.Pix, tt.h, tt.s, tt.v)
			}
		})
	}
}

func TestConvert_HSLKnownValues(t *testing.T) {
	src, _ := pixel.FromPix(1, 1, pixel.RGB, []uint8{255, 0, 0})
	out, err := Convert(src, pixel.HSL)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if out.Pix[0] != 0 || out.Pix[1] != 255 || out.Pix[2] != 128 {
		t.Errorf("HSL(red) = %v, want [0 255 128]", out.Pix)
	}
}

func TestConvert_HSVRoundTrip(t *testing.T) {
	colors := []struct {
		name    string
		r, g, b uint8
	}{
		{"red", 255, 0, 0},
		{"green", 0, 255, 0},
		{"blue", 0, 0, 255},
		{"black", 0, 0, 0},
		{"white", 255, 255, 255},
		{"gray", 128, 128, 128},
		{"muted", 100, 80, 90},
	}
	for _, tt := range colors {
		t.Run(tt.name, func(t *testing.T) {
			src, _ := pixel.FromPix(1, 1, pixel.RGB, []uint8{tt.r, tt.g, tt.b})
			hsv, err := Convert(src, pixel.HSV)
			if err != nil {
				t.Fatalf("RGB->HSV failed: %v", err)
			}
			back, err := Convert(hsv, pixel.RGB)
			if err != nil {
				t.Fatalf("HSV->RGB failed: %v", err)
			}
			for ch := 0; ch < 3; ch++ {
				d := int(back.Pix[ch]) - int(src.Pix[ch])
				if d < -1 || d > 1 {
					t.Errorf("channel %d: %d -> %d, off by more than one level",
						ch, src.Pix[ch], back.Pix[ch])
				}
			}
		})
	}
}

func TestConvert_HSVRoundTripFloat(t *testing.T) {
	src, _ := pixel.FromPix(1, 1, pixel.RGB, []float32{0.4, 0.7, 0.1})
	hsv, err := Convert(src, pixel.HSV)
	if err != nil {
		t.Fatalf("RGB->HSV failed: %v", err)
	}
	back, err := Convert(hsv, pixel.RGB)
	if err != nil {
		t.Fatalf("HSV->RGB failed: %v", err)
	}
	for ch := 0; ch < 3; ch++ {
		if d := math.Abs(float64(back.Pix[ch] - src.Pix[ch])); d > 1e-4 {
			t.Errorf("channel %d: %g -> %g", ch, src.Pix[ch], back.Pix[ch])
		}
	}
}

func TestConvert_Identity(t *testing.T) {
	src, _ := pixel.FromPix(2, 1, pixel.RGB, []uint8{1, 2, 3, 4, 5, 6})
	out, err := Convert(src, pixel.RGB)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	out.Pix[0] = 99
	if src.Pix[0] != 1 {
		t.Error("identity conversion must return an independent clone")
	}
}

func TestConvert_UnknownModel(t *testing.T) {
	src, _ := pixel.New[uint8](1, 1, pixel.RGB)
	if _, err := Convert(src, pixel.Model(99)); !errors.Is(err, pixel.ErrUnsupportedConversion) {
		t.Errorf("err = %v, want ErrUnsupportedConversion", err)
	}
}
