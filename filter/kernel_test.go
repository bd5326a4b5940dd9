package filter

import (
	"errors"
	"math"
	"testing"

	"github.com/ironsheep/vision-core/pixel"
)

func TestNewKernel(t *testing.T) {
	tests := []struct {
		name    string
		weights [][]float64
		wantErr bool
	}{
		{"3x3", [][]float64{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}}, false},
		{"1x1", [][]float64{{1}}, false},
		{"empty", nil, true},
		{"even height", [][]float64{{1}, {1}}, true},
		{"even width", [][]float64{{1, 1}}, true},
		{"ragged", [][]float64{{1, 2, 3}, {1, 2}, {1, 2, 3}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := NewKernel(tt.weights)
			if tt.wantErr {
				if !errors.Is(err, pixel.ErrInvalidParameter) {
					t.Fatalf("err = %v, want ErrInvalidParameter", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewKernel failed: %v", err)
			}
			if k.AnchorX != k.Width/2 || k.AnchorY != k.Height/2 {
				t.Errorf("anchor = (%d,%d), want center", k.AnchorX, k.AnchorY)
			}
		})
	}
}

func TestWithAnchor(t *testing.T) {
	k, _ := NewKernel([][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	moved, err := k.WithAnchor(0, 2)
	if err != nil {
		t.Fatalf("WithAnchor failed: %v", err)
	}
	if moved.AnchorX != 0 || moved.AnchorY != 2 {
		t.Errorf("anchor = (%d,%d), want (0,2)", moved.AnchorX, moved.AnchorY)
	}
	if k.AnchorX != 1 || k.AnchorY != 1 {
		t.Error("WithAnchor mutated the receiver")
	}
	if _, err := k.WithAnchor(3, 0); !errors.Is(err, pixel.ErrInvalidParameter) {
		t.Errorf("out-of-kernel anchor: err = %v, want ErrInvalidParameter", err)
	}
}

func TestGaussianKernel(t *testing.T) {
	k, err := GaussianKernel(1.0)
	if err != nil {
		t.Fatalf("GaussianKernel failed: %v", err)
	}
	if k.Width != 7 || k.Height != 7 {
		t.Errorf("size = %dx%d, want 7x7 for sigma 1", k.Width, k.Height)
	}
	sum := 0.0
	for _, w := range k.Weights {
		sum += w
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("weights sum to %g, want 1", sum)
	}
	// Symmetric about the center.
	for i := range k.Weights {
		if j := len(k.Weights) - 1 - i; k.Weights[i] != k.Weights[j] {
			t.Fatalf("weight %d != mirrored weight %d", i, j)
		}
	}

	if _, err := GaussianKernel(0); !errors.Is(err, pixel.ErrInvalidParameter) {
		t.Errorf("sigma 0: err = %v, want ErrInvalidParameter", err)
	}
	if _, err := GaussianKernel(-1); !errors.Is(err, pixel.ErrInvalidParameter) {
		t.Errorf("sigma -1: err = %v, want ErrInvalidParameter", err)
	}
}

func TestGaussian1DWindow(t *testing.T) {
	for _, window := range []int{1, 3, 7, 11} {
		w := Gaussian1DWindow(window)
		if len(w) != window {
			t.Fatalf("window %d: got %d weights", window, len(w))
		}
		sum := 0.0
		for _, v := range w {
			sum += v
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("window %d: weights sum to %g, want 1", window, sum)
		}
	}
}

func TestBox(t *testing.T) {
	k, err := Box(3)
	if err != nil {
		t.Fatalf("Box failed: %v", err)
	}
	sum := 0.0
	for _, w := range k.Weights {
		sum += w
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("weights sum to %g, want 1", sum)
	}
	if _, err := Box(4); !errors.Is(err, pixel.ErrInvalidParameter) {
		t.Errorf("even box: err = %v, want ErrInvalidParameter", err)
	}
}

func TestGradientKernels(t *testing.T) {
	// Gradient kernels must reject flat regions.
	for name, k := range map[string]*Kernel{
		"sobel x":   SobelX(),
		"sobel y":   SobelY(),
		"laplacian": Laplacian(),
	} {
		sum := 0.0
		for _, w := range k.Weights {
			sum += w
		}
		if sum != 0 {
			t.Errorf("%s weights sum to %g, want 0", name, sum)
		}
	}
}
