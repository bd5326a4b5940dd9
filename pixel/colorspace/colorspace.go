// Package colorspace converts buffers between channel models.
//
// Conversions are pixel-wise and stateless. Hue-bearing models (HSV, HSL)
// store hue scaled to the buffer's depth range rather than raw degrees,
// so RGB->HSV->RGB round-trips are lossy by up to one least-significant
// unit per channel (quantization), never structurally.
//
// Alpha is passed through unmodified when both models carry it, dropped
// when the target has none, and synthesized fully opaque when only the
// target has it.
package colorspace

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/vision-core/pixel"
)

// Luma weights per ITU-R BT.601, the same weights the rest of the
// library uses for grayscale reduction.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Convert returns a new buffer with the pixels of src expressed in the
// target model. Converting to the source model returns a clone.
//
// Supported conversions: any pairing of Gray, GrayAlpha, RGB, RGBA, HSV
// and HSL. Hue-bearing sources convert to gray through RGB. An error
// wrapping pixel.ErrUnsupportedConversion is returned for a model this
// package does not define.
func Convert[T pixel.Sample](src *pixel.Buffer[T], target pixel.Model) (*pixel.Buffer[T], error) {
	if src.Model == target {
		return src.Clone(), nil
	}
	if src.Model.Channels() == 0 || target.Channels() == 0 {
		return nil, fmt.Errorf("%w: %s to %s", pixel.ErrUnsupportedConversion, src.Model, target)
	}
	out, err := pixel.New[T](src.Width, src.Height, target)
	if err != nil {
		return nil, err
	}

	max := pixel.MaxLevel[T]()
	n := src.Width * src.Height
	sc := src.Channels
	dc := out.Channels
	for i := 0; i < n; i++ {
		px := src.Pix[i*sc : i*sc+sc]
		r, g, b, a := toRGBA(px, src.Model, max)
		writePixel(out.Pix[i*dc:i*dc+dc], target, max, r, g, b, a)
	}
	return out, nil
}

// toRGBA normalizes one pixel of any model to RGBA in [0,1].
func toRGBA[T pixel.Sample](px []T, m pixel.Model, max float64) (r, g, b, a float64) {
	a = 1
	switch m {
	case pixel.Gray:
		v := float64(px[0]) / max
		return v, v, v, 1
	case pixel.GrayAlpha:
		v := float64(px[0]) / max
		return v, v, v, float64(px[1]) / max
	case pixel.RGB:
		return float64(px[0]) / max, float64(px[1]) / max, float64(px[2]) / max, 1
	case pixel.RGBA:
		return float64(px[0]) / max, float64(px[1]) / max, float64(px[2]) / max, float64(px[3]) / max
	case pixel.HSV:
		c := colorful.Hsv(float64(px[0])/max*360, float64(px[1])/max, float64(px[2])/max)
		return c.R, c.G, c.B, 1
	case pixel.HSL:
		c := colorful.Hsl(float64(px[0])/max*360, float64(px[1])/max, float64(px[2])/max)
		return c.R, c.G, c.B, 1
	}
	return 0, 0, 0, 1
}

// writePixel quantizes normalized RGBA into one pixel of the target model.
func writePixel[T pixel.Sample](px []T, m pixel.Model, max, r, g, b, a float64) {
	switch m {
	case pixel.Gray:
		px[0] = pixel.Quantize[T]((lumaR*r + lumaG*g + lumaB*b) * max)
	case pixel.GrayAlpha:
		px[0] = pixel.Quantize[T]((lumaR*r + lumaG*g + lumaB*b) * max)
		px[1] = pixel.Quantize[T](a * max)
	case pixel.RGB:
		px[0] = pixel.Quantize[T](r * max)
		px[1] = pixel.Quantize[T](g * max)
		px[2] = pixel.Quantize[T](b * max)
	case pixel.RGBA:
		px[0] = pixel.Quantize[T](r * max)
		px[1] = pixel.Quantize[T](g * max)
		px[2] = pixel.Quantize[T](b * max)
		px[3] = pixel.Quantize[T](a * max)
	case pixel.HSV:
		h, s, v := colorful.Color{R: clamp01(r), G: clamp01(g), B: clamp01(b)}.Hsv()
		px[0] = pixel.Quantize[T](h / 360 * max)
		px[1] = pixel.Quantize[T](s * max)
		px[2] = pixel.Quantize[T](v * max)
	case pixel.HSL:
		h, s, l := colorful.Color{R: clamp01(r), G: clamp01(g), B: clamp01(b)}.Hsl()
		px[0] = pixel.Quantize[T](h / 360 * max)
		px[1] = pixel.Quantize[T](s * max)
		px[2] = pixel.Quantize[T](l * max)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
