package colorspace

import "github.com/ironsheep/vision-core/pixel"

// ConvertDepth rescales every sample of src from the From depth range to
// the To depth range, keeping the model and channel count. The rescale is
// v * MaxLevel[To]/MaxLevel[From], rounded half-to-even for integer
// targets, so 16-bit to 8-bit narrowing loses precision and widening is
// exact up to rounding. Depth changes are always explicit; no operation
// in vision-core coerces depths implicitly.
func ConvertDepth[From, To pixel.Sample](src *pixel.Buffer[From]) *pixel.Buffer[To] {
	scale := pixel.MaxLevel[To]() / pixel.MaxLevel[From]()
	out := &pixel.Buffer[To]{
		Width:    src.Width,
		Height:   src.Height,
		Channels: src.Channels,
		Model:    src.Model,
		Pix:      make([]To, len(src.Pix)),
	}
	for i, v := range src.Pix {
		out.Pix[i] = pixel.Quantize[To](float64(v) * scale)
	}
	return out
}
