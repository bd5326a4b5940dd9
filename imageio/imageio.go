// Package imageio bridges pixel buffers and Go's standard image types,
// and provides file open/save conveniences on top of the imaging
// library.
//
// This package is the decoder/encoder boundary: the core packages never
// parse or write file bytes and never import imageio. Decoded images
// become 8-bit buffers; use pixel/colorspace to change depth or model
// afterwards.
package imageio

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/vision-core/pixel"
)

// FromImage converts any image.Image into an 8-bit RGBA buffer.
func FromImage(img image.Image) (*pixel.Buffer[uint8], error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf, err := pixel.New[uint8](w, h, pixel.RGBA)
	if err != nil {
		return nil, err
	}
	// NRGBA gives straight-alpha 8-bit samples in one known layout
	// regardless of the decoder's native type.
	nrgba := imaging.Clone(img)
	for y := 0; y < h; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		dst := buf.Pix[buf.Offset(0, y, 0) : buf.Offset(0, y, 0)+w*4]
		copy(dst, src)
	}
	return buf, nil
}

// FromImageGray converts any image.Image into an 8-bit grayscale buffer
// using the standard library's luma conversion.
func FromImageGray(img image.Image) (*pixel.Buffer[uint8], error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf, err := pixel.New[uint8](w, h, pixel.Gray)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			buf.Pix[buf.Offset(x, y, 0)] = c.Y
		}
	}
	return buf, nil
}

// ToImage converts an 8-bit buffer into a standard image: *image.Gray
// for single-channel buffers, *image.NRGBA otherwise. GrayAlpha and RGB
// expand to NRGBA with opaque or copied alpha.
//
// Hue-bearing models cannot be serialized directly; convert to RGB or
// RGBA first. Returns an error wrapping pixel.ErrUnsupportedConversion
// for them.
func ToImage(buf *pixel.Buffer[uint8]) (image.Image, error) {
	switch buf.Model {
	case pixel.HSV, pixel.HSL:
		return nil, fmt.Errorf("%w: cannot encode %s buffer; convert to rgb first",
			pixel.ErrUnsupportedConversion, buf.Model)
	}
	w, h := buf.Width, buf.Height
	if buf.Channels == 1 {
		img := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+w], buf.Pix[buf.Offset(0, y, 0):buf.Offset(0, y, 0)+w])
		}
		return img, nil
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := buf.Offset(x, y, 0)
			d := y*img.Stride + x*4
			switch buf.Channels {
			case 2:
				v := buf.Pix[o]
				img.Pix[d], img.Pix[d+1], img.Pix[d+2], img.Pix[d+3] = v, v, v, buf.Pix[o+1]
			case 3:
				img.Pix[d], img.Pix[d+1], img.Pix[d+2], img.Pix[d+3] = buf.Pix[o], buf.Pix[o+1], buf.Pix[o+2], 255
			default:
				img.Pix[d], img.Pix[d+1], img.Pix[d+2], img.Pix[d+3] = buf.Pix[o], buf.Pix[o+1], buf.Pix[o+2], buf.Pix[o+3]
			}
		}
	}
	return img, nil
}

// Open decodes the image file at path into an 8-bit RGBA buffer,
// honoring EXIF orientation.
func Open(path string) (*pixel.Buffer[uint8], error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return FromImage(img)
}

// Save encodes the buffer to path; the format is chosen by the file
// extension (png, jpg, gif, tif, bmp).
func Save(buf *pixel.Buffer[uint8], path string) error {
	img, err := ToImage(buf)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
