package raster

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/pkg/errors"
)

var jpegMagic = []byte{0xFF, 0xD8, 0xFF}

// jpegDecoder implements Decoder for JPEG. JPEG output from image/jpeg is
// always 8-bit. The type switch over the stdlib decoder's concrete image
// types lets the Gray path copy Pix directly; the YCbCr, CMYK and default
// paths convert each pixel through At().RGBA().
type jpegDecoder struct{}

func init() { RegisterDecoder(jpegDecoder{}) }

func (jpegDecoder) Format() Format { return FormatJPEG }

func (jpegDecoder) Sniff(raw []byte) bool { return hasPrefix(raw, jpegMagic) }

func (jpegDecoder) Decode(raw []byte) (*Raster, error) {
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "jpeg")
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	samples := make([]byte, width*height*3)

	switch m := img.(type) {
	case *image.Gray:
		for i, v := range m.Pix {
			samples[i*3], samples[i*3+1], samples[i*3+2] = v, v, v
		}
	case *image.YCbCr:
		idx := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, _ := m.At(x, y).RGBA()
				samples[idx] = byte(r >> 8)
				samples[idx+1] = byte(g >> 8)
				samples[idx+2] = byte(b >> 8)
				idx += 3
			}
		}
	case *image.CMYK:
		idx := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, _ := m.At(x, y).RGBA()
				samples[idx] = byte(r >> 8)
				samples[idx+1] = byte(g >> 8)
				samples[idx+2] = byte(b >> 8)
				idx += 3
			}
		}
	default:
		idx := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, _ := img.At(x, y).RGBA()
				samples[idx] = byte(r >> 8)
				samples[idx+1] = byte(g >> 8)
				samples[idx+2] = byte(b >> 8)
				idx += 3
			}
		}
	}

	return &Raster{Width: width, Height: height, Channels: 3, Depth: 8, Samples: samples}, nil
}
