package raster

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"

	"github.com/pkg/errors"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// pngDecoder implements Decoder for PNG. Pixel decode uses the standard
// library (image/png handles interlacing, palettes and bit depths for us).
type pngDecoder struct{}

func init() { RegisterDecoder(pngDecoder{}) }

func (pngDecoder) Format() Format { return FormatPNG }

func (pngDecoder) Sniff(raw []byte) bool { return hasPrefix(raw, pngMagic) }

func (pngDecoder) Decode(raw []byte) (*Raster, error) {
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "png")
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	depth := 8
	channels := 3
	hasAlpha := false

	switch m := img.(type) {
	case *image.Gray:
		depth = 8
	case *image.Gray16:
		depth = 16
	case *image.NRGBA, *image.RGBA:
		hasAlpha = true
		channels = 4
	case *image.NRGBA64, *image.RGBA64:
		hasAlpha = true
		channels = 4
		depth = 16
	case *image.Paletted:
		depth = 8
		_ = m
	default:
		depth = 8
	}

	samples := make([]byte, width*height*channels*(depth/8))
	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			writePNGPixel(samples, &idx, img.At(x, y), channels, depth, hasAlpha)
		}
	}

	return &Raster{
		Width: width, Height: height,
		Channels: channels, Depth: depth,
		Samples: samples, HasAlpha: hasAlpha,
	}, nil
}

func writePNGPixel(dst []byte, idx *int, c color.Color, channels, depth int, hasAlpha bool) {
	if depth == 16 {
		r, g, b, a := c.RGBA() // already 16-bit-scaled
		put16 := func(v uint32) {
			binary.BigEndian.PutUint16(dst[*idx:*idx+2], uint16(v))
			*idx += 2
		}
		put16(r)
		put16(g)
		put16(b)
		if hasAlpha {
			put16(a)
		}
		return
	}
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	dst[*idx] = nrgba.R
	dst[*idx+1] = nrgba.G
	dst[*idx+2] = nrgba.B
	*idx += 3
	if hasAlpha {
		dst[*idx] = nrgba.A
		*idx++
	}
}
