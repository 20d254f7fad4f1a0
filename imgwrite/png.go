package imgwrite

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// Image is the 8-or-16-bit interleaved RGB raster the PNG/JPEG encoders
// consume; it mirrors tiffwrite.Image so pipeline can hand the same
// quantized buffer to either writer.
type Image struct {
	Width, Height int
	Depth         int // 8 or 16
	Pixels        []byte
}

// WritePNG encodes img as PNG, embedding iccProfile as an iCCP chunk
// (skipped entirely if iccProfile is empty) and writes it atomically to
// path.
func WritePNG(path string, img *Image, iccProfile []byte) error {
	im, err := toGoImage(img)
	if err != nil {
		return err
	}

	var base bytes.Buffer
	if err := png.Encode(&base, im); err != nil {
		return fmt.Errorf("imgwrite: png encode: %w", err)
	}

	out, err := injectICCP(base.Bytes(), iccProfile)
	if err != nil {
		return err
	}
	return writeAtomic(path, out)
}

func toGoImage(img *Image) (image.Image, error) {
	switch img.Depth {
	case 8:
		rgba := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				i := (y*img.Width + x) * 3
				o := rgba.PixOffset(x, y)
				rgba.Pix[o], rgba.Pix[o+1], rgba.Pix[o+2], rgba.Pix[o+3] =
					img.Pixels[i], img.Pixels[i+1], img.Pixels[i+2], 0xFF
			}
		}
		return rgba, nil
	case 16:
		nrgba64 := image.NewNRGBA64(image.Rect(0, 0, img.Width, img.Height))
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				i := (y*img.Width + x) * 6
				r := uint16(img.Pixels[i])<<8 | uint16(img.Pixels[i+1])
				g := uint16(img.Pixels[i+2])<<8 | uint16(img.Pixels[i+3])
				b := uint16(img.Pixels[i+4])<<8 | uint16(img.Pixels[i+5])
				nrgba64.SetNRGBA64(x, y, color.NRGBA64{R: r, G: g, B: b, A: 0xFFFF})
			}
		}
		return nrgba64, nil
	default:
		return nil, fmt.Errorf("imgwrite: unsupported PNG bit depth %d", img.Depth)
	}
}

// injectICCP re-chunks a PNG byte stream to insert an iCCP chunk
// immediately after IHDR, which is where the PNG spec requires it to
// precede PLTE/IDAT. iccProfile is deflate-compressed per the iCCP chunk's
// "compression method 0" requirement.
func injectICCP(pngBytes, iccProfile []byte) ([]byte, error) {
	if len(iccProfile) == 0 {
		return pngBytes, nil
	}
	if len(pngBytes) < len(pngSignature) || !bytes.Equal(pngBytes[:len(pngSignature)], pngSignature) {
		return nil, fmt.Errorf("imgwrite: encoded PNG is missing its signature")
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(iccProfile); err != nil {
		return nil, fmt.Errorf("imgwrite: compress ICC profile: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("imgwrite: compress ICC profile: %w", err)
	}

	iccpData := make([]byte, 0, len("icc")+2+compressed.Len())
	iccpData = append(iccpData, []byte("icc")...) // profile name
	iccpData = append(iccpData, 0)                // null terminator
	iccpData = append(iccpData, 0)                // compression method 0
	iccpData = append(iccpData, compressed.Bytes()...)

	var out bytes.Buffer
	out.Write(pngSignature)

	pos := len(pngSignature)
	for pos < len(pngBytes) {
		if pos+8 > len(pngBytes) {
			return nil, fmt.Errorf("imgwrite: truncated PNG chunk header")
		}
		length := binary.BigEndian.Uint32(pngBytes[pos : pos+4])
		code := pngBytes[pos+4 : pos+8]
		chunkEnd := pos + 8 + int(length) + 4
		if chunkEnd > len(pngBytes) {
			return nil, fmt.Errorf("imgwrite: truncated PNG chunk %q", code)
		}
		out.Write(pngBytes[pos:chunkEnd])

		if string(code) == "IHDR" {
			writePNGChunk(&out, "iCCP", iccpData)
		}
		pos = chunkEnd
	}
	return out.Bytes(), nil
}

func writePNGChunk(out *bytes.Buffer, code string, data []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	out.Write(lenBuf[:])

	codeAndData := append([]byte(code), data...)
	out.Write(codeAndData)

	crc := crc32.ChecksumIEEE(codeAndData)
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc)
	out.Write(crcBuf[:])
}
