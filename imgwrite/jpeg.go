package imgwrite

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

const (
	jpegMaxSegmentPayload = 65519 // 65535 - 2 (length field) - 14 (ICC header)
	jpegICCHeader         = "ICC_PROFILE\x00"
)

// WriteJPEG encodes img as 8-bit baseline JPEG at the given quality,
// embedding iccProfile as one or more APP2 segments (skipped if
// iccProfile is empty), and writes it atomically to path. JPEG is always
// 8-bit; a 16-bit Image is truncated to its high byte per channel.
func WriteJPEG(path string, img *Image, quality int, iccProfile []byte) error {
	im, err := toJPEGImage(img)
	if err != nil {
		return err
	}

	var base bytes.Buffer
	if err := jpeg.Encode(&base, im, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("imgwrite: jpeg encode: %w", err)
	}

	out, err := injectAPP2ICC(base.Bytes(), iccProfile)
	if err != nil {
		return err
	}
	return writeAtomic(path, out)
}

func toJPEGImage(img *Image) (image.Image, error) {
	rgba := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	switch img.Depth {
	case 8:
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				i := (y*img.Width + x) * 3
				o := rgba.PixOffset(x, y)
				rgba.Pix[o], rgba.Pix[o+1], rgba.Pix[o+2], rgba.Pix[o+3] =
					img.Pixels[i], img.Pixels[i+1], img.Pixels[i+2], 0xFF
			}
		}
	case 16:
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				i := (y*img.Width + x) * 6
				o := rgba.PixOffset(x, y)
				rgba.Pix[o], rgba.Pix[o+1], rgba.Pix[o+2], rgba.Pix[o+3] =
					img.Pixels[i], img.Pixels[i+2], img.Pixels[i+4], 0xFF
			}
		}
	default:
		return nil, fmt.Errorf("imgwrite: unsupported JPEG bit depth %d", img.Depth)
	}
	return rgba, nil
}

// injectAPP2ICC splits iccProfile into jpegMaxSegmentPayload-sized pieces
// and inserts them as APP2 segments right after SOI, or after the segment
// that follows SOI when that segment is an APPn (such as APP0/JFIF), in the
// same 14-byte-header, 1-based-sequence layout icc.ExtractJPEG expects on
// the read side.
func injectAPP2ICC(jpegBytes, iccProfile []byte) ([]byte, error) {
	if len(iccProfile) == 0 {
		return jpegBytes, nil
	}
	if len(jpegBytes) < 4 || jpegBytes[0] != 0xFF || jpegBytes[1] != 0xD8 {
		return nil, fmt.Errorf("imgwrite: encoded JPEG is missing its SOI marker")
	}

	// Skip past a leading APPn segment (typically APP0/JFIF) so the ICC
	// segments land after it. Standalone markers (EOI, RSTn) carry no
	// length field and are left alone.
	insertAt := 2
	if len(jpegBytes) >= 6 && jpegBytes[2] == 0xFF && jpegBytes[3] >= 0xE0 && jpegBytes[3] <= 0xEF {
		segLen := int(jpegBytes[4])<<8 | int(jpegBytes[5])
		if 2+2+segLen <= len(jpegBytes) {
			insertAt = 2 + 2 + segLen
		}
	}

	var segments bytes.Buffer
	total := (len(iccProfile) + jpegMaxSegmentPayload - 1) / jpegMaxSegmentPayload
	if total == 0 {
		total = 1
	}
	for seq := 1; seq <= total; seq++ {
		start := (seq - 1) * jpegMaxSegmentPayload
		end := start + jpegMaxSegmentPayload
		if end > len(iccProfile) {
			end = len(iccProfile)
		}
		chunk := iccProfile[start:end]

		payload := make([]byte, 0, len(jpegICCHeader)+2+len(chunk))
		payload = append(payload, []byte(jpegICCHeader)...)
		payload = append(payload, byte(seq), byte(total))
		payload = append(payload, chunk...)

		segLen := len(payload) + 2
		segments.WriteByte(0xFF)
		segments.WriteByte(0xE2) // APP2
		segments.WriteByte(byte(segLen >> 8))
		segments.WriteByte(byte(segLen))
		segments.Write(payload)
	}

	var out bytes.Buffer
	out.Write(jpegBytes[:insertAt])
	out.Write(segments.Bytes())
	out.Write(jpegBytes[insertAt:])
	return out.Bytes(), nil
}
