package raster

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
	xlzw "golang.org/x/image/tiff/lzw"
)

// Baseline TIFF 6.0 constants: IFD entry layout, data-type widths and the
// II/MM header signatures.
const (
	leHeader = "II\x2A\x00"
	beHeader = "MM\x00\x2A"
	ifdLen   = 12

	dtByte      = 1
	dtASCII     = 2
	dtShort     = 3
	dtLong      = 4
	dtRational  = 5
	dtUndefined = 7
)

var typeSize = map[uint16]int{dtByte: 1, dtASCII: 1, dtShort: 2, dtLong: 4, dtRational: 8, dtUndefined: 1}

const (
	tImageWidth      = 256
	tImageLength     = 257
	tBitsPerSample   = 258
	tCompression     = 259
	tPhotometric     = 262
	tStripOffsets    = 273
	tSamplesPerPixel = 277
	tRowsPerStrip    = 278
	tStripByteCounts = 279
	tXResolution     = 282
	tYResolution     = 283
	tColorMap        = 320
	tExtraSamples    = 338
	tResolutionUnit  = 296
)

const (
	photoWhiteIsZero = 0
	photoBlackIsZero = 1
	photoRGB         = 2
	photoPalette     = 3
)

const (
	compressionNone    = 1
	compressionLZW     = 5
	compressionPackBit = 32773
)

type tiffIFD struct {
	order   binary.ByteOrder
	entries map[uint16]tiffEntry
	raw     []byte
}

type tiffEntry struct {
	typ   uint16
	count uint32
	vals  []uint32 // resolved unsigned values (RATIONAL keeps only the numerator)
	data  []byte   // original bytes backing vals, used to recover RATIONAL denominators
}

func parseTIFFIFD(raw []byte) (*tiffIFD, error) {
	if len(raw) < 8 {
		return nil, errors.New("tiff: truncated header")
	}
	var order binary.ByteOrder
	switch string(raw[0:4]) {
	case leHeader:
		order = binary.LittleEndian
	case beHeader:
		order = binary.BigEndian
	default:
		return nil, errors.New("tiff: bad magic (not II*\\0 or MM\\0*)")
	}
	ifdOffset := order.Uint32(raw[4:8])
	if int(ifdOffset)+2 > len(raw) {
		return nil, errors.New("tiff: IFD offset out of range")
	}
	numEntries := int(order.Uint16(raw[ifdOffset : ifdOffset+2]))
	base := int(ifdOffset) + 2
	d := &tiffIFD{order: order, entries: make(map[uint16]tiffEntry, numEntries), raw: raw}

	for i := 0; i < numEntries; i++ {
		off := base + i*ifdLen
		if off+ifdLen > len(raw) {
			return nil, errors.New("tiff: IFD entry out of range")
		}
		tag := order.Uint16(raw[off : off+2])
		typ := order.Uint16(raw[off+2 : off+4])
		count := order.Uint32(raw[off+4 : off+8])
		valueField := raw[off+8 : off+12]

		size, ok := typeSize[typ]
		if !ok {
			// Unknown/malformed entries other than our required tags do not
			// cause failure at this stage, the same tolerance the ICC
			// Extractor applies to vendor tags.
			continue
		}
		total := size * int(count)

		var dataBytes []byte
		if total <= 4 {
			dataBytes = valueField[:total]
		} else {
			dataOff := order.Uint32(valueField)
			if int(dataOff)+total > len(raw) {
				continue
			}
			dataBytes = raw[dataOff : int(dataOff)+total]
		}

		vals := make([]uint32, count)
		for j := 0; j < int(count); j++ {
			switch typ {
			case dtByte, dtASCII, dtUndefined:
				vals[j] = uint32(dataBytes[j])
			case dtShort:
				vals[j] = uint32(order.Uint16(dataBytes[j*2 : j*2+2]))
			case dtLong:
				vals[j] = order.Uint32(dataBytes[j*4 : j*4+4])
			case dtRational:
				vals[j] = order.Uint32(dataBytes[j*8 : j*8+4]) // numerator only; denom read separately below
			}
		}
		d.entries[tag] = tiffEntry{typ: typ, count: count, vals: vals, data: dataBytes}
	}
	return d, nil
}

func (d *tiffIFD) firstVal(tag uint16) uint32 {
	e, ok := d.entries[tag]
	if !ok || len(e.vals) == 0 {
		return 0
	}
	return e.vals[0]
}

// rational reads tag's index'th RATIONAL as a float64 (numerator/denominator).
func (d *tiffIFD) rational(tag uint16, index int) float64 {
	e, ok := d.entries[tag]
	if !ok || e.typ != dtRational || index*8+8 > len(e.data) {
		return 0
	}
	num := d.order.Uint32(e.data[index*8 : index*8+4])
	den := d.order.Uint32(e.data[index*8+4 : index*8+8])
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// tiffDecoder implements Decoder for baseline TIFF 6.0 rasters: RGB or
// grayscale, 8 or 16 bits per sample, uncompressed/LZW/PackBits, with
// palette expansion. Multi-strip images are supported; tiled and
// multi-IFD/LogLuv/LogL layouts are not (Non-goal).
type tiffDecoder struct{}

func init() { RegisterDecoder(tiffDecoder{}) }

func (tiffDecoder) Format() Format { return FormatTIFF }

func (tiffDecoder) Sniff(raw []byte) bool {
	return hasPrefix(raw, []byte(leHeader)) || hasPrefix(raw, []byte(beHeader))
}

func (tiffDecoder) Decode(raw []byte) (*Raster, error) {
	d, err := parseTIFFIFD(raw)
	if err != nil {
		return nil, errors.Wrap(err, "tiff")
	}

	width := int(d.firstVal(tImageWidth))
	height := int(d.firstVal(tImageLength))
	if width <= 0 || height <= 0 {
		return nil, errors.New("tiff: missing or zero ImageWidth/ImageLength")
	}

	samplesPerPixel := int(d.firstVal(tSamplesPerPixel))
	if samplesPerPixel == 0 {
		samplesPerPixel = 1
	}
	bitsEntry, hasBits := d.entries[tBitsPerSample]
	depth := 8
	if hasBits && len(bitsEntry.vals) > 0 {
		depth = int(bitsEntry.vals[0])
	}
	if depth != 8 && depth != 16 {
		return nil, fmt.Errorf("tiff: unsupported BitsPerSample %d", depth)
	}

	photometric := d.firstVal(tPhotometric)
	_, hasAlpha := d.entries[tExtraSamples]

	pixels, err := d.readStrips(samplesPerPixel, depth, width, height)
	if err != nil {
		return nil, errors.Wrap(err, "tiff: strip data")
	}

	var out *Raster
	switch photometric {
	case photoRGB:
		channels := samplesPerPixel
		if channels < 3 {
			return nil, fmt.Errorf("tiff: RGB photometric with SamplesPerPixel=%d", channels)
		}
		out = &Raster{Width: width, Height: height, Channels: channels, Depth: depth, Samples: pixels, HasAlpha: hasAlpha && channels == 4}
	case photoBlackIsZero, photoWhiteIsZero:
		out = grayToRGB(pixels, width, height, depth, photometric == photoWhiteIsZero)
	case photoPalette:
		cm, ok := d.entries[tColorMap]
		if !ok {
			return nil, errors.New("tiff: palette image missing ColorMap")
		}
		out, err = paletteToRGB(pixels, width, height, depth, cm.vals)
		if err != nil {
			return nil, errors.Wrap(err, "tiff: palette expansion")
		}
	default:
		return nil, fmt.Errorf("tiff: unsupported PhotometricInterpretation %d", photometric)
	}

	out.XResolution = d.rational(tXResolution, 0)
	out.YResolution = d.rational(tYResolution, 0)
	out.ResolutionUnit = int(d.firstVal(tResolutionUnit))
	if out.ResolutionUnit == 0 {
		out.ResolutionUnit = 2
	}
	return out, nil
}

// readStrips concatenates all strips into one contiguous, row-major buffer,
// decompressing each strip according to its Compression tag.
func (d *tiffIFD) readStrips(samplesPerPixel, depth, width, height int) ([]byte, error) {
	offsets := d.entries[tStripOffsets].vals
	counts := d.entries[tStripByteCounts].vals
	if len(offsets) == 0 || len(offsets) != len(counts) {
		return nil, errors.New("tiff: missing or mismatched StripOffsets/StripByteCounts")
	}
	rowsPerStrip := int(d.firstVal(tRowsPerStrip))
	if rowsPerStrip <= 0 {
		rowsPerStrip = height
	}
	compression := d.firstVal(tCompression)
	if compression == 0 {
		compression = compressionNone
	}

	bytesPerSample := depth / 8
	rowBytes := width * samplesPerPixel * bytesPerSample
	out := make([]byte, rowBytes*height)

	rowCursor := 0
	for i, off := range offsets {
		n := counts[i]
		if int(off)+int(n) > len(d.raw) {
			return nil, fmt.Errorf("tiff: strip %d out of range", i)
		}
		stripRaw := d.raw[off : off+n]

		var plain []byte
		var err error
		switch compression {
		case compressionNone:
			plain = stripRaw
		case compressionLZW:
			r := xlzw.NewReader(bytes.NewReader(stripRaw), xlzw.MSB, 8)
			plain, err = io.ReadAll(r)
			if cerr := r.Close(); err == nil {
				err = cerr
			}
		case compressionPackBit:
			plain, err = unpackBits(stripRaw)
		default:
			return nil, fmt.Errorf("tiff: unsupported Compression %d", compression)
		}
		if err != nil {
			return nil, err
		}

		rowsInStrip := rowsPerStrip
		if rowCursor+rowsInStrip > height {
			rowsInStrip = height - rowCursor
		}
		want := rowsInStrip * rowBytes
		if len(plain) < want {
			return nil, fmt.Errorf("tiff: strip %d decompressed to %d bytes, want %d", i, len(plain), want)
		}
		copy(out[rowCursor*rowBytes:rowCursor*rowBytes+want], plain[:want])
		rowCursor += rowsInStrip
	}

	// Raster.Samples is always big-endian for 16-bit data (matching the
	// PNG and JPEG decoders); a little-endian TIFF source needs its strips
	// byte-swapped once, here, rather than pushing endianness awareness
	// into every downstream consumer.
	if bytesPerSample == 2 && d.order == binary.LittleEndian {
		for i := 0; i+1 < len(out); i += 2 {
			out[i], out[i+1] = out[i+1], out[i]
		}
	}
	return out, nil
}

func grayToRGB(gray []byte, width, height, depth int, invert bool) *Raster {
	bps := depth / 8
	out := &Raster{Width: width, Height: height, Channels: 3, Depth: depth}
	out.Samples = make([]byte, width*height*3*bps)
	for px := 0; px < width*height; px++ {
		src := gray[px*bps : px*bps+bps]
		v := append([]byte(nil), src...)
		if invert {
			for i := range v {
				v[i] = ^v[i]
			}
		}
		for c := 0; c < 3; c++ {
			copy(out.Samples[(px*3+c)*bps:(px*3+c)*bps+bps], v)
		}
	}
	return out
}

func paletteToRGB(indices []byte, width, height, depth int, colorMap []uint32) (*Raster, error) {
	entries := len(colorMap) / 3
	if entries == 0 {
		return nil, errors.New("tiff: empty ColorMap")
	}
	out := &Raster{Width: width, Height: height, Channels: 3, Depth: 8}
	out.Samples = make([]byte, width*height*3)
	bps := depth / 8
	for px := 0; px < width*height; px++ {
		var idx int
		if bps == 1 {
			idx = int(indices[px])
		} else {
			idx = int(binary.BigEndian.Uint16(indices[px*2 : px*2+2]))
		}
		if idx >= entries {
			idx = entries - 1
		}
		// ColorMap entries are 16-bit values scaled to 0..65535; reduce to 8-bit.
		out.Samples[px*3+0] = byte(colorMap[idx] >> 8)
		out.Samples[px*3+1] = byte(colorMap[entries+idx] >> 8)
		out.Samples[px*3+2] = byte(colorMap[2*entries+idx] >> 8)
	}
	return out, nil
}

// unpackBits decodes PackBits (RLE) compressed strip data.
func unpackBits(src []byte) ([]byte, error) {
	var out []byte
	for i := 0; i < len(src); {
		n := int8(src[i])
		i++
		switch {
		case n >= 0:
			count := int(n) + 1
			if i+count > len(src) {
				return nil, errors.New("tiff: packbits literal run overruns buffer")
			}
			out = append(out, src[i:i+count]...)
			i += count
		case n != -128:
			if i >= len(src) {
				return nil, errors.New("tiff: packbits replicate run overruns buffer")
			}
			count := int(-n) + 1
			for k := 0; k < count; k++ {
				out = append(out, src[i])
			}
			i++
		}
	}
	return out, nil
}
