package pipeline

import (
	"encoding/binary"

	"github.com/ndkarchive/nclr/policy"
	"github.com/ndkarchive/nclr/quantize"
)

// samplesToUint16 decodes a big-endian 16-bit sample buffer (the canonical
// Raster's in-memory layout) into a native uint16 slice suitable for the
// Color Transform Engine and Quantizer.
func samplesToUint16(b []byte) []uint16 {
	out := make([]uint16, len(b)/2)
	for i := range out {
		out[i] = binary.BigEndian.Uint16(b[i*2 : i*2+2])
	}
	return out
}

// uint16ToSamples re-encodes a native uint16 slice back into the Raster's
// big-endian byte layout.
func uint16ToSamples(v []uint16) []byte {
	out := make([]byte, len(v)*2)
	for i, x := range v {
		binary.BigEndian.PutUint16(out[i*2:i*2+2], x)
	}
	return out
}

// quantizeToneMap converts a policy.ToneMap into the quantize package's own
// enum.
func quantizeToneMap(tm policy.ToneMap) quantize.ToneMap {
	switch tm {
	case policy.ToneMapGamma22:
		return quantize.ToneGamma22
	case policy.ToneMapPerceptual:
		return quantize.TonePerceptual
	default:
		return quantize.ToneNone
	}
}

// deinterleaveRGB splits an interleaved RGB sample buffer into three
// per-channel planes, the layout quantize.DitherPlane needs since
// Floyd-Steinberg error diffusion is carried independently per channel.
func deinterleaveRGB(src []uint16, pixelCount int) (r, g, b []uint16) {
	r = make([]uint16, pixelCount)
	g = make([]uint16, pixelCount)
	b = make([]uint16, pixelCount)
	for i := 0; i < pixelCount; i++ {
		r[i] = src[i*3]
		g[i] = src[i*3+1]
		b[i] = src[i*3+2]
	}
	return r, g, b
}

// interleaveRGB reassembles three per-channel 8-bit planes back into an
// interleaved RGB byte buffer.
func interleaveRGB(r, g, b []byte, pixelCount int) []byte {
	out := make([]byte, pixelCount*3)
	for i := 0; i < pixelCount; i++ {
		out[i*3] = r[i]
		out[i*3+1] = g[i]
		out[i*3+2] = b[i]
	}
	return out
}

// quantizeTo8 reduces an interleaved 16-bit RGB buffer to 8 bits, applying
// the plan's tone curve and, if requested, Floyd-Steinberg dithering.
//
// Dithering always runs single-threaded here: strict Floyd-Steinberg is
// inherently serial, and the band-parallel variant trades determinism for
// throughput, so this path never takes it — --dither output stays
// byte-identical across worker counts.
func quantizeTo8(src []uint16, width, height int, tm policy.ToneMap, dither bool) []byte {
	qtm := quantizeToneMap(tm)
	if !dither {
		return quantize.Reduce(src, qtm)
	}

	pixelCount := width * height
	rPlane, gPlane, bPlane := deinterleaveRGB(src, pixelCount)
	rOut := quantize.DitherPlane(rPlane, width, height, qtm)
	gOut := quantize.DitherPlane(gPlane, width, height, qtm)
	bOut := quantize.DitherPlane(bPlane, width, height, qtm)
	return interleaveRGB(rOut, gOut, bOut, pixelCount)
}
