// Package raster defines the canonical in-memory image representation that
// flows through the color pipeline, plus the decoders that produce it from
// TIFF, PNG and JPEG containers.
package raster

import "fmt"

// Raster is a decoded, channel-interleaved, row-major pixel buffer.
//
// Invariant: len(Samples) == Width*Height*Channels*(Depth/8).
type Raster struct {
	Width, Height int
	Channels      int // 3 (RGB) or 4 (RGBA)
	Depth         int // 8 or 16 bits per sample
	Samples       []byte

	HasAlpha bool

	// XResolution/YResolution carry the source's resolution tags (in
	// ResolutionUnit units) so the TIFF writer can round-trip them. Zero
	// means "not present in the source".
	XResolution, YResolution float64
	ResolutionUnit           int // 1=none, 2=inch, 3=centimeter
}

// BytesPerSample returns Depth/8.
func (r *Raster) BytesPerSample() int {
	return r.Depth / 8
}

// Validate checks the Raster's length invariant.
func (r *Raster) Validate() error {
	want := r.Width * r.Height * r.Channels * r.BytesPerSample()
	if len(r.Samples) != want {
		return fmt.Errorf("raster: sample buffer length %d does not match %dx%dx%d@%dbit (want %d)",
			len(r.Samples), r.Width, r.Height, r.Channels, r.Depth, want)
	}
	if r.Channels != 3 && r.Channels != 4 {
		return fmt.Errorf("raster: unsupported channel count %d", r.Channels)
	}
	if r.Depth != 8 && r.Depth != 16 {
		return fmt.Errorf("raster: unsupported depth %d", r.Depth)
	}
	return nil
}

// DropAlpha returns a copy of the raster with the alpha channel removed.
// If the raster has no alpha channel, it is returned unchanged.
func (r *Raster) DropAlpha() *Raster {
	if r.Channels != 4 {
		return r
	}
	bps := r.BytesPerSample()
	out := &Raster{
		Width: r.Width, Height: r.Height,
		Channels: 3, Depth: r.Depth,
		XResolution: r.XResolution, YResolution: r.YResolution, ResolutionUnit: r.ResolutionUnit,
	}
	out.Samples = make([]byte, r.Width*r.Height*3*bps)
	srcStride := 4 * bps
	dstStride := 3 * bps
	for px := 0; px < r.Width*r.Height; px++ {
		copy(out.Samples[px*dstStride:px*dstStride+dstStride], r.Samples[px*srcStride:px*srcStride+dstStride])
	}
	return out
}

// Promote16 returns a 16-bit copy of an 8-bit raster using left-shift
// replication (v16 = (v8<<8)|v8), per the Color Transform Engine's
// promotion rule. If the raster is already 16-bit it is returned unchanged.
func (r *Raster) Promote16() *Raster {
	if r.Depth == 16 {
		return r
	}
	out := &Raster{
		Width: r.Width, Height: r.Height, Channels: r.Channels, Depth: 16,
		HasAlpha:       r.HasAlpha,
		XResolution:    r.XResolution,
		YResolution:    r.YResolution,
		ResolutionUnit: r.ResolutionUnit,
	}
	out.Samples = make([]byte, len(r.Samples)*2)
	for i, v8 := range r.Samples {
		v16 := uint16(v8)<<8 | uint16(v8)
		out.Samples[i*2] = byte(v16 >> 8)
		out.Samples[i*2+1] = byte(v16)
	}
	return out
}

// Format identifies a source/destination container format.
type Format string

const (
	FormatTIFF Format = "tiff"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// Container holds the raw bytes of a decoded file alongside its detected
// format, so the ICC Extractor can re-scan container metadata without
// re-running pixel decode.
type Container struct {
	Format Format
	Raw    []byte
}
