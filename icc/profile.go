// Package icc implements ICC profile extraction (TIFF tag 34675 and JPEG
// APP2 ICC_PROFILE reassembly), header parsing/validation, and the profile
// resolver that turns an embedded blob plus an execution plan into a
// source/destination profile pair.
package icc

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
)

// Header offsets within the 128-byte ICC profile header, per ICC.1:2022.
const (
	headerSize        = 128
	offProfileSize     = 0
	offCMMType         = 4
	offVersion         = 8
	offClass           = 12
	offColorSpace      = 16
	offPCS             = 20
	offSignature       = 36
	offPlatform        = 40
	offRenderingIntent = 64

	signature = "acsp"
)

// Blob is an opaque, validated ICC profile byte sequence.
type Blob struct {
	Data []byte
}

// Header holds the parsed fields of a Blob's 128-byte header, used for
// validation and --debug-icc diagnostics.
type Header struct {
	ProfileSize     uint32
	CMMType         [4]byte
	VersionMajor    byte
	VersionMinor    byte
	Class           [4]byte
	ColorSpace      [4]byte
	PCS             [4]byte
	Signature       [4]byte
	Platform        [4]byte
	RenderingIntent uint32
}

// ParseHeader parses and validates data's 128-byte ICC header. It does not
// validate the full tag table; that is LittleCMS's job when the profile is
// opened for a transform.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("icc: profile data too short: %d bytes (minimum %d)", len(data), headerSize)
	}
	h := &Header{
		ProfileSize:     binary.BigEndian.Uint32(data[offProfileSize : offProfileSize+4]),
		RenderingIntent: binary.BigEndian.Uint32(data[offRenderingIntent : offRenderingIntent+4]),
	}
	copy(h.CMMType[:], data[offCMMType:offCMMType+4])
	copy(h.Class[:], data[offClass:offClass+4])
	copy(h.ColorSpace[:], data[offColorSpace:offColorSpace+4])
	copy(h.PCS[:], data[offPCS:offPCS+4])
	copy(h.Signature[:], data[offSignature:offSignature+4])
	copy(h.Platform[:], data[offPlatform:offPlatform+4])
	h.VersionMajor = data[offVersion]
	h.VersionMinor = data[offVersion+1] >> 4

	if string(h.Signature[:]) != signature {
		return nil, fmt.Errorf("icc: invalid profile signature %q (want %q)", h.Signature[:], signature)
	}
	return h, nil
}

// Version returns "major.minor" for --debug-icc diagnostics.
func (h *Header) Version() string {
	return fmt.Sprintf("%d.%d", h.VersionMajor, h.VersionMinor)
}

// Validate checks that a present, non-empty blob parses as a well-formed
// 128-byte header, and that its declared ProfileSize matches the actual
// length within alignment padding (ICC profiles are padded to a 4-byte
// boundary). Anything else is "absent" with a recoverable warning, never a
// hard failure.
func Validate(data []byte) (*Blob, *Header, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, nil, err
	}
	actual := uint32(len(data))
	diff := int64(actual) - int64(h.ProfileSize)
	if diff < 0 {
		diff = -diff
	}
	if diff > 3 {
		return nil, nil, fmt.Errorf("icc: profile size mismatch: header says %d, actual %d", h.ProfileSize, actual)
	}
	return &Blob{Data: data}, h, nil
}

// MD5 returns the MD5 digest of the profile bytes, used by the resolver to
// compare source and destination profiles by identity.
func (b *Blob) MD5() [16]byte {
	return md5.Sum(b.Data)
}

// Equal reports whether two blobs are the same profile by comparing the MD5
// digests of their bytes. Two nil blobs are equal; a nil and a non-nil blob
// are not.
func Equal(a, b *Blob) bool {
	if a == nil || b == nil {
		return a == b
	}
	ah, bh := a.MD5(), b.MD5()
	return ah == bh
}
