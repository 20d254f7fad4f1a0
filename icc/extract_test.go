package icc

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTIFFWithTags assembles a minimal little-endian TIFF: header, the
// profile bytes at offset 8, then an IFD whose entries are given as
// (tag, type, count, valueOffset) quadruples.
func buildTIFFWithTags(profile []byte, entries [][4]uint32) []byte {
	var out bytes.Buffer
	out.WriteString("II")
	binary.Write(&out, binary.LittleEndian, uint16(42))
	ifdOffset := uint32(8 + len(profile))
	binary.Write(&out, binary.LittleEndian, ifdOffset)
	out.Write(profile)

	binary.Write(&out, binary.LittleEndian, uint16(len(entries)))
	for _, e := range entries {
		binary.Write(&out, binary.LittleEndian, uint16(e[0]))
		binary.Write(&out, binary.LittleEndian, uint16(e[1]))
		binary.Write(&out, binary.LittleEndian, e[2])
		binary.Write(&out, binary.LittleEndian, e[3])
	}
	binary.Write(&out, binary.LittleEndian, uint32(0))
	return out.Bytes()
}

func TestExtractTIFFFindsTag34675(t *testing.T) {
	profile := fakeProfile(headerSize)
	raw := buildTIFFWithTags(profile, [][4]uint32{
		{tagICCProfile, 7, uint32(len(profile)), 8},
	})

	got, ok := ExtractTIFF(raw)
	require.True(t, ok)
	assert.Equal(t, profile, got)
}

func TestExtractTIFFAbsentTag(t *testing.T) {
	raw := buildTIFFWithTags(nil, [][4]uint32{
		{256, 4, 1, 100}, // ImageWidth only
	})
	_, ok := ExtractTIFF(raw)
	assert.False(t, ok)
}

func TestExtractTIFFToleratesMalformedVendorTags(t *testing.T) {
	profile := fakeProfile(headerSize)
	raw := buildTIFFWithTags(profile, [][4]uint32{
		{41995, 99, 1, 0xFFFFFFF0}, // bogus type and out-of-range offset
		{tagICCProfile, 7, uint32(len(profile)), 8},
	})

	got, ok := ExtractTIFF(raw)
	require.True(t, ok)
	assert.Equal(t, profile, got)
}

func TestExtractTIFFRejectsWrongType(t *testing.T) {
	profile := fakeProfile(headerSize)
	raw := buildTIFFWithTags(profile, [][4]uint32{
		{tagICCProfile, 4, uint32(len(profile) / 4), 8}, // LONG, not UNDEFINED
	})
	_, ok := ExtractTIFF(raw)
	assert.False(t, ok)
}

// buildJPEGWithICC assembles SOI + the given APP2 ICC segments + EOI. Each
// chunk entry supplies its sequence number, total count and payload slice.
func buildJPEGWithICC(chunks []iccSegment) []byte {
	var out bytes.Buffer
	out.Write([]byte{0xFF, 0xD8})
	for _, c := range chunks {
		payload := append([]byte(iccSigMagic), c.seq, c.total)
		payload = append(payload, c.payload...)
		segLen := len(payload) + 2
		out.Write([]byte{0xFF, 0xE2, byte(segLen >> 8), byte(segLen)})
		out.Write(payload)
	}
	out.Write([]byte{0xFF, 0xD9})
	return out.Bytes()
}

func TestExtractJPEGSingleSegment(t *testing.T) {
	raw := buildJPEGWithICC([]iccSegment{
		{seq: 1, total: 1, payload: []byte("profile-bytes")},
	})
	got, ok := ExtractJPEG(raw)
	require.True(t, ok)
	assert.Equal(t, []byte("profile-bytes"), got)
}

func TestExtractJPEGReassemblesOutOfOrderSegments(t *testing.T) {
	raw := buildJPEGWithICC([]iccSegment{
		{seq: 2, total: 2, payload: []byte("-second")},
		{seq: 1, total: 2, payload: []byte("first")},
	})
	got, ok := ExtractJPEG(raw)
	require.True(t, ok)
	assert.Equal(t, []byte("first-second"), got)
}

func TestExtractJPEGMissingSequenceNumber(t *testing.T) {
	raw := buildJPEGWithICC([]iccSegment{
		{seq: 1, total: 3, payload: []byte("a")},
		{seq: 3, total: 3, payload: []byte("c")},
	})
	_, ok := ExtractJPEG(raw)
	assert.False(t, ok)
}

func TestExtractJPEGMismatchedTotals(t *testing.T) {
	raw := buildJPEGWithICC([]iccSegment{
		{seq: 1, total: 2, payload: []byte("a")},
		{seq: 2, total: 3, payload: []byte("b")},
	})
	_, ok := ExtractJPEG(raw)
	assert.False(t, ok)
}

func TestExtractJPEGIgnoresNonICCAPP2(t *testing.T) {
	var out bytes.Buffer
	out.Write([]byte{0xFF, 0xD8})
	payload := []byte("MPF\x00not-icc-data")
	segLen := len(payload) + 2
	out.Write([]byte{0xFF, 0xE2, byte(segLen >> 8), byte(segLen)})
	out.Write(payload)
	out.Write([]byte{0xFF, 0xD9})

	_, ok := ExtractJPEG(out.Bytes())
	assert.False(t, ok)
}
