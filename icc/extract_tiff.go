package icc

import (
	"encoding/binary"
)

const tagICCProfile = 34675

// ExtractTIFF recovers the embedded ICC profile from a baseline TIFF file's
// first IFD: locate tag 34675 (type UNDEFINED, count = byte length) and
// return its byte range verbatim. Returns ok=false if the tag is absent.
// Unknown or malformed IFD entries other than 34675 never cause this to
// fail, matching the Image Decoder's tolerance of vendor tags.
func ExtractTIFF(raw []byte) (data []byte, ok bool) {
	off, n, found := findTIFFTag(raw, tagICCProfile)
	if !found {
		return nil, false
	}
	if int(off)+int(n) > len(raw) {
		return nil, false
	}
	return raw[off : off+n], true
}

// findTIFFTag does a minimal single-IFD scan for one tag's (offset, length)
// in the TIFF entry table, independent of raster.parseTIFFIFD so the ICC
// Extractor can re-scan a file for its embedded profile without redecoding
// pixels.
func findTIFFTag(raw []byte, tag uint16) (offset, length uint32, ok bool) {
	if len(raw) < 8 {
		return 0, 0, false
	}
	var order binary.ByteOrder
	switch string(raw[0:4]) {
	case "II\x2A\x00":
		order = binary.LittleEndian
	case "MM\x00\x2A":
		order = binary.BigEndian
	default:
		return 0, 0, false
	}
	ifdOffset := order.Uint32(raw[4:8])
	if int(ifdOffset)+2 > len(raw) {
		return 0, 0, false
	}
	numEntries := int(order.Uint16(raw[ifdOffset : ifdOffset+2]))
	base := int(ifdOffset) + 2
	const entryLen = 12

	for i := 0; i < numEntries; i++ {
		off := base + i*entryLen
		if off+entryLen > len(raw) {
			return 0, 0, false
		}
		entryTag := order.Uint16(raw[off : off+2])
		if entryTag != tag {
			continue
		}
		typ := order.Uint16(raw[off+2 : off+4])
		count := order.Uint32(raw[off+4 : off+8])
		if typ != 7 { // UNDEFINED
			return 0, 0, false
		}
		if count <= 4 {
			// Degenerate but technically legal: value lives inline. Not a
			// realistic ICC profile size, treated as absent.
			return 0, 0, false
		}
		dataOff := order.Uint32(raw[off+8 : off+12])
		return dataOff, count, true
	}
	return 0, 0, false
}
