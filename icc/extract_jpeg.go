package icc

import (
	"bytes"
	"encoding/binary"
)

const (
	markerAPP2  = 0xFFE2
	iccSigLen   = 12
	iccSegHdr   = 14 // 12-byte signature + 1-byte sequence + 1-byte total
	iccSigMagic = "ICC_PROFILE\x00"
)

// ExtractJPEG reassembles an embedded ICC profile from APP2 markers: a
// segment belongs to the ICC stream iff its payload begins with the 12-byte
// "ICC_PROFILE\0" signature, each has a 1-based sequence number and total
// count, and reassembly concatenates segment payloads (after the 14-byte
// header) in sequence order. Missing sequence numbers or mismatched totals
// produce ok=false, never a hard failure; that result is the same as for a
// stream with no ICC segments at all, so callers cannot tell the two apart
// and no warning is raised for an incomplete segment set.
func ExtractJPEG(raw []byte) (data []byte, ok bool) {
	segments := scanAPP2ICCSegments(raw)
	if len(segments) == 0 {
		return nil, false
	}

	total := segments[0].total
	bySeq := make(map[byte][]byte, len(segments))
	for _, s := range segments {
		if s.total != total {
			return nil, false // mismatched totals across segments
		}
		bySeq[s.seq] = s.payload
	}
	if len(bySeq) != int(total) {
		return nil, false // missing sequence numbers
	}

	var buf bytes.Buffer
	for seq := byte(1); seq <= total; seq++ {
		p, present := bySeq[seq]
		if !present {
			return nil, false
		}
		buf.Write(p)
	}
	return buf.Bytes(), true
}

type iccSegment struct {
	seq, total byte
	payload    []byte
}

// scanAPP2ICCSegments walks the JPEG marker stream looking for APP2
// segments whose payload starts with the ICC_PROFILE signature. Marker
// scanning here is minimal, just enough to find segment boundaries rather
// than a full JPEG parse.
func scanAPP2ICCSegments(raw []byte) []iccSegment {
	var segs []iccSegment
	i := 2 // skip SOI (0xFFD8)
	for i+4 <= len(raw) {
		if raw[i] != 0xFF {
			i++
			continue
		}
		marker := uint16(raw[i])<<8 | uint16(raw[i+1])
		if marker == 0xFFD8 || marker == 0xFFD9 || (marker >= 0xFFD0 && marker <= 0xFFD7) {
			i += 2
			continue
		}
		if i+4 > len(raw) {
			break
		}
		segLen := int(binary.BigEndian.Uint16(raw[i+2 : i+4]))
		if segLen < 2 || i+2+segLen > len(raw) {
			break
		}
		payload := raw[i+4 : i+2+segLen]

		if marker == markerAPP2 && len(payload) >= iccSegHdr && bytes.HasPrefix(payload, []byte(iccSigMagic)) {
			segs = append(segs, iccSegment{
				seq:     payload[iccSigLen],
				total:   payload[iccSigLen+1],
				payload: payload[iccSegHdr:],
			})
		}

		// Marker 0xFFDA (SOS) begins entropy-coded scan data; ICC is always
		// carried before it, so stop scanning.
		if marker == 0xFFDA {
			break
		}
		i += 2 + segLen
	}
	return segs
}
