package pipeline

import "github.com/ndkarchive/nclr/icc"

// ProfileDebugInfo is the --debug-icc diagnostic payload for one profile:
// size, version, device class, color space and PCS, plus the rendering
// intent declared in the profile header itself (distinct from the plan's
// chosen transform intent).
type ProfileDebugInfo struct {
	SizeBytes       int
	Version         string
	DeviceClass     string
	ColorSpace      string
	PCS             string
	RenderingIntent uint32
}

// describeProfile builds a ProfileDebugInfo from raw profile bytes. A blob
// that fails header parsing (should not happen for anything that reached
// this point, since resolution already validated it) yields a zero value
// with just the size filled in.
func describeProfile(data []byte) *ProfileDebugInfo {
	if len(data) == 0 {
		return nil
	}
	h, err := icc.ParseHeader(data)
	if err != nil {
		return &ProfileDebugInfo{SizeBytes: len(data)}
	}
	return &ProfileDebugInfo{
		SizeBytes:       len(data),
		Version:         h.Version(),
		DeviceClass:     string(h.Class[:]),
		ColorSpace:      string(h.ColorSpace[:]),
		PCS:             string(h.PCS[:]),
		RenderingIntent: h.RenderingIntent,
	}
}

// DebugICC bundles the source and destination profile diagnostics for a
// single file, populated only when the plan's DebugICC flag is set.
type DebugICC struct {
	Source *ProfileDebugInfo
	Dest   *ProfileDebugInfo
}
