package raster

import (
	"bytes"
	"fmt"
	"os"
	"sync"
)

// Decoder decompresses a container's pixel payload into a canonical Raster.
//
// Implementations must be safe for concurrent use; the batch pipeline may
// invoke the same Decoder from multiple files in parallel.
type Decoder interface {
	// Decode parses raw to a Raster. raw is the complete file contents.
	Decode(raw []byte) (*Raster, error)

	// Sniff reports whether raw looks like this decoder's format, based on
	// a magic-byte prefix check only (no deep validation).
	Sniff(raw []byte) bool

	// Format returns the format this decoder handles.
	Format() Format
}

var (
	registryMu sync.RWMutex
	registry   = make(map[Format]Decoder)
	sniffOrder []Format
)

// RegisterDecoder registers a Decoder for a Format, replacing any existing
// registration. Safe for concurrent use.
func RegisterDecoder(d Decoder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[d.Format()]; !exists {
		sniffOrder = append(sniffOrder, d.Format())
	}
	registry[d.Format()] = d
}

// DecoderFor returns the Decoder registered for format, if any.
func DecoderFor(format Format) (Decoder, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[format]
	return d, ok
}

// sniff detects the container format from its magic bytes.
func sniff(raw []byte) (Format, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, f := range sniffOrder {
		if registry[f].Sniff(raw) {
			return f, true
		}
	}
	return "", false
}

// DecodeFile reads path, detects its format, and decodes it to a Raster.
// It also returns a Container holding the raw bytes so the ICC Extractor
// can re-scan the source without redecoding pixels.
func DecodeFile(path string) (*Raster, *Container, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("raster: read %s: %w", path, err)
	}
	return Decode(raw, path)
}

// Decode detects raw's format and decodes it. path is used only for error
// messages.
func Decode(raw []byte, path string) (*Raster, *Container, error) {
	format, ok := sniff(raw)
	if !ok {
		return nil, nil, &UnsupportedFormatError{Path: path}
	}
	d, _ := DecoderFor(format)
	r, err := d.Decode(raw)
	if err != nil {
		return nil, nil, &DecodeError{Path: path, Cause: err}
	}
	if err := r.Validate(); err != nil {
		return nil, nil, &DecodeError{Path: path, Cause: err}
	}
	return r, &Container{Format: format, Raw: raw}, nil
}

// hasPrefix is a small helper shared by the format sniffers.
func hasPrefix(raw, prefix []byte) bool {
	return bytes.HasPrefix(raw, prefix)
}
