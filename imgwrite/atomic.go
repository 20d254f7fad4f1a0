// Package imgwrite encodes PNG and JPEG output containers with an embedded
// destination ICC profile, plus a standalone ICC sidecar writer, for callers
// that want a viewer-friendly container instead of the archival TIFF.
package imgwrite

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeAtomic writes buf to a temp file in path's directory, fsyncs, closes,
// then renames over path — the same sequence as tiffwrite's writer, used
// here independently since PNG/JPEG/sidecar output are written from
// in-memory buffers rather than a streaming encoder.
func writeAtomic(path string, buf []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".nclr-img-tmp-*")
	if err != nil {
		return fmt.Errorf("imgwrite: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("imgwrite: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("imgwrite: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("imgwrite: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("imgwrite: rename into place: %w", err)
	}
	return nil
}

// WriteSidecar writes iccProfile next to an output image as a standalone
// ".icc" file, for --write-icc.
func WriteSidecar(imagePath string, iccProfile []byte) error {
	ext := filepath.Ext(imagePath)
	sidecarPath := imagePath[:len(imagePath)-len(ext)] + ".icc"
	return writeAtomic(sidecarPath, iccProfile)
}
