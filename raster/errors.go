package raster

import (
	"errors"
	"fmt"
)

// Sentinel errors for the decode stage.
var (
	// ErrUnsupportedFormat indicates the file is not TIFF, PNG or JPEG.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrDecode indicates the payload is corrupt or violates its own
	// container format.
	ErrDecode = errors.New("decode error")
)

// UnsupportedFormatError wraps ErrUnsupportedFormat with the offending path.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedFormat.Error(), e.Path)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// DecodeError wraps ErrDecode with the offending path and underlying cause.
type DecodeError struct {
	Path  string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDecode.Error(), e.Path, e.Cause)
}

func (e *DecodeError) Unwrap() error { return ErrDecode }
