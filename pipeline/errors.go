// Package pipeline wires the Decoder, ICC Extractor, Profile Resolver,
// Color Transform Engine, Quantizer and Writers into the single-file and
// batch orchestration described by the system overview: one file's worth
// of work end to end, plus a directory-walking worker pool for batches.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/ndkarchive/nclr/cms"
	"github.com/ndkarchive/nclr/raster"
)

// Sentinel errors for the pipeline-level entries of the error taxonomy, each
// reached through a typed wrapper below (the IO, ProfileLoad and Write
// wrappers also carry the offending path), following
// raster.ErrDecode/ErrUnsupportedFormat. The transform errors are typed
// structs in package cms with no sentinel.
var (
	ErrUsage       = errors.New("usage error")
	ErrIO          = errors.New("io error")
	ErrProfileLoad = errors.New("profile load error")
	ErrWrite       = errors.New("write error")
	ErrCancelled   = errors.New("cancelled")
)

// UsageError indicates a bad flag combination caught before any file is
// touched.
type UsageError struct {
	Cause error
}

func (e *UsageError) Error() string { return fmt.Sprintf("usage: %v", e.Cause) }
func (e *UsageError) Unwrap() error { return ErrUsage }

// IOError wraps a filesystem failure (read/stat/mkdir) unrelated to
// container decoding.
type IOError struct {
	Path  string
	Cause error
}

func (e *IOError) Error() string { return fmt.Sprintf("io: %s: %v", e.Path, e.Cause) }
func (e *IOError) Unwrap() error { return ErrIO }

// ProfileLoadError wraps a failure loading or parsing an explicit
// --input-icc-file/--out-icc profile.
type ProfileLoadError struct {
	Path  string
	Cause error
}

func (e *ProfileLoadError) Error() string {
	return fmt.Sprintf("profile load: %s: %v", e.Path, e.Cause)
}
func (e *ProfileLoadError) Unwrap() error { return ErrProfileLoad }

// WriteError wraps a failure producing the output container or ICC
// sidecar.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write: %s: %v", e.Path, e.Cause) }
func (e *WriteError) Unwrap() error { return ErrWrite }

// CancelledError wraps context cancellation observed between pipeline
// stages.
type CancelledError struct {
	Cause error
}

func (e *CancelledError) Error() string { return fmt.Sprintf("cancelled: %v", e.Cause) }
func (e *CancelledError) Unwrap() error { return ErrCancelled }

// Exit codes reported by the CLI surface.
const (
	ExitOK           = 0
	ExitUsage        = 2
	ExitDecode       = 3
	ExitProfile      = 4
	ExitTransform    = 5
	ExitWrite        = 6
	ExitPartialBatch = 7
	ExitOther        = 1
)

// ExitCodeFor classifies a single-file processing error into the exit
// code the CLI surface should report. A nil error is ExitOK.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	switch {
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.As(err, new(*raster.UnsupportedFormatError)), errors.As(err, new(*raster.DecodeError)):
		return ExitDecode
	case errors.Is(err, ErrProfileLoad):
		return ExitProfile
	case errors.As(err, new(*cms.TransformBuildError)), errors.As(err, new(*cms.TransformRuntimeError)):
		return ExitTransform
	case errors.Is(err, ErrWrite):
		return ExitWrite
	case errors.Is(err, ErrCancelled):
		return ExitOther
	default:
		return ExitOther
	}
}
