//go:build !cgo
// +build !cgo

package cms

import "fmt"

// BuildTransform is a stub when CGo is disabled. Color transforms require
// LittleCMS via CGo; without it, any run needing a transform fails when the
// transform is built rather than silently skipping color management.
func BuildTransform(srcICC, dstICC []byte, intent Intent, bpc bool) (Transform, error) {
	return nil, &TransformBuildError{
		Stage: "create-transform",
		Cause: fmt.Errorf("color transforms require CGo and LittleCMS (liblcms2). " +
			"Rebuild with CGO_ENABLED=1"),
	}
}

// BuiltinSRGB is a stub when CGo is disabled.
func BuiltinSRGB() ([]byte, error) {
	return nil, fmt.Errorf("cms: builtin sRGB profile requires CGo and LittleCMS (liblcms2)")
}
