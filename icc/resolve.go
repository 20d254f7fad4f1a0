package icc

import (
	"fmt"
	"os"

	"github.com/ndkarchive/nclr/cms"
	"github.com/ndkarchive/nclr/policy"
)

// Resolution is the Profile Resolver's output: concrete source and
// destination ICC bytes (either may be nil), and whether a color transform
// is actually required to go from one to the other.
type Resolution struct {
	Source            []byte
	Dest              []byte
	SourceAssumedSRGB bool
	TransformNeeded   bool
	Warnings          []string
}

// Resolve turns an embedded profile (nil/empty if none was extracted) plus
// an Execution Plan's input/output ICC policy into a concrete source and
// destination profile pair.
//
// Open Question resolved here: when no profile is embedded and the plan
// asks for "auto" input detection, we assume the source is sRGB rather than
// refusing to process the file — matching the common convention that
// untagged RGB imagery is sRGB, and letting --input-icc-file/--detect-input-icc
// override it explicitly when that assumption is wrong for a given archive.
func Resolve(embedded []byte, plan *policy.Plan) (*Resolution, error) {
	res := &Resolution{}

	source, warn, err := resolveSource(embedded, plan)
	if err != nil {
		return nil, err
	}
	res.Source = source
	if warn != "" {
		res.Warnings = append(res.Warnings, warn)
	}
	// Only the auto path's sRGB fallbacks produce a warning; a forced sRGB
	// source or an explicit --input-icc-file is not an assumption.
	res.SourceAssumedSRGB = warn != ""

	dest, err := resolveDest(source, plan)
	if err != nil {
		return nil, err
	}
	res.Dest = dest

	equal := Equal(blobOrNil(res.Source), blobOrNil(res.Dest))
	res.TransformNeeded = plan.TransformNeeded(equal)

	return res, nil
}

func blobOrNil(data []byte) *Blob {
	if len(data) == 0 {
		return nil
	}
	return &Blob{Data: data}
}

func resolveSource(embedded []byte, plan *policy.Plan) (data []byte, warning string, err error) {
	switch plan.InputICCSource.Kind {
	case policy.InputForceSRGB:
		srgb, err := cms.BuiltinSRGB()
		if err != nil {
			return nil, "", fmt.Errorf("icc: resolve forced-sRGB source: %w", err)
		}
		return srgb, "", nil

	case policy.InputFile:
		data, err := os.ReadFile(plan.InputICCSource.Path)
		if err != nil {
			return nil, "", fmt.Errorf("icc: reading --input-icc-file %s: %w", plan.InputICCSource.Path, err)
		}
		if _, _, err := Validate(data); err != nil {
			return nil, "", fmt.Errorf("icc: --input-icc-file %s: %w", plan.InputICCSource.Path, err)
		}
		return data, "", nil

	default: // InputAuto
		if len(embedded) > 0 {
			if _, _, err := Validate(embedded); err == nil {
				return embedded, "", nil
			}
			// A malformed embedded profile is treated as absent, with a
			// warning, never a hard failure.
			srgb, err := cms.BuiltinSRGB()
			if err != nil {
				return nil, "", fmt.Errorf("icc: falling back from malformed embedded profile: %w", err)
			}
			return srgb, "embedded ICC profile is malformed; assuming sRGB", nil
		}
		srgb, err := cms.BuiltinSRGB()
		if err != nil {
			return nil, "", fmt.Errorf("icc: resolve default source: %w", err)
		}
		return srgb, "no embedded ICC profile found; assuming sRGB", nil
	}
}

func resolveDest(source []byte, plan *policy.Plan) ([]byte, error) {
	switch plan.OutputICCPolicy.Kind {
	case policy.OutputNone:
		return nil, nil
	case policy.OutputPreserveInput:
		return source, nil
	case policy.OutputFile:
		data, err := os.ReadFile(plan.OutputICCPolicy.Path)
		if err != nil {
			return nil, fmt.Errorf("icc: reading --out-icc %s: %w", plan.OutputICCPolicy.Path, err)
		}
		if _, _, err := Validate(data); err != nil {
			return nil, fmt.Errorf("icc: --out-icc %s: %w", plan.OutputICCPolicy.Path, err)
		}
		return data, nil
	default: // OutputSRGB
		srgb, err := cms.BuiltinSRGB()
		if err != nil {
			return nil, fmt.Errorf("icc: resolve sRGB destination: %w", err)
		}
		return srgb, nil
	}
}
