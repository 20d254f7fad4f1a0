// Package policy implements the execution plan data model and the policy
// engine: reconciling explicit CLI flags, a workflow preset and an NDK
// policy profile into a single frozen plan.
//
// Precedence is explicit > preset > ndk-profile defaults > global defaults,
// applied as successive passes that only fill still-unset fields, never
// overwriting one a higher-precedence pass already set.
package policy

import "github.com/go-playground/validator/v10"

// NDKProfile is the archival/access policy profile, per the glossary.
type NDKProfile string

const (
	ProfileMC   NDKProfile = "mc"
	ProfileUCI  NDKProfile = "uc-i"
	ProfileUCII NDKProfile = "uc-ii"
)

// Intent is a LittleCMS rendering intent.
type Intent string

const (
	IntentPerceptual Intent = "perceptual"
	IntentRelative   Intent = "relative"
	IntentAbsolute   Intent = "absolute"
	IntentSaturation Intent = "saturation"
)

// ToneMap selects the 16->8 tone curve.
type ToneMap string

const (
	ToneMapNone       ToneMap = "none"
	ToneMapGamma22    ToneMap = "gamma"
	ToneMapPerceptual ToneMap = "perceptual"
)

// InputICCSourceKind selects how the source ICC profile is determined.
type InputICCSourceKind string

const (
	InputAuto      InputICCSourceKind = "auto"
	InputForceSRGB InputICCSourceKind = "srgb"
	InputFile      InputICCSourceKind = "file"
)

// InputICCSource is a tagged union: Auto/ForceSRGB carry no payload, File
// carries a path.
type InputICCSource struct {
	Kind InputICCSourceKind
	Path string
}

// OutputICCPolicyKind selects the destination ICC profile.
type OutputICCPolicyKind string

const (
	OutputNone          OutputICCPolicyKind = "none"
	OutputPreserveInput OutputICCPolicyKind = "preserve-input"
	OutputSRGB          OutputICCPolicyKind = "srgb"
	OutputFile          OutputICCPolicyKind = "file"
)

// OutputICCPolicy is a tagged union: None/PreserveInput/SRGB carry no
// payload, File carries a path.
type OutputICCPolicy struct {
	Kind OutputICCPolicyKind
	Path string
}

// Plan is the immutable Execution Plan, frozen after Resolve returns.
type Plan struct {
	NDKProfile NDKProfile `validate:"required,oneof=mc uc-i uc-ii"`
	OutDepth   int        `validate:"oneof=8 16"`
	Intent     Intent     `validate:"required,oneof=perceptual relative absolute saturation"`
	BPC        bool
	ToneMap    ToneMap `validate:"required,oneof=none gamma perceptual"`
	Dither     bool

	InputICCSource  InputICCSource
	OutputICCPolicy OutputICCPolicy
	SkipICC         bool
	WriteICCSidecar bool
	DebugICC        bool
	ForceOutICC     bool
}

var validate = validator.New()

// Validate enforces the struct-tag constraints above plus the cross-field
// invariants that bind ndk_profile to output_icc_policy.
func (p *Plan) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	if p.NDKProfile == ProfileUCI && !p.ForceOutICC && p.OutputICCPolicy.Kind != OutputNone {
		return errInvariant("ndk_profile=uc-i without force_out_icc requires output_icc_policy=None")
	}
	return nil
}

type invariantError struct{ msg string }

func (e *invariantError) Error() string { return "policy: invariant violated: " + e.msg }

func errInvariant(msg string) error { return &invariantError{msg: msg} }
