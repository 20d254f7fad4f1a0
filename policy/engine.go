package policy

import "fmt"

// Request is the caller-facing input to the Policy Engine: the explicit
// CLI flags the user set (as Options, unset fields nil), plus an optional
// preset name.
type Request struct {
	Preset   string // "" means no preset selected
	Explicit Options
}

// Resolve reconciles a Request into a frozen Plan, applying the precedence
// cascade: explicit flags, then the preset's expansion, then the resolved
// ndk-profile's own defaults, then global defaults.
func Resolve(req Request) (*Plan, error) {
	result := req.Explicit

	if req.Preset != "" {
		expansion, ok := presetExpansion(req.Preset)
		if !ok {
			return nil, fmt.Errorf("policy: unknown preset %q", req.Preset)
		}
		result.fillUnset(expansion)
	}

	profile := ProfileUCII
	if result.NDKProfile != nil {
		profile = *result.NDKProfile
	}
	result.fillUnset(ndkProfileDefaults(profile))
	result.fillUnset(globalDefaults())

	plan := &Plan{
		NDKProfile:      *result.NDKProfile,
		OutDepth:        *result.OutDepth,
		Intent:          *result.Intent,
		BPC:             *result.BPC,
		ToneMap:         *result.ToneMap,
		Dither:          *result.Dither,
		InputICCSource:  *result.InputICCSource,
		OutputICCPolicy: *result.OutputICCPolicy,
		SkipICC:         *result.SkipICC,
		WriteICCSidecar: *result.WriteICCSidecar,
		DebugICC:        *result.DebugICC,
		ForceOutICC:     *result.ForceOutICC,
	}

	// Enforced invariant: UC-I never carries an output ICC policy unless
	// the caller forced one.
	if plan.NDKProfile == ProfileUCI && !plan.ForceOutICC {
		plan.OutputICCPolicy = OutputICCPolicy{Kind: OutputNone}
	}

	// --force-out-icc on UC-I is ambiguous between sRGB and PreserveInput.
	// We pick sRGB, matching UC-II's observable behavior, so a forced UC-I
	// output is never silently a no-op when the source carries no embedded
	// profile.
	if plan.NDKProfile == ProfileUCI && plan.ForceOutICC && plan.OutputICCPolicy.Kind == OutputNone {
		plan.OutputICCPolicy = OutputICCPolicy{Kind: OutputSRGB}
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// TransformNeeded reports whether a color transform must run, given the
// Profile Resolver's source/destination comparison. skip_icc always wins and
// yields false; an output policy of None also yields false; otherwise a
// transform is needed only when source and destination differ.
func (p *Plan) TransformNeeded(sourceEqualsDestination bool) bool {
	if p.SkipICC {
		return false
	}
	if p.OutputICCPolicy.Kind == OutputNone {
		return false
	}
	return !sourceEqualsDestination
}
