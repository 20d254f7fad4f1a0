package policy

// Options is the mutable, partially-populated form of a Plan: every field
// is an Option<T> (nil = unset). Three Options records — explicit CLI
// flags, a preset's expansion, and the chosen ndk-profile's defaults — are
// layered by fillUnset, highest precedence first, before a final global-
// defaults pass and validation freeze the result into a Plan.
type Options struct {
	NDKProfile *NDKProfile
	OutDepth   *int
	Intent     *Intent
	BPC        *bool
	ToneMap    *ToneMap
	Dither     *bool

	InputICCSource  *InputICCSource
	OutputICCPolicy *OutputICCPolicy
	SkipICC         *bool
	WriteICCSidecar *bool
	DebugICC        *bool
	ForceOutICC     *bool
}

// fillUnset copies every field set in src into o wherever o's own field is
// still nil. Called lowest-precedence-first is wrong; callers must apply
// this highest-precedence-first (explicit, then preset, then ndk-profile
// defaults, then global defaults), since fillUnset never overwrites a field
// o already has.
func (o *Options) fillUnset(src Options) {
	if o.NDKProfile == nil {
		o.NDKProfile = src.NDKProfile
	}
	if o.OutDepth == nil {
		o.OutDepth = src.OutDepth
	}
	if o.Intent == nil {
		o.Intent = src.Intent
	}
	if o.BPC == nil {
		o.BPC = src.BPC
	}
	if o.ToneMap == nil {
		o.ToneMap = src.ToneMap
	}
	if o.Dither == nil {
		o.Dither = src.Dither
	}
	if o.InputICCSource == nil {
		o.InputICCSource = src.InputICCSource
	}
	if o.OutputICCPolicy == nil {
		o.OutputICCPolicy = src.OutputICCPolicy
	}
	if o.SkipICC == nil {
		o.SkipICC = src.SkipICC
	}
	if o.WriteICCSidecar == nil {
		o.WriteICCSidecar = src.WriteICCSidecar
	}
	if o.DebugICC == nil {
		o.DebugICC = src.DebugICC
	}
	if o.ForceOutICC == nil {
		o.ForceOutICC = src.ForceOutICC
	}
}

func boolPtr(v bool) *bool                { return &v }
func intPtr(v int) *int                   { return &v }
func intentPtr(v Intent) *Intent          { return &v }
func toneMapPtr(v ToneMap) *ToneMap       { return &v }
func profilePtr(v NDKProfile) *NDKProfile { return &v }
