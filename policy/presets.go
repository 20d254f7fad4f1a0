package policy

// Preset names for the --preset flag.
const (
	PresetNDKMC   = "ndk-mc"
	PresetNDKUCI  = "ndk-uc-i"
	PresetNDKUCII = "ndk-uc-ii"
)

// presetExpansion returns the Options a named preset expands to. An unknown
// name returns a zero Options and ok=false; the caller turns that into a
// usage error.
func presetExpansion(name string) (Options, bool) {
	switch name {
	case PresetNDKMC:
		return Options{
			NDKProfile: profilePtr(ProfileMC),
			OutDepth:   intPtr(16),
			InputICCSource: &InputICCSource{Kind: InputAuto},
			// out-icc left unset: resolves via the ndk-profile default (PreserveInput).
			Intent:  intentPtr(IntentPerceptual),
			BPC:     boolPtr(true),
			ToneMap: toneMapPtr(ToneMapNone),
			Dither:  boolPtr(false),
		}, true
	case PresetNDKUCI:
		return Options{
			NDKProfile:      profilePtr(ProfileUCI),
			OutDepth:        intPtr(8),
			InputICCSource:  &InputICCSource{Kind: InputAuto},
			OutputICCPolicy: &OutputICCPolicy{Kind: OutputNone},
			Intent:          intentPtr(IntentPerceptual),
			BPC:             boolPtr(true),
			ToneMap:         toneMapPtr(ToneMapNone),
			Dither:          boolPtr(false),
		}, true
	case PresetNDKUCII:
		return Options{
			NDKProfile:      profilePtr(ProfileUCII),
			OutDepth:        intPtr(8),
			InputICCSource:  &InputICCSource{Kind: InputAuto},
			OutputICCPolicy: &OutputICCPolicy{Kind: OutputSRGB},
			Intent:          intentPtr(IntentPerceptual),
			BPC:             boolPtr(true),
			ToneMap:         toneMapPtr(ToneMapPerceptual),
			Dither:          boolPtr(true),
		}, true
	default:
		return Options{}, false
	}
}

// ndkProfileDefaults returns the defaults implied purely by the chosen
// ndk-profile, applied after any preset but before global defaults.
func ndkProfileDefaults(profile NDKProfile) Options {
	switch profile {
	case ProfileMC:
		return Options{
			OutDepth:        intPtr(16),
			OutputICCPolicy: &OutputICCPolicy{Kind: OutputPreserveInput},
		}
	case ProfileUCII:
		return Options{
			OutputICCPolicy: &OutputICCPolicy{Kind: OutputSRGB},
		}
	default:
		return Options{}
	}
}

// globalDefaults returns the system-wide defaults used when neither
// explicit flags, a preset nor the ndk-profile supplied a value.
func globalDefaults() Options {
	return Options{
		NDKProfile:      profilePtr(ProfileUCII),
		OutDepth:        intPtr(8),
		Intent:          intentPtr(IntentPerceptual),
		BPC:             boolPtr(true),
		ToneMap:         toneMapPtr(ToneMapNone),
		Dither:          boolPtr(false),
		InputICCSource:  &InputICCSource{Kind: InputAuto},
		OutputICCPolicy: &OutputICCPolicy{Kind: OutputSRGB},
		SkipICC:         boolPtr(false),
		WriteICCSidecar: boolPtr(false),
		DebugICC:        boolPtr(false),
		ForceOutICC:     boolPtr(false),
	}
}
