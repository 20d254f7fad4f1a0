package cli

import (
	"fmt"

	"github.com/ndkarchive/nclr/policy"
)

// buildRequest turns the flags the user actually set into a policy.Request.
// Every Execution Plan flag is a pointer (or, for path flags, an empty
// string) so an absent flag leaves the matching Options field nil and the
// Policy Engine's preset/ndk-profile/global-default cascade decides it,
// rather than a kong struct-tag default silently masquerading as an
// explicit choice.
func (c *CLI) buildRequest() (policy.Request, error) {
	opts, err := c.buildOptions()
	if err != nil {
		return policy.Request{}, err
	}
	return policy.Request{Preset: c.Preset, Explicit: opts}, nil
}

func (c *CLI) buildOptions() (policy.Options, error) {
	var opts policy.Options

	if c.NdkProfile != nil {
		v := policy.NDKProfile(*c.NdkProfile)
		opts.NDKProfile = &v
	}
	if c.OutDepth != nil {
		depth, err := parseOutDepth(*c.OutDepth)
		if err != nil {
			return opts, err
		}
		opts.OutDepth = &depth
	}
	if c.Intent != nil {
		v := policy.Intent(*c.Intent)
		opts.Intent = &v
	}
	if c.BPC != nil {
		opts.BPC = c.BPC
	}
	if c.ToneMap != nil {
		v := policy.ToneMap(*c.ToneMap)
		opts.ToneMap = &v
	}
	if c.Dither != nil {
		opts.Dither = c.Dither
	}

	if c.DetectInputICC != nil {
		kind := policy.InputICCSourceKind(*c.DetectInputICC)
		src := &policy.InputICCSource{Kind: kind}
		if kind == policy.InputFile {
			if c.InputICCFile == "" {
				return opts, fmt.Errorf("--detect-input-icc=file requires --input-icc-file")
			}
			src.Path = c.InputICCFile
		}
		opts.InputICCSource = src
	}

	if c.OutICC != "" {
		opts.OutputICCPolicy = &policy.OutputICCPolicy{Kind: policy.OutputFile, Path: c.OutICC}
	}
	if c.ForceOutICC != nil {
		opts.ForceOutICC = c.ForceOutICC
	}
	if c.WriteICC != nil {
		opts.WriteICCSidecar = c.WriteICC
	}
	if c.DebugICC != nil {
		opts.DebugICC = c.DebugICC
	}
	if c.NoICC != nil {
		opts.SkipICC = c.NoICC
	}

	return opts, nil
}

func parseOutDepth(v string) (int, error) {
	switch v {
	case "b8":
		return 8, nil
	case "b16":
		return 16, nil
	default:
		return 0, fmt.Errorf("invalid --out-depth %q", v)
	}
}
