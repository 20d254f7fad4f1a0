package icc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ndkarchive/nclr/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempProfile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.icc")
	require.NoError(t, os.WriteFile(path, fakeProfile(headerSize), 0o644))
	return path
}

func TestResolvePreserveInputWithExplicitFiles(t *testing.T) {
	path := writeTempProfile(t)
	plan := &policy.Plan{
		NDKProfile:      policy.ProfileMC,
		OutDepth:        16,
		Intent:          policy.IntentPerceptual,
		ToneMap:         policy.ToneMapNone,
		InputICCSource:  policy.InputICCSource{Kind: policy.InputFile, Path: path},
		OutputICCPolicy: policy.OutputICCPolicy{Kind: policy.OutputPreserveInput},
	}

	res, err := Resolve(nil, plan)
	require.NoError(t, err)
	assert.Equal(t, res.Source, res.Dest)
	assert.False(t, res.TransformNeeded) // identical source/dest, no-op
	assert.False(t, res.SourceAssumedSRGB)
}

func TestResolveOutputNoneSkipsTransform(t *testing.T) {
	path := writeTempProfile(t)
	plan := &policy.Plan{
		NDKProfile:      policy.ProfileUCI,
		OutDepth:        8,
		Intent:          policy.IntentPerceptual,
		ToneMap:         policy.ToneMapNone,
		InputICCSource:  policy.InputICCSource{Kind: policy.InputFile, Path: path},
		OutputICCPolicy: policy.OutputICCPolicy{Kind: policy.OutputNone},
	}

	res, err := Resolve(nil, plan)
	require.NoError(t, err)
	assert.Nil(t, res.Dest)
	assert.False(t, res.TransformNeeded)
}

func TestResolveSkipICCAlwaysDisablesTransform(t *testing.T) {
	srcPath := writeTempProfile(t)
	dstPath := writeTempProfile(t) // a distinct (but byte-identical) file is fine here
	plan := &policy.Plan{
		NDKProfile:      policy.ProfileUCII,
		OutDepth:        8,
		Intent:          policy.IntentPerceptual,
		ToneMap:         policy.ToneMapNone,
		InputICCSource:  policy.InputICCSource{Kind: policy.InputFile, Path: srcPath},
		OutputICCPolicy: policy.OutputICCPolicy{Kind: policy.OutputFile, Path: dstPath},
		SkipICC:         true,
	}

	res, err := Resolve(nil, plan)
	require.NoError(t, err)
	assert.False(t, res.TransformNeeded)
}
