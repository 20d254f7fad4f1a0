package cli

import (
	"testing"

	"github.com/ndkarchive/nclr/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestBuildRequestOnlySetsExplicitFlags(t *testing.T) {
	c := &CLI{Preset: "ndk-mc"}
	req, err := c.buildRequest()
	require.NoError(t, err)
	assert.Equal(t, "ndk-mc", req.Preset)
	assert.Nil(t, req.Explicit.NDKProfile)
	assert.Nil(t, req.Explicit.OutDepth)
	assert.Nil(t, req.Explicit.Intent)
}

func TestBuildRequestExplicitFlagsWin(t *testing.T) {
	c := &CLI{
		Preset:     "ndk-mc",
		NdkProfile: strPtr("uc-ii"),
		OutDepth:   strPtr("b8"),
		Dither:     boolPtr(true),
	}
	req, err := c.buildRequest()
	require.NoError(t, err)

	plan, err := policy.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, policy.ProfileUCII, plan.NDKProfile)
	assert.Equal(t, 8, plan.OutDepth)
	assert.True(t, plan.Dither)
}

func TestBuildOptionsDetectInputICCFileRequiresPath(t *testing.T) {
	c := &CLI{DetectInputICC: strPtr("file")}
	_, err := c.buildOptions()
	assert.Error(t, err)
}

func TestBuildOptionsDetectInputICCFileWithPath(t *testing.T) {
	c := &CLI{DetectInputICC: strPtr("file"), InputICCFile: "/tmp/profile.icc"}
	opts, err := c.buildOptions()
	require.NoError(t, err)
	require.NotNil(t, opts.InputICCSource)
	assert.Equal(t, policy.InputFile, opts.InputICCSource.Kind)
	assert.Equal(t, "/tmp/profile.icc", opts.InputICCSource.Path)
}

func TestParseOutDepth(t *testing.T) {
	v, err := parseOutDepth("b8")
	require.NoError(t, err)
	assert.Equal(t, 8, v)

	v, err = parseOutDepth("b16")
	require.NoError(t, err)
	assert.Equal(t, 16, v)

	_, err = parseOutDepth("b32")
	assert.Error(t, err)
}
