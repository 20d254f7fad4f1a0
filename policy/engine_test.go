package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUnknownPreset(t *testing.T) {
	_, err := Resolve(Request{Preset: "bogus"})
	assert.Error(t, err)
}

func TestResolveGlobalDefaultsWhenNothingSet(t *testing.T) {
	plan, err := Resolve(Request{})
	require.NoError(t, err)
	assert.Equal(t, ProfileUCII, plan.NDKProfile)
	assert.Equal(t, 8, plan.OutDepth)
	assert.Equal(t, OutputSRGB, plan.OutputICCPolicy.Kind)
}

func TestResolveNDKMCPreset(t *testing.T) {
	plan, err := Resolve(Request{Preset: PresetNDKMC})
	require.NoError(t, err)
	assert.Equal(t, ProfileMC, plan.NDKProfile)
	assert.Equal(t, 16, plan.OutDepth)
	assert.Equal(t, OutputPreserveInput, plan.OutputICCPolicy.Kind)
}

func TestResolveNDKUCIPresetForcesNoOutputICC(t *testing.T) {
	plan, err := Resolve(Request{Preset: PresetNDKUCI})
	require.NoError(t, err)
	assert.Equal(t, ProfileUCI, plan.NDKProfile)
	assert.Equal(t, OutputNone, plan.OutputICCPolicy.Kind)
}

func TestResolveUCIForceOutICCFallsBackToSRGB(t *testing.T) {
	trueVal := true
	plan, err := Resolve(Request{
		Preset: PresetNDKUCI,
		Explicit: Options{
			ForceOutICC: &trueVal,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, OutputSRGB, plan.OutputICCPolicy.Kind)
}

func TestResolveExplicitOverridesPreset(t *testing.T) {
	depth := 16
	plan, err := Resolve(Request{
		Preset: PresetNDKUCII,
		Explicit: Options{
			OutDepth: &depth,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 16, plan.OutDepth) // explicit wins over uc-ii preset's 8
	assert.Equal(t, ProfileUCII, plan.NDKProfile)
}

func TestPlanTransformNeededRespectsSkipICC(t *testing.T) {
	plan := &Plan{SkipICC: true, OutputICCPolicy: OutputICCPolicy{Kind: OutputSRGB}}
	assert.False(t, plan.TransformNeeded(false))
}

func TestPlanTransformNeededNoopWhenEqual(t *testing.T) {
	plan := &Plan{OutputICCPolicy: OutputICCPolicy{Kind: OutputSRGB}}
	assert.False(t, plan.TransformNeeded(true))
	assert.True(t, plan.TransformNeeded(false))
}
