package quantize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTo8NoTonemap(t *testing.T) {
	assert.Equal(t, uint8(0), To8(0, ToneNone))
	assert.Equal(t, uint8(255), To8(65535, ToneNone))
	assert.Equal(t, uint8(128), To8(32768, ToneNone))
}

func TestReduceMatchesTo8(t *testing.T) {
	src := []uint16{0, 32768, 65535}
	out := Reduce(src, ToneGamma22)
	for i, s := range src {
		assert.Equal(t, To8(s, ToneGamma22), out[i])
	}
}

func TestDitherPlaneDeterministic(t *testing.T) {
	width, height := 16, 16
	src := make([]uint16, width*height)
	for i := range src {
		src[i] = uint16((i * 257) % 65536)
	}
	a := DitherPlane(src, width, height, ToneNone)
	b := DitherPlane(src, width, height, ToneNone)
	assert.Equal(t, a, b)
}

func TestDitherPlaneNoOverflow(t *testing.T) {
	width, height := 8, 8
	src := make([]uint16, width*height)
	for i := range src {
		src[i] = 65535
	}
	out := DitherPlane(src, width, height, ToneNone)
	for _, v := range out {
		assert.LessOrEqual(t, int(v), 255)
	}
}

func TestDitherPlaneNearSaturationStaysAdjacent(t *testing.T) {
	width, height := 32, 8
	src := make([]uint16, width*height)
	for i := range src {
		src[i] = 65380 // between codes 254 and 255; diffusion accumulates
	}
	out := DitherPlane(src, width, height, ToneNone)
	for _, v := range out {
		assert.Contains(t, []uint8{254, 255}, v)
	}
}

func TestBandsForRespectsMinRows(t *testing.T) {
	bands := bandsFor(100, 64, 8)
	assert.Len(t, bands, 1) // 100/64 = 1 max band

	bands = bandsFor(512, 64, 4)
	assert.Len(t, bands, 4)
	total := 0
	for _, b := range bands {
		total += b.end - b.start
	}
	assert.Equal(t, 512, total)
}
