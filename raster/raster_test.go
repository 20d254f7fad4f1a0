package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRasterValidate(t *testing.T) {
	r := &Raster{Width: 2, Height: 2, Channels: 3, Depth: 8, Samples: make([]byte, 2*2*3)}
	require.NoError(t, r.Validate())

	bad := &Raster{Width: 2, Height: 2, Channels: 3, Depth: 8, Samples: make([]byte, 3)}
	assert.Error(t, bad.Validate())
}

func TestPromote16(t *testing.T) {
	r := &Raster{Width: 1, Height: 1, Channels: 3, Depth: 8, Samples: []byte{0x00, 0x80, 0xFF}}
	p := r.Promote16()
	require.Equal(t, 16, p.Depth)
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x80, 0xFF, 0xFF}, p.Samples)

	// Already 16-bit rasters are returned unchanged.
	same := p.Promote16()
	assert.Same(t, p, same)
}

func TestDropAlpha(t *testing.T) {
	r := &Raster{Width: 1, Height: 2, Channels: 4, Depth: 8, Samples: []byte{1, 2, 3, 255, 4, 5, 6, 255}}
	out := r.DropAlpha()
	require.Equal(t, 3, out.Channels)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, out.Samples)
}

func TestSniffUnsupportedFormat(t *testing.T) {
	_, _, err := Decode([]byte("not an image"), "bogus.bin")
	require.Error(t, err)
	var ufe *UnsupportedFormatError
	assert.ErrorAs(t, err, &ufe)
}
