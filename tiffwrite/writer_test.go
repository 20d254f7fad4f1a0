package tiffwrite

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallImage(depth int) *Image {
	w, h := 4, 3
	bps := depth / 8
	px := make([]byte, w*h*3*bps)
	for i := range px {
		px[i] = byte(i)
	}
	return &Image{Width: w, Height: h, Channels: 3, Depth: depth, Pixels: px}
}

func TestWriteFileRoundTripHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.tif")

	require.NoError(t, WriteFile(path, smallImage(8)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 8)
	assert.Equal(t, "II", string(data[0:2]))
	assert.Equal(t, uint16(42), binary.LittleEndian.Uint16(data[2:4]))

	ifdOffset := binary.LittleEndian.Uint32(data[4:8])
	require.Less(t, int(ifdOffset), len(data))
	numEntries := binary.LittleEndian.Uint16(data[ifdOffset : ifdOffset+2])
	assert.Equal(t, 14, int(numEntries)) // no ICC profile embedded
}

func TestWriteFileWithICCProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.tif")

	img := smallImage(16)
	img.ICCProfile = []byte("not-a-real-profile-but-long-enough")
	require.NoError(t, WriteFile(path, img))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	ifdOffset := binary.LittleEndian.Uint32(data[4:8])
	numEntries := binary.LittleEndian.Uint16(data[ifdOffset : ifdOffset+2])
	assert.Equal(t, 15, int(numEntries))
}

func TestWriteFileRejectsWrongPixelLength(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.tif")

	img := smallImage(8)
	img.Pixels = img.Pixels[:len(img.Pixels)-1]
	err := WriteFile(path, img)
	assert.Error(t, err)
}

func TestRowsPerStripBoundedByTarget(t *testing.T) {
	img := &Image{Width: 13000, Height: 10000, Channels: 3, Depth: 16}
	rows := img.rowsPerStrip()
	assert.Greater(t, rows, 0)
	assert.LessOrEqual(t, rows*img.bytesPerRow(), targetStripBytes)
}
