package imgwrite

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallImage8() *Image {
	w, h := 3, 2
	px := make([]byte, w*h*3)
	for i := range px {
		px[i] = byte(i * 7)
	}
	return &Image{Width: w, Height: h, Depth: 8, Pixels: px}
}

func TestWritePNGWithoutICC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, WritePNG(path, smallImage8(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngSignature))

	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestWritePNGEmbedsICCP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	profile := bytes.Repeat([]byte{0xAB}, 300)
	require.NoError(t, WritePNG(path, smallImage8(), profile))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "iCCP")

	// Still a valid, decodable PNG with the chunk present.
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestWriteJPEGEmbedsAPP2(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	profile := bytes.Repeat([]byte{0xCD}, 200)
	require.NoError(t, WriteJPEG(path, smallImage8(), 90, profile))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), jpegICCHeader)
}

func TestInjectAPP2ICCSplitsLargeProfiles(t *testing.T) {
	minimalJPEG := []byte{0xFF, 0xD8, 0xFF, 0xD9} // SOI + EOI, no APP0
	profile := bytes.Repeat([]byte{0x01}, jpegMaxSegmentPayload+10)

	out, err := injectAPP2ICC(minimalJPEG, profile)
	require.NoError(t, err)

	count := bytes.Count(out, []byte(jpegICCHeader))
	assert.Equal(t, 2, count)
}

func TestWriteSidecar(t *testing.T) {
	imgPath := filepath.Join(t.TempDir(), "out.tif")
	require.NoError(t, WriteSidecar(imgPath, []byte("profile-bytes")))

	data, err := os.ReadFile(filepath.Join(filepath.Dir(imgPath), "out.icc"))
	require.NoError(t, err)
	assert.Equal(t, "profile-bytes", string(data))
}
