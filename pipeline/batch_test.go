package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverFilesNonRecursive(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.tif"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.png"), []byte("x"), 0o644))

	files, err := discoverFiles(root, false)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestDiscoverFilesRecursive(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.jpeg"), []byte("x"), 0o644))

	files, err := discoverFiles(root, true)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestBatchCollectsPerFileErrorsWithoutAborting(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	goodIn := filepath.Join(inDir, "good.tif")
	writeSourceTIFF(t, goodIn, 8)
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "bad.tif"), []byte("not a tiff"), 0o644))

	plan := skipICCPlan(fakeICCProfile(t), 8)
	result, err := Batch(nil, inDir, outDir, plan, BatchOptions{Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Errors, filepath.Join(inDir, "bad.tif"))
}

func TestBatchRefusesOverwriteByDefault(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	in := filepath.Join(inDir, "a.tif")
	writeSourceTIFF(t, in, 8)
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "a.tif"), []byte("existing"), 0o644))

	plan := skipICCPlan(fakeICCProfile(t), 8)
	result, err := Batch(nil, inDir, outDir, plan, BatchOptions{Workers: 1})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
}

func TestBatchEmptyDirectory(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	plan := skipICCPlan(fakeICCProfile(t), 8)
	result, err := Batch(nil, inDir, outDir, plan, BatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
}
