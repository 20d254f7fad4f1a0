package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ndkarchive/nclr/policy"
)

// supportedInputExt is the set of source extensions the directory walker
// recognizes; anything else is skipped rather than failed, since a batch
// directory commonly holds sidecars (.icc, .txt, thumbnails) alongside the
// rasters it should touch.
var supportedInputExt = map[string]bool{
	".tif": true, ".tiff": true, ".png": true, ".jpg": true, ".jpeg": true,
}

// BatchOptions configures directory traversal and per-file output naming.
type BatchOptions struct {
	// Workers is the worker pool size. Default: runtime.GOMAXPROCS(0).
	Workers int

	// Recursive enables recursive directory traversal.
	Recursive bool

	// OutExt overrides the output container extension (e.g. "tif", "png").
	// Empty means "same format as the writer would otherwise pick for the
	// source extension" (baseline TIFF).
	OutExt string

	// Suffix is appended to each output file's base name before the
	// extension (e.g. "_norm" -> "page01_norm.tif").
	Suffix string

	// Overwrite allows writing over an existing output file. Without it,
	// an existing output file is reported as a per-file error rather than
	// clobbered.
	Overwrite bool

	// ProgressCallback is invoked after each file completes (success or
	// failure), under the caller's own synchronization.
	ProgressCallback func(current, total int, path string, err error)
}

// BatchResult aggregates a directory run's outcome.
type BatchResult struct {
	Succeeded int
	Failed    int
	Errors    map[string]error
	Results   map[string]*Result
	Duration  time.Duration
}

// Batch walks inputDir for TIFF/PNG/JPEG files and runs each through
// ProcessFile, writing outputs into outputDir (mirroring inputDir's
// relative layout) under a fixed-size worker pool. Per-file errors never
// abort the batch; they are collected in BatchResult.Errors and the
// caller is expected to report exit code 7 if any are present.
func Batch(ctx context.Context, inputDir, outputDir string, plan *policy.Plan, opts BatchOptions) (*BatchResult, error) {
	start := time.Now()

	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, &IOError{Path: inputDir, Cause: err}
	}
	if !info.IsDir() {
		return nil, wrapUsage("input path %s is not a directory", inputDir)
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	files, err := discoverFiles(inputDir, opts.Recursive)
	if err != nil {
		return nil, &IOError{Path: inputDir, Cause: err}
	}

	result := &BatchResult{Errors: make(map[string]error), Results: make(map[string]*Result)}
	if len(files) == 0 {
		result.Duration = time.Since(start)
		return result, nil
	}

	type job struct{ inPath, outPath string }
	type jobResult struct {
		inPath string
		res    *Result
		err    error
	}

	jobs := make(chan job, len(files))
	results := make(chan jobResult, len(files))

	var wg sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				r, err := processOne(ctx, j.inPath, j.outPath, plan, opts.Overwrite)
				results <- jobResult{inPath: j.inPath, res: r, err: err}
			}
		}()
	}

	for _, f := range files {
		outPath := computeOutputPath(f, inputDir, outputDir, opts.OutExt, opts.Suffix)
		jobs <- job{inPath: f, outPath: outPath}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	total := len(files)
	current := 0
	for r := range results {
		current++
		if r.err != nil {
			result.Failed++
			result.Errors[r.inPath] = r.err
		} else {
			result.Succeeded++
			result.Results[r.inPath] = r.res
		}
		if opts.ProgressCallback != nil {
			opts.ProgressCallback(current, total, r.inPath, r.err)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// processOne guards a single batch job with the overwrite check before
// delegating to ProcessFile.
func processOne(ctx context.Context, inPath, outPath string, plan *policy.Plan, overwrite bool) (*Result, error) {
	if !overwrite {
		if _, err := os.Stat(outPath); err == nil {
			return nil, wrapUsage("output %s already exists (pass --overwrite to replace it)", outPath)
		}
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &IOError{Path: dir, Cause: err}
		}
	}
	return ProcessFile(ctx, inPath, outPath, plan)
}

// discoverFiles walks root collecting files whose extension is a
// recognized input format, honoring recursive.
func discoverFiles(root string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return nil // tolerate unreadable entries
		}
		if fi.IsDir() {
			if !recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if supportedInputExt[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("directory walk failed: %w", err)
	}
	return files, nil
}

// computeOutputPath mirrors inputPath's location relative to inputRoot
// under outputRoot, swapping its extension (to outExt if given, else the
// default baseline-TIFF extension) and inserting suffix before the
// extension.
func computeOutputPath(inputPath, inputRoot, outputRoot, outExt, suffix string) string {
	rel, err := filepath.Rel(inputRoot, inputPath)
	if err != nil {
		rel = filepath.Base(inputPath)
	}

	ext := outExt
	if ext == "" {
		ext = "tif"
	}
	ext = strings.TrimPrefix(ext, ".")

	dir := filepath.Dir(rel)
	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	name := base + suffix + "." + ext

	if dir == "." {
		return filepath.Join(outputRoot, name)
	}
	return filepath.Join(outputRoot, dir, name)
}
