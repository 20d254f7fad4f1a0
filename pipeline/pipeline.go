package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ndkarchive/nclr/cms"
	"github.com/ndkarchive/nclr/icc"
	"github.com/ndkarchive/nclr/imgwrite"
	"github.com/ndkarchive/nclr/policy"
	"github.com/ndkarchive/nclr/raster"
	"github.com/ndkarchive/nclr/tiffwrite"
)

// OutputFormat identifies the container the Writer stage produces.
type OutputFormat string

const (
	OutputTIFF OutputFormat = "tiff"
	OutputPNG  OutputFormat = "png"
	OutputJPEG OutputFormat = "jpeg"
)

// FormatFromExt maps an output path's extension to an OutputFormat,
// defaulting to OutputTIFF (the archival default) for anything else.
func FormatFromExt(path string) OutputFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return OutputPNG
	case ".jpg", ".jpeg":
		return OutputJPEG
	default:
		return OutputTIFF
	}
}

// JPEGQuality is the quality passed to the JPEG writer for output
// containers. There is no CLI flag for it; a single fixed value is used
// for viewer-facing derivatives.
const JPEGQuality = 92

// Result summarizes one file's run: warnings surfaced along the way plus
// the debug diagnostics when the plan asked for them.
type Result struct {
	InputPath, OutputPath string
	Format                OutputFormat
	Warnings              []string
	Debug                 *DebugICC
	Elapsed               time.Duration
}

// ProcessFile runs one file through the complete pipeline: decode, extract
// embedded ICC, resolve source/destination profiles, color-transform at
// 16-bit precision, quantize to the plan's output depth, and write the
// result atomically to outputPath. ctx is polled between stages only,
// never mid-stage; stages are batch operations on full rasters.
func ProcessFile(ctx context.Context, inputPath, outputPath string, plan *policy.Plan) (*Result, error) {
	start := time.Now()
	res := &Result{InputPath: inputPath, OutputPath: outputPath, Format: FormatFromExt(outputPath)}

	if err := checkCancel(ctx); err != nil {
		return nil, err
	}

	r, container, err := raster.DecodeFile(inputPath)
	if err != nil {
		return nil, err
	}

	if err := checkCancel(ctx); err != nil {
		return nil, err
	}

	embedded, warn := extractEmbedded(container)
	if warn != "" {
		res.Warnings = append(res.Warnings, warn)
	}

	resolution, err := icc.Resolve(embedded, plan)
	if err != nil {
		return nil, &ProfileLoadError{Path: inputPath, Cause: err}
	}
	res.Warnings = append(res.Warnings, resolution.Warnings...)

	if err := checkCancel(ctx); err != nil {
		return nil, err
	}

	r = r.DropAlpha()
	r16 := r.Promote16()
	working := samplesToUint16(r16.Samples)

	if resolution.TransformNeeded {
		xform, err := cms.BuildTransform(resolution.Source, resolution.Dest, cmsIntent(plan.Intent), effectiveBPC(plan))
		if err != nil {
			return nil, err
		}
		transformed, err := applyTransformParallel(xform, working, r16.Width, r16.Height)
		closeErr := xform.Close()
		if err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, &cms.TransformRuntimeError{Cause: closeErr}
		}
		working = transformed
	}

	if err := checkCancel(ctx); err != nil {
		return nil, err
	}

	var outPixels []byte
	outDepth := plan.OutDepth
	if outDepth == 16 {
		outPixels = uint16ToSamples(working)
	} else {
		outPixels = quantizeTo8(working, r16.Width, r16.Height, plan.ToneMap, plan.Dither)
	}

	var iccToEmbed []byte
	if !plan.SkipICC {
		iccToEmbed = resolution.Dest
	}

	if plan.DebugICC {
		res.Debug = &DebugICC{
			Source: describeProfile(resolution.Source),
			Dest:   describeProfile(resolution.Dest),
		}
	}

	if err := writeOutput(res.Format, outputPath, r16.Width, r16.Height, outDepth, outPixels, iccToEmbed, r16); err != nil {
		return nil, &WriteError{Path: outputPath, Cause: err}
	}

	if plan.WriteICCSidecar && len(iccToEmbed) > 0 {
		if err := imgwrite.WriteSidecar(outputPath, iccToEmbed); err != nil {
			return nil, &WriteError{Path: outputPath, Cause: err}
		}
	}

	res.Elapsed = time.Since(start)
	return res, nil
}

// extractEmbedded dispatches to the format-specific ICC extraction path
// (TIFF tag 34675 or JPEG APP2). PNG sources always resolve as if no
// profile were embedded.
func extractEmbedded(c *raster.Container) (data []byte, warning string) {
	switch c.Format {
	case raster.FormatTIFF:
		if blob, ok := icc.ExtractTIFF(c.Raw); ok {
			return blob, ""
		}
		return nil, ""
	case raster.FormatJPEG:
		if blob, ok := icc.ExtractJPEG(c.Raw); ok {
			return blob, ""
		}
		return nil, ""
	default:
		return nil, ""
	}
}

// writeOutput dispatches to the TIFF, PNG or JPEG writer based on format,
// carrying the source raster's resolution tags forward for TIFF output.
func writeOutput(format OutputFormat, path string, width, height, depth int, pixels, iccProfile []byte, src *raster.Raster) error {
	switch format {
	case OutputPNG:
		return imgwrite.WritePNG(path, &imgwrite.Image{Width: width, Height: height, Depth: depth, Pixels: pixels}, iccProfile)
	case OutputJPEG:
		return imgwrite.WriteJPEG(path, &imgwrite.Image{Width: width, Height: height, Depth: depth, Pixels: pixels}, JPEGQuality, iccProfile)
	default:
		return tiffwrite.WriteFile(path, &tiffwrite.Image{
			Width: width, Height: height, Channels: 3, Depth: depth,
			Pixels:         pixels,
			ICCProfile:     iccProfile,
			XResolution:    src.XResolution,
			YResolution:    src.YResolution,
			ResolutionUnit: src.ResolutionUnit,
		})
	}
}

// checkCancel polls ctx for cancellation. A nil context (the convenience
// single-file API) never cancels.
func checkCancel(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return &CancelledError{Cause: ctx.Err()}
	default:
		return nil
	}
}

// wrapUsage is a small helper batch.go and cmd/nclr use to report a
// pre-flight flag error using the taxonomy's UsageError.
func wrapUsage(format string, args ...interface{}) error {
	return &UsageError{Cause: fmt.Errorf(format, args...)}
}
