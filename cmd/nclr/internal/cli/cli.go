// Package cli implements the nclr root command: kong flag parsing, logger
// setup and dispatch to either a single-file pipeline.ProcessFile run or a
// directory pipeline.Batch run. The whole surface is one flat command,
// since nclr does exactly one operation (preprocess a file or a directory
// of files); single/batch mode follows from what the input path is.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/ndkarchive/nclr/cmd/nclr/internal/build"
	"github.com/ndkarchive/nclr/cmd/nclr/internal/config"
	"github.com/ndkarchive/nclr/cmd/nclr/internal/ui"
	"github.com/ndkarchive/nclr/pipeline"
	"github.com/ndkarchive/nclr/policy"
)

const (
	appName        = "nclr"
	appDescription = "ICC-aware archival image preprocessor"
)

// CLI is the complete flag surface: global logging flags, every execution
// plan input, the input/output paths and the directory-mode options.
type CLI struct {
	config.GlobalConfig

	Input  string `name:"input" required:"" help:"Source image file or directory."`
	Output string `name:"output" required:"" help:"Destination file or directory."`

	Preset string `name:"preset" enum:",ndk-mc,ndk-uc-i,ndk-uc-ii" default:"" help:"Workflow preset expanding a bundle of flags."`

	NdkProfile     *string `name:"ndk-profile" enum:"mc,uc-i,uc-ii" help:"NDK policy profile (default: uc-ii)."`
	DetectInputICC *string `name:"detect-input-icc" enum:"auto,srgb,file" help:"How the source ICC profile is determined."`
	InputICCFile   string  `name:"input-icc-file" type:"existingfile" help:"Source ICC profile file (required with --detect-input-icc=file)."`
	OutICC         string  `name:"out-icc" type:"existingfile" help:"Explicit destination ICC profile file."`
	ForceOutICC    *bool   `name:"force-out-icc" help:"Embed a destination profile even when ndk-profile=uc-i would otherwise suppress it."`
	WriteICC       *bool   `name:"write-icc" help:"Also write the destination ICC profile as a .icc sidecar."`
	DebugICC       *bool   `name:"debug-icc" help:"Print source/destination ICC header diagnostics to stdout."`

	Intent   *string `name:"intent" enum:"perceptual,relative,absolute,saturation" help:"LittleCMS rendering intent."`
	BPC      *bool   `name:"bpc" help:"Enable black point compensation."`
	OutDepth *string `name:"out-depth" enum:"b8,b16" help:"Output sample depth."`
	ToneMap  *string `name:"tone-map" enum:"none,gamma,perceptual" help:"16-to-8 tone curve used when quantizing."`
	Dither   *bool   `name:"dither" help:"Floyd-Steinberg dither when quantizing to 8-bit."`
	NoICC    *bool   `name:"no-icc" help:"Skip the color transform; copy samples through untouched."`

	Recursive bool   `name:"recursive" short:"r" help:"Recurse into subdirectories (directory mode only)."`
	OutExt    string `name:"out-ext" help:"Output container extension for directory mode (tif, png, jpg)."`
	Suffix    string `name:"suffix" help:"Suffix inserted before the extension for directory mode."`
	Overwrite bool   `name:"overwrite" help:"Overwrite existing output files."`
	Jobs      int    `name:"jobs" short:"j" help:"Worker pool size for directory mode (default: GOMAXPROCS)."`
}

// Run parses os.Args, executes the CLI and returns the process exit code.
// main calls os.Exit with the result.
func Run(version, commit, date string) int {
	build.SetBuildInfo(version, commit, date)

	cliStruct := &CLI{}
	parser, err := kong.New(cliStruct,
		kong.Name(appName),
		kong.Description(appDescription),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version, "commit": commit, "date": date},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return pipeline.ExitOther
	}
	if _, err := parser.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return pipeline.ExitUsage
	}

	logger := setupLogger(&cliStruct.GlobalConfig)
	ui.PrintBanner()
	logger.Debug("nclr starting", "version", version, "commit", commit, "build_date", date)

	return cliStruct.execute(logger)
}

// setupLogger configures the global charmbracelet/log logger from
// GlobalConfig.
func setupLogger(cfg *config.GlobalConfig) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})

	switch cfg.LogLevel {
	case "trace", "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	case "fatal":
		logger.SetLevel(log.FatalLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	if !cfg.Pretty {
		logger.SetFormatter(log.JSONFormatter)
	}

	log.SetDefault(logger)
	return logger
}

// execute resolves the Execution Plan, decides single-file vs directory
// mode from the Input path, runs the pipeline and returns the exit code.
func (c *CLI) execute(logger *log.Logger) int {
	req, err := c.buildRequest()
	if err != nil {
		logger.Error("bad flags", "error", err)
		return pipeline.ExitUsage
	}

	plan, err := policy.Resolve(req)
	if err != nil {
		logger.Error("policy resolution failed", "error", err)
		return pipeline.ExitUsage
	}

	info, err := os.Stat(c.Input)
	if err != nil {
		logger.Error("cannot stat input", "path", c.Input, "error", err)
		return pipeline.ExitUsage
	}

	ctx := context.Background()

	if info.IsDir() {
		opts := pipeline.BatchOptions{
			Workers:   c.Jobs,
			Recursive: c.Recursive,
			OutExt:    c.OutExt,
			Suffix:    c.Suffix,
			Overwrite: c.Overwrite,
			ProgressCallback: func(current, total int, path string, err error) {
				if err != nil {
					logger.Warn("file failed", "path", path, "error", err)
					return
				}
				logger.Debug("file ok", "path", path, "progress", fmt.Sprintf("%d/%d", current, total))
			},
		}
		result, err := pipeline.Batch(ctx, c.Input, c.Output, plan, opts)
		if err != nil {
			logger.Error("batch run failed", "error", err)
			return pipeline.ExitCodeFor(err)
		}
		ui.PrintBatchSummary(result)
		if result.Failed > 0 {
			return pipeline.ExitPartialBatch
		}
		return pipeline.ExitOK
	}

	res, err := pipeline.ProcessFile(ctx, c.Input, c.Output, plan)
	if err != nil {
		logger.Error("processing failed", "error", err)
		return pipeline.ExitCodeFor(err)
	}
	for _, w := range res.Warnings {
		logger.Warn(w)
	}
	if res.Debug != nil {
		printDebugICC(res.Debug)
	}
	logger.Info("processed", "input", res.InputPath, "output", res.OutputPath, "elapsed", res.Elapsed)
	return pipeline.ExitOK
}

// printDebugICC writes the --debug-icc profile diagnostics to stdout,
// keeping them separate from the stderr log stream so they can be captured
// independently.
func printDebugICC(d *pipeline.DebugICC) {
	printProfileInfo("source", d.Source)
	printProfileInfo("dest", d.Dest)
}

func printProfileInfo(role string, p *pipeline.ProfileDebugInfo) {
	if p == nil {
		return
	}
	fmt.Fprintf(os.Stdout, "%s icc: size=%d version=%s class=%s colorspace=%s pcs=%s intent=%d\n",
		role, p.SizeBytes, p.Version, p.DeviceClass, p.ColorSpace, p.PCS, p.RenderingIntent)
}
