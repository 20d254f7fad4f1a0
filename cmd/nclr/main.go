// Command nclr preprocesses archival-bound TIFF/PNG/JPEG images: it
// resolves each source's ICC color profile against a destination policy,
// applies a LittleCMS color transform, optionally quantizes to 8-bit with
// dithering, and writes the result as a baseline TIFF (or PNG/JPEG
// derivative) with the destination profile embedded.
package main

import (
	"os"

	"github.com/ndkarchive/nclr/cmd/nclr/internal/cli"
)

// version, commit and date are set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(cli.Run(version, commit, date))
}
