// Package ui renders the nclr CLI's terminal-facing output: the startup
// banner and the post-run batch summary.
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	figure "github.com/common-nighthawk/go-figure"
)

// BannerStyle colors the ASCII-art banner.
var BannerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#2d9d78")).
	Bold(true)

// SubtleStyle is used for secondary, dimmed lines.
var SubtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// PrintBanner prints the "nclr" ASCII art banner to stderr.
func PrintBanner() {
	banner := figure.NewFigure("nclr", "banner3", true)
	fmt.Fprintln(os.Stderr, BannerStyle.Render(banner.String()))
	fmt.Fprintln(os.Stderr, SubtleStyle.Render("ICC-aware archival image preprocessor"))
	fmt.Fprintln(os.Stderr)
}
