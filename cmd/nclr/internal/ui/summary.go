package ui

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/ndkarchive/nclr/pipeline"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2d9d78")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#d9534f")).Bold(true)
	headStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// PrintBatchSummary renders a directory run's outcome: a totals line and,
// when any files failed, a per-file error listing sorted by path so output
// is stable across runs despite the worker pool's completion order.
func PrintBatchSummary(result *pipeline.BatchResult) {
	fmt.Fprintln(os.Stdout, headStyle.Render("Batch summary"))
	fmt.Fprintf(os.Stdout, "  %s: %d\n", okStyle.Render("succeeded"), result.Succeeded)
	fmt.Fprintf(os.Stdout, "  %s: %d\n", failStyle.Render("failed"), result.Failed)
	fmt.Fprintf(os.Stdout, "  elapsed: %s\n", result.Duration.Round(1e6))

	if result.Failed == 0 {
		return
	}

	paths := make([]string, 0, len(result.Errors))
	for p := range result.Errors {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	fmt.Fprintln(os.Stdout, headStyle.Render("Failures"))
	for _, p := range paths {
		fmt.Fprintf(os.Stdout, "  %s: %v\n", p, result.Errors[p])
	}
}
