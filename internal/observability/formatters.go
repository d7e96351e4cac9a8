// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jonathan/easel/internal/archive"
	"github.com/jonathan/easel/internal/latex"
	"github.com/jonathan/easel/internal/packet"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// logTailLines is how much typesetter output a compilation box shows
	logTailLines = 8
)

var variantLabels = map[int]string{
	packet.VariantPrimary:         "primary",
	packet.VariantWithResume:      "primary + resume",
	packet.VariantWithReferences:  "primary + resume + recommendations",
	packet.VariantComplete:        "complete packet",
	packet.VariantResume:          "resume",
	packet.VariantTranscript:      "transcript",
	packet.VariantRecommendations: "recommendations",
}

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAssembly outputs the variants produced for one run directory.
func (p *Printer) PrintAssembly(result *packet.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run directory: %s\n", filepath.Base(filepath.Dir(result.PrimaryPath))))
	sb.WriteString(fmt.Sprintf("Variants:      %d\n\n", len(result.Variants)))

	for _, v := range result.Variants {
		sb.WriteString(fmt.Sprintf("  %d  %s\n", v.Index, variantLabels[v.Index]))
	}

	p.printBox("ASSEMBLED PACKET", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMigration outputs what one archive pass did.
func (p *Printer) PrintMigration(report *archive.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	if report.DryRun {
		sb.WriteString("Dry run: nothing was changed\n\n")
	}
	sb.WriteString(fmt.Sprintf("Scanned:       %d\n", report.Scanned))
	sb.WriteString(fmt.Sprintf("From today:    %d\n", len(report.SkippedToday)))
	sb.WriteString(fmt.Sprintf("Malformed:     %d\n", len(report.Malformed)))
	sb.WriteString(fmt.Sprintf("Archived:      %d\n", len(report.Archived)))
	sb.WriteString(fmt.Sprintf("Removed:       %d\n", len(report.Removed)))
	sb.WriteString(fmt.Sprintf("Failures:      %d\n", len(report.Failures)))

	if len(report.Archived) > 0 {
		sb.WriteString("\nArchived documents:\n")
		count := min(len(report.Archived), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", filepath.Base(report.Archived[i].Destination)))
		}
		if len(report.Archived) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.Archived)-maxItemsToShow))
		}
	}

	if len(report.Failures) > 0 {
		sb.WriteString("\nFailures:\n")
		for _, f := range report.Failures {
			sb.WriteString(fmt.Sprintf("  ✗ %s: %s\n", f.RunDirectory, f.Message))
		}
	}

	p.printBox("ARCHIVE PASS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCompilation outputs the typesetter result with the tail of its log.
func (p *Printer) PrintCompilation(result *latex.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Output:   %s\n", filepath.Base(result.PDFPath)))
	sb.WriteString(fmt.Sprintf("Duration: %s\n", result.Duration.Round(1e6)))

	if tail := lastLines(result.LogOutput(), logTailLines); tail != "" {
		sb.WriteString("\n")
		sb.WriteString(tail)
	}

	p.printBox("COMPILATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCompilationError outputs a failed compilation with the tail of its log.
func (p *Printer) PrintCompilationError(err *latex.CompilationError) {
	if err == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✗ %s\n", err.Message))
	if tail := lastLines(err.LogOutput, logTailLines); tail != "" {
		sb.WriteString("\n")
		sb.WriteString(tail)
	}

	p.printBox("COMPILATION FAILED", strings.TrimSuffix(sb.String(), "\n"))
}

func lastLines(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n") + "\n"
}
