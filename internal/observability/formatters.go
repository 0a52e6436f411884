// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/admirror/internal/confidence"
	"github.com/jonathan/admirror/internal/types"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

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

// PrintClassificationStats outputs a summary of a classification run.
func (p *Printer) PrintClassificationStats(stats types.ClassificationStats) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Competitors:    %d\n", stats.Total))
	sb.WriteString(fmt.Sprintf("Classified:     %d\n", stats.Classified))
	sb.WriteString(fmt.Sprintf("Track changes:  %d\n", stats.TrackChanges))
	sb.WriteString(fmt.Sprintf("Ads scored:     %d\n", stats.AdsScored))
	if stats.Failed > 0 {
		sb.WriteString(fmt.Sprintf("Failed:         %d\n", stats.Failed))
	}
	sb.WriteString(fmt.Sprintf("Duration:       %dms", stats.DurationMs))

	p.printBox("TRACK CLASSIFICATION", sb.String())
}

// PrintTaggingStats outputs a summary of an image tagging run.
func (p *Printer) PrintTaggingStats(stats types.TaggingStats) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Selected:   %d\n", stats.Total))
	sb.WriteString(fmt.Sprintf("Tagged:     %d\n", stats.Tagged))
	sb.WriteString(fmt.Sprintf("Deduped:    %d\n", stats.Deduped))
	sb.WriteString(fmt.Sprintf("Failed:     %d\n", stats.Failed))
	sb.WriteString(fmt.Sprintf("Skipped:    %d\n", stats.Skipped))
	sb.WriteString(fmt.Sprintf("AI spend:   $%.4f\n", stats.TotalCostUSD))
	sb.WriteString(fmt.Sprintf("Duration:   %dms", stats.DurationMs))

	p.printBox("IMAGE TAGGING", sb.String())
}

// PrintVideoTaggingStats outputs a summary of a video tagging run.
func (p *Printer) PrintVideoTaggingStats(stats types.VideoTaggingStats) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Selected:   %d\n", stats.Total))
	sb.WriteString(fmt.Sprintf("Tagged:     %d\n", stats.Tagged))
	sb.WriteString(fmt.Sprintf("No audio:   %d\n", stats.NoAudio))
	sb.WriteString(fmt.Sprintf("Failed:     %d\n", stats.Failed))
	sb.WriteString(fmt.Sprintf("Skipped:    %d\n", stats.Skipped))
	sb.WriteString(fmt.Sprintf("AI spend:   $%.4f\n", stats.TotalCostUSD))
	sb.WriteString(fmt.Sprintf("Duration:   %dms", stats.DurationMs))

	p.printBox("VIDEO TAGGING", sb.String())
}

// PrintConfidence outputs the confidence breakdown for one quality/age pair.
func (p *Printer) PrintConfidence(qualityScore float64, daysActive int) {
	score := confidence.ComputeScore(qualityScore, daysActive)
	label := confidence.GetLabel(daysActive)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Quality score:     %.1f\n", qualityScore))
	sb.WriteString(fmt.Sprintf("Days active:       %d\n", daysActive))
	sb.WriteString(fmt.Sprintf("Confidence score:  %d\n", score))
	sb.WriteString(fmt.Sprintf("Label:             %s", label))

	p.printBox("CONFIDENCE", sb.String())
}
