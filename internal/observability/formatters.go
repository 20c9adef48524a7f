// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/wallpaper-agent/internal/collect"
	"github.com/jonathan/wallpaper-agent/internal/monitor"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 72

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

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMonitors outputs a human-readable summary of the detected topology.
func (p *Printer) PrintMonitors(monitors []monitor.Monitor) {
	if len(monitors) == 0 {
		p.printBox("MONITORS", "none detected")
		return
	}

	var sb strings.Builder
	for _, m := range monitors {
		ratio, _ := m.AspectRatio()
		primary := ""
		if m.Primary {
			primary = " [primary]"
		}
		sb.WriteString(fmt.Sprintf("%d. %-10s %5dx%-5d at (%d, %d)  %s%s\n",
			m.Index+1, m.Name, m.Width, m.Height, m.X, m.Y, ratio, primary))
	}
	if box, err := monitor.BoundingBox(monitors); err == nil {
		sb.WriteString(fmt.Sprintf("\nVirtual desktop: %dx%d", box.Dx(), box.Dy()))
	}

	p.printBox(fmt.Sprintf("MONITORS (%d)", len(monitors)), strings.TrimRight(sb.String(), "\n"))
}

// PrintCandidates outputs the collected wallpaper candidates.
func (p *Printer) PrintCandidates(candidates []collect.Candidate) {
	if len(candidates) == 0 {
		p.printBox("CANDIDATES", "none collected")
		return
	}

	var sb strings.Builder
	for i, c := range candidates {
		dims := "unknown size"
		if c.HasDimensions {
			dims = fmt.Sprintf("%dx%d (%s)", c.Width, c.Height, c.AspectRatio)
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n   %s\n", i+1, c.ImageURL, dims))
	}

	p.printBox(fmt.Sprintf("CANDIDATES (%d)", len(candidates)), strings.TrimRight(sb.String(), "\n"))
}

// PrintRunSummary outputs the outcome of a pipeline run.
func (p *Printer) PrintRunSummary(runID, outputPath string, used int, applied bool) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:     %s\n", runID))
	sb.WriteString(fmt.Sprintf("Images:  %d\n", used))
	sb.WriteString(fmt.Sprintf("Output:  %s\n", outputPath))
	sb.WriteString(fmt.Sprintf("Applied: %v", applied))

	p.printBox("RUN COMPLETE", sb.String())
}
