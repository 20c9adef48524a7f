package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/wallpaper-agent/internal/collect"
	"github.com/jonathan/wallpaper-agent/internal/monitor"
)

func TestPrintMonitors(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMonitors([]monitor.Monitor{
		{Index: 0, Name: "DP-1", Width: 1920, Height: 1080, Primary: true},
		{Index: 1, Name: "HDMI-1", Width: 1920, Height: 1080, X: 1920},
	})

	out := buf.String()
	assert.Contains(t, out, "MONITORS (2)")
	assert.Contains(t, out, "DP-1")
	assert.Contains(t, out, "[primary]")
	assert.Contains(t, out, "Virtual desktop: 3840x1080")
}

func TestPrintMonitors_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMonitors(nil)
	assert.Contains(t, buf.String(), "none detected")
}

func TestPrintCandidates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCandidates([]collect.Candidate{
		collect.NewCandidate("https://cdn.example.com/a.jpg", 2560, 1080),
		collect.NewCandidate("https://cdn.example.com/b.jpg", 0, 0),
	})

	out := buf.String()
	assert.Contains(t, out, "CANDIDATES (2)")
	assert.Contains(t, out, "2560x1080 (64:45)")
	assert.Contains(t, out, "unknown size")
}

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRunSummary("run-1", "/tmp/out.jpg", 2, true)

	out := buf.String()
	assert.Contains(t, out, "RUN COMPLETE")
	assert.Contains(t, out, "Images:  2")
	assert.Contains(t, out, "Applied: true")
}
