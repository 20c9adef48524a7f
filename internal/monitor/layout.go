package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	ischemas "github.com/jonathan/wallpaper-agent/internal/schemas"
	"github.com/jonathan/wallpaper-agent/schemas"
)

// LoadLayout reads a static monitor layout from a JSON file. The document is
// checked against the embedded layout schema before decoding, so malformed
// layouts fail with field-level diagnostics instead of a partial topology.
func LoadLayout(path string) ([]Monitor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read monitor layout %s: %w", path, err)
	}

	if err := ischemas.Validate(schemas.MonitorLayout(), data); err != nil {
		return nil, fmt.Errorf("monitor layout %s: %w", path, err)
	}

	var monitors []Monitor
	if err := json.Unmarshal(data, &monitors); err != nil {
		return nil, fmt.Errorf("parse monitor layout %s: %w", path, err)
	}

	// Indexes follow file order regardless of what the file claims, so the
	// image/monitor pairing downstream stays positional.
	for i := range monitors {
		monitors[i].Index = i
		if monitors[i].Name == "" {
			monitors[i].Name = fmt.Sprintf("Monitor %d", i+1)
		}
	}
	return monitors, nil
}

// LayoutEnumerator serves the layout stored in a JSON file. It participates
// in the normal strategy ordering so a user-supplied layout overrides live
// detection.
type LayoutEnumerator struct {
	Path string
}

// Name implements Enumerator.
func (LayoutEnumerator) Name() string { return "layout-file" }

// Enumerate implements Enumerator.
func (l LayoutEnumerator) Enumerate(_ context.Context) ([]Monitor, error) {
	return LoadLayout(l.Path)
}
