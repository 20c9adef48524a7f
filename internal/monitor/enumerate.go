package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Enumerator is one strategy for discovering the physical display layout.
// Strategies are tried in order; the first one returning a non-empty list
// wins.
type Enumerator interface {
	// Name identifies the strategy in diagnostics.
	Name() string
	// Enumerate returns the detected monitors, or an empty list when the
	// strategy does not apply on this machine.
	Enumerate(ctx context.Context) ([]Monitor, error)
}

// Gather runs the enumerators in order and returns the first non-empty
// result. Failing strategies are logged and skipped; an error is returned
// only when every strategy came up empty.
func Gather(ctx context.Context, enumerators ...Enumerator) ([]Monitor, error) {
	logger := log.With("component", "monitor")
	for _, e := range enumerators {
		monitors, err := e.Enumerate(ctx)
		if err != nil {
			logger.Debug("enumeration strategy failed", "strategy", e.Name(), "err", err)
			continue
		}
		if len(monitors) > 0 {
			logger.Debug("monitors detected", "strategy", e.Name(), "count", len(monitors))
			return monitors, nil
		}
	}
	return nil, fmt.Errorf("no monitor enumeration strategy produced a result")
}

// DefaultEnumerators returns the standard strategy order: Hyprland IPC,
// xrandr output parsing, then a synthetic 1920x1080 primary as a last resort.
func DefaultEnumerators() []Enumerator {
	return []Enumerator{
		HyprctlEnumerator{},
		XrandrEnumerator{},
		FallbackEnumerator{Width: 1920, Height: 1080},
	}
}

// HyprctlEnumerator reads the monitor list from the Hyprland compositor via
// `hyprctl monitors -j`.
type HyprctlEnumerator struct{}

// Name implements Enumerator.
func (HyprctlEnumerator) Name() string { return "hyprctl" }

type hyprctlMonitor struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Focused bool   `json:"focused"`
}

// Enumerate implements Enumerator.
func (HyprctlEnumerator) Enumerate(ctx context.Context) ([]Monitor, error) {
	out, err := exec.CommandContext(ctx, "hyprctl", "monitors", "-j").Output()
	if err != nil {
		return nil, fmt.Errorf("hyprctl monitors: %w", err)
	}
	return ParseHyprctl(out)
}

// ParseHyprctl decodes the JSON emitted by `hyprctl monitors -j`. Hyprland
// has no explicit primary flag; the focused monitor is reported as primary.
func ParseHyprctl(data []byte) ([]Monitor, error) {
	var raw []hyprctlMonitor
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse hyprctl output: %w", err)
	}
	monitors := make([]Monitor, 0, len(raw))
	for i, h := range raw {
		if h.Width <= 0 || h.Height <= 0 {
			continue
		}
		name := h.Name
		if name == "" {
			name = fmt.Sprintf("Monitor %d", i+1)
		}
		monitors = append(monitors, Monitor{
			Index:   len(monitors),
			Name:    name,
			Width:   h.Width,
			Height:  h.Height,
			X:       h.X,
			Y:       h.Y,
			Primary: h.Focused,
		})
	}
	return monitors, nil
}

// XrandrEnumerator parses connected outputs from `xrandr --query`.
type XrandrEnumerator struct{}

// Name implements Enumerator.
func (XrandrEnumerator) Name() string { return "xrandr" }

// Enumerate implements Enumerator.
func (XrandrEnumerator) Enumerate(ctx context.Context) ([]Monitor, error) {
	out, err := exec.CommandContext(ctx, "xrandr", "--query").Output()
	if err != nil {
		return nil, fmt.Errorf("xrandr query: %w", err)
	}
	return ParseXrandr(string(out)), nil
}

// xrandrLine matches lines like
// "DP-1 connected primary 2560x1440+0+0 (normal left inverted) 597mm x 336mm".
// Negative offsets print as "+-1920" since xrandr formats geometry as +%d+%d.
var xrandrLine = regexp.MustCompile(`^(\S+) connected( primary)? (\d+)x(\d+)\+(-?\d+)\+(-?\d+)`)

// ParseXrandr extracts active connected outputs from xrandr --query text.
// Outputs that are connected but have no active mode (no geometry) are
// skipped.
func ParseXrandr(out string) []Monitor {
	var monitors []Monitor
	for _, line := range strings.Split(out, "\n") {
		m := xrandrLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		width, _ := strconv.Atoi(m[3])
		height, _ := strconv.Atoi(m[4])
		x, _ := strconv.Atoi(m[5])
		y, _ := strconv.Atoi(m[6])
		if width <= 0 || height <= 0 {
			continue
		}
		monitors = append(monitors, Monitor{
			Index:   len(monitors),
			Name:    m[1],
			Width:   width,
			Height:  height,
			X:       x,
			Y:       y,
			Primary: m[2] != "",
		})
	}
	return monitors
}

// FallbackEnumerator always reports a single synthetic primary monitor. It
// sits last in the strategy order so a headless or unrecognized desktop still
// gets a usable topology.
type FallbackEnumerator struct {
	Width  int
	Height int
}

// Name implements Enumerator.
func (FallbackEnumerator) Name() string { return "fallback" }

// Enumerate implements Enumerator.
func (f FallbackEnumerator) Enumerate(_ context.Context) ([]Monitor, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("fallback dimensions must be positive")
	}
	return []Monitor{{
		Index:   0,
		Name:    "Primary",
		Width:   f.Width,
		Height:  f.Height,
		Primary: true,
	}}, nil
}

// StaticEnumerator serves a fixed monitor list. Used for tests and for
// layouts loaded from a file.
type StaticEnumerator struct {
	Monitors []Monitor
}

// Name implements Enumerator.
func (StaticEnumerator) Name() string { return "static" }

// Enumerate implements Enumerator.
func (s StaticEnumerator) Enumerate(_ context.Context) ([]Monitor, error) {
	return s.Monitors, nil
}
