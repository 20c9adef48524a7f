// Package wallpaper sets the stitched image as the desktop background.
// Applying is best-effort: every desktop environment has its own mechanism,
// so strategies are tried in order and callers are free to ignore failures.
package wallpaper

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// strategy is one way of setting the wallpaper on the current platform.
type strategy struct {
	name string
	args func(path string) []string
}

func linuxStrategies(path string) []strategy {
	uri := "file://" + path
	return []strategy{
		{"gsettings", func(string) []string {
			return []string{"gsettings", "set", "org.gnome.desktop.background", "picture-uri", uri}
		}},
		{"swaymsg", func(string) []string {
			return []string{"swaymsg", "output", "*", "bg", path, "fill"}
		}},
		{"feh", func(string) []string {
			return []string{"feh", "--bg-fill", path}
		}},
	}
}

func darwinStrategies(path string) []strategy {
	script := fmt.Sprintf(`tell application "System Events" to tell every desktop to set picture to %q`, path)
	return []strategy{
		{"osascript", func(string) []string {
			return []string{"osascript", "-e", script}
		}},
	}
}

// Apply sets the image at path as the wallpaper. The first strategy that
// succeeds wins; an error is returned only when all of them fail. Callers
// treat the error as advisory, a failed apply never aborts the pipeline.
func Apply(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve wallpaper path: %w", err)
	}

	var strategies []strategy
	switch runtime.GOOS {
	case "linux":
		strategies = linuxStrategies(abs)
	case "darwin":
		strategies = darwinStrategies(abs)
	default:
		return fmt.Errorf("wallpaper apply not supported on %s", runtime.GOOS)
	}

	logger := log.With("component", "wallpaper")
	var failures []string
	for _, s := range strategies {
		args := s.args(abs)
		cmd := exec.CommandContext(ctx, args[0], args[1:]...)
		if err := cmd.Run(); err != nil {
			logger.Debug("apply strategy failed", "strategy", s.name, "err", err)
			failures = append(failures, fmt.Sprintf("%s: %v", s.name, err))
			continue
		}
		logger.Info("wallpaper applied", "strategy", s.name, "path", abs)
		return nil
	}
	return fmt.Errorf("all wallpaper strategies failed: %s", strings.Join(failures, "; "))
}
