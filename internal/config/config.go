// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	ischemas "github.com/jonathan/wallpaper-agent/internal/schemas"
	"github.com/jonathan/wallpaper-agent/schemas"
)

// Default values for everything the config file may omit.
const (
	DefaultMaxAttempts         = 25
	DefaultSettleDelayMS       = 2000
	DefaultBrightnessThreshold = 200.0
	DefaultBrightnessSample    = 10000
	DefaultJPEGQuality         = 95
	DefaultProbeTimeoutMS      = 15000
	DefaultDownloadTimeoutMS   = 60000
	DefaultHistoryPath         = "wallpapers/history.txt"
	DefaultDestDir             = "wallpapers"
	DefaultOutputPath          = "wallpapers/stitched.jpg"
)

// Config is the CLI configuration loadable from a JSON file. All fields are
// optional; missing values use defaults or come from CLI flags, which take
// priority.
type Config struct {
	// Gallery
	GalleryURL      string `json:"gallery_url,omitempty" validate:"omitempty,url"`
	LinkSelector    string `json:"link_selector,omitempty"`
	ShuffleSelector string `json:"shuffle_selector,omitempty"`

	// Collection
	Count         int `json:"count,omitempty" validate:"gte=0"`         // 0 = one per detected monitor
	MaxAttempts   int `json:"max_attempts,omitempty" validate:"gte=0"`  // reshuffle ceiling
	SettleDelayMS int `json:"settle_delay_ms,omitempty" validate:"gte=0"`

	// Paths
	HistoryPath   string `json:"history_path,omitempty"`
	DestDir       string `json:"dest_dir,omitempty"`
	OutputPath    string `json:"output_path,omitempty"`
	MonitorLayout string `json:"monitor_layout,omitempty"` // static layout JSON file

	// Image handling
	BrightnessThreshold float64 `json:"brightness_threshold,omitempty" validate:"gte=0,lte=255"`
	BrightnessSample    int     `json:"brightness_sample,omitempty" validate:"gte=0"`
	JPEGQuality         int     `json:"jpeg_quality,omitempty" validate:"omitempty,gte=1,lte=100"`
	ProbeTimeoutMS      int     `json:"probe_timeout_ms,omitempty" validate:"gte=0"`
	DownloadTimeoutMS   int     `json:"download_timeout_ms,omitempty" validate:"gte=0"`

	// Behavior
	Apply   bool `json:"apply,omitempty"`   // set result as desktop wallpaper
	Verbose bool `json:"verbose,omitempty"` // print detailed debug information
}

// LoadConfig loads configuration from a JSON file. The raw document is
// checked against the embedded config schema before decoding so typos in
// field names surface as errors instead of being silently dropped.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := ischemas.Validate(schemas.Config(), data); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values after flag
// merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// ApplyDefaults fills every zero-valued field that has a documented default.
// Count stays zero: the pipeline resolves it to the monitor count.
func (c *Config) ApplyDefaults() {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.SettleDelayMS == 0 {
		c.SettleDelayMS = DefaultSettleDelayMS
	}
	if c.BrightnessThreshold == 0 {
		c.BrightnessThreshold = DefaultBrightnessThreshold
	}
	if c.BrightnessSample == 0 {
		c.BrightnessSample = DefaultBrightnessSample
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = DefaultJPEGQuality
	}
	if c.ProbeTimeoutMS == 0 {
		c.ProbeTimeoutMS = DefaultProbeTimeoutMS
	}
	if c.DownloadTimeoutMS == 0 {
		c.DownloadTimeoutMS = DefaultDownloadTimeoutMS
	}
	if c.HistoryPath == "" {
		c.HistoryPath = DefaultHistoryPath
	}
	if c.DestDir == "" {
		c.DestDir = DefaultDestDir
	}
	if c.OutputPath == "" {
		c.OutputPath = DefaultOutputPath
	}
}

// SettleDelay returns the settle delay as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

// ProbeTimeout returns the dimension-probe timeout as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutMS) * time.Millisecond
}

// DownloadTimeout returns the download timeout as a duration.
func (c *Config) DownloadTimeout() time.Duration {
	return time.Duration(c.DownloadTimeoutMS) * time.Millisecond
}
