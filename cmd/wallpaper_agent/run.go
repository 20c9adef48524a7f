package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/wallpaper-agent/internal/config"
	"github.com/jonathan/wallpaper-agent/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full wallpaper pipeline end-to-end",
	Long: `Orchestrates the entire wallpaper run: monitor detection -> collection -> download -> brightness check -> aspect crop -> stitch -> apply.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath    string
	runGalleryURL    string
	runCount         int
	runMaxAttempts   int
	runHistoryPath   string
	runDestDir       string
	runOutputPath    string
	runMonitorLayout string
	runBrightness    float64
	runApply         bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVar(&runGalleryURL, "gallery-url", "", "Gallery page to scrape (defaults to the built-in gallery)")
	runCommand.Flags().IntVarP(&runCount, "count", "c", 0, "Images to collect (0 = one per detected monitor)")
	runCommand.Flags().IntVar(&runMaxAttempts, "max-attempts", 0, "Reshuffle ceiling for one collection run")
	runCommand.Flags().StringVar(&runHistoryPath, "history", "", "Path to the download history file")
	runCommand.Flags().StringVarP(&runDestDir, "dest", "d", "", "Directory downloads are written under")
	runCommand.Flags().StringVarP(&runOutputPath, "output", "o", "", "Path the stitched wallpaper is saved to")
	runCommand.Flags().StringVar(&runMonitorLayout, "monitors", "", "Static monitor-layout JSON file (skips live detection)")
	runCommand.Flags().Float64Var(&runBrightness, "brightness-threshold", 0, "Mean-luminance cutoff; images at or above are rejected")
	runCommand.Flags().BoolVar(&runApply, "apply", false, "Set the stitched image as the desktop wallpaper")

	rootCmd.AddCommand(runCommand)
}

// mergedConfig loads the optional config file and applies CLI overrides on
// top, command-line arguments taking priority.
func mergedConfig() (config.Config, error) {
	var cfg config.Config
	if runConfigPath != "" {
		loaded, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if rootVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	if runGalleryURL != "" {
		cfg.GalleryURL = runGalleryURL
	}
	if runCount != 0 {
		cfg.Count = runCount
	}
	if runMaxAttempts != 0 {
		cfg.MaxAttempts = runMaxAttempts
	}
	if runHistoryPath != "" {
		cfg.HistoryPath = runHistoryPath
	}
	if runDestDir != "" {
		cfg.DestDir = runDestDir
	}
	if runOutputPath != "" {
		cfg.OutputPath = runOutputPath
	}
	if runMonitorLayout != "" {
		cfg.MonitorLayout = runMonitorLayout
	}
	if runBrightness != 0 {
		cfg.BrightnessThreshold = runBrightness
	}
	if runApply {
		cfg.Apply = true
	}
	if rootVerbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runPipelineCmd(_ *cobra.Command, _ []string) error {
	cfg, err := mergedConfig()
	if err != nil {
		return err
	}

	result, err := pipeline.RunPipeline(context.Background(), pipeline.RunOptions{Config: cfg})
	if err != nil {
		return err
	}

	fmt.Printf("Stitched wallpaper for %d monitors: %s\n", len(result.Monitors), result.OutputPath)
	if result.Applied {
		fmt.Println("Wallpaper applied.")
	}
	return nil
}
