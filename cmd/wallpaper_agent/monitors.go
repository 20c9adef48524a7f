package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/wallpaper-agent/internal/monitor"
	"github.com/jonathan/wallpaper-agent/internal/observability"
)

var monitorsCommand = &cobra.Command{
	Use:   "monitors",
	Short: "Detect and print the monitor topology",
	RunE:  monitorsCmd,
}

var monitorsLayoutPath string

func init() {
	monitorsCommand.Flags().StringVar(&monitorsLayoutPath, "layout", "", "Static monitor-layout JSON file (skips live detection)")
	rootCmd.AddCommand(monitorsCommand)
}

func monitorsCmd(_ *cobra.Command, _ []string) error {
	var enumerators []monitor.Enumerator
	if monitorsLayoutPath != "" {
		enumerators = append(enumerators, monitor.LayoutEnumerator{Path: monitorsLayoutPath})
	}
	enumerators = append(enumerators, monitor.DefaultEnumerators()...)

	monitors, err := monitor.Gather(context.Background(), enumerators...)
	if err != nil {
		return fmt.Errorf("no monitor information could be gathered: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintMonitors(monitors)
	for _, m := range monitors {
		if ratio, ok := m.AspectRatioFloat(); ok {
			fmt.Printf("%s aspect_ratio_float=%.4f\n", m.Name, ratio)
		}
	}
	return nil
}
