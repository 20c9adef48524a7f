package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/wallpaper-agent/internal/monitor"
	"github.com/jonathan/wallpaper-agent/internal/stitch"
)

var stitchCommand = &cobra.Command{
	Use:   "stitch [image]...",
	Short: "Stitch already-downloaded images into one canvas",
	Long:  "Composes the given image files, one per monitor in topology order, into a single wallpaper sized to the virtual desktop.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  stitchCmd,
}

var (
	stitchOutputPath string
	stitchLayoutPath string
	stitchQuality    int
)

func init() {
	stitchCommand.Flags().StringVarP(&stitchOutputPath, "output", "o", "stitched.jpg", "Path the stitched wallpaper is saved to")
	stitchCommand.Flags().StringVar(&stitchLayoutPath, "monitors", "", "Static monitor-layout JSON file (skips live detection)")
	stitchCommand.Flags().IntVar(&stitchQuality, "quality", 0, "JPEG quality (default 95)")
	rootCmd.AddCommand(stitchCommand)
}

func stitchCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	var enumerators []monitor.Enumerator
	if stitchLayoutPath != "" {
		enumerators = append(enumerators, monitor.LayoutEnumerator{Path: stitchLayoutPath})
	}
	enumerators = append(enumerators, monitor.DefaultEnumerators()...)

	monitors, err := monitor.Gather(ctx, enumerators...)
	if err != nil {
		return err
	}
	if len(args) != len(monitors) {
		return fmt.Errorf("%d images given for %d monitors", len(args), len(monitors))
	}

	opts := &stitch.Options{Quality: stitchQuality}
	if err := stitch.Stitch(ctx, args, monitors, stitchOutputPath, opts); err != nil {
		return err
	}
	fmt.Printf("Stitched %d images into %s\n", len(args), stitchOutputPath)
	return nil
}
