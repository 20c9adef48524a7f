// Package main provides the entry point for the wallpaper agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wallpaper_agent",
	Short: "Multi-monitor wallpaper scraper and stitcher",
	Long:  "Wallpaper agent collects fresh wallpapers from a remote gallery, one distinct image per detected display, crops them to each monitor's aspect ratio, and stitches them into a single canvas matching the physical layout.",
}

var rootVerbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
	cobra.OnInitialize(func() {
		if rootVerbose {
			log.SetLevel(log.DebugLevel)
		}
	})
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
