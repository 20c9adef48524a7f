package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jonathan/wallpaper-agent/internal/config"
	"github.com/jonathan/wallpaper-agent/internal/history"
)

var historyCommand = &cobra.Command{
	Use:   "history",
	Short: "Show the download history",
	RunE:  historyCmd,
}

var historyPath string

func init() {
	historyCommand.Flags().StringVar(&historyPath, "history", config.DefaultHistoryPath, "Path to the download history file")
	rootCmd.AddCommand(historyCommand)
}

func historyCmd(_ *cobra.Command, _ []string) error {
	set := history.Load(historyPath)
	if len(set) == 0 {
		fmt.Printf("No history at %s\n", historyPath)
		return nil
	}

	urls := make([]string, 0, len(set))
	for u := range set {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	for _, u := range urls {
		fmt.Println(u)
	}
	fmt.Printf("\n%d entries in %s\n", len(urls), historyPath)
	return nil
}
