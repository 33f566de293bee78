// Package cmd defines and implements the CLI commands for the camcrawler
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "camcrawler",
		Short: "A batch crawler for webcam listing pages.",
		Long: `camcrawler reads a list of webcam listing URLs, fetches each page
(plain HTTP or headless-rendered), extracts location, coordinate, stream and
map data, and writes the full record set to JSON, CSV or XLSX files.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults plus CAMCRAWLER_* env vars)")

	cmd.AddCommand(newCrawlCmd())
	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
