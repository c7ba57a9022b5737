// Package main provides the entry point for the journalharvest CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for journalharvest.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journalharvest",
		Short: "Harvester for the SINTA accredited journal catalog",
		Long: `journalharvest collects the accredited journal catalog from the SINTA
(Science and Technology Index) listing.

The harvest command runs the full flow: render the paginated listing in a
browser, archive each page, extract structured journal records, and write
CSV/JSON artifacts locally and optionally to HDFS.

crawl and etl split the flow in two: crawl only captures and archives
pages, etl extracts records from a previously captured archive without
touching the network.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewHarvestCmd())
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewETLCmd())
	cmd.AddCommand(NewRunsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
