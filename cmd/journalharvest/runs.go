package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sintatools/journalharvest/internal/config"
	"github.com/sintatools/journalharvest/internal/database"
)

// NewRunsCmd creates the runs command.
func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Show the harvest run history",
		Long: `Runs lists the recorded harvest history, newest first. Pass a run ID to
show that run's statistics and per-page capture metadata.

Examples:
  # List the most recent runs
  journalharvest runs

  # Show one run in detail
  journalharvest runs 5f8c7e2a-0b1d-4c9e-8f3a-6d2e1b4a9c7d

  # Emit the run list as JSON
  journalharvest runs --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRunsCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Run-history database directory (default: XDG data directory)")
	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list")
	cmd.Flags().BoolP("json", "j", false,
		"Emit JSON instead of a table")

	return cmd
}

// runRunsCmd executes the runs command.
func runRunsCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("no run history found in %s: %w", dbDir, err)
	}
	defer db.Close() //nolint:errcheck // read-only close on exit

	if len(args) == 1 {
		return showRun(cmd, db, args[0], asJSON)
	}
	return listRuns(cmd, db, limit, asJSON)
}

// listRuns prints the recorded runs, newest first.
func listRuns(cmd *cobra.Command, db *database.HarvestDB, limit int, asJSON bool) error {
	runs, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tSTARTED\tSOURCE\tPAGES\tRECORDS")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Source,
			r.Pages,
			r.Records,
		)
	}
	return w.Flush()
}

// showRun prints one run's statistics and capture metadata.
func showRun(cmd *cobra.Command, db *database.HarvestDB, id string, asJSON bool) error {
	run, err := db.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", id)
	}

	captures, err := db.GetCaptures(cmd.Context(), id)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Run      *database.RunRecord    `json:"run"`
			Captures []database.CaptureMeta `json:"captures"`
		}{Run: run, Captures: captures})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:      %s\n", run.ID)
	fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(out, "Finished: %s\n", run.FinishedAt.Local().Format(time.DateTime))
	fmt.Fprintf(out, "Source:   %s\n", run.Source)
	fmt.Fprintf(out, "Pages:    %d\n", run.Pages)
	fmt.Fprintf(out, "Records:  %d\n", run.Records)

	if run.Stats != nil {
		fmt.Fprintf(out, "\nExtractions: %d ok, %d failed\n",
			run.Stats.SuccessfulExtractions, run.Stats.FailedExtractions)
		if len(run.Stats.Errors) > 0 {
			fmt.Fprintf(out, "Errors:      %d\n", len(run.Stats.Errors))
		}
	}

	if len(captures) > 0 {
		fmt.Fprintln(out, "\nCaptures:")
		w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "  PAGE\tCAPTURED\tBYTES")
		for _, c := range captures {
			fmt.Fprintf(w, "  %d\t%s\t%d\n",
				c.Sequence,
				c.CapturedAt.Local().Format(time.DateTime),
				c.Bytes,
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
