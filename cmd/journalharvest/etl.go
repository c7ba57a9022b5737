package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sintatools/journalharvest/internal/archive"
	"github.com/sintatools/journalharvest/internal/database"
	"github.com/sintatools/journalharvest/internal/extract"
	"github.com/sintatools/journalharvest/internal/log"
	"github.com/sintatools/journalharvest/internal/model"
	"github.com/sintatools/journalharvest/internal/pipeline"
)

// NewETLCmd creates the etl command.
func NewETLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "etl",
		Short: "Extract record artifacts from a previously captured page archive",
		Long: `ETL reads listing pages from a local archive directory, extracts
structured journal records, and writes the same artifacts as harvest,
without touching the network.

The archive is produced by a previous harvest or crawl run.

Examples:
  # Extract from the default archive directory
  journalharvest etl

  # Extract a specific archive into JSON only
  journalharvest etl -i /data/sinta_pages -F json

  # Mirror the artifacts into HDFS
  journalharvest etl --hdfs --hdfs-address namenode:8020`,
		RunE: runETLCmd,
	}

	addCommonFlags(cmd)
	addExtractionFlags(cmd)

	return cmd
}

// runETLCmd executes the etl command.
func runETLCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := model.NewHarvestRun(cfg.InputDir)
	ts := run.StartedAt

	sinks, closeSinks, err := buildSinks(cfg, cfg.InputDir, ts)
	if err != nil {
		return err
	}
	defer closeSinks()

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewLoadArchiveStep(archive.New(cfg.InputDir, archive.WithLogger(logger)), logger),
		pipeline.NewTransformStep(extract.NewTransformer(extract.WithTransformerLogger(logger)), logger),
		pipeline.NewExportStep(sinks, logger),
	)

	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("open run history: %w", err)
		}
		defer db.Close() //nolint:errcheck // read-only close on exit
		p.AddStep(pipeline.NewPersistStep(db, logger))
	}

	err = p.Execute(ctx, run)
	run.Stats.Finalize()

	switch {
	case errors.Is(err, pipeline.ErrNoCaptures):
		fmt.Fprintf(cmd.OutOrStdout(), "No archived pages found in %s; nothing to extract.\n", cfg.InputDir)
		return nil
	case errors.Is(err, pipeline.ErrNoRecords):
		fmt.Fprintln(cmd.OutOrStdout(), "No journal records found in the archived pages; no artifacts written.")
		return nil
	case err != nil:
		// A failed run still leaves a statistics artifact carrying the
		// recorded error, so there is no silent total failure.
		if statsPath, statsErr := writeStatsArtifact(cfg, run, ts); statsErr != nil {
			logger.Warn("statistics artifact write failed", "error", statsErr)
		} else {
			logger.Info("statistics artifact written", "path", statsPath)
		}
		return err
	}

	statsPath, err := writeStatsArtifact(cfg, run, ts)
	if err != nil {
		return err
	}
	logger.Info("statistics artifact written", "path", statsPath)

	return outputSummary(cfg, run, cmd.OutOrStdout())
}
