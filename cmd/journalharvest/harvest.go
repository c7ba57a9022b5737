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
	"github.com/sintatools/journalharvest/internal/crawler"
	"github.com/sintatools/journalharvest/internal/database"
	"github.com/sintatools/journalharvest/internal/extract"
	"github.com/sintatools/journalharvest/internal/log"
	"github.com/sintatools/journalharvest/internal/model"
	"github.com/sintatools/journalharvest/internal/pipeline"
	"github.com/sintatools/journalharvest/internal/renderer"
)

// NewHarvestCmd creates the harvest command.
func NewHarvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Crawl the journal listing and produce record artifacts",
		Long: `Harvest runs the full flow: render the paginated journal listing in a
headless browser, archive every captured page, extract structured journal
records, and write timestamped CSV/JSON artifacts plus an extraction
statistics artifact.

With the HDFS sink enabled the record artifacts are also mirrored into
date-partitioned remote storage.

Examples:
  # Harvest with defaults (both formats, pages archived to sinta_pages/)
  journalharvest harvest

  # CSV only, custom output directory
  journalharvest harvest -F csv -o /data/exports

  # Mirror artifacts into HDFS
  journalharvest harvest --hdfs --hdfs-address namenode:8020

  # Watch the browser while debugging selectors
  journalharvest harvest --headed -v`,
		RunE: runHarvestCmd,
	}

	addCommonFlags(cmd)
	addCrawlFlags(cmd)
	addExtractionFlags(cmd)

	return cmd
}

// runHarvestCmd executes the harvest command.
func runHarvestCmd(cmd *cobra.Command, _ []string) error {
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

	chrome, err := renderer.NewChrome(ctx, renderer.WithHeadless(cfg.Headless))
	if err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer chrome.Close() //nolint:errcheck // best-effort browser teardown

	c := crawler.New(chrome, cfg.StartURL,
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithWaitTimeout(cfg.WaitTimeout),
		crawler.WithGraceDelay(cfg.GraceDelay),
		crawler.WithDiagnosticsDir(cfg.DiagnosticsDir),
		crawler.WithLogger(logger),
	)

	run := model.NewHarvestRun(cfg.StartURL)
	ts := run.StartedAt

	sinks, closeSinks, err := buildSinks(cfg, cfg.StartURL, ts)
	if err != nil {
		return err
	}
	defer closeSinks()

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewCrawlStep(c,
			pipeline.WithCrawlArchive(archive.New(cfg.InputDir, archive.WithLogger(logger))),
			pipeline.WithCrawlLogger(logger),
		),
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
		fmt.Fprintln(cmd.OutOrStdout(), "No pages were captured; nothing to extract.")
		return nil
	case errors.Is(err, pipeline.ErrNoRecords):
		fmt.Fprintln(cmd.OutOrStdout(), "No journal records found in the captured pages; no artifacts written.")
		return nil
	case err != nil:
		// An aborted run still leaves a statistics artifact carrying the
		// recorded abort error, so there is no silent total failure.
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
