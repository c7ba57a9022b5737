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
	"github.com/sintatools/journalharvest/internal/log"
	"github.com/sintatools/journalharvest/internal/model"
	"github.com/sintatools/journalharvest/internal/pipeline"
	"github.com/sintatools/journalharvest/internal/renderer"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Capture and archive listing pages without extracting records",
		Long: `Crawl renders the paginated journal listing and archives every captured
page, but does not extract records. Run etl afterwards to turn the
archive into record artifacts.

This split is useful when the site is slow or flaky: the expensive
browser phase runs once and extraction can be repeated offline.

Examples:
  # Capture pages into the default archive directory
  journalharvest crawl

  # Capture at most 5 pages into a custom directory
  journalharvest crawl -p 5 -i /data/sinta_pages`,
		RunE: runCrawlCmd,
	}

	addCommonFlags(cmd)
	addCrawlFlags(cmd)

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
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

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddStep(pipeline.NewCrawlStep(c,
		pipeline.WithCrawlArchive(archive.New(cfg.InputDir, archive.WithLogger(logger))),
		pipeline.WithCrawlLogger(logger),
	))

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

	if errors.Is(err, pipeline.ErrNoCaptures) {
		fmt.Fprintln(cmd.OutOrStdout(), "No pages were captured.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Captured %d page(s) into %s\n", len(run.Captures), cfg.InputDir)
	return nil
}
