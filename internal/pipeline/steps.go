package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sintatools/journalharvest/internal/archive"
	"github.com/sintatools/journalharvest/internal/crawler"
	"github.com/sintatools/journalharvest/internal/database"
	"github.com/sintatools/journalharvest/internal/extract"
	"github.com/sintatools/journalharvest/internal/model"
	"github.com/sintatools/journalharvest/internal/sink"
)

// CrawlStep drives the live crawl and fills the run's captures.
//
// Design decision: Archiving the captured pages happens inside this step
// rather than as a separate step because a crawl that cannot be replayed
// offline loses most of its value; the two belong together. An archive
// write failure is still non-critical because the in-memory captures can
// carry the run to completion.
type CrawlStep struct {
	// crawler drives the renderer through the paginated listing.
	crawler *crawler.Crawler

	// archive stores the captured pages for offline reruns.
	// When nil, captures are not persisted.
	archive *archive.Archive

	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlArchive enables capture archiving.
func WithCrawlArchive(a *archive.Archive) CrawlStepOption {
	return func(s *CrawlStep) {
		s.archive = a
	}
}

// WithCrawlLogger sets a custom logger.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a crawl step around the given crawler.
func NewCrawlStep(c *crawler.Crawler, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		crawler: c,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do runs the crawl. Captures collected before an abort are kept on the
// run so a partial harvest still produces artifacts downstream.
func (s *CrawlStep) Do(ctx context.Context, run *model.HarvestRun) error {
	captures, err := s.crawler.Run(ctx)
	run.Captures = captures

	if s.archive != nil && len(captures) > 0 {
		if _, archiveErr := s.archive.Store(captures); archiveErr != nil {
			s.logger.Warn("capture archiving failed", "error", archiveErr)
			run.Stats.AddError("archive captures: " + archiveErr.Error())
		}
	}

	if err != nil {
		if len(captures) > 0 {
			// Partial crawl: record the abort but let extraction run
			// over what we have.
			run.Stats.AddError("crawl: " + err.Error())
			s.logger.Warn("continuing with partial crawl",
				"pages", len(captures),
				"error", err,
			)
			return nil
		}
		return err
	}
	if len(captures) == 0 {
		return ErrNoCaptures
	}
	return nil
}

// LoadArchiveStep fills the run's captures from an archive directory
// instead of a live crawl. This is the entry step for offline ETL runs.
type LoadArchiveStep struct {
	archive *archive.Archive
	logger  *slog.Logger
}

// NewLoadArchiveStep creates a step loading captures from the archive.
func NewLoadArchiveStep(a *archive.Archive, logger *slog.Logger) *LoadArchiveStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadArchiveStep{archive: a, logger: logger}
}

// Name returns the step name.
func (s *LoadArchiveStep) Name() string {
	return "load_archive"
}

// Do loads the archived captures onto the run.
func (s *LoadArchiveStep) Do(ctx context.Context, run *model.HarvestRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	captures, err := s.archive.Load()
	if err != nil {
		return fmt.Errorf("load archive: %w", err)
	}
	if len(captures) == 0 {
		return ErrNoCaptures
	}
	run.Captures = captures
	return nil
}

// TransformStep extracts journal records from the run's captures.
type TransformStep struct {
	transformer *extract.Transformer
	logger      *slog.Logger
}

// NewTransformStep creates a transform step around the given transformer.
func NewTransformStep(t *extract.Transformer, logger *slog.Logger) *TransformStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransformStep{transformer: t, logger: logger}
}

// Name returns the step name.
func (s *TransformStep) Name() string {
	return "transform"
}

// Do transforms every capture, accumulating records and per-entry
// outcomes. A page that yields nothing is tolerated; a run that yields
// nothing overall is the ErrNoRecords sentinel.
func (s *TransformStep) Do(ctx context.Context, run *model.HarvestRun) error {
	if len(run.Captures) == 0 {
		return ErrNoCaptures
	}

	for _, capture := range run.Captures {
		if err := ctx.Err(); err != nil {
			return err
		}

		run.Stats.AddPage()
		result := s.transformer.Transform(capture)

		for range result.Records {
			run.Stats.AddExtraction(true)
		}
		for i := 0; i < result.Candidates-len(result.Records); i++ {
			run.Stats.AddExtraction(false)
		}
		for _, desc := range result.Errors {
			run.Stats.AddError(desc)
		}

		run.Records = append(run.Records, result.Records...)
	}

	s.logger.Info("extraction finished",
		"pages", run.Stats.TotalPages,
		"candidates", run.Stats.TotalCandidates,
		"records", len(run.Records),
		"failures", run.Stats.FailedExtractions,
	)

	if len(run.Records) == 0 {
		return ErrNoRecords
	}
	return nil
}

// ExportStep writes the run's records to all configured sinks.
//
// Design decision: The step itself never fails: sink outcomes are
// per-destination results merged into the statistics, so one broken
// destination cannot veto the others or the rest of the pipeline.
type ExportStep struct {
	sinks  []sink.Sink
	logger *slog.Logger
}

// NewExportStep creates an export step over the given sinks.
func NewExportStep(sinks []sink.Sink, logger *slog.Logger) *ExportStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportStep{sinks: sinks, logger: logger}
}

// Name returns the step name.
func (s *ExportStep) Name() string {
	return "export"
}

// Do fans the records out to every sink and records the outcomes.
func (s *ExportStep) Do(ctx context.Context, run *model.HarvestRun) error {
	results := sink.WriteAll(ctx, s.sinks, run.Records)
	sink.Record(run.Stats, results)

	for _, r := range results {
		if r.Err != nil {
			s.logger.Error("sink write failed", "sink", r.Name, "error", r.Err)
		}
	}
	return nil
}

// PersistStep records the finished run in the history database.
type PersistStep struct {
	db     *database.HarvestDB
	logger *slog.Logger
}

// NewPersistStep creates a persistence step around the given database.
func NewPersistStep(db *database.HarvestDB, logger *slog.Logger) *PersistStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersistStep{db: db, logger: logger}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do saves the run. History is bookkeeping: a failure is logged and
// recorded but never fails a run that already produced its artifacts.
func (s *PersistStep) Do(ctx context.Context, run *model.HarvestRun) error {
	if err := s.db.SaveRun(ctx, run); err != nil {
		s.logger.Warn("run history write failed", "run", run.ID, "error", err)
		run.Stats.AddError("persist run: " + err.Error())
	}
	return nil
}
