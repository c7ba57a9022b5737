package extract

import (
	"fmt"
	"log/slog"

	"github.com/sintatools/journalharvest/internal/markup"
	"github.com/sintatools/journalharvest/internal/model"
)

// PageResult is the per-page report produced by the Transformer.
type PageResult struct {
	// Records holds the successfully extracted records in document order,
	// with ExtractionIndex assigned 1..N within the page.
	Records []model.JournalRecord

	// Errors holds ordered failure descriptions: one per failed fragment,
	// or a single entry when the whole page was unparsable.
	Errors []string

	// Candidates is the number of candidate fragments seen on the page,
	// including ones that failed extraction. Zero when the page failed to
	// parse or legitimately contains no entries.
	Candidates int
}

// Transformer applies the Extractor to every candidate fragment in a page
// capture and aggregates successes and failures into a per-page report.
type Transformer struct {
	extractor *Extractor
	logger    *slog.Logger
}

// TransformerOption configures a Transformer.
type TransformerOption func(*Transformer)

// WithExtractor sets a custom Extractor, e.g. one with an injected clock.
func WithExtractor(e *Extractor) TransformerOption {
	return func(t *Transformer) {
		t.extractor = e
	}
}

// WithTransformerLogger sets a custom logger.
func WithTransformerLogger(logger *slog.Logger) TransformerOption {
	return func(t *Transformer) {
		t.logger = logger
	}
}

// NewTransformer creates a Transformer with the given options.
func NewTransformer(opts ...TransformerOption) *Transformer {
	t := &Transformer{
		extractor: NewExtractor(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform locates every candidate entry fragment in the capture and
// extracts each in document order.
//
// A fragment's extraction failure is recorded with its 1-based index and
// does not stop processing of the remaining fragments. A page with zero
// candidate fragments is not an error: it yields an empty result, and the
// caller decides whether that is significant.
func (t *Transformer) Transform(capture model.RawPageCapture) PageResult {
	result := PageResult{
		Records: []model.JournalRecord{},
		Errors:  []string{},
	}

	doc, err := markup.Parse(capture.Markup)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("parse page %d: %v", capture.Sequence, err))
		return result
	}

	candidates := doc.FindAll(entryMarker)
	result.Candidates = len(candidates)

	t.logger.Debug("transforming page",
		"page", capture.Sequence,
		"candidates", len(candidates),
	)

	for i, frag := range candidates {
		index := i + 1

		rec, err := t.extractor.Extract(frag, capture.Sequence, index)
		if err != nil {
			t.logger.Warn("fragment extraction failed",
				"page", capture.Sequence,
				"index", index,
				"error", err,
			)
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Records = append(result.Records, rec)
	}

	return result
}
