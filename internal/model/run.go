package model

import (
	"time"

	"github.com/google/uuid"
)

// HarvestRun is the accumulating state for one end-to-end run. Pipeline
// steps read and append to it in sequence: the crawl step fills Captures,
// the transform step fills Records, and the export step consumes both.
//
// Design decision: A single mutable run object threaded through steps
// (rather than channels between stages) keeps the single-threaded control
// flow obvious. The dataset is bounded to a few thousand records, so holding
// everything in memory is fine.
type HarvestRun struct {
	// ID uniquely identifies this run in logs and the run-history database.
	ID uuid.UUID

	// StartedAt is when the run began.
	StartedAt time.Time

	// SourceFolder describes where the captures came from: the start URL
	// for a live crawl, or the archive directory for an ETL run.
	SourceFolder string

	// Captures holds one RawPageCapture per crawled page, in sequence order.
	Captures []RawPageCapture

	// Records holds the concatenated extraction output, ordered by
	// (SourcePageSequence, ExtractionIndex).
	Records []JournalRecord

	// Stats is the run accumulator. Never nil.
	Stats *RunStatistics
}

// NewHarvestRun creates a run with a fresh ID and empty accumulator.
func NewHarvestRun(sourceFolder string) *HarvestRun {
	return &HarvestRun{
		ID:           uuid.New(),
		StartedAt:    time.Now(),
		SourceFolder: sourceFolder,
		Stats:        NewRunStatistics(),
	}
}
