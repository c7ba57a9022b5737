package model

import "time"

// RunStatistics accumulates counters and error descriptions for one run.
// It is owned exclusively by the orchestrator: all mutation happens from the
// orchestrator's single thread of control. Once Finalize is called the
// accumulator is read-only and further mutation is ignored.
//
// Design decision: We guard against post-finalize writes instead of
// panicking because a late sink callback should degrade to a no-op, not
// crash a run that already produced its artifacts.
type RunStatistics struct {
	// TotalPages is the number of page captures fed to the transformer.
	TotalPages int `json:"total_pages"`

	// TotalCandidates is the number of candidate fragments seen across
	// all pages, including ones that failed extraction.
	TotalCandidates int `json:"total_candidates"`

	// SuccessfulExtractions and FailedExtractions partition TotalCandidates.
	SuccessfulExtractions int `json:"successful_extractions"`
	FailedExtractions     int `json:"failed_extractions"`

	// SinkSuccesses and SinkFailures count local sink write outcomes.
	SinkSuccesses int `json:"sink_successes"`
	SinkFailures  int `json:"sink_failures"`

	// RemoteSinkSuccesses and RemoteSinkFailures count remote
	// (distributed filesystem) write outcomes, kept separate from the
	// local counters. Omitted from the artifact when no remote sink ran.
	RemoteSinkSuccesses int `json:"remote_sink_successes,omitempty"`
	RemoteSinkFailures  int `json:"remote_sink_failures,omitempty"`

	// Errors is the ordered list of human-readable failure descriptions
	// collected during the run.
	Errors []string `json:"errors"`

	finalized bool
}

// NewRunStatistics creates an empty accumulator.
// Errors is initialized so the artifact serializes as [] rather than null.
func NewRunStatistics() *RunStatistics {
	return &RunStatistics{Errors: []string{}}
}

// AddError appends a human-readable error description.
func (s *RunStatistics) AddError(desc string) {
	if s.finalized || desc == "" {
		return
	}
	s.Errors = append(s.Errors, desc)
}

// AddPage records one page capture handed to the transformer.
func (s *RunStatistics) AddPage() {
	if s.finalized {
		return
	}
	s.TotalPages++
}

// AddExtraction records one candidate fragment outcome.
func (s *RunStatistics) AddExtraction(ok bool) {
	if s.finalized {
		return
	}
	s.TotalCandidates++
	if ok {
		s.SuccessfulExtractions++
	} else {
		s.FailedExtractions++
	}
}

// AddSinkOutcome records one sink write outcome. Remote outcomes are
// counted separately from local ones.
func (s *RunStatistics) AddSinkOutcome(remote, ok bool) {
	if s.finalized {
		return
	}
	switch {
	case remote && ok:
		s.RemoteSinkSuccesses++
	case remote:
		s.RemoteSinkFailures++
	case ok:
		s.SinkSuccesses++
	default:
		s.SinkFailures++
	}
}

// Finalize marks the accumulator read-only.
func (s *RunStatistics) Finalize() {
	s.finalized = true
}

// Finalized reports whether Finalize has been called.
func (s *RunStatistics) Finalized() bool {
	return s.finalized
}

// StatsArtifact is the serialized form of the statistics artifact.
// The layout is fixed: a top-level extraction date plus the statistics body.
type StatsArtifact struct {
	// ExtractionDate is the time the artifact was produced.
	ExtractionDate time.Time `json:"extraction_date"`

	// Statistics is the finalized run accumulator.
	Statistics *RunStatistics `json:"statistics"`
}

// NewStatsArtifact wraps finalized statistics for serialization.
func NewStatsArtifact(stats *RunStatistics, at time.Time) *StatsArtifact {
	return &StatsArtifact{ExtractionDate: at, Statistics: stats}
}
