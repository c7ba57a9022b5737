package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// TestRunStatisticsCounters tests the accumulator counters.
func TestRunStatisticsCounters(t *testing.T) {
	t.Parallel()

	t.Run("extraction outcomes partition candidates", func(t *testing.T) {
		t.Parallel()

		stats := NewRunStatistics()
		stats.AddExtraction(true)
		stats.AddExtraction(true)
		stats.AddExtraction(false)

		if stats.TotalCandidates != 3 {
			t.Errorf("got %d candidates, expected 3", stats.TotalCandidates)
		}
		if stats.SuccessfulExtractions != 2 {
			t.Errorf("got %d successes, expected 2", stats.SuccessfulExtractions)
		}
		if stats.FailedExtractions != 1 {
			t.Errorf("got %d failures, expected 1", stats.FailedExtractions)
		}
	})

	t.Run("remote sink outcomes are counted separately", func(t *testing.T) {
		t.Parallel()

		stats := NewRunStatistics()
		stats.AddSinkOutcome(false, true)
		stats.AddSinkOutcome(false, false)
		stats.AddSinkOutcome(true, true)
		stats.AddSinkOutcome(true, false)

		if stats.SinkSuccesses != 1 || stats.SinkFailures != 1 {
			t.Errorf("got local %d/%d, expected 1/1", stats.SinkSuccesses, stats.SinkFailures)
		}
		if stats.RemoteSinkSuccesses != 1 || stats.RemoteSinkFailures != 1 {
			t.Errorf("got remote %d/%d, expected 1/1", stats.RemoteSinkSuccesses, stats.RemoteSinkFailures)
		}
	})

	t.Run("mutation after finalize is ignored", func(t *testing.T) {
		t.Parallel()

		stats := NewRunStatistics()
		stats.AddPage()
		stats.Finalize()

		stats.AddPage()
		stats.AddExtraction(true)
		stats.AddError("late error")

		if stats.TotalPages != 1 {
			t.Errorf("got %d pages, expected 1", stats.TotalPages)
		}
		if stats.TotalCandidates != 0 {
			t.Errorf("got %d candidates, expected 0", stats.TotalCandidates)
		}
		if len(stats.Errors) != 0 {
			t.Errorf("got %d errors, expected 0", len(stats.Errors))
		}
	})
}

// TestStatsArtifactJSON tests the serialized artifact shape.
func TestStatsArtifactJSON(t *testing.T) {
	t.Parallel()

	t.Run("errors serialize as empty array", func(t *testing.T) {
		t.Parallel()

		stats := NewRunStatistics()
		stats.Finalize()
		artifact := NewStatsArtifact(stats, time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC))

		data, err := json.Marshal(artifact)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := string(data)
		if !strings.Contains(out, `"errors":[]`) {
			t.Errorf("expected empty errors array in %s", out)
		}
		if !strings.Contains(out, `"extraction_date"`) {
			t.Errorf("expected extraction_date key in %s", out)
		}
	})

	t.Run("remote counters omitted when zero", func(t *testing.T) {
		t.Parallel()

		stats := NewRunStatistics()
		stats.AddSinkOutcome(false, true)
		stats.Finalize()

		data, err := json.Marshal(NewStatsArtifact(stats, time.Now()))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(string(data), "remote_sink") {
			t.Errorf("expected remote counters to be omitted, got %s", string(data))
		}
	})
}
