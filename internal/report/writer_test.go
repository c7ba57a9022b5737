package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sintatools/journalharvest/internal/model"
)

func sampleRun() *model.HarvestRun {
	run := model.NewHarvestRun("https://sinta.kemdikbud.go.id/journals")
	run.StartedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	run.Captures = []model.RawPageCapture{
		model.NewRawPageCapture(1, "<html></html>", run.StartedAt),
	}
	run.Records = []model.JournalRecord{
		{JournalID: "4321", JournalName: "Jurnal X"},
	}
	run.Stats.AddPage()
	run.Stats.AddExtraction(true)
	run.Stats.AddExtraction(false)
	run.Stats.AddError("entry 2 on page 1: missing fragment")
	run.Stats.AddSinkOutcome(false, true)
	run.Stats.Finalize()
	return run
}

// TestJSONWriter tests the statistics artifact layout.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(sampleRun())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("got %d bytes reported, expected %d", n, buf.Len())
	}

	var artifact struct {
		ExtractionDate time.Time      `json:"extraction_date"`
		Statistics     map[string]any `json:"statistics"`
	}
	if err := json.Unmarshal(buf.Bytes(), &artifact); err != nil {
		t.Fatalf("artifact is not valid json: %v", err)
	}
	if !artifact.ExtractionDate.Equal(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("unexpected extraction date %v", artifact.ExtractionDate)
	}
	if got := artifact.Statistics["total_candidates"]; got != float64(2) {
		t.Errorf("got total_candidates %v, expected 2", got)
	}
	if _, present := artifact.Statistics["remote_sink_successes"]; present {
		t.Error("remote counters should be omitted when no remote sink ran")
	}
}

// TestSimpleWriter tests the terminal summary.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("default hides error details", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(sampleRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "JOURNAL HARVEST REPORT") {
			t.Error("missing report header")
		}
		if !strings.Contains(out, "ERRORS (1)") {
			t.Error("missing error count")
		}
		if strings.Contains(out, "missing fragment") {
			t.Error("error details shown without verbose")
		}
	})

	t.Run("verbose lists errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(sampleRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "missing fragment") {
			t.Error("verbose output missing error details")
		}
	})
}

// TestMarkdownWriter tests the markdown summary sections.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(sampleRun()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, expected := range []string{
		"# Journal Harvest Report",
		"## Extraction Statistics",
		"Candidate entries",
		"missing fragment",
	} {
		if !strings.Contains(out, expected) {
			t.Errorf("markdown output missing %q", expected)
		}
	}
}

// failWriter always fails after writing nothing.
type failWriter struct{}

func (failWriter) Write(*model.HarvestRun) (int, error) {
	return 0, errors.New("destination gone")
}

// TestMultiWriter tests fan-out and first-error behavior.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	mw := NewMultiWriter(NewJSONWriter(&a), NewJSONWriter(&b))
	if _, err := mw.Write(sampleRun()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Error("expected both destinations to receive the summary")
	}

	var c bytes.Buffer
	mw = NewMultiWriter(failWriter{}, NewJSONWriter(&c))
	if _, err := mw.Write(sampleRun()); err == nil {
		t.Error("expected the failing writer's error")
	}
	if c.Len() != 0 {
		t.Error("expected write to stop on first error")
	}
}
