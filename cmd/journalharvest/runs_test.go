package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sintatools/journalharvest/internal/database"
	"github.com/sintatools/journalharvest/internal/model"
)

// seedRunHistory records one finished run in a fresh database directory
// and returns the directory and the run ID.
func seedRunHistory(t *testing.T) (string, string) {
	t.Helper()

	dbDir := t.TempDir()
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close() //nolint:errcheck // test cleanup

	run := model.NewHarvestRun("https://example.com/journals")
	run.Captures = []model.RawPageCapture{
		model.NewRawPageCapture(1, "<html>page one</html>", time.Now()),
		model.NewRawPageCapture(2, "<html>page two</html>", time.Now()),
	}
	run.Records = []model.JournalRecord{{JournalName: "Journal of Testing"}}
	run.Stats.AddPage()
	run.Stats.AddPage()
	run.Stats.AddExtraction(true)
	run.Stats.Finalize()

	if err := db.SaveRun(context.Background(), run); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	return dbDir, run.ID.String()
}

// TestNewRunsCmd tests the runs command creation.
func TestNewRunsCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRunsCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "runs [run-id]" {
			t.Errorf("expected use 'runs [run-id]', got %q", cmd.Use)
		}
	})

	t.Run("has limit flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("limit")
		if flag == nil {
			t.Fatal("expected limit flag")
		}
		if flag.DefValue != "20" {
			t.Errorf("expected default '20', got %q", flag.DefValue)
		}
	})
}

// TestRunRunsCmd tests listing and showing recorded runs.
func TestRunRunsCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists recorded runs", func(t *testing.T) {
		t.Parallel()

		dbDir, runID := seedRunHistory(t)

		cmd := NewRunsCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dbDir})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, runID) {
			t.Errorf("expected output to contain run ID %s, got %q", runID, output)
		}
		if !strings.Contains(output, "https://example.com/journals") {
			t.Errorf("expected output to contain the source, got %q", output)
		}
	})

	t.Run("shows one run with captures", func(t *testing.T) {
		t.Parallel()

		dbDir, runID := seedRunHistory(t)

		cmd := NewRunsCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dbDir, runID})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Pages:    2") {
			t.Errorf("expected page count in output, got %q", output)
		}
		if !strings.Contains(output, "Captures:") {
			t.Errorf("expected captures section, got %q", output)
		}
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()

		dbDir, runID := seedRunHistory(t)

		cmd := NewRunsCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dbDir, "--json"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), `"id": "`+runID+`"`) {
			t.Errorf("expected JSON run id, got %q", buf.String())
		}
	})

	t.Run("unknown run id fails", func(t *testing.T) {
		t.Parallel()

		dbDir, _ := seedRunHistory(t)

		cmd := NewRunsCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--db-dir", dbDir, "no-such-run"})

		err := cmd.Execute()
		if err == nil {
			t.Fatal("expected error for unknown run")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected 'not found' error, got %v", err)
		}
	})

	t.Run("missing database fails", func(t *testing.T) {
		t.Parallel()

		cmd := NewRunsCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--db-dir", t.TempDir()})

		if err := cmd.Execute(); err == nil {
			t.Fatal("expected error for missing database")
		}
	})
}
