package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sintatools/journalharvest/internal/config"
	"github.com/sintatools/journalharvest/internal/model"
)

// TestBuildConfig tests the layered configuration assembly.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewHarvestCmd()
		if err := cmd.ParseFlags([]string{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.StartURL != config.DefaultStartURL {
			t.Errorf("expected default start URL, got %q", cfg.StartURL)
		}
		if cfg.MaxPages != config.DefaultMaxPages {
			t.Errorf("expected max pages %d, got %d", config.DefaultMaxPages, cfg.MaxPages)
		}
		if cfg.Format != config.DefaultFormat {
			t.Errorf("expected format %q, got %q", config.DefaultFormat, cfg.Format)
		}
		if !cfg.Headless {
			t.Error("expected headless by default")
		}
		if !cfg.SaveToDB {
			t.Error("expected run history enabled by default")
		}
		if cfg.DBDir == "" {
			t.Error("expected default db dir to be set")
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewHarvestCmd()
		args := []string{
			"-u", "https://example.com/journals",
			"-p", "5",
			"-t", "30s",
			"-F", "csv",
			"-o", "exports",
			"--headed",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.StartURL != "https://example.com/journals" {
			t.Errorf("unexpected start URL %q", cfg.StartURL)
		}
		if cfg.MaxPages != 5 {
			t.Errorf("expected max pages 5, got %d", cfg.MaxPages)
		}
		if cfg.WaitTimeout != 30*time.Second {
			t.Errorf("expected wait timeout 30s, got %v", cfg.WaitTimeout)
		}
		if cfg.Format != config.FormatCSV {
			t.Errorf("expected format csv, got %q", cfg.Format)
		}
		if cfg.OutputDir != "exports" {
			t.Errorf("expected output dir 'exports', got %q", cfg.OutputDir)
		}
		if cfg.Headless {
			t.Error("expected headed mode")
		}
	})

	t.Run("no-db disables run history", func(t *testing.T) {
		t.Parallel()

		cmd := NewHarvestCmd()
		if err := cmd.ParseFlags([]string{"--no-db"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.SaveToDB {
			t.Error("expected run history disabled")
		}
	})

	t.Run("config file overlays defaults, flags win", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".journalharvest")
		content := "max_pages: 10\nformat: json\noutput_dir: from_file\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cmd := NewHarvestCmd()
		if err := cmd.ParseFlags([]string{"-c", configPath, "-F", "csv"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MaxPages != 10 {
			t.Errorf("expected max pages 10 from file, got %d", cfg.MaxPages)
		}
		if cfg.OutputDir != "from_file" {
			t.Errorf("expected output dir from file, got %q", cfg.OutputDir)
		}
		if cfg.Format != config.FormatCSV {
			t.Errorf("expected flag to win over file, got %q", cfg.Format)
		}
	})

	t.Run("missing explicit config file fails", func(t *testing.T) {
		t.Parallel()

		cmd := NewHarvestCmd()
		if err := cmd.ParseFlags([]string{"-c", "/nonexistent/.journalharvest"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := buildConfig(cmd); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}

// TestGetVerboseFlag tests verbose flag resolution through the parent.
func TestGetVerboseFlag(t *testing.T) {
	t.Parallel()

	t.Run("local flag", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		if err := cmd.PersistentFlags().Set("verbose", "true"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !getVerboseFlag(cmd) {
			t.Error("expected verbose true")
		}
	})

	t.Run("defaults to false", func(t *testing.T) {
		t.Parallel()

		if getVerboseFlag(NewRootCmd()) {
			t.Error("expected verbose false")
		}
	})
}

// TestBuildSinks tests sink assembly for the configured formats.
func TestBuildSinks(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		format   string
		expected int
	}{
		{name: "both formats", format: config.FormatBoth, expected: 2},
		{name: "csv only", format: config.FormatCSV, expected: 1},
		{name: "json only", format: config.FormatJSON, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			cfg.Format = tt.format

			sinks, closer, err := buildSinks(cfg, "https://example.com/journals", ts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer closer()

			if len(sinks) != tt.expected {
				t.Errorf("expected %d sinks, got %d", tt.expected, len(sinks))
			}
			for _, s := range sinks {
				if s.Remote() {
					t.Errorf("expected local sink, got remote %q", s.Name())
				}
			}
		})
	}
}

func sampleCmdRun() *model.HarvestRun {
	run := model.NewHarvestRun("https://example.com/journals")
	run.Stats.AddPage()
	run.Stats.AddExtraction(true)
	run.Stats.AddExtraction(false)
	run.Stats.Finalize()
	return run
}

// TestWriteStatsArtifact tests the statistics artifact file output.
func TestWriteStatsArtifact(t *testing.T) {
	t.Parallel()

	t.Run("artifact layout", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.OutputDir = t.TempDir()

		ts := time.Date(2026, 3, 7, 9, 30, 0, 0, time.UTC)
		path, err := writeStatsArtifact(cfg, sampleCmdRun(), ts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := filepath.Join(cfg.OutputDir, "extraction_stats_20260307_093000.json")
		if path != expected {
			t.Errorf("expected path %q, got %q", expected, path)
		}

		content, err := os.ReadFile(path) //nolint:gosec // test-controlled path
		if err != nil {
			t.Fatalf("failed to read artifact: %v", err)
		}
		if !strings.Contains(string(content), "extraction_date") {
			t.Error("expected artifact to contain extraction_date")
		}
		if !strings.Contains(string(content), "statistics") {
			t.Error("expected artifact to contain statistics")
		}
	})

	t.Run("failed run still gets an artifact with its errors", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.OutputDir = t.TempDir()

		run := model.NewHarvestRun("https://example.com/journals")
		run.Stats.AddError("crawl: crawl aborted while capture page 1: browser crashed")
		run.Stats.Finalize()

		ts := time.Date(2026, 3, 7, 9, 30, 0, 0, time.UTC)
		path, err := writeStatsArtifact(cfg, run, ts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(path) //nolint:gosec // test-controlled path
		if err != nil {
			t.Fatalf("failed to read artifact: %v", err)
		}
		if !strings.Contains(string(content), "browser crashed") {
			t.Error("expected artifact to record the abort error")
		}
	})
}

// TestOutputSummary tests summary dispatch by configured format.
func TestOutputSummary(t *testing.T) {
	t.Parallel()

	t.Run("simple by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cfg := config.NewConfig()
		if err := outputSummary(cfg, sampleCmdRun(), &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "JOURNAL HARVEST REPORT") {
			t.Errorf("expected simple report banner, got %q", buf.String())
		}
	})

	t.Run("json report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cfg := config.NewConfig()
		cfg.JSONReport = true
		if err := outputSummary(cfg, sampleCmdRun(), &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\"statistics\"") {
			t.Errorf("expected JSON statistics, got %q", buf.String())
		}
	})

	t.Run("markdown report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cfg := config.NewConfig()
		cfg.MarkdownReport = true
		if err := outputSummary(cfg, sampleCmdRun(), &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "# Journal Harvest Report") {
			t.Errorf("expected markdown heading, got %q", buf.String())
		}
	})

	t.Run("report file destination", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cfg := config.NewConfig()
		cfg.ReportFile = filepath.Join(t.TempDir(), "reports", "summary.txt")
		if err := outputSummary(cfg, sampleCmdRun(), &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected nothing on stdout, got %q", buf.String())
		}

		content, err := os.ReadFile(cfg.ReportFile) //nolint:gosec // test-controlled path
		if err != nil {
			t.Fatalf("failed to read report file: %v", err)
		}
		if !strings.Contains(string(content), "JOURNAL HARVEST REPORT") {
			t.Error("expected report banner in file")
		}
	})
}
