package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sintatools/journalharvest/internal/model"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display at the end of a run.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables the full error list in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with the full error list.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run summary in human-readable format.
func (w *SimpleWriter) Write(run *model.HarvestRun) (int, error) {
	stats := run.Stats
	if stats == nil {
		stats = model.NewRunStatistics()
	}

	var sb strings.Builder

	w.writeHeader(&sb, run)
	w.writeStatistics(&sb, stats)
	w.writeErrors(&sb, stats)

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the run overview.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, run *model.HarvestRun) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      JOURNAL HARVEST REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Run ID:   %s\n", run.ID))
	sb.WriteString(fmt.Sprintf("Started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Source:   %s\n", run.SourceFolder))
	sb.WriteString(fmt.Sprintf("Pages:    %d\n", len(run.Captures)))
	sb.WriteString(fmt.Sprintf("Records:  %d\n", len(run.Records)))
	sb.WriteString("\n")
}

// writeStatistics writes the counter section.
func (w *SimpleWriter) writeStatistics(sb *strings.Builder, stats *model.RunStatistics) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("STATISTICS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Pages processed:    %d\n", stats.TotalPages))
	sb.WriteString(fmt.Sprintf("  Candidate entries:  %d\n", stats.TotalCandidates))
	sb.WriteString(fmt.Sprintf("  Extracted:          %d\n", stats.SuccessfulExtractions))
	sb.WriteString(fmt.Sprintf("  Failed:             %d\n", stats.FailedExtractions))
	sb.WriteString(fmt.Sprintf("  Sink writes:        %d ok, %d failed\n",
		stats.SinkSuccesses, stats.SinkFailures))
	if stats.RemoteSinkSuccesses > 0 || stats.RemoteSinkFailures > 0 {
		sb.WriteString(fmt.Sprintf("  Remote writes:      %d ok, %d failed\n",
			stats.RemoteSinkSuccesses, stats.RemoteSinkFailures))
	}
	sb.WriteString("\n")
}

// writeErrors writes the error section. Without verbose only the count is
// shown.
func (w *SimpleWriter) writeErrors(sb *strings.Builder, stats *model.RunStatistics) {
	if len(stats.Errors) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("ERRORS (%d)\n", len(stats.Errors)))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if !w.verbose {
		sb.WriteString("  Run with --verbose to list individual errors.\n\n")
		return
	}
	for _, desc := range stats.Errors {
		sb.WriteString(fmt.Sprintf("  * %s\n", desc))
	}
	sb.WriteString("\n")
}
