package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/sintatools/journalharvest/internal/model"
)

// MarkdownWriter outputs run summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(run *model.HarvestRun) (int, error) {
	stats := run.Stats
	if stats == nil {
		stats = model.NewRunStatistics()
	}

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeStatistics(md, stats)
	w.writeErrors(md, stats)

	return len(md.String()), md.Build()
}

// writeHeader writes the run overview table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.HarvestRun) {
	md.H1("Journal Harvest Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + run.ID.String() + "`"},
			{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Source", "`" + run.SourceFolder + "`"},
			{"Pages", strconv.Itoa(len(run.Captures))},
			{"Records", strconv.Itoa(len(run.Records))},
		},
	})
	md.PlainText("")
}

// writeStatistics writes the extraction and sink counters.
func (w *MarkdownWriter) writeStatistics(md *markdown.Markdown, stats *model.RunStatistics) {
	md.H2("Extraction Statistics")
	md.PlainText("")

	rows := [][]string{
		{"Pages processed", strconv.Itoa(stats.TotalPages)},
		{"Candidate entries", strconv.Itoa(stats.TotalCandidates)},
		{"Successful extractions", strconv.Itoa(stats.SuccessfulExtractions)},
		{"Failed extractions", strconv.Itoa(stats.FailedExtractions)},
		{"Sink writes (ok/failed)", strconv.Itoa(stats.SinkSuccesses) + " / " + strconv.Itoa(stats.SinkFailures)},
	}
	if stats.RemoteSinkSuccesses > 0 || stats.RemoteSinkFailures > 0 {
		rows = append(rows, []string{
			"Remote writes (ok/failed)",
			strconv.Itoa(stats.RemoteSinkSuccesses) + " / " + strconv.Itoa(stats.RemoteSinkFailures),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Counter", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if stats.TotalCandidates > 0 {
		w.writePieChart(md, stats)
	}
}

// writePieChart writes a mermaid pie chart of extraction outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, stats *model.RunStatistics) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Extraction Outcomes"),
		piechart.WithShowData(true),
	)

	if stats.SuccessfulExtractions > 0 {
		chart.LabelAndIntValue("Extracted", uint64(stats.SuccessfulExtractions))
	}
	if stats.FailedExtractions > 0 {
		chart.LabelAndIntValue("Failed", uint64(stats.FailedExtractions))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeErrors writes the collected error descriptions, with an alert
// summarizing the run health.
func (w *MarkdownWriter) writeErrors(md *markdown.Markdown, stats *model.RunStatistics) {
	md.H2("Errors")
	md.PlainText("")

	switch {
	case len(stats.Errors) == 0 && stats.SinkFailures == 0 && stats.RemoteSinkFailures == 0:
		md.Tip("The run completed without errors.")
	case stats.SinkFailures > 0 || stats.RemoteSinkFailures > 0:
		md.Warningf("%d sink write(s) failed; check the destinations below.",
			stats.SinkFailures+stats.RemoteSinkFailures)
	default:
		md.Importantf("%d extraction error(s) were tolerated during the run.", len(stats.Errors))
	}
	md.PlainText("")

	if len(stats.Errors) > 0 {
		md.BulletList(stats.Errors...)
		md.PlainText("")
	}
}
