// Package report provides run summary generation and output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: The statistics artifact for programmatic processing
//   - MarkdownWriter: A shareable run summary document
//
// Design decision: We separate report writing from the run data structures
// (which are in the model package) so new output formats can be added
// without touching the core types. Writers implement the Writer interface,
// allowing them to be used interchangeably and composed for multi-format
// output.
package report
