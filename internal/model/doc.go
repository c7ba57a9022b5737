// Package model defines the core data structures used throughout
// journalharvest.
//
// This package contains the following main types:
//   - RawPageCapture: One rendered listing page snapshot from the crawl
//   - JournalRecord: The normalized per-journal output record
//   - RunStatistics: The per-run accumulator serialized as the stats artifact
//   - HarvestRun: The accumulating state threaded through pipeline steps
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, extract, sink, report, database)
// need these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for artifact output and
// database storage.
package model
