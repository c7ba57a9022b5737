// Package database provides SQLite-based run history storage.
//
// This package implements the HarvestDB, which stores:
//   - One row per harvest run with its final statistics
//   - Capture metadata (page sequence, size, archive path) per run
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
//
// The record artifacts themselves live on disk (and in HDFS); the database
// only answers "what ran, when, and how well" without re-reading artifacts.
package database
