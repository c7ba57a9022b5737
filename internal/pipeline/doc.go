// Package pipeline provides a framework for executing harvest stages in
// sequence.
//
// The pipeline pattern is used to process a harvest run through multiple
// stages: crawling (or loading archived pages), record extraction, artifact
// export, and run persistence. Each stage is implemented as a Step that
// receives the accumulating run and can modify it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running crawls
// 4. Live harvest and offline ETL runs are just different step lists
//
// An empty input is a sentinel outcome, not a crash: steps return
// ErrNoCaptures or ErrNoRecords so the command layer can exit cleanly with
// a message instead of producing empty artifacts.
package pipeline
