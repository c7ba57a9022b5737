// Package log provides structured logging for the harvester, built on top
// of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic truncation of oversized attribute values (page markup)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Markup truncation
//
// The harvester routinely handles multi-hundred-kilobyte HTML documents.
// Logging one by accident (a capture attribute, a diagnostic dump) would
// make the log unreadable and can blow up log aggregation limits. The
// TruncateHandler caps every string attribute at a fixed length and
// appends the number of bytes dropped, so the log still shows what the
// value was without carrying all of it.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Info("page captured",
//	    "sequence", 3,
//	    "markup", html, // truncated to the cap
//	)
//	slog.SetDefault(logger)
package log
