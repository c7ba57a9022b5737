package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoStartURL is returned when the listing start URL is empty.
	ErrNoStartURL = errors.New("no start URL specified")

	// ErrInvalidFormat is returned when the output format is not one of
	// csv, json, or both.
	ErrInvalidFormat = errors.New("invalid output format: must be csv, json, or both")

	// ErrInvalidMaxPages is returned when the page cap is not positive.
	// A cap of zero would mean the crawl captures nothing.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidWaitTimeout is returned when the element wait timeout is
	// not positive. A zero timeout would make every wait time out
	// immediately.
	ErrInvalidWaitTimeout = errors.New("invalid wait timeout: must be positive")

	// ErrInvalidGraceDelay is returned when the grace delay is negative.
	// Use 0 to continue immediately after a wait timeout.
	ErrInvalidGraceDelay = errors.New("invalid grace delay: must be non-negative")

	// ErrNoHDFSAddress is returned when the remote sink is enabled without
	// a named node address.
	ErrNoHDFSAddress = errors.New("hdfs enabled but no address specified")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one summary format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
