package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values match the observed behavior of the SINTA journal listing
// and are deliberately conservative: the site renders asynchronously and
// punishes impatience with empty pages.
const (
	// DefaultStartURL is the public journal listing entry point.
	DefaultStartURL = "https://sinta.kemdikbud.go.id/journals"

	// DefaultMaxPages is the hard safety cap on the pagination crawl.
	// The accredited listing fits in this many pages today; the cap only
	// exists to stop a looping or misbehaving pagination control.
	DefaultMaxPages = 23

	// DefaultWaitTimeout bounds each wait for the listing to render.
	// The listing populates its table asynchronously and can take well
	// over a minute on slow days, so this is generous on purpose.
	DefaultWaitTimeout = 70 * time.Second

	// DefaultGraceDelay is slept after a wait timeout before capturing
	// anyway. Slow updates usually land within this window.
	DefaultGraceDelay = 10 * time.Second

	// DefaultFormat writes both CSV and JSON record artifacts.
	DefaultFormat = "both"

	// DefaultHDFSRoot is the remote root for date-partitioned uploads.
	DefaultHDFSRoot = "/data/sinta/journals"

	// AppName is the application name used for XDG directory paths.
	AppName = "journalharvest"
)

// Output format values accepted by Config.Format.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatBoth = "both"
)

// HDFSConfig holds the remote sink settings.
type HDFSConfig struct {
	// Enabled turns the remote sink on. When false the other fields are
	// ignored.
	Enabled bool

	// Address is the HDFS named node in "host:port" format.
	Address string

	// Root is the remote directory under which date partitions are
	// created.
	Root string

	// User is the HDFS simple-auth identity. Empty uses the client
	// default.
	User string
}

// Config holds all configuration options for the harvester.
// This struct is populated from the YAML config file and CLI flags and
// passed through the application via dependency injection rather than
// global state.
//
// Design decision: We use a mostly flat struct instead of nested structs
// per concern for simplicity. The remote sink settings are the one nested
// group because they are enabled or ignored as a unit.
type Config struct {
	// StartURL is the journal listing entry point for live crawls.
	StartURL string

	// InputDir is the page archive directory. Live crawls store captures
	// here; offline ETL runs read captures from here.
	InputDir string

	// OutputDir receives the record and statistics artifacts.
	OutputDir string

	// Format selects the record artifacts to write: csv, json, or both.
	Format string

	// MaxPages is the hard cap on the number of pages captured per crawl.
	MaxPages int

	// WaitTimeout bounds each wait for the listing to render.
	WaitTimeout time.Duration

	// GraceDelay is slept after a wait timeout before proceeding anyway.
	GraceDelay time.Duration

	// Headless controls whether the browser window is shown. Headed mode
	// is useful when debugging selector changes on the live site.
	Headless bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// DBDir is the directory path for the run-history SQLite database.
	// When empty, runs are not persisted.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save run history to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool

	// DiagnosticsDir receives markup dumps and screenshots when a crawl
	// aborts. Empty disables diagnostics.
	DiagnosticsDir string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .journalharvest in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// HDFS holds the remote sink settings.
	HDFS HDFSConfig

	// JSONReport prints the statistics artifact to stdout instead of the
	// human-readable summary. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport prints a Markdown run summary instead of the
	// human-readable summary. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the run summary.
	// When set, the summary is written to this file instead of stdout.
	ReportFile string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeouts, the page
// cap). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		StartURL:    DefaultStartURL,
		InputDir:    "sinta_pages",
		OutputDir:   "output",
		Format:      DefaultFormat,
		MaxPages:    DefaultMaxPages,
		WaitTimeout: DefaultWaitTimeout,
		GraceDelay:  DefaultGraceDelay,
		Headless:    true,
		HDFS: HDFSConfig{
			Root: DefaultHDFSRoot,
		},
	}
}

// WantCSV reports whether the CSV record artifact should be written.
func (c *Config) WantCSV() bool {
	return c.Format == FormatCSV || c.Format == FormatBoth
}

// WantJSON reports whether the JSON record artifact should be written.
func (c *Config) WantJSON() bool {
	return c.Format == FormatJSON || c.Format == FormatBoth
}

// XDGDataDir returns the XDG data directory for the harvester.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/journalharvest
// On macOS: ~/Library/Application Support/journalharvest
// On Windows: %LOCALAPPDATA%\journalharvest
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the harvester.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for the harvester.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any work begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.StartURL == "" {
		return ErrNoStartURL
	}

	switch c.Format {
	case FormatCSV, FormatJSON, FormatBoth:
	default:
		return ErrInvalidFormat
	}

	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.WaitTimeout <= 0 {
		return ErrInvalidWaitTimeout
	}
	if c.GraceDelay < 0 {
		return ErrInvalidGraceDelay
	}

	if c.HDFS.Enabled && c.HDFS.Address == "" {
		return ErrNoHDFSAddress
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
