package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sintatools/journalharvest/internal/config"
	"github.com/sintatools/journalharvest/internal/model"
	"github.com/sintatools/journalharvest/internal/report"
	"github.com/sintatools/journalharvest/internal/sink"
)

// addCommonFlags registers the flags shared by harvest, crawl, and etl.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .journalharvest in current or home directory)")
	cmd.Flags().StringP("input", "i", "",
		"Page archive directory (captures are stored here and read back by etl)")
	cmd.Flags().StringP("output", "o", "",
		"Directory receiving the record and statistics artifacts")
	cmd.Flags().String("db-dir", "",
		"Run-history database directory (default: XDG data directory)")
	cmd.Flags().Bool("no-db", false,
		"Disable run-history persistence")
}

// addExtractionFlags registers the flags shared by commands that produce
// record artifacts.
func addExtractionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "F", "",
		"Record artifact formats: csv, json, or both")
	cmd.Flags().Bool("hdfs", false,
		"Mirror artifacts into HDFS")
	cmd.Flags().String("hdfs-address", "",
		"HDFS named node address (host:port)")
	cmd.Flags().String("hdfs-root", "",
		"HDFS root directory for date-partitioned uploads")
	cmd.Flags().String("hdfs-user", "",
		"HDFS simple-auth user")
	cmd.Flags().BoolP("json", "j", false,
		"Print the statistics artifact instead of the summary (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print a Markdown run summary (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write the run summary to the specified file instead of stdout")
}

// addCrawlFlags registers the flags shared by commands that drive the
// browser.
func addCrawlFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("start-url", "u", "",
		"Journal listing entry point")
	cmd.Flags().IntP("max-pages", "p", 0,
		"Hard cap on the number of pages captured")
	cmd.Flags().DurationP("wait-timeout", "t", 0,
		"How long to wait for the listing to render")
	cmd.Flags().Duration("grace-delay", 0,
		"Pause after a timed-out wait before proceeding anyway")
	cmd.Flags().Bool("headed", false,
		"Show the browser window (disables headless mode)")
	cmd.Flags().String("diagnostics", "",
		"Directory receiving markup dumps and screenshots on abort")
}

// buildConfig assembles the configuration in layers: defaults, then the
// YAML file, then any flags the user actually set.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	f := cmd.Flags()

	configPath, err := f.GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configPath

	found := config.FindConfigFile(configPath)
	if found != "" {
		cf, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		if err := cf.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", found, err)
		}
	} else if configPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	if f.Changed("input") {
		cfg.InputDir, _ = f.GetString("input")
	}
	if f.Changed("output") {
		cfg.OutputDir, _ = f.GetString("output")
	}
	if f.Changed("db-dir") {
		cfg.DBDir, _ = f.GetString("db-dir")
	}

	if f.Lookup("start-url") != nil {
		if f.Changed("start-url") {
			cfg.StartURL, _ = f.GetString("start-url")
		}
		if f.Changed("max-pages") {
			cfg.MaxPages, _ = f.GetInt("max-pages")
		}
		if f.Changed("wait-timeout") {
			cfg.WaitTimeout, _ = f.GetDuration("wait-timeout")
		}
		if f.Changed("grace-delay") {
			cfg.GraceDelay, _ = f.GetDuration("grace-delay")
		}
		if f.Changed("headed") {
			headed, _ := f.GetBool("headed")
			cfg.Headless = !headed
		}
		if f.Changed("diagnostics") {
			cfg.DiagnosticsDir, _ = f.GetString("diagnostics")
		}
	}

	if f.Lookup("format") != nil {
		if f.Changed("format") {
			cfg.Format, _ = f.GetString("format")
		}
		if f.Changed("hdfs") {
			cfg.HDFS.Enabled, _ = f.GetBool("hdfs")
		}
		if f.Changed("hdfs-address") {
			cfg.HDFS.Address, _ = f.GetString("hdfs-address")
		}
		if f.Changed("hdfs-root") {
			cfg.HDFS.Root, _ = f.GetString("hdfs-root")
		}
		if f.Changed("hdfs-user") {
			cfg.HDFS.User, _ = f.GetString("hdfs-user")
		}
		cfg.JSONReport, _ = f.GetBool("json")
		cfg.MarkdownReport, _ = f.GetBool("markdown")
		cfg.ReportFile, _ = f.GetString("report")
	}

	// Run history defaults on; --no-db switches it off.
	noDB, _ := f.GetBool("no-db")
	if noDB {
		cfg.SaveToDB = false
	} else {
		if cfg.DBDir == "" {
			cfg.DBDir = config.XDGDataDir()
		}
		cfg.SaveToDB = true
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildSinks assembles the record sinks for the configured formats and,
// when enabled, their HDFS mirrors. The source names where the records
// came from (start URL or archive directory) and ends up in the JSON
// artifact metadata. The returned closer shuts down the HDFS connection.
func buildSinks(cfg *config.Config, source string, ts time.Time) ([]sink.Sink, func(), error) {
	var sinks []sink.Sink

	if cfg.WantCSV() {
		sinks = append(sinks, sink.NewCSVSink(filepath.Join(cfg.OutputDir, sink.CSVFileName(ts))))
	}
	if cfg.WantJSON() {
		sinks = append(sinks, sink.NewJSONSink(filepath.Join(cfg.OutputDir, sink.JSONFileName(ts)), source))
	}

	closer := func() {}
	if cfg.HDFS.Enabled {
		fs, err := sink.DialHDFS(cfg.HDFS.Address, cfg.HDFS.User)
		if err != nil {
			return nil, closer, err
		}
		closer = func() { _ = fs.Close() }

		if cfg.WantCSV() {
			sinks = append(sinks, sink.NewRemoteSink(fs, cfg.HDFS.Root, sink.CSVFileName(ts), sink.EncodeCSV))
		}
		if cfg.WantJSON() {
			sinks = append(sinks, sink.NewRemoteSink(fs, cfg.HDFS.Root, sink.JSONFileName(ts), sink.NewJSONEncoder(source, nil)))
		}
	}

	return sinks, closer, nil
}

// writeStatsArtifact writes the extraction statistics artifact next to the
// record artifacts and returns its path.
func writeStatsArtifact(cfg *config.Config, run *model.HarvestRun, ts time.Time) (string, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(cfg.OutputDir, sink.StatsFileName(ts))
	f, err := os.Create(path) //nolint:gosec // path is under the configured output dir
	if err != nil {
		return "", fmt.Errorf("create stats artifact: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-side close after successful write

	if _, err := report.NewJSONWriter(f, report.WithPrettyPrint()).Write(run); err != nil {
		return "", fmt.Errorf("write stats artifact: %w", err)
	}
	return path, nil
}

// outputSummary writes the run summary in the configured format to stdout
// or the configured report file.
func outputSummary(cfg *config.Config, run *model.HarvestRun, stdout io.Writer) error {
	out := stdout
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("create report dir: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile) //nolint:gosec // user-provided report path is intentional
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close() //nolint:errcheck // read-side close after successful write
		out = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}

	_, err := w.Write(run)
	return err
}
