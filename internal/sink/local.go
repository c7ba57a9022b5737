package sink

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sintatools/journalharvest/internal/model"
)

// localSink writes one encoded artifact to the local filesystem.
type localSink struct {
	name   string
	path   string
	encode func([]model.JournalRecord) ([]byte, error)
	logger *slog.Logger
}

// LocalOption configures a local sink.
type LocalOption func(*localSink)

// WithLocalLogger sets a custom logger.
func WithLocalLogger(logger *slog.Logger) LocalOption {
	return func(s *localSink) {
		s.logger = logger
	}
}

// NewCSVSink returns a sink writing the CSV artifact to path.
func NewCSVSink(path string, opts ...LocalOption) Sink {
	return newLocalSink("csv", path, EncodeCSV, opts)
}

// NewJSONSink returns a sink writing the JSON artifact to path. The
// source names where the records came from and lands in the artifact
// metadata.
func NewJSONSink(path, source string, opts ...LocalOption) Sink {
	return newLocalSink("json", path, NewJSONEncoder(source, nil), opts)
}

func newLocalSink(name, path string, encode func([]model.JournalRecord) ([]byte, error), opts []LocalOption) *localSink {
	s := &localSink{
		name:   name,
		path:   path,
		encode: encode,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the sink name.
func (s *localSink) Name() string {
	return s.name
}

// Remote reports false.
func (s *localSink) Remote() bool {
	return false
}

// Write encodes the records and writes the artifact.
func (s *localSink) Write(ctx context.Context, records []model.JournalRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := s.encode(records)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}

	s.logger.Info("artifact written",
		"sink", s.name,
		"path", s.path,
		"records", len(records),
		"bytes", len(data),
	)
	return nil
}
