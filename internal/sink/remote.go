package sink

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/colinmarc/hdfs/v2"

	"github.com/sintatools/journalharvest/internal/model"
)

// RemoteFS is the remote filesystem surface the remote sink needs.
// Satisfied by the HDFS adapter; fakes implement it in tests.
type RemoteFS interface {
	MkdirAll(dir string, perm os.FileMode) error
	WriteFile(path string, data []byte) error
}

// HDFS adapts a colinmarc/hdfs client to RemoteFS.
type HDFS struct {
	client *hdfs.Client
}

// DialHDFS connects to the named node at address. The user is the HDFS
// simple-auth identity; an empty user falls back to the client default.
func DialHDFS(address, user string) (*HDFS, error) {
	opts := hdfs.ClientOptions{Addresses: []string{address}}
	if user != "" {
		opts.User = user
	}
	client, err := hdfs.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("connect hdfs %s: %w", address, err)
	}
	return &HDFS{client: client}, nil
}

// Close closes the underlying connection.
func (h *HDFS) Close() error {
	return h.client.Close()
}

// MkdirAll creates the directory and any missing parents.
func (h *HDFS) MkdirAll(dir string, perm os.FileMode) error {
	return h.client.MkdirAll(dir, perm)
}

// WriteFile writes data to path, replacing an existing file. HDFS creates
// are exclusive, so a previous day's rerun must remove the old artifact
// first.
func (h *HDFS) WriteFile(p string, data []byte) error {
	if _, err := h.client.Stat(p); err == nil {
		if err := h.client.Remove(p); err != nil {
			return fmt.Errorf("replace %s: %w", p, err)
		}
	}

	w, err := h.client.Create(p)
	if err != nil {
		return fmt.Errorf("create %s: %w", p, err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s: %w", p, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", p, err)
	}
	return nil
}

// remoteSink mirrors one encoded artifact into date-partitioned remote
// storage.
type remoteSink struct {
	fs       RemoteFS
	root     string
	filename string
	encode   func([]model.JournalRecord) ([]byte, error)
	now      func() time.Time
	logger   *slog.Logger
}

// RemoteOption configures a remote sink.
type RemoteOption func(*remoteSink)

// WithRemoteLogger sets a custom logger.
func WithRemoteLogger(logger *slog.Logger) RemoteOption {
	return func(s *remoteSink) {
		s.logger = logger
	}
}

// WithRemoteClock sets the clock used for date partitioning. Injectable
// for tests.
func WithRemoteClock(now func() time.Time) RemoteOption {
	return func(s *remoteSink) {
		s.now = now
	}
}

// NewRemoteSink returns a sink that writes the artifact named filename
// under <root>/<YYYY>/<MM>/<DD>/ on the remote filesystem.
func NewRemoteSink(fs RemoteFS, root, filename string, encode func([]model.JournalRecord) ([]byte, error), opts ...RemoteOption) Sink {
	s := &remoteSink{
		fs:       fs,
		root:     root,
		filename: filename,
		encode:   encode,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the sink name.
func (s *remoteSink) Name() string {
	return "hdfs " + s.filename
}

// Remote reports true.
func (s *remoteSink) Remote() bool {
	return true
}

// Write encodes the records and uploads the artifact into today's
// partition.
func (s *remoteSink) Write(ctx context.Context, records []model.JournalRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := s.encode(records)
	if err != nil {
		return err
	}

	t := s.now()
	dir := path.Join(s.root, t.Format("2006"), t.Format("01"), t.Format("02"))
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create remote dir %s: %w", dir, err)
	}

	target := path.Join(dir, s.filename)
	if err := s.fs.WriteFile(target, data); err != nil {
		return err
	}

	s.logger.Info("artifact uploaded",
		"sink", s.Name(),
		"path", target,
		"records", len(records),
		"bytes", len(data),
	)
	return nil
}
