package archive

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sintatools/journalharvest/internal/model"
)

const timestampLayout = "20060102_150405"

var (
	// pageSequencePattern extracts the page sequence from a stored file name.
	pageSequencePattern = regexp.MustCompile(`journals_page(\d+)_`)

	// pageTimestampPattern extracts the capture timestamp from a stored
	// file name.
	pageTimestampPattern = regexp.MustCompile(`_(\d{8}_\d{6})\.html$`)
)

// Archive stores and loads raw page captures in a single directory.
type Archive struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Archive.
type Option func(*Archive)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archive) {
		a.logger = logger
	}
}

// WithClock sets the clock used when a capture carries no timestamp.
// Injectable for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Archive) {
		a.now = now
	}
}

// New creates an Archive rooted at dir.
func New(dir string, opts ...Option) *Archive {
	a := &Archive{
		dir:    dir,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Store writes each capture to its own HTML file and returns the written
// paths in capture order.
func (a *Archive) Store(captures []model.RawPageCapture) ([]string, error) {
	if err := os.MkdirAll(a.dir, 0750); err != nil {
		return nil, fmt.Errorf("create archive dir %s: %w", a.dir, err)
	}

	paths := make([]string, 0, len(captures))
	for _, capture := range captures {
		stamp := capture.CapturedAt
		if stamp.IsZero() {
			stamp = a.now()
		}

		name := fmt.Sprintf("journals_page%d_%s.html", capture.Sequence, stamp.Format(timestampLayout))
		path := filepath.Join(a.dir, name)
		if err := os.WriteFile(path, []byte(capture.Markup), 0600); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	a.logger.Info("captures archived", "dir", a.dir, "pages", len(paths))
	return paths, nil
}

// Load reads all HTML files in the archive directory and returns them as
// captures ordered by page sequence.
func (a *Archive) Load() ([]model.RawPageCapture, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("read archive dir %s: %w", a.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	captures := make([]model.RawPageCapture, 0, len(names))
	for i, name := range names {
		path := filepath.Join(a.dir, name)
		markup, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		captures = append(captures, model.NewRawPageCapture(
			sequenceFor(name, i+1),
			string(markup),
			capturedAtFor(name, path),
		))
	}

	sort.SliceStable(captures, func(i, j int) bool {
		return captures[i].Sequence < captures[j].Sequence
	})

	a.logger.Info("captures loaded", "dir", a.dir, "pages", len(captures))
	return captures, nil
}

// sequenceFor parses the page sequence from the file name, falling back to
// the given ordinal when the name does not match the naming convention.
func sequenceFor(name string, ordinal int) int {
	m := pageSequencePattern.FindStringSubmatch(name)
	if m == nil {
		return ordinal
	}
	seq, err := strconv.Atoi(m[1])
	if err != nil || seq < 1 {
		return ordinal
	}
	return seq
}

// capturedAtFor parses the capture timestamp from the file name, falling
// back to the file modification time.
func capturedAtFor(name, path string) time.Time {
	if m := pageTimestampPattern.FindStringSubmatch(name); m != nil {
		if t, err := time.ParseInLocation(timestampLayout, m[1], time.Local); err == nil {
			return t
		}
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime()
	}
	return time.Time{}
}
