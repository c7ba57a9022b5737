package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sintatools/journalharvest/internal/model"
)

// TestArchiveRoundTrip tests that stored captures load back with the same
// sequences and markup.
func TestArchiveRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stamp := time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)
	captures := []model.RawPageCapture{
		model.NewRawPageCapture(1, "<html>one</html>", stamp),
		model.NewRawPageCapture(2, "<html>two</html>", stamp.Add(time.Minute)),
		model.NewRawPageCapture(3, "<html>three</html>", stamp.Add(2*time.Minute)),
	}

	a := New(dir)
	paths, err := a.Store(captures)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("got %d paths, expected 3", len(paths))
	}
	if got := filepath.Base(paths[0]); got != "journals_page1_20260314_093000.html" {
		t.Errorf("got file name %q, expected %q", got, "journals_page1_20260314_093000.html")
	}

	loaded, err := a.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded) != len(captures) {
		t.Fatalf("got %d captures, expected %d", len(loaded), len(captures))
	}
	for i := range captures {
		if loaded[i].Sequence != captures[i].Sequence {
			t.Errorf("capture %d: got sequence %d, expected %d", i, loaded[i].Sequence, captures[i].Sequence)
		}
		if loaded[i].Markup != captures[i].Markup {
			t.Errorf("capture %d: got markup %q, expected %q", i, loaded[i].Markup, captures[i].Markup)
		}
		if !loaded[i].CapturedAt.Equal(captures[i].CapturedAt) {
			t.Errorf("capture %d: got timestamp %v, expected %v", i, loaded[i].CapturedAt, captures[i].CapturedAt)
		}
	}
}

// TestArchiveLoadOrdering tests that sequence numbers from file names win
// over lexical file order.
func TestArchiveLoadOrdering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{
		// Lexically "page10" sorts before "page2".
		"journals_page10_20260101_000000.html": "<html>ten</html>",
		"journals_page2_20260101_000000.html":  "<html>two</html>",
		"journals_page1_20260101_000000.html":  "<html>one</html>",
	}
	for name, markup := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(markup), 0600); err != nil {
			t.Fatal(err)
		}
	}

	loaded, err := New(dir).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []int{1, 2, 10}
	if len(loaded) != len(expected) {
		t.Fatalf("got %d captures, expected %d", len(loaded), len(expected))
	}
	for i, seq := range expected {
		if loaded[i].Sequence != seq {
			t.Errorf("position %d: got sequence %d, expected %d", i, loaded[i].Sequence, seq)
		}
	}
}

// TestArchiveLoadOrdinalFallback tests that unconventional file names get
// ordinal sequences in lexical order.
func TestArchiveLoadOrdinalFallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.html", "a.html", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("<html></html>"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	loaded, err := New(dir).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// notes.txt is skipped; a.html and b.html get ordinals 1 and 2.
	if len(loaded) != 2 {
		t.Fatalf("got %d captures, expected 2", len(loaded))
	}
	if loaded[0].Sequence != 1 || loaded[1].Sequence != 2 {
		t.Errorf("got sequences %d,%d, expected 1,2", loaded[0].Sequence, loaded[1].Sequence)
	}
}

// TestArchiveLoadMissingDir tests the error on a nonexistent directory.
func TestArchiveLoadMissingDir(t *testing.T) {
	t.Parallel()

	if _, err := New(filepath.Join(t.TempDir(), "nope")).Load(); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
