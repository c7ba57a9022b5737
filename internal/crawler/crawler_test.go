package crawler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sintatools/journalharvest/internal/renderer"
)

// fakePage is one scripted listing page.
type fakePage struct {
	markup string
	// nextAttrs is the attribute map of the next-page control.
	// nil means the control is absent on this page.
	nextAttrs map[string]string
}

// fakeRef is the fake renderer's element handle.
type fakeRef struct {
	selector string
	attrs    map[string]string
}

// fakeRenderer replays a scripted page sequence. Clicking the next-page
// control advances to the next scripted page.
type fakeRenderer struct {
	pages     []fakePage
	pageIndex int

	navigated []string
	clicks    []string

	// timedOutSelectors reports WaitTimedOut for the listed selectors.
	timedOutSelectors map[string]bool

	// markupFailSequence makes CurrentMarkup fail once the crawl reaches
	// the given 1-based page sequence. Zero disables the failure.
	markupFailSequence int

	// accreditationChecked pre-checks the filter checkbox.
	accreditationChecked bool

	screenshot []byte
}

func (f *fakeRenderer) Navigate(_ context.Context, url string) error {
	f.navigated = append(f.navigated, url)
	return nil
}

func (f *fakeRenderer) WaitForElement(_ context.Context, selector string, _ time.Duration) (renderer.WaitResult, error) {
	if f.timedOutSelectors[selector] {
		return renderer.WaitTimedOut, nil
	}
	return renderer.WaitFound, nil
}

func (f *fakeRenderer) Click(_ context.Context, ref renderer.ElementRef) error {
	fr, ok := ref.(*fakeRef)
	if !ok {
		return errors.New("not a fake ref")
	}
	f.clicks = append(f.clicks, fr.selector)
	if fr.selector == nextControlSelector {
		f.pageIndex++
	}
	return nil
}

func (f *fakeRenderer) CurrentMarkup(_ context.Context) (string, error) {
	if f.markupFailSequence != 0 && f.pageIndex+1 >= f.markupFailSequence {
		return "", errors.New("tab crashed")
	}
	if f.pageIndex >= len(f.pages) {
		return "", fmt.Errorf("no scripted page %d", f.pageIndex+1)
	}
	return f.pages[f.pageIndex].markup, nil
}

func (f *fakeRenderer) FindElement(_ context.Context, selector string) (renderer.ElementRef, bool, error) {
	switch selector {
	case filterButtonSelector, filterSubmitSelector:
		return &fakeRef{selector: selector}, true, nil
	case accreditationSelector:
		attrs := map[string]string{}
		if f.accreditationChecked {
			attrs["checked"] = ""
		}
		return &fakeRef{selector: selector, attrs: attrs}, true, nil
	case nextControlSelector:
		if f.pageIndex >= len(f.pages) || f.pages[f.pageIndex].nextAttrs == nil {
			return nil, false, nil
		}
		return &fakeRef{selector: selector, attrs: f.pages[f.pageIndex].nextAttrs}, true, nil
	default:
		return nil, false, nil
	}
}

func (f *fakeRenderer) ElementAttributes(_ context.Context, ref renderer.ElementRef) (map[string]string, error) {
	fr, ok := ref.(*fakeRef)
	if !ok {
		return nil, errors.New("not a fake ref")
	}
	return fr.attrs, nil
}

func (f *fakeRenderer) Screenshot(_ context.Context) ([]byte, error) {
	if f.screenshot == nil {
		return nil, errors.New("no screenshot")
	}
	return f.screenshot, nil
}

// enabledNext returns attributes for a navigable next-page control.
func enabledNext() map[string]string {
	return map[string]string{
		"class": "page-link",
		"href":  "https://example.test/journals?page=2",
	}
}

// scriptPages builds n pages where the last page's next control has the
// given attributes (nil for absent).
func scriptPages(n int, lastNext map[string]string) []fakePage {
	pages := make([]fakePage, 0, n)
	for i := 1; i <= n; i++ {
		next := enabledNext()
		if i == n {
			next = lastNext
		}
		pages = append(pages, fakePage{
			markup:    fmt.Sprintf("<html><body>page %d</body></html>", i),
			nextAttrs: next,
		})
	}
	return pages
}

// TestCrawlerPaginationExhausted tests the normal crawl over a finite
// listing where the next-page control disappears on the last page.
func TestCrawlerPaginationExhausted(t *testing.T) {
	t.Parallel()

	fake := &fakeRenderer{pages: scriptPages(3, nil)}
	c := New(fake, "https://example.test/journals",
		WithWaitTimeout(time.Millisecond),
		WithGraceDelay(0),
	)

	captures, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State() != StateDone {
		t.Errorf("got state %s, expected %s", c.State(), StateDone)
	}
	if len(captures) != 3 {
		t.Fatalf("got %d captures, expected 3", len(captures))
	}
	for i, capture := range captures {
		if capture.Sequence != i+1 {
			t.Errorf("capture %d: got sequence %d, expected %d", i, capture.Sequence, i+1)
		}
		expected := fmt.Sprintf("page %d", i+1)
		if !strings.Contains(capture.Markup, expected) {
			t.Errorf("capture %d: markup does not contain %q", i, expected)
		}
	}
	if len(fake.navigated) != 1 || fake.navigated[0] != "https://example.test/journals" {
		t.Errorf("got navigations %v, expected the listing URL once", fake.navigated)
	}
}

// TestCrawlerFilterFlow tests that the accreditation filter is opened,
// selected, and submitted before the first capture.
func TestCrawlerFilterFlow(t *testing.T) {
	t.Parallel()

	t.Run("unchecked checkbox is clicked", func(t *testing.T) {
		t.Parallel()

		fake := &fakeRenderer{pages: scriptPages(1, nil)}
		c := New(fake, "https://example.test/journals", WithGraceDelay(0))

		if _, err := c.Run(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []string{filterButtonSelector, accreditationSelector, filterSubmitSelector}
		if len(fake.clicks) != len(expected) {
			t.Fatalf("got clicks %v, expected %v", fake.clicks, expected)
		}
		for i, sel := range expected {
			if fake.clicks[i] != sel {
				t.Errorf("click %d: got %q, expected %q", i, fake.clicks[i], sel)
			}
		}
	})

	t.Run("pre-checked checkbox is left alone", func(t *testing.T) {
		t.Parallel()

		fake := &fakeRenderer{
			pages:                scriptPages(1, nil),
			accreditationChecked: true,
		}
		c := New(fake, "https://example.test/journals", WithGraceDelay(0))

		if _, err := c.Run(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, sel := range fake.clicks {
			if sel == accreditationSelector {
				t.Error("pre-checked accreditation filter was clicked")
			}
		}
	})
}

// TestCrawlerInertControl tests that each inert form of the next-page
// control terminates the crawl without an error.
func TestCrawlerInertControl(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		attrs map[string]string
	}{
		{
			name: "disabled class",
			attrs: map[string]string{
				"class": "page-link disabled",
				"href":  "https://example.test/journals?page=6",
			},
		},
		{
			name: "aria-disabled",
			attrs: map[string]string{
				"class":         "page-link",
				"aria-disabled": "true",
				"href":          "https://example.test/journals?page=6",
			},
		},
		{
			name:  "missing href",
			attrs: map[string]string{"class": "page-link"},
		},
		{
			name: "empty href",
			attrs: map[string]string{
				"class": "page-link",
				"href":  "   ",
			},
		},
		{
			name: "javascript href",
			attrs: map[string]string{
				"class": "page-link",
				"href":  "javascript:void(0)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeRenderer{pages: scriptPages(5, tt.attrs)}
			c := New(fake, "https://example.test/journals", WithGraceDelay(0))

			captures, err := c.Run(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.State() != StateDone {
				t.Errorf("got state %s, expected %s", c.State(), StateDone)
			}
			if len(captures) != 5 {
				t.Errorf("got %d captures, expected 5", len(captures))
			}
		})
	}
}

// TestCrawlerHardCap tests that the page cap stops an endlessly enabled
// pagination.
func TestCrawlerHardCap(t *testing.T) {
	t.Parallel()

	// Every page advertises an enabled next control.
	pages := make([]fakePage, 10)
	for i := range pages {
		pages[i] = fakePage{
			markup:    fmt.Sprintf("<html><body>page %d</body></html>", i+1),
			nextAttrs: enabledNext(),
		}
	}

	fake := &fakeRenderer{pages: pages}
	c := New(fake, "https://example.test/journals",
		WithMaxPages(4),
		WithGraceDelay(0),
	)

	captures, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State() != StateDone {
		t.Errorf("got state %s, expected %s", c.State(), StateDone)
	}
	if len(captures) != 4 {
		t.Errorf("got %d captures, expected 4", len(captures))
	}
}

// TestCrawlerAbortPreservesCaptures tests that a renderer failure returns
// the captures collected so far alongside the error.
func TestCrawlerAbortPreservesCaptures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fake := &fakeRenderer{
		pages:              scriptPages(5, nil),
		markupFailSequence: 3,
		screenshot:         []byte("png"),
	}
	c := New(fake, "https://example.test/journals",
		WithGraceDelay(0),
		WithDiagnosticsDir(dir),
	)

	captures, err := c.Run(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if c.State() != StateAborted {
		t.Errorf("got state %s, expected %s", c.State(), StateAborted)
	}
	if len(captures) != 2 {
		t.Errorf("got %d captures, expected 2", len(captures))
	}

	// Markup diagnostics cannot be captured (the markup read is the
	// failure), but the screenshot should still land.
	matches, globErr := filepath.Glob(filepath.Join(dir, "abort_*.png"))
	if globErr != nil {
		t.Fatal(globErr)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d screenshot diagnostics, expected 1", len(matches))
	}
	data, readErr := os.ReadFile(matches[0])
	if readErr != nil {
		t.Fatal(readErr)
	}
	if string(data) != "png" {
		t.Errorf("got screenshot %q, expected %q", data, "png")
	}
}

// TestCrawlerDegradedWait tests that a results-marker timeout does not
// abort the crawl.
func TestCrawlerDegradedWait(t *testing.T) {
	t.Parallel()

	fake := &fakeRenderer{
		pages:             scriptPages(2, nil),
		timedOutSelectors: map[string]bool{resultsMarkerSelector: true},
	}
	c := New(fake, "https://example.test/journals",
		WithGraceDelay(time.Millisecond),
	)

	captures, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(captures) != 2 {
		t.Errorf("got %d captures, expected 2", len(captures))
	}
}

// TestInertReason tests the next-page control inertness rules directly.
func TestInertReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		attrs    map[string]string
		expected bool
	}{
		{
			name:     "enabled",
			attrs:    map[string]string{"class": "page-link", "href": "/journals?page=2"},
			expected: false,
		},
		{
			name:     "disabled substring in class",
			attrs:    map[string]string{"class": "page-link Disabled", "href": "/journals?page=2"},
			expected: true,
		},
		{
			name:     "aria-disabled false is navigable",
			attrs:    map[string]string{"class": "page-link", "aria-disabled": "false", "href": "/x"},
			expected: false,
		},
		{
			name:     "no attributes",
			attrs:    map[string]string{},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, got := inertReason(tt.attrs); got != tt.expected {
				t.Errorf("got %v, expected %v", got, tt.expected)
			}
		})
	}
}
