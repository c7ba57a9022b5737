package renderer

import (
	"context"
	"time"
)

// WaitResult is the outcome of a bounded element wait.
type WaitResult int

const (
	// WaitFound means the element appeared within the timeout.
	WaitFound WaitResult = iota

	// WaitTimedOut means the timeout elapsed without the element appearing.
	// This is a result, not an error: callers decide how to degrade.
	WaitTimedOut
)

// String returns the human-readable wait result name.
func (w WaitResult) String() string {
	switch w {
	case WaitFound:
		return "found"
	case WaitTimedOut:
		return "timeout"
	default:
		return "unknown"
	}
}

// ElementRef is an opaque handle to a located element.
// Refs are only meaningful to the Renderer that produced them and become
// stale after navigation.
type ElementRef any

// Renderer is the page-renderer capability consumed by the crawler.
// All operations are fallible I/O with explicit results, never silent.
//
// Selectors starting with "//" are interpreted as XPath expressions;
// everything else is a CSS selector.
type Renderer interface {
	// Navigate loads the given URL and blocks until the initial load settles.
	Navigate(ctx context.Context, url string) error

	// WaitForElement waits up to timeout for an element matching selector
	// to be present. A timeout yields (WaitTimedOut, nil), not an error.
	WaitForElement(ctx context.Context, selector string, timeout time.Duration) (WaitResult, error)

	// Click activates the referenced element.
	Click(ctx context.Context, ref ElementRef) error

	// CurrentMarkup returns the full rendered markup of the current page.
	CurrentMarkup(ctx context.Context) (string, error)

	// FindElement locates the first element matching selector.
	// Absence is reported via the boolean, not an error.
	FindElement(ctx context.Context, selector string) (ElementRef, bool, error)

	// ElementAttributes returns the attribute map of the referenced element.
	ElementAttributes(ctx context.Context, ref ElementRef) (map[string]string, error)

	// Screenshot captures the current viewport as PNG bytes.
	// Used for best-effort abort diagnostics.
	Screenshot(ctx context.Context) ([]byte, error)
}
