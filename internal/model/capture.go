package model

import "time"

// RawPageCapture is a full snapshot of one rendered listing page.
// It is produced by the crawler (or loaded from a capture archive) and
// consumed exactly once by the page transformer.
//
// Design decision: The capture is immutable once created. The crawler hands
// ownership to the orchestrator and never touches it again, so no copy or
// locking is needed downstream.
type RawPageCapture struct {
	// Sequence is the 1-based position of this page in the crawl.
	Sequence int `json:"sequence"`

	// Markup is the full rendered HTML of the page at capture time.
	Markup string `json:"-"`

	// CapturedAt is the time the snapshot was taken.
	CapturedAt time.Time `json:"captured_at"`
}

// NewRawPageCapture creates a capture for the given sequence number.
// The sequence must be positive; the crawler guarantees this.
func NewRawPageCapture(sequence int, markup string, capturedAt time.Time) RawPageCapture {
	return RawPageCapture{
		Sequence:   sequence,
		Markup:     markup,
		CapturedAt: capturedAt,
	}
}
