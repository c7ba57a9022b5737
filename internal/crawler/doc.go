// Package crawler drives the renderer through the paginated journal listing.
//
// # State machine
//
// The crawl is a fixed state machine:
//
//	Initializing -> FilterApplied -> PageCaptured -> Advancing -> PageCaptured ...
//
// with two terminal states: Done on normal termination and Aborted on
// unrecoverable renderer failure. One RawPageCapture is produced per
// PageCaptured transition.
//
// # Termination
//
// The total page count is not known in advance, so termination is never
// inferred from content similarity or page counting. The sole authoritative
// termination signal is the next-page control being absent or inert
// (disabled styling, disabled accessibility attribute, or a non-navigable
// target). An independent hard cap on the sequence count is the safety net
// against a looping or misbehaving UI.
//
// # Degraded waits
//
// Waiting for the results marker is bounded. On timeout the crawl does not
// fail: it sleeps a fixed grace delay and proceeds, trading latency for
// robustness against slow asynchronous page updates.
package crawler
