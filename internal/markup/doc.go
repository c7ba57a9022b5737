// Package markup provides a read-only fragment model over rendered HTML.
//
// The model exposes exactly four operations: find-first-by-marker,
// find-all-by-marker, attribute lookup, and text extraction. A marker is an
// element tag plus a class set; an element matches when it has the tag and
// every listed class, regardless of class order.
//
// Design decision: We wrap goquery rather than exposing it because the
// extractor only needs these four operations. Keeping the surface this small
// means the host tree representation can change (or be faked in tests)
// without touching extraction code.
package markup
