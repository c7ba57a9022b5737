// Package renderer abstracts the browser automation driver behind a small
// page-renderer capability.
//
// The crawler only needs six fallible operations: navigate, wait for an
// element with an explicit timeout result, click, snapshot the current
// markup, find an element, and read its attributes. Screenshot is a seventh,
// used only for abort diagnostics.
//
// Design decision: Wait timeouts are results, not errors. A slow page is an
// expected condition the crawler handles with a grace delay; only transport
// or protocol failures surface as errors.
//
// The Chrome implementation drives a headless Chrome via chromedp. Element
// references are opaque and only meaningful to the renderer that produced
// them.
package renderer
