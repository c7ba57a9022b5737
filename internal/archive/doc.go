// Package archive persists captured listing pages as HTML files and loads
// them back for offline extraction.
//
// Each capture is stored as journals_page<N>_<YYYYMMDD_HHMMSS>.html. The
// sequence number embedded in the file name is authoritative on load; files
// without a recognizable name fall back to their ordinal position, so a
// directory of hand-collected pages still loads in a stable order.
package archive
