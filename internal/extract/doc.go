// Package extract converts listing-page markup into normalized journal
// records.
//
// This package contains two collaborating types:
//   - Extractor: maps one candidate fragment to one JournalRecord
//   - Transformer: applies the Extractor to every candidate on a page
//
// Design decision: Every extraction sub-rule is independent and tolerant of
// absence. A missing or malformed sub-fragment degrades the corresponding
// field to its empty default instead of failing the record, and a failing
// fragment never stops the rest of the page. The output schema is total:
// records always carry the complete field set.
package extract
