package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/sintatools/journalharvest/internal/markup"
	"github.com/sintatools/journalharvest/internal/model"
)

// Structural markers for the SINTA journal listing markup.
// A journal entry is one div.list-item.row.mt-3 block; the markers below
// identify its sub-blocks.
var (
	entryMarker      = markup.NewMarker("div", "list-item", "row", "mt-3")
	nameMarker       = markup.NewMarker("div", "affil-name")
	abbrevMarker     = markup.NewMarker("div", "affil-abbrev")
	locationMarker   = markup.NewMarker("div", "affil-loc")
	identifierMarker = markup.NewMarker("div", "profile-id")
	statusMarker     = markup.NewMarker("div", "stat-prev")
	accreditedMarker = markup.NewMarker("span", "num-stat", "accredited")
	scopusMarker     = markup.NewMarker("span", "num-stat", "scopus-indexed")
	statsMarker      = markup.NewMarker("div", "stat-profile", "journal-list-stat")
	statValueMarker  = markup.NewMarker("div", "pr-num")
	statLabelMarker  = markup.NewMarker("div", "pr-txt")
	coverMarker      = markup.NewMarker("img", "journal-cover")
	anchorMarker     = markup.NewMarker("a")
)

// Patterns for the free-text identifier and status blocks.
var (
	pISSNPattern         = regexp.MustCompile(`P-ISSN\s*:\s*(\d+)`)
	eISSNPattern         = regexp.MustCompile(`E-ISSN\s*:\s*(\d+)`)
	subjectAreaPattern   = regexp.MustCompile(`Subject Area\s*:\s*([^|]+)`)
	accreditationPattern = regexp.MustCompile(`(S\d+)`)
	profileIDPattern     = regexp.MustCompile(`/profile/(\d+)`)
)

// Extractor maps one candidate fragment to one JournalRecord.
// The zero-cost construction makes it safe to share across pages; it holds
// no per-fragment state.
type Extractor struct {
	// now stamps ExtractedAt. Injectable for deterministic tests.
	now func() time.Time
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithNow sets the clock used to stamp ExtractedAt.
func WithNow(now func() time.Time) ExtractorOption {
	return func(e *Extractor) {
		e.now = now
	}
}

// NewExtractor creates an Extractor with the given options.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract builds a JournalRecord from one candidate fragment.
//
// Every sub-rule tolerates absence: a fragment lacking all optional
// sub-elements still yields a record with every field at its empty default.
// The returned error is non-nil only when extraction fails wholesale (a
// recovered panic from unexpected tree shapes); it never propagates as a
// panic to the caller.
func (e *Extractor) Extract(frag *markup.Fragment, pageSequence, index int) (rec model.JournalRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract entry %d on page %d: %v", index, pageSequence, r)
		}
	}()

	rec.SourcePageSequence = pageSequence
	rec.ExtractionIndex = index
	rec.ExtractedAt = e.now()

	e.extractName(frag, &rec)
	e.classifyLinks(frag, &rec)
	e.extractAffiliation(frag, &rec)
	e.extractIdentifiers(frag, &rec)
	e.extractStatus(frag, &rec)
	e.extractStatistics(frag, &rec)
	e.extractCover(frag, &rec)

	return rec, nil
}

// extractName fills JournalName, ProfileURL, and JournalID from the name
// container's link.
func (e *Extractor) extractName(frag *markup.Fragment, rec *model.JournalRecord) {
	name, ok := frag.FindFirst(nameMarker)
	if !ok {
		return
	}
	link, ok := name.FindFirst(anchorMarker)
	if !ok {
		return
	}

	rec.JournalName = cleanText(link.Text())
	if href, ok := link.Attr("href"); ok {
		rec.ProfileURL = href
		if m := profileIDPattern.FindStringSubmatch(href); m != nil {
			rec.JournalID = m[1]
		}
	}
}

// classifyLinks assigns each secondary-container anchor to at most one of
// the scholar/website/editor categories. The first anchor matching a
// category wins; later matches for a filled category are ignored.
func (e *Extractor) classifyLinks(frag *markup.Fragment, rec *model.JournalRecord) {
	abbrev, ok := frag.FindFirst(abbrevMarker)
	if !ok {
		return
	}

	for _, link := range abbrev.FindAll(anchorMarker) {
		href, ok := link.Attr("href")
		if !ok {
			continue
		}
		text := cleanText(link.Text())
		hint := link.OuterHTML()

		// Text hints are authoritative; icon class hints are the
		// fallback. "el-globe-alt" must be tested before "el-globe"
		// because the former contains the latter as a substring.
		switch {
		case strings.Contains(href, "scholar.google"):
			if rec.GoogleScholarURL == "" {
				rec.GoogleScholarURL = href
			}
		case strings.Contains(text, "Website"):
			if rec.WebsiteURL == "" {
				rec.WebsiteURL = href
			}
		case strings.Contains(text, "Editor URL"):
			if rec.EditorURL == "" {
				rec.EditorURL = href
			}
		case strings.Contains(hint, "el-globe-alt"):
			if rec.EditorURL == "" {
				rec.EditorURL = href
			}
		case strings.Contains(hint, "el-globe"):
			if rec.WebsiteURL == "" {
				rec.WebsiteURL = href
			}
		}
	}
}

// extractAffiliation fills Affiliation and AffiliationURL from the first
// anchor in the location container.
func (e *Extractor) extractAffiliation(frag *markup.Fragment, rec *model.JournalRecord) {
	loc, ok := frag.FindFirst(locationMarker)
	if !ok {
		return
	}
	link, ok := loc.FindFirst(anchorMarker)
	if !ok {
		return
	}

	rec.Affiliation = cleanText(link.Text())
	if href, ok := link.Attr("href"); ok {
		rec.AffiliationURL = href
	}
}

// extractIdentifiers scans the identifiers block text for the P-ISSN,
// E-ISSN, and Subject Area patterns. Each capture is independent of the
// others succeeding.
func (e *Extractor) extractIdentifiers(frag *markup.Fragment, rec *model.JournalRecord) {
	block, ok := frag.FindFirst(identifierMarker)
	if !ok {
		return
	}
	text := block.Text()

	if m := pISSNPattern.FindStringSubmatch(text); m != nil {
		rec.PISSN = m[1]
	}
	if m := eISSNPattern.FindStringSubmatch(text); m != nil {
		rec.EISSN = m[1]
	}
	if m := subjectAreaPattern.FindStringSubmatch(text); m != nil {
		rec.SubjectArea = cleanText(m[1])
	}
}

// extractStatus fills Accreditation and the Scopus/Garuda presence flags
// from the status block.
func (e *Extractor) extractStatus(frag *markup.Fragment, rec *model.JournalRecord) {
	status, ok := frag.FindFirst(statusMarker)
	if !ok {
		return
	}

	if accredited, ok := status.FindFirst(accreditedMarker); ok {
		if m := accreditationPattern.FindStringSubmatch(accredited.Text()); m != nil {
			rec.Accreditation = m[1]
		}
	}

	if _, ok := status.FindFirst(scopusMarker); ok {
		rec.IsScopusIndexed = true
	}

	for _, link := range status.FindAll(anchorMarker) {
		href, ok := link.Attr("href")
		if !ok || !strings.Contains(href, "garuda") {
			continue
		}
		rec.IsGarudaIndexed = true
		rec.GarudaURL = href
		break
	}
}

// extractStatistics pairs label fragments with value fragments positionally
// (label i corresponds to value i) and maps known labels onto the record.
// Pairing stops at the shorter of the two sequences; unmatched labels are
// dropped.
func (e *Extractor) extractStatistics(frag *markup.Fragment, rec *model.JournalRecord) {
	stats, ok := frag.FindFirst(statsMarker)
	if !ok {
		return
	}

	labels := stats.FindAll(statLabelMarker)
	values := stats.FindAll(statValueMarker)

	n := len(labels)
	if len(values) < n {
		n = len(values)
	}

	for i := 0; i < n; i++ {
		label := cleanText(labels[i].Text())
		value := cleanText(values[i].Text())

		switch {
		case strings.Contains(label, "Impact"):
			rec.ImpactScore = value
		case strings.Contains(label, "H5-index"):
			rec.H5Index = value
		case strings.Contains(label, "Citations 5yr"):
			rec.Citations5Yr = value
		case strings.Contains(label, "Citations") && !strings.Contains(label, "5yr"):
			// Total citations only when the label lacks "5yr"; spellings
			// like "Citations (5yr)" are dropped rather than misfiled.
			rec.CitationsTotal = value
		}
	}
}

// extractCover fills CoverImageURL from the first cover-tagged image.
func (e *Extractor) extractCover(frag *markup.Fragment, rec *model.JournalRecord) {
	img, ok := frag.FindFirst(coverMarker)
	if !ok {
		return
	}
	if src, ok := img.Attr("src"); ok {
		rec.CoverImageURL = src
	}
}

// cleanText collapses whitespace runs to single spaces, trims the result,
// and applies NFC normalization so visually identical strings compare equal.
func cleanText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
