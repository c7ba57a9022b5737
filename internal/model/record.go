package model

import (
	"strconv"
	"time"
)

// JournalRecord is the normalized output unit for one catalog entry.
//
// The schema is closed and total: every field defaults to its empty value
// ("" or false) rather than being absent, so serialized records always carry
// the full key set. Numeric-looking statistics stay as strings to preserve
// the source formatting (e.g. "1.234" vs "1,234").
//
// Design decision: Field order matters. CSV columns and JSON keys follow the
// struct order below, which is the canonical artifact order.
type JournalRecord struct {
	// JournalID is the numeric path segment following /profile/ in the
	// profile URL. Empty when the name link is missing or malformed.
	JournalID string `json:"journal_id"`

	// JournalName is the link text of the name container. Empty if absent.
	JournalName string `json:"journal_name"`

	// ProfileURL is the href of the name link.
	ProfileURL string `json:"profile_url"`

	// GoogleScholarURL is the first secondary link whose URL contains
	// "scholar.google".
	GoogleScholarURL string `json:"google_scholar_url"`

	// WebsiteURL is the first secondary link hinted as the journal website.
	WebsiteURL string `json:"website_url"`

	// EditorURL is the first secondary link hinted as the editor URL.
	EditorURL string `json:"editor_url"`

	// AffiliationURL is the href of the first anchor in the location block.
	AffiliationURL string `json:"affiliation_url"`

	// GarudaURL is the href of the Garuda anchor when present.
	GarudaURL string `json:"garuda_url"`

	// CoverImageURL is the source URL of the journal cover image.
	CoverImageURL string `json:"cover_image_url"`

	// Affiliation is the publisher or institution name.
	Affiliation string `json:"affiliation"`

	// PISSN and EISSN are digit strings parsed from the identifiers block.
	PISSN string `json:"p_issn"`
	EISSN string `json:"e_issn"`

	// SubjectArea is free text, trimmed.
	SubjectArea string `json:"subject_area"`

	// Accreditation matches S<digits> (e.g. "S2") or is empty.
	Accreditation string `json:"accreditation"`

	// IsScopusIndexed and IsGarudaIndexed are presence-based flags.
	IsScopusIndexed bool `json:"is_scopus_indexed"`
	IsGarudaIndexed bool `json:"is_garuda_indexed"`

	// ImpactScore, H5Index, Citations5Yr, and CitationsTotal come from the
	// label/value statistics block, kept as text.
	ImpactScore    string `json:"impact_score"`
	H5Index        string `json:"h5_index"`
	Citations5Yr   string `json:"citations_5yr"`
	CitationsTotal string `json:"citations_total"`

	// SourcePageSequence is the sequence number of the capture that
	// produced this record.
	SourcePageSequence int `json:"source_page_sequence"`

	// ExtractionIndex is the 1-based position of the source fragment
	// within its page. Unique per SourcePageSequence.
	ExtractionIndex int `json:"extraction_index"`

	// ExtractedAt is stamped when the extractor builds the record.
	ExtractedAt time.Time `json:"extracted_at"`
}

// RecordFieldNames returns the canonical artifact field names in order.
// This is the CSV header row and the JSON key order.
func RecordFieldNames() []string {
	return []string{
		"journal_id",
		"journal_name",
		"profile_url",
		"google_scholar_url",
		"website_url",
		"editor_url",
		"affiliation_url",
		"garuda_url",
		"cover_image_url",
		"affiliation",
		"p_issn",
		"e_issn",
		"subject_area",
		"accreditation",
		"is_scopus_indexed",
		"is_garuda_indexed",
		"impact_score",
		"h5_index",
		"citations_5yr",
		"citations_total",
		"source_page_sequence",
		"extraction_index",
		"extracted_at",
	}
}

// CSVRow renders the record as one CSV row in canonical field order.
// Booleans use their canonical text form ("true"/"false") and timestamps
// use RFC 3339.
func (r *JournalRecord) CSVRow() []string {
	return []string{
		r.JournalID,
		r.JournalName,
		r.ProfileURL,
		r.GoogleScholarURL,
		r.WebsiteURL,
		r.EditorURL,
		r.AffiliationURL,
		r.GarudaURL,
		r.CoverImageURL,
		r.Affiliation,
		r.PISSN,
		r.EISSN,
		r.SubjectArea,
		r.Accreditation,
		strconv.FormatBool(r.IsScopusIndexed),
		strconv.FormatBool(r.IsGarudaIndexed),
		r.ImpactScore,
		r.H5Index,
		r.Citations5Yr,
		r.CitationsTotal,
		strconv.Itoa(r.SourcePageSequence),
		strconv.Itoa(r.ExtractionIndex),
		r.ExtractedAt.Format(time.RFC3339),
	}
}
