package sink

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sintatools/journalharvest/internal/model"
)

const artifactTimestampLayout = "20060102_150405"

// CSVFileName returns the timestamped CSV artifact name.
func CSVFileName(ts time.Time) string {
	return fmt.Sprintf("journals_data_%s.csv", ts.Format(artifactTimestampLayout))
}

// JSONFileName returns the timestamped JSON artifact name.
func JSONFileName(ts time.Time) string {
	return fmt.Sprintf("journals_data_%s.json", ts.Format(artifactTimestampLayout))
}

// StatsFileName returns the timestamped extraction statistics artifact name.
func StatsFileName(ts time.Time) string {
	return fmt.Sprintf("extraction_stats_%s.json", ts.Format(artifactTimestampLayout))
}

// EncodeCSV renders records as CSV with the canonical header row. A run
// with zero records still produces the header so consumers can tell an
// empty harvest from a failed one.
func EncodeCSV(records []model.JournalRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(model.RecordFieldNames()); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i := range records {
		if err := w.Write(records[i].CSVRow()); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// JournalArtifact is the layout of the JSON record artifact: a metadata
// header followed by the full journal array.
type JournalArtifact struct {
	Metadata ArtifactMetadata      `json:"metadata"`
	Journals []model.JournalRecord `json:"journals"`
}

// ArtifactMetadata describes one JSON record artifact.
type ArtifactMetadata struct {
	TotalJournals  int       `json:"total_journals"`
	ExtractionDate time.Time `json:"extraction_date"`
	SourceFolder   string    `json:"source_folder"`
}

// NewJSONEncoder returns an encode function producing the JSON record
// artifact for the given source (a start URL or an archive directory).
// Zero records encode as an empty journals array, not null. A nil clock
// defaults to time.Now.
func NewJSONEncoder(source string, now func() time.Time) func([]model.JournalRecord) ([]byte, error) {
	if now == nil {
		now = time.Now
	}
	return func(records []model.JournalRecord) ([]byte, error) {
		if records == nil {
			records = []model.JournalRecord{}
		}
		artifact := JournalArtifact{
			Metadata: ArtifactMetadata{
				TotalJournals:  len(records),
				ExtractionDate: now(),
				SourceFolder:   source,
			},
			Journals: records,
		}
		data, err := json.MarshalIndent(artifact, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return data, nil
	}
}
