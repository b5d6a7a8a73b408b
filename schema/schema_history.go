package schema

import (
	"encoding/json"
	"fmt"
	"time"
)

// zonelessTimeLayouts cover ISO 8601 timestamps written without an offset by older
// tooling, such as `2025-01-15T10:30:00.123456`. They are read as local time.
var zonelessTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseHistoryTime parses an RFC 3339 timestamp, falling back to the zone-less forms.
func ParseHistoryTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	for _, layout := range zonelessTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// HistorySnapshot is one persisted run. Snapshots are appended, never rewritten.
type HistorySnapshot struct {
	Timestamp time.Time                `json:"timestamp"`
	Programs  map[string]SubjectResult `json:"programs"`
	Totals    AggregateTotals          `json:"totals"`
}

// UnmarshalJSON decodes a snapshot, reading the timestamp with ParseHistoryTime.
// A missing or unreadable timestamp leaves the zero time and keeps the snapshot,
// since its counters and totals are still usable.
func (s *HistorySnapshot) UnmarshalJSON(data []byte) error {
	type plain HistorySnapshot
	var raw struct {
		plain
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = HistorySnapshot(raw.plain)
	s.Timestamp = time.Time{}

	var value string
	if err := json.Unmarshal(raw.Timestamp, &value); err == nil {
		if t, err := ParseHistoryTime(value); err == nil {
			s.Timestamp = t
		}
	}
	return nil
}

// HistoryLoad is the outcome of reading the history file.
type HistoryLoad struct {
	History []HistorySnapshot
	Status  LoadStatus
	Err     error // Cause when Status is RecoveredStatus
	Skipped int   // Entries dropped because they could not be decoded
}

// Recovered reports whether the load had to discard stored content.
func (h HistoryLoad) Recovered() bool {
	return h.Status == RecoveredStatus
}

// TrendSummary describes how aggregate totals moved across consecutive snapshots.
type TrendSummary struct {
	Samples            int     `json:"samples"`
	CoverageTrend      float64 `json:"coverage_trend"`
	QualityTrend       float64 `json:"quality_trend"`
	TestCountTrend     float64 `json:"test_count_trend"`
	CoverageVolatility float64 `json:"coverage_volatility"`
	QualityVolatility  float64 `json:"quality_volatility"`
}

// ArchiveMetadata is written next to the archived result files.
type ArchiveMetadata struct {
	ArchiveID string    `json:"archive_id"`
	Timestamp time.Time `json:"timestamp"`
	SourceDir string    `json:"source_dir"`
	Programs  []string  `json:"programs"` // Source paths of the archived result files
	Files     []string  `json:"files"`
}

// UnmarshalJSON accepts the zone-less timestamps of older archives.
func (m *ArchiveMetadata) UnmarshalJSON(data []byte) error {
	type plain ArchiveMetadata
	var raw struct {
		plain
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = ArchiveMetadata(raw.plain)
	m.Timestamp = time.Time{}
	if raw.Timestamp == "" {
		return nil
	}
	t, err := ParseHistoryTime(raw.Timestamp)
	if err != nil {
		return err
	}
	m.Timestamp = t
	return nil
}
