package schema

import "time"

// TrackingStatus represents the status of the run tracking store.
type TrackingStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     string           `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalSubjects int              `json:"total_subjects"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// HistoryStatus summarizes the JSON history file.
type HistoryStatus struct {
	Path         string           `json:"path"`
	Load         LoadStatus       `json:"load"`
	Entries      int              `json:"entries"`
	Skipped      int              `json:"skipped"`
	OldestEntry  time.Time        `json:"oldest_entry"`
	NewestEntry  time.Time        `json:"newest_entry"`
	LatestTotals *AggregateTotals `json:"latest_totals,omitempty"`
}
