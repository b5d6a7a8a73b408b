// Package parquet provides data structures and functions for exporting testpulse
// history and tracking data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/testpulse/schema"
	"github.com/parquet-go/parquet-go"
)

// HistoryRow is one subject of one history snapshot, flattened for columnar tools.
type HistoryRow struct {
	// Timestamp is when the snapshot was taken
	Timestamp time.Time `parquet:"timestamp,snappy"`

	// Subject is the program name
	Subject string `parquet:"subject,snappy"`

	TotalTests   int32 `parquet:"total_tests,snappy"`
	Passed       int32 `parquet:"passed,snappy"`
	Failed       int32 `parquet:"failed,snappy"`
	Coverage     int32 `parquet:"coverage,snappy"`
	QualityScore int32 `parquet:"quality_score,snappy"`

	// OverallCoverage and OverallQuality repeat the snapshot totals on every row
	OverallCoverage int32 `parquet:"overall_coverage,snappy"`
	OverallQuality  int32 `parquet:"overall_quality,snappy"`
}

// TrackingRun represents a single pipeline run.
// This struct maps to the testpulse_runs database table.
type TrackingRun struct {
	// RunID is the unique identifier for this run
	RunID string `parquet:"run_id,snappy"`

	// ResultsDir is the directory the run parsed (nullable when unknown)
	ResultsDir *string `parquet:"results_dir,optional,snappy"`

	// RunTime is when the report was generated (stored as TIMESTAMP with nanosecond precision)
	RunTime time.Time `parquet:"run_time,snappy"`

	SubjectCount    int32 `parquet:"subject_count,snappy"`
	TotalTests      int32 `parquet:"total_tests,snappy"`
	TotalPassed     int32 `parquet:"total_passed,snappy"`
	TotalFailed     int32 `parquet:"total_failed,snappy"`
	OverallCoverage int32 `parquet:"overall_coverage,snappy"`
	OverallQuality  int32 `parquet:"overall_quality,snappy"`
}

// TrackingSubject represents the result of one subject in a run.
// This struct maps to the testpulse_subject_results database table.
type TrackingSubject struct {
	// RunID references the parent run
	RunID string `parquet:"run_id,snappy"`

	// Subject is the program name
	Subject string `parquet:"subject,snappy"`

	TotalTests   int32 `parquet:"total_tests,snappy"`
	Passed       int32 `parquet:"passed,snappy"`
	Failed       int32 `parquet:"failed,snappy"`
	Coverage     int32 `parquet:"coverage,snappy"`
	QualityScore int32 `parquet:"quality_score,snappy"`

	// ComplexityLevel is LOW, MEDIUM or HIGH
	ComplexityLevel string `parquet:"complexity_level,snappy"`

	QualityIndex int32 `parquet:"quality_index,snappy"`

	// Status is PASS or PARTIAL
	Status string `parquet:"status,snappy"`
}

// writeRows streams rows to w using struct schema inference.
func writeRows[T any](w io.Writer, data []T) error {
	// The schema is automatically derived from the struct tags
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows into it.
func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeRows(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteHistory writes history rows to w.
func WriteHistory(w io.Writer, data []HistoryRow) error {
	return writeRows(w, data)
}

// WriteTrackingRunsParquet writes a slice of TrackingRun structs to a Parquet file.
func WriteTrackingRunsParquet(data []TrackingRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteTrackingSubjectsParquet writes a slice of TrackingSubject structs to a Parquet file.
func WriteTrackingSubjectsParquet(data []TrackingSubject, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertHistory flattens snapshots into one row per subject, oldest snapshot first
// and subjects in name order.
func ConvertHistory(history []schema.HistorySnapshot) []HistoryRow {
	var rows []HistoryRow
	for _, snap := range history {
		for _, name := range schema.SubjectNames(snap.Programs) {
			r := snap.Programs[name]
			rows = append(rows, HistoryRow{
				Timestamp:       snap.Timestamp,
				Subject:         name,
				TotalTests:      int32(r.TotalTests),
				Passed:          int32(r.Passed),
				Failed:          int32(r.Failed),
				Coverage:        int32(r.Coverage),
				QualityScore:    int32(r.QualityScore),
				OverallCoverage: int32(snap.Totals.OverallCoverage),
				OverallQuality:  int32(snap.Totals.OverallQuality),
			})
		}
	}
	return rows
}

// ConvertTrackingRunRecords converts schema.TrackingRunRecord to TrackingRun for Parquet export.
func ConvertTrackingRunRecords(records []schema.TrackingRunRecord) []TrackingRun {
	result := make([]TrackingRun, len(records))
	for i, record := range records {
		var dir *string
		if record.ResultsDir != "" {
			d := record.ResultsDir
			dir = &d
		}
		result[i] = TrackingRun{
			RunID:           record.RunID,
			ResultsDir:      dir,
			RunTime:         record.RunTime,
			SubjectCount:    record.SubjectCount,
			TotalTests:      record.TotalTests,
			TotalPassed:     record.TotalPassed,
			TotalFailed:     record.TotalFailed,
			OverallCoverage: record.OverallCoverage,
			OverallQuality:  record.OverallQuality,
		}
	}
	return result
}

// ConvertTrackingSubjectRecords converts schema.TrackingSubjectRecord to TrackingSubject for Parquet export.
func ConvertTrackingSubjectRecords(records []schema.TrackingSubjectRecord) []TrackingSubject {
	result := make([]TrackingSubject, len(records))
	for i, r := range records {
		result[i] = TrackingSubject(r)
	}
	return result
}
