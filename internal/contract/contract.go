// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/testpulse/schema"
)

// Sentinel errors that map to a non-zero process exit.
var (
	// ErrResultsDirMissing means the results directory does not exist.
	ErrResultsDirMissing = errors.New("results directory does not exist")

	// ErrNoResultFiles means no subject result file was found in the results directory.
	ErrNoResultFiles = errors.New("no result files found")
)

// HistoryStore defines the operations on the persisted snapshot history.
// This allows the pipeline to be tested without touching the real history file.
type HistoryStore interface {
	// Load reads the stored history. It never fails: problems are reported
	// through the returned status.
	Load() schema.HistoryLoad

	// Append adds a snapshot, caps the sequence and writes it back.
	Append(ctx context.Context, snapshot schema.HistorySnapshot) ([]schema.HistorySnapshot, error)

	// Save replaces the stored history with the given sequence.
	Save(ctx context.Context, history []schema.HistorySnapshot) error

	// Path returns the location of the history file.
	Path() string
}

// Archiver copies raw result files into a timestamped archive directory.
type Archiver interface {
	Archive(ctx context.Context, resultsDir string, subjects []schema.ParsedSubject, now time.Time) (string, error)
}

// TrackingManager defines the interface for managing the run tracking store.
// This allows the tracking layer to be mocked for testing.
type TrackingManager interface {
	GetTrackingStore() TrackingStore
}

// TrackingStore defines the interface for mirroring runs into a database.
type TrackingStore interface {
	// RecordRun stores one run row and one row per subject
	RecordRun(runID string, report *schema.Report) error

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.TrackingRunRecord, error)

	// GetSubjectRecords returns the subject rows of every recorded run
	GetSubjectRecords() ([]schema.TrackingSubjectRecord, error)

	// GetStatus returns status information about the tracking store
	GetStatus() (schema.TrackingStatus, error)

	// Close closes the underlying connection
	Close() error
}

// ReportWriter renders a finished report to its destinations.
type ReportWriter interface {
	// WriteTextReport renders the plain-text analysis report to path
	WriteTextReport(report *schema.Report, path string) error

	// WriteHTMLReport renders the HTML dashboard to path
	WriteHTMLReport(report *schema.Report, cfg *Config, path string) error

	// WriteSummary prints the run summary in the configured output format
	WriteSummary(report *schema.Report, cfg *Config) error
}
