package iostore

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/internal/parquet"
)

// ExecuteTrackingExport writes the tracked runs and subject rows to two Parquet files
// named after outputFile.
func ExecuteTrackingExport(w io.Writer, mgr contract.TrackingManager, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := mgr.GetTrackingStore()
	if store == nil {
		return errors.New("run tracking is disabled; set --tracking-backend")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get tracking status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no tracked runs found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total subject records: %d\n", status.TableSizes[subjectResultsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	subjects, err := store.GetSubjectRecords()
	if err != nil {
		return fmt.Errorf("failed to retrieve subject results: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	parquetRuns := parquet.ConvertTrackingRunRecords(runs)
	if err := parquet.WriteTrackingRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	subjectsFile := outputFile + ".subject_results.parquet"
	parquetSubjects := parquet.ConvertTrackingSubjectRecords(subjects)
	if err := parquet.WriteTrackingSubjectsParquet(parquetSubjects, subjectsFile); err != nil {
		return fmt.Errorf("failed to write subject results: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d subject records to: %s\n", len(parquetSubjects), subjectsFile)

	return nil
}
