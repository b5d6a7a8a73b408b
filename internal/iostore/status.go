package iostore

import (
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/schema"
)

// PrintTrackingStatus prints tracking store status information.
func PrintTrackingStatus(w io.Writer, status schema.TrackingStatus) {
	_, _ = fmt.Fprintf(w, "Tracking Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %s\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Local().Format(contract.DateTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Local().Format(contract.DateTimeFormat))
		_, _ = fmt.Fprintf(w, "Total Subjects Recorded: %d\n", status.TotalSubjects)
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}

// PrintHistoryStatus prints a summary of the JSON history file.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History File: %s\n", status.Path)
	_, _ = fmt.Fprintf(w, "Load Status: %s\n", status.Load)
	_, _ = fmt.Fprintf(w, "Entries: %d\n", status.Entries)
	if status.Skipped > 0 {
		_, _ = fmt.Fprintf(w, "Skipped Entries: %d\n", status.Skipped)
	}
	if status.Entries == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntry.Local().Format(contract.DateTimeFormat))
	_, _ = fmt.Fprintf(w, "Newest Entry: %s\n", status.NewestEntry.Local().Format(contract.DateTimeFormat))
	if t := status.LatestTotals; t != nil {
		_, _ = fmt.Fprintf(w, "Latest Totals: %d tests, %d passed, %d failed, %d%% coverage, %d%% quality\n",
			t.TotalTests, t.TotalPassed, t.TotalFailed, t.OverallCoverage, t.OverallQuality)
	}
}
