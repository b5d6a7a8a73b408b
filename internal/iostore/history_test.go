package iostore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/testpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotAt(i int) schema.HistorySnapshot {
	return schema.HistorySnapshot{
		Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		Programs: map[string]schema.SubjectResult{
			"NUMBERS": {TotalTests: 10, Passed: 8, Failed: 2, Coverage: 70 + i%30, QualityScore: 80},
		},
		Totals: schema.AggregateTotals{TotalTests: 10, TotalPassed: 8, TotalFailed: 2, OverallCoverage: 70 + i%30, OverallQuality: 80},
	}
}

func TestHistoryFile_LoadMissing(t *testing.T) {
	store := NewHistoryFile(filepath.Join(t.TempDir(), "metrics_history.json"), 0)
	load := store.Load()
	assert.Equal(t, schema.MissingStatus, load.Status)
	assert.Empty(t, load.History)
	assert.NoError(t, load.Err)
}

func TestDecodeHistory(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		wantStatus  schema.LoadStatus
		wantEntries int
		wantSkipped int
	}{
		{"empty file", "", schema.MissingStatus, 0, 0},
		{"whitespace", "  \n", schema.MissingStatus, 0, 0},
		{"null", "null", schema.MissingStatus, 0, 0},
		{"empty array", "[]", schema.LoadedStatus, 0, 0},
		{
			name:        "valid array",
			data:        `[{"timestamp":"2026-01-01T00:00:00Z","programs":{},"totals":{"overall_coverage":70}}]`,
			wantStatus:  schema.LoadedStatus,
			wantEntries: 1,
		},
		{
			name:        "single object",
			data:        `{"timestamp":"2026-01-01T00:00:00Z","programs":{},"totals":{}}`,
			wantStatus:  schema.LoadedStatus,
			wantEntries: 1,
		},
		{
			name:        "malformed entry skipped",
			data:        `[{"timestamp":"2026-01-01T00:00:00Z"},{"totals":"oops"},42]`,
			wantStatus:  schema.RecoveredStatus,
			wantEntries: 1,
			wantSkipped: 2,
		},
		{
			name:        "zoneless timestamps",
			data:        `[{"timestamp":"2025-01-15T10:30:00.123456","programs":{},"totals":{"overall_coverage":70}},{"timestamp":"2025-01-16T10:30:00.654321","programs":{},"totals":{"overall_coverage":75}}]`,
			wantStatus:  schema.LoadedStatus,
			wantEntries: 2,
		},
		{
			name:        "unreadable timestamp keeps entry",
			data:        `[{"timestamp":"not a time","totals":{"overall_coverage":70}},{"totals":{"overall_coverage":75}}]`,
			wantStatus:  schema.LoadedStatus,
			wantEntries: 2,
		},
		{"truncated json", `[{"timestamp":`, schema.RecoveredStatus, 0, 0},
		{"scalar", `"hello"`, schema.RecoveredStatus, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			load := DecodeHistory([]byte(tt.data))
			assert.Equal(t, tt.wantStatus, load.Status)
			assert.Len(t, load.History, tt.wantEntries)
			assert.Equal(t, tt.wantSkipped, load.Skipped)
			if tt.wantStatus == schema.RecoveredStatus {
				assert.Error(t, load.Err)
			}
		})
	}
}

func TestHistoryFile_SaveLoadRoundTrip(t *testing.T) {
	store := NewHistoryFile(filepath.Join(t.TempDir(), "metrics_history.json"), 0)
	history := []schema.HistorySnapshot{snapshotAt(0), snapshotAt(1), snapshotAt(2)}

	require.NoError(t, store.Save(context.Background(), history))

	load := store.Load()
	require.Equal(t, schema.LoadedStatus, load.Status)
	require.Len(t, load.History, 3)
	for i := range history {
		assert.True(t, history[i].Timestamp.Equal(load.History[i].Timestamp))
		assert.Equal(t, history[i].Programs, load.History[i].Programs)
		assert.Equal(t, history[i].Totals, load.History[i].Totals)
	}
}

func TestHistoryFile_AppendCapsToLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics_history.json")
	store := NewHistoryFile(path, 100)

	seed := make([]schema.HistorySnapshot, 100)
	for i := range seed {
		seed[i] = snapshotAt(i)
	}
	require.NoError(t, store.Save(context.Background(), seed))

	updated, err := store.Append(context.Background(), snapshotAt(100))
	require.NoError(t, err)
	require.Len(t, updated, 100)

	// Oldest entry dropped, newest last
	assert.True(t, updated[0].Timestamp.Equal(snapshotAt(1).Timestamp))
	assert.True(t, updated[99].Timestamp.Equal(snapshotAt(100).Timestamp))

	load := store.Load()
	assert.Len(t, load.History, 100)
}

// legacyHistory is a history file whose timestamps carry no zone offset.
const legacyHistory = `[
  {
    "timestamp": "2025-01-15T10:30:00.123456",
    "programs": {"NUMBERS": {"total_tests": 10, "passed": 8, "failed": 2, "coverage": 70, "quality_score": 80}},
    "totals": {"total_tests": 10, "total_passed": 8, "total_failed": 2, "overall_coverage": 70, "overall_quality": 80}
  },
  {
    "timestamp": "2025-01-16T10:30:00.654321",
    "programs": {"NUMBERS": {"total_tests": 12, "passed": 12, "failed": 0, "coverage": 75, "quality_score": 85}},
    "totals": {"total_tests": 12, "total_passed": 12, "total_failed": 0, "overall_coverage": 75, "overall_quality": 85}
  }
]`

func TestHistoryFile_AppendKeepsZonelessHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics_history.json")
	require.NoError(t, os.WriteFile(path, []byte(legacyHistory), 0o644))
	store := NewHistoryFile(path, 100)

	load := store.Load()
	require.Equal(t, schema.LoadedStatus, load.Status)
	require.Len(t, load.History, 2)
	assert.True(t, load.History[0].Timestamp.Equal(time.Date(2025, 1, 15, 10, 30, 0, 123456000, time.Local)))
	assert.Equal(t, 75, load.History[1].Totals.OverallCoverage)

	updated, err := store.Append(context.Background(), snapshotAt(0))
	require.NoError(t, err)
	require.Len(t, updated, 3)
	assert.Equal(t, 70, updated[0].Totals.OverallCoverage)

	reloaded := store.Load()
	assert.Equal(t, schema.LoadedStatus, reloaded.Status)
	assert.Len(t, reloaded.History, 3)
	_, err = os.Stat(path + corruptSuffix)
	assert.True(t, os.IsNotExist(err), "readable history must not be preserved as corrupt")
}

func TestHistoryFile_AppendCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "metrics_history.json")
	store := NewHistoryFile(path, 5)

	updated, err := store.Append(context.Background(), snapshotAt(0))
	require.NoError(t, err)
	assert.Len(t, updated, 1)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestHistoryFile_AppendPreservesCorruptContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics_history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewHistoryFile(path, 0)
	assert.Equal(t, schema.RecoveredStatus, store.Load().Status)

	updated, err := store.Append(context.Background(), snapshotAt(0))
	require.NoError(t, err)
	assert.Len(t, updated, 1)

	backup, err := os.ReadFile(path + corruptSuffix)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))
	assert.Equal(t, schema.LoadedStatus, store.Load().Status)
}

func TestHistoryFile_ConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics_history.json")

	const writers = 8
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := NewHistoryFile(path, 0).Append(context.Background(), snapshotAt(i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	load := NewHistoryFile(path, 0).Load()
	assert.Equal(t, schema.LoadedStatus, load.Status)
	assert.Len(t, load.History, writers)
}

func TestCapHistory(t *testing.T) {
	history := []schema.HistorySnapshot{snapshotAt(0), snapshotAt(1), snapshotAt(2)}
	assert.Len(t, CapHistory(history, 2), 2)
	assert.True(t, CapHistory(history, 2)[0].Timestamp.Equal(snapshotAt(1).Timestamp))
	assert.Len(t, CapHistory(history, 5), 3)
	assert.Len(t, CapHistory(history, 0), 3)
}

func TestEncodeHistory_Nil(t *testing.T) {
	data, err := EncodeHistory(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestGetHistoryStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics_history.json")
	store := NewHistoryFile(path, 0)

	status := GetHistoryStatus(store)
	assert.Equal(t, schema.MissingStatus, status.Load)
	assert.Zero(t, status.Entries)
	assert.Nil(t, status.LatestTotals)

	require.NoError(t, store.Save(context.Background(), []schema.HistorySnapshot{snapshotAt(0), snapshotAt(3)}))
	status = GetHistoryStatus(store)
	assert.Equal(t, path, status.Path)
	assert.Equal(t, 2, status.Entries)
	assert.True(t, status.OldestEntry.Equal(snapshotAt(0).Timestamp))
	assert.True(t, status.NewestEntry.Equal(snapshotAt(3).Timestamp))
	require.NotNil(t, status.LatestTotals)
	assert.Equal(t, 73, status.LatestTotals.OverallCoverage)
}
