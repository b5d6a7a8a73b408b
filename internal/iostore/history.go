package iostore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/huangsam/testpulse/internal/atomicfile"
	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/schema"
)

// corruptSuffix is appended to a history file that had to be discarded.
const corruptSuffix = ".corrupt"

// HistoryFile stores snapshots as a JSON array on disk, oldest first.
type HistoryFile struct {
	path  string
	limit int
}

var _ contract.HistoryStore = &HistoryFile{} // Compile-time check

// NewHistoryFile returns a store that keeps at most limit snapshots at path.
func NewHistoryFile(path string, limit int) *HistoryFile {
	if limit <= 0 {
		limit = contract.DefaultHistoryLimit
	}
	return &HistoryFile{path: path, limit: limit}
}

// Path returns the location of the history file.
func (h *HistoryFile) Path() string {
	return h.path
}

// Load reads the history file. A missing or blank file yields an empty history.
// Content that cannot be decoded is reported as RecoveredStatus together with
// whatever entries could still be salvaged.
func (h *HistoryFile) Load() schema.HistoryLoad {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return schema.HistoryLoad{Status: schema.MissingStatus}
		}
		return schema.HistoryLoad{Status: schema.RecoveredStatus, Err: fmt.Errorf("failed to read history: %w", err)}
	}
	return DecodeHistory(data)
}

// DecodeHistory decodes the content of a history file. A single JSON object is
// accepted as a one-element history. Entries that fail to decode are skipped.
func DecodeHistory(data []byte) schema.HistoryLoad {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return schema.HistoryLoad{Status: schema.MissingStatus}
	}

	var items []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return schema.HistoryLoad{Status: schema.RecoveredStatus, Err: fmt.Errorf("history is not valid JSON: %w", err)}
		}
	case '{':
		items = []json.RawMessage{trimmed}
	default:
		return schema.HistoryLoad{Status: schema.RecoveredStatus, Err: errors.New("history must be a JSON array of snapshots")}
	}

	load := schema.HistoryLoad{
		History: make([]schema.HistorySnapshot, 0, len(items)),
		Status:  schema.LoadedStatus,
	}
	for _, item := range items {
		var snap schema.HistorySnapshot
		if err := json.Unmarshal(item, &snap); err != nil {
			load.Skipped++
			continue
		}
		load.History = append(load.History, snap)
	}
	if load.Skipped > 0 {
		load.Status = schema.RecoveredStatus
		load.Err = fmt.Errorf("skipped %d malformed history entries", load.Skipped)
	}
	return load
}

// EncodeHistory renders the history as an indented JSON array.
func EncodeHistory(history []schema.HistorySnapshot) ([]byte, error) {
	if history == nil {
		history = []schema.HistorySnapshot{}
	}
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	return append(data, '\n'), nil
}

// CapHistory keeps the newest limit snapshots without reordering them.
func CapHistory(history []schema.HistorySnapshot, limit int) []schema.HistorySnapshot {
	if limit > 0 && len(history) > limit {
		return history[len(history)-limit:]
	}
	return history
}

// Append adds the snapshot to the stored history, drops the oldest entries beyond
// the limit and writes the result back atomically under the history lock.
func (h *HistoryFile) Append(ctx context.Context, snapshot schema.HistorySnapshot) ([]schema.HistorySnapshot, error) {
	var updated []schema.HistorySnapshot
	err := withFileLock(ctx, h.path, func() error {
		load := h.Load()
		if load.Recovered() {
			h.preserveCorrupt()
		}
		updated = CapHistory(append(load.History, snapshot), h.limit)
		return h.write(updated)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Save replaces the stored history, applying the limit.
func (h *HistoryFile) Save(ctx context.Context, history []schema.HistorySnapshot) error {
	return withFileLock(ctx, h.path, func() error {
		return h.write(CapHistory(history, h.limit))
	})
}

// write encodes and atomically replaces the history file.
func (h *HistoryFile) write(history []schema.HistorySnapshot) error {
	data, err := EncodeHistory(history)
	if err != nil {
		return err
	}
	return atomicfile.WriteFile(h.path, data, atomicfile.DefaultPerm)
}

// preserveCorrupt keeps a copy of unreadable content before it gets overwritten.
func (h *HistoryFile) preserveCorrupt() {
	data, err := os.ReadFile(h.path)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return
	}
	backup := h.path + corruptSuffix
	if err := atomicfile.WriteFile(backup, data, atomicfile.DefaultPerm); err != nil {
		contract.LogWarn("Failed to preserve corrupt history", err)
		return
	}
	contract.LogInfo("⚠️  Preserved unreadable history at %s", backup)
}

// GetHistoryStatus summarizes the history file.
func GetHistoryStatus(store contract.HistoryStore) schema.HistoryStatus {
	load := store.Load()
	status := schema.HistoryStatus{
		Path:    store.Path(),
		Load:    load.Status,
		Entries: len(load.History),
		Skipped: load.Skipped,
	}
	if n := len(load.History); n > 0 {
		status.OldestEntry = load.History[0].Timestamp
		status.NewestEntry = load.History[n-1].Timestamp
		latest := load.History[n-1].Totals
		status.LatestTotals = &latest
	}
	return status
}
