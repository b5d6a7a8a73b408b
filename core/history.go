package core

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/internal/iostore"
	"github.com/huangsam/testpulse/internal/outwriter"
	"github.com/huangsam/testpulse/schema"
)

// loadHistoryForDisplay reads the history and computes its trend. Recovered
// entries are still shown, with a warning, but get no trend.
func loadHistoryForDisplay(cfg *contract.Config, store contract.HistoryStore) ([]schema.HistorySnapshot, *schema.TrendSummary) {
	load := store.Load()
	switch load.Status {
	case schema.MissingStatus:
		contract.LogInfo("No history found at %s", store.Path())
	case schema.RecoveredStatus:
		contract.LogWarn(fmt.Sprintf("History at %s could not be fully read, trend analysis skipped", store.Path()), load.Err)
	}
	return load.History, TrendFromLoad(load, cfg.TrendWindow)
}

// ExecuteHistoryShow prints the stored snapshots and their trend.
func ExecuteHistoryShow(_ context.Context, cfg *contract.Config) error {
	store := iostore.NewHistoryFile(cfg.HistoryFile, cfg.HistoryLimit)
	history, trend := loadHistoryForDisplay(cfg, store)
	return outwriter.NewOutWriter().WriteHistory(history, trend, cfg)
}

// ExecuteHistoryExport writes the stored snapshots to cfg.OutputFile in a
// machine-readable format.
func ExecuteHistoryExport(_ context.Context, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if cfg.Output == schema.TextOut {
		return errors.New("export requires --output json, csv or parquet")
	}
	store := iostore.NewHistoryFile(cfg.HistoryFile, cfg.HistoryLimit)
	history, trend := loadHistoryForDisplay(cfg, store)
	return outwriter.NewOutWriter().WriteHistory(history, trend, cfg)
}

// ExecuteHistoryStatus prints a summary of the history file.
func ExecuteHistoryStatus(_ context.Context, cfg *contract.Config, w io.Writer) error {
	store := iostore.NewHistoryFile(cfg.HistoryFile, cfg.HistoryLimit)
	iostore.PrintHistoryStatus(w, iostore.GetHistoryStatus(store))
	return nil
}
