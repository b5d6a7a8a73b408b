package contract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/testpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input matching the CLI defaults.
func validInput(dir string) *ConfigRawInput {
	return &ConfigRawInput{
		ResultsDirStr:     dir,
		HistoryLimit:      DefaultHistoryLimit,
		CoverageThreshold: DefaultCoverageThreshold,
		Output:            "text",
		TrackingBackend:   "none",
		Color:             "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{
			name:   "valid minimal config",
			mutate: func(*ConfigRawInput) {},
		},
		{
			name:        "history limit zero",
			mutate:      func(in *ConfigRawInput) { in.HistoryLimit = 0 },
			expectError: "history-limit",
		},
		{
			name:        "history limit too large",
			mutate:      func(in *ConfigRawInput) { in.HistoryLimit = MaxHistoryLimit + 1 },
			expectError: "history-limit",
		},
		{
			name:        "coverage threshold above 100",
			mutate:      func(in *ConfigRawInput) { in.CoverageThreshold = 101 },
			expectError: "coverage-threshold",
		},
		{
			name:        "trend window of one",
			mutate:      func(in *ConfigRawInput) { in.TrendWindow = 1 },
			expectError: "trend-window",
		},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "yaml" },
			expectError: "invalid output format",
		},
		{
			name:        "parquet without output file",
			mutate:      func(in *ConfigRawInput) { in.Output = "parquet" },
			expectError: "requires --output-file",
		},
		{
			name:        "invalid color",
			mutate:      func(in *ConfigRawInput) { in.Color = "maybe" },
			expectError: "--color",
		},
		{
			name:        "invalid backend",
			mutate:      func(in *ConfigRawInput) { in.TrackingBackend = "oracle" },
			expectError: "invalid tracking backend",
		},
		{
			name:        "mysql without connection string",
			mutate:      func(in *ConfigRawInput) { in.TrackingBackend = "mysql" },
			expectError: "tracking-db-connect is required",
		},
		{
			name:        "subject with path separator",
			mutate:      func(in *ConfigRawInput) { in.Subjects = "NUMBERS,../etc" },
			expectError: "path separators",
		},
		{
			name: "same report file twice",
			mutate: func(in *ConfigRawInput) {
				in.TextReport = filepath.Join(dir, "report")
				in.HTMLReport = filepath.Join(dir, "report")
			},
			expectError: "different files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput(dir)
			tt.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidate_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput(dir)))

	assert.Equal(t, dir, cfg.ResultsDir)
	assert.Equal(t, filepath.Join(dir, DefaultHistoryFile), cfg.HistoryFile)
	assert.Equal(t, filepath.Join(dir, DefaultArchiveDir), cfg.ArchiveDir)
	assert.Equal(t, filepath.Join(dir, DefaultTextReport), cfg.TextReport)
	assert.Equal(t, filepath.Join(dir, DefaultHTMLReport), cfg.HTMLReport)
	assert.Equal(t, DefaultSummaryFile, cfg.SummaryFile)
	assert.Equal(t, DefaultChartURL, cfg.ChartURL)
	assert.Equal(t, schema.NoneBackend, cfg.TrackingBackend)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Empty(t, cfg.Subjects)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidate_Subjects(t *testing.T) {
	input := validInput(t.TempDir())
	input.Subjects = " NUMBERS, STRINGS ,,NUMBERS "

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, []string{"NUMBERS", "STRINGS"}, cfg.Subjects)

	clone := cfg.Clone()
	clone.Subjects[0] = "CHANGED"
	assert.Equal(t, "NUMBERS", cfg.Subjects[0], "clone must not share the subjects slice")
}

func TestProcessAndValidate_ExplicitPaths(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	input := validInput(dir)
	input.HistoryFile = filepath.Join(other, "history.json")

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, filepath.Join(other, "history.json"), cfg.HistoryFile)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite empty ok", schema.SQLiteBackend, "", false},
		{"none ok", schema.NoneBackend, "", false},
		{"mysql ok", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/db", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/db", true},
		{"postgres ok", schema.PostgreSQLBackend, "host=localhost dbname=db", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckResultsDir(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, CheckResultsDir(dir))

	err := CheckResultsDir(filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResultsDirMissing))

	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	err = CheckResultsDir(file)
	assert.True(t, errors.Is(err, ErrResultsDirMissing))
}

func TestRevalidateResultsDir(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	explicit := filepath.Join(t.TempDir(), "history.json")

	input := validInput(dir)
	input.HistoryFile = explicit
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	require.NoError(t, RevalidateResultsDir(cfg, other))
	assert.Equal(t, other, cfg.ResultsDir)
	assert.Equal(t, explicit, cfg.HistoryFile)
	assert.Equal(t, filepath.Join(other, DefaultTextReport), cfg.TextReport)
	assert.Equal(t, filepath.Join(other, DefaultArchiveDir), cfg.ArchiveDir)

	err := RevalidateResultsDir(cfg, filepath.Join(other, "missing"))
	assert.True(t, errors.Is(err, ErrResultsDirMissing))
}

func TestRevalidateSubjects(t *testing.T) {
	cfg := &Config{SummaryFile: "run_summary.txt"}
	require.NoError(t, RevalidateSubjects(cfg, "STRINGS, NUMBERS"))
	assert.Equal(t, []string{"STRINGS", "NUMBERS"}, cfg.Subjects)
	assert.Equal(t, "run_summary.txt", cfg.SummaryFile)

	assert.Error(t, RevalidateSubjects(cfg, "../x"))
}
