package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/testpulse/schema"
)

// Default values for configuration.
const (
	DefaultResultsDir        = "test_results"
	DefaultSummaryFile       = "summary_results.txt"
	DefaultHistoryFile       = "metrics_history.json"
	DefaultArchiveDir        = "archive"
	DefaultTextReport        = "analysis_report.txt"
	DefaultHTMLReport        = "test_report.html"
	DefaultHistoryLimit      = 100
	MaxHistoryLimit          = 10000
	DefaultCoverageThreshold = 80
	DefaultChartURL          = "https://cdn.jsdelivr.net/npm/chart.js"
)

// ArchiveTimeFormat names each archive directory.
const ArchiveTimeFormat = "20060102_150405"

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a pipeline run.
// This struct remains the "final, validated" config.
type Config struct {
	ResultsDir  string
	Subjects    []string // Empty means discover from ResultsDir
	SummaryFile string

	HistoryFile  string
	HistoryLimit int
	ArchiveDir   string
	NoArchive    bool

	TextReport  string
	HTMLReport  string
	PrintReport bool // Echo the text report to the console before the summary
	ChartURL    string

	CoverageThreshold int
	TrendWindow       int // 0 = every stored snapshot

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	TrackingBackend   schema.DatabaseBackend
	TrackingDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ResultsDirStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Subjects          string `mapstructure:"subjects"`
	SummaryFile       string `mapstructure:"summary-file"`
	HistoryFile       string `mapstructure:"history-file"`
	HistoryLimit      int    `mapstructure:"history-limit"`
	ArchiveDir        string `mapstructure:"archive-dir"`
	NoArchive         bool   `mapstructure:"no-archive"`
	TextReport        string `mapstructure:"text-report"`
	PrintReport       bool   `mapstructure:"print-report"`
	HTMLReport        string `mapstructure:"html-report"`
	ChartURL          string `mapstructure:"chart-url"`
	CoverageThreshold int    `mapstructure:"coverage-threshold"`
	TrendWindow       int    `mapstructure:"trend-window"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Width             int    `mapstructure:"width"`
	TrackingBackend   string `mapstructure:"tracking-backend"`
	TrackingDBConnect string `mapstructure:"tracking-db-connect"`
	Color             string `mapstructure:"color"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Subjects != nil {
		clone.Subjects = make([]string, len(c.Subjects))
		copy(clone.Subjects, c.Subjects)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSubjects(cfg, input); err != nil {
		return err
	}
	if err := resolveResultPaths(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("tracking-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("tracking-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseTrackingBackend normalizes and validates a tracking backend name.
// An empty name selects the none backend.
func ParseTrackingBackend(name string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(name) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid tracking backend '%s'. must be sqlite, mysql, postgresql, none", name)
	}
	return backend, nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.NoArchive = input.NoArchive
	cfg.PrintReport = input.PrintReport
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ChartURL = strings.TrimSpace(input.ChartURL)
	if cfg.ChartURL == "" {
		cfg.ChartURL = DefaultChartURL
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. History limit Validation ---
	if input.HistoryLimit <= 0 || input.HistoryLimit > MaxHistoryLimit {
		return fmt.Errorf("history-limit must be greater than 0 and cannot exceed %d (received %d)", MaxHistoryLimit, input.HistoryLimit)
	}
	cfg.HistoryLimit = input.HistoryLimit

	// --- 2. Threshold and window Validation ---
	if input.CoverageThreshold < 0 || input.CoverageThreshold > 100 {
		return fmt.Errorf("coverage-threshold must be between 0 and 100 (received %d)", input.CoverageThreshold)
	}
	cfg.CoverageThreshold = input.CoverageThreshold

	if input.TrendWindow < 0 || input.TrendWindow == 1 {
		return fmt.Errorf("trend-window must be 0 (all snapshots) or at least 2 (received %d)", input.TrendWindow)
	}
	cfg.TrendWindow = input.TrendWindow

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 4. Backend Validation ---
	backend, err := ParseTrackingBackend(input.TrackingBackend)
	if err != nil {
		return err
	}
	cfg.TrackingBackend = backend
	cfg.TrackingDBConnect = input.TrackingDBConnect
	if err := ValidateDatabaseConnectionString(cfg.TrackingBackend, cfg.TrackingDBConnect); err != nil {
		return err
	}

	return nil
}

// processSubjects turns the comma-separated subject list into a clean slice.
func processSubjects(cfg *Config, input *ConfigRawInput) error {
	cfg.Subjects = nil
	seen := make(map[string]struct{})
	for part := range strings.SplitSeq(input.Subjects, ",") {
		subject := strings.TrimSpace(part)
		if subject == "" {
			continue
		}
		if strings.ContainsAny(subject, `/\`) {
			return fmt.Errorf("invalid subject name '%s': must not contain path separators", subject)
		}
		if _, dup := seen[subject]; dup {
			continue
		}
		seen[subject] = struct{}{}
		cfg.Subjects = append(cfg.Subjects, subject)
	}

	cfg.SummaryFile = strings.TrimSpace(input.SummaryFile)
	if cfg.SummaryFile == "" {
		cfg.SummaryFile = DefaultSummaryFile
	}
	return nil
}

// resolveResultPaths anchors every output path at the results directory.
// Explicit values are taken relative to the working directory, like any other CLI path.
func resolveResultPaths(cfg *Config, input *ConfigRawInput) error {
	dir := input.ResultsDirStr
	if dir == "" {
		dir = DefaultResultsDir
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	cfg.ResultsDir = filepath.Clean(absDir)

	cfg.HistoryFile = resolveOptionalPath(input.HistoryFile, cfg.ResultsDir, DefaultHistoryFile)
	cfg.ArchiveDir = resolveOptionalPath(input.ArchiveDir, cfg.ResultsDir, DefaultArchiveDir)
	cfg.TextReport = resolveOptionalPath(input.TextReport, cfg.ResultsDir, DefaultTextReport)
	cfg.HTMLReport = resolveOptionalPath(input.HTMLReport, cfg.ResultsDir, DefaultHTMLReport)

	if cfg.TextReport == cfg.HTMLReport {
		return fmt.Errorf("text and HTML reports must be written to different files. Both resolve to %q", cfg.TextReport)
	}
	if cfg.HistoryFile == cfg.TextReport || cfg.HistoryFile == cfg.HTMLReport {
		return fmt.Errorf("history file %q must differ from the report files", cfg.HistoryFile)
	}
	return nil
}

// resolveOptionalPath returns value as an absolute path, or fallback inside baseDir when value is empty.
func resolveOptionalPath(value, baseDir, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return filepath.Join(baseDir, fallback)
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	if abs, err := filepath.Abs(value); err == nil {
		return abs
	}
	return filepath.Join(baseDir, value)
}

// CheckResultsDir returns ErrResultsDirMissing when the directory does not exist.
func CheckResultsDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrResultsDirMissing, dir)
		}
		return fmt.Errorf("cannot access results directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrResultsDirMissing, dir)
	}
	return nil
}

// RevalidateResultsDir points cfg at another results directory. Paths that were
// defaulted inside the previous directory move with it; explicit paths are kept.
func RevalidateResultsDir(cfg *Config, dir string) error {
	absDir, err := filepath.Abs(strings.TrimSpace(dir))
	if err != nil {
		return err
	}
	absDir = filepath.Clean(absDir)

	rebase := func(path, fallback string) string {
		if path == "" || path == filepath.Join(cfg.ResultsDir, fallback) {
			return filepath.Join(absDir, fallback)
		}
		return path
	}
	cfg.HistoryFile = rebase(cfg.HistoryFile, DefaultHistoryFile)
	cfg.ArchiveDir = rebase(cfg.ArchiveDir, DefaultArchiveDir)
	cfg.TextReport = rebase(cfg.TextReport, DefaultTextReport)
	cfg.HTMLReport = rebase(cfg.HTMLReport, DefaultHTMLReport)
	cfg.ResultsDir = absDir
	return CheckResultsDir(absDir)
}

// RevalidateSubjects replaces the subject list with a comma-separated one.
func RevalidateSubjects(cfg *Config, subjects string) error {
	return processSubjects(cfg, &ConfigRawInput{Subjects: subjects, SummaryFile: cfg.SummaryFile})
}
