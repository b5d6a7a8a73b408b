package iostore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for run tracking.
const (
	runsTable           = "testpulse_runs"
	subjectResultsTable = "testpulse_subject_results"
)

// TrackingStoreImpl implements the TrackingStore interface.
type TrackingStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.TrackingStore = &TrackingStoreImpl{} // Compile-time check

// driverFor maps a backend to its database/sql driver name.
func driverFor(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// openDB opens and pings the database for a backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	driverName, err := driverFor(backend)
	if err != nil {
		return nil, "", err
	}

	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetTrackingDBFilePath()
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		switch backend {
		case schema.MySQLBackend:
			return nil, "", fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname?parseTime=true", err)
		case schema.PostgreSQLBackend:
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		default:
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", connStr, err)
		}
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, "", fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, driverName, nil
}

// NewTrackingStore creates a new TrackingStore with the specified backend.
func NewTrackingStore(backend schema.DatabaseBackend, connStr string) (contract.TrackingStore, error) {
	if backend == schema.NoneBackend || backend == "" {
		// Return a no-op store for disabled tracking
		return &TrackingStoreImpl{backend: schema.NoneBackend}, nil
	}

	db, driverName, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Create the table schemas
	if err := createTrackingTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tracking tables: %w", err)
	}

	return &TrackingStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createTrackingTables creates the run tracking tables.
func createTrackingTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{subjectResultsTable, getCreateSubjectResultsQuery(backend)},
	}

	for _, table := range tables {
		if err := validateTableName(table.name); err != nil {
			return err
		}
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for testpulse_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) PRIMARY KEY,
				results_dir TEXT NOT NULL,
				run_time DATETIME(6) NOT NULL,
				subject_count INT NOT NULL,
				total_tests INT NOT NULL,
				total_passed INT NOT NULL,
				total_failed INT NOT NULL,
				overall_coverage INT NOT NULL,
				overall_quality INT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) PRIMARY KEY,
				results_dir TEXT NOT NULL,
				run_time TIMESTAMPTZ NOT NULL,
				subject_count INT NOT NULL,
				total_tests INT NOT NULL,
				total_passed INT NOT NULL,
				total_failed INT NOT NULL,
				overall_coverage INT NOT NULL,
				overall_quality INT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				results_dir TEXT NOT NULL,
				run_time TEXT NOT NULL,
				subject_count INTEGER NOT NULL,
				total_tests INTEGER NOT NULL,
				total_passed INTEGER NOT NULL,
				total_failed INTEGER NOT NULL,
				overall_coverage INTEGER NOT NULL,
				overall_quality INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateSubjectResultsQuery returns the CREATE TABLE query for testpulse_subject_results.
func getCreateSubjectResultsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(subjectResultsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) NOT NULL,
				subject VARCHAR(255) NOT NULL,
				total_tests INT NOT NULL,
				passed INT NOT NULL,
				failed INT NOT NULL,
				coverage INT NOT NULL,
				quality_score INT NOT NULL,
				complexity_level VARCHAR(10) NOT NULL,
				quality_index INT NOT NULL,
				status VARCHAR(10) NOT NULL,
				PRIMARY KEY (run_id, subject)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) NOT NULL,
				subject TEXT NOT NULL,
				total_tests INT NOT NULL,
				passed INT NOT NULL,
				failed INT NOT NULL,
				coverage INT NOT NULL,
				quality_score INT NOT NULL,
				complexity_level TEXT NOT NULL,
				quality_index INT NOT NULL,
				status TEXT NOT NULL,
				PRIMARY KEY (run_id, subject)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				subject TEXT NOT NULL,
				total_tests INTEGER NOT NULL,
				passed INTEGER NOT NULL,
				failed INTEGER NOT NULL,
				coverage INTEGER NOT NULL,
				quality_score INTEGER NOT NULL,
				complexity_level TEXT NOT NULL,
				quality_index INTEGER NOT NULL,
				status TEXT NOT NULL,
				PRIMARY KEY (run_id, subject)
			);
		`, quotedTableName)
	}
}

// RecordRun stores the run and its subjects in a single transaction.
func (ts *TrackingStoreImpl) RecordRun(runID string, report *schema.Report) error {
	// Skip for NoneBackend
	if ts.backend == schema.NoneBackend || ts.db == nil {
		return nil
	}

	tx, err := ts.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	runQuery := fmt.Sprintf(`
		INSERT INTO %s (run_id, results_dir, run_time, subject_count, total_tests,
		                total_passed, total_failed, overall_coverage, overall_quality)
		VALUES (%s)
	`, quoteTableName(runsTable, ts.backend), strings.Join(placeholders(ts.backend, 9), ", "))
	t := report.Totals
	if _, err := tx.Exec(runQuery,
		runID, report.ResultsDir, formatTime(report.GeneratedAt, ts.backend), len(report.Subjects),
		t.TotalTests, t.TotalPassed, t.TotalFailed, t.OverallCoverage, t.OverallQuality,
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	subjectQuery := fmt.Sprintf(`
		INSERT INTO %s (run_id, subject, total_tests, passed, failed, coverage,
		                quality_score, complexity_level, quality_index, status)
		VALUES (%s)
	`, quoteTableName(subjectResultsTable, ts.backend), strings.Join(placeholders(ts.backend, 10), ", "))
	for _, s := range report.Subjects {
		if _, err := tx.Exec(subjectQuery,
			runID, s.Name, s.Result.TotalTests, s.Result.Passed, s.Result.Failed, s.Result.Coverage,
			s.Result.QualityScore, string(s.Analysis.ComplexityLevel), s.Analysis.QualityIndex, string(s.Analysis.Status),
		); err != nil {
			return fmt.Errorf("failed to insert subject %s: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetAllRuns retrieves all runs from the store, oldest first.
func (ts *TrackingStoreImpl) GetAllRuns() ([]schema.TrackingRunRecord, error) {
	// Skip for NoneBackend
	if ts.backend == schema.NoneBackend || ts.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, results_dir, run_time, subject_count, total_tests,
		total_passed, total_failed, overall_coverage, overall_quality
		FROM %s ORDER BY run_time, run_id`, quoteTableName(runsTable, ts.backend))

	rows, err := ts.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.TrackingRunRecord
	for rows.Next() {
		var record schema.TrackingRunRecord
		var runTime scannedTime
		runTime.backend = ts.backend
		if err := rows.Scan(&record.RunID, &record.ResultsDir, &runTime, &record.SubjectCount, &record.TotalTests,
			&record.TotalPassed, &record.TotalFailed, &record.OverallCoverage, &record.OverallQuality); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		record.RunTime = runTime.t
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetSubjectRecords retrieves every subject row, grouped by run.
func (ts *TrackingStoreImpl) GetSubjectRecords() ([]schema.TrackingSubjectRecord, error) {
	// Skip for NoneBackend
	if ts.backend == schema.NoneBackend || ts.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, subject, total_tests, passed, failed, coverage,
		quality_score, complexity_level, quality_index, status
		FROM %s ORDER BY run_id, subject`, quoteTableName(subjectResultsTable, ts.backend))

	rows, err := ts.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query subject results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.TrackingSubjectRecord
	for rows.Next() {
		var r schema.TrackingSubjectRecord
		if err := rows.Scan(&r.RunID, &r.Subject, &r.TotalTests, &r.Passed, &r.Failed, &r.Coverage,
			&r.QualityScore, &r.ComplexityLevel, &r.QualityIndex, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan subject result: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subject results: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the tracking store.
func (ts *TrackingStoreImpl) GetStatus() (schema.TrackingStatus, error) {
	status := schema.TrackingStatus{
		Backend:    string(ts.backend),
		Connected:  ts.db != nil,
		TableSizes: make(map[string]int64),
	}

	if ts.backend == schema.NoneBackend || ts.db == nil {
		return status, nil
	}

	runs := quoteTableName(runsTable, ts.backend)
	if err := ts.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		// Get last run info
		last := scannedTime{backend: ts.backend}
		lastRunQuery := fmt.Sprintf("SELECT run_id, run_time FROM %s ORDER BY run_time DESC, run_id DESC LIMIT 1", runs)
		if err := ts.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &last); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = last.t

		// Get oldest run time
		oldest := scannedTime{backend: ts.backend}
		oldestRunQuery := fmt.Sprintf("SELECT run_time FROM %s ORDER BY run_time ASC LIMIT 1", runs)
		if err := ts.db.QueryRow(oldestRunQuery).Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest.t

		subjectsQuery := fmt.Sprintf("SELECT COALESCE(SUM(subject_count), 0) FROM %s", runs)
		if err := ts.db.QueryRow(subjectsQuery).Scan(&status.TotalSubjects); err != nil {
			return status, fmt.Errorf("failed to get total subjects: %w", err)
		}
	}

	// Get table sizes
	for _, table := range []string{runsTable, subjectResultsTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, ts.backend))
		if err := ts.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// Close closes the underlying connection.
func (ts *TrackingStoreImpl) Close() error {
	if ts.db != nil {
		return ts.db.Close()
	}
	return nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}

// scannedTime reads a timestamp column that SQLite stores as text and the
// other backends store natively.
type scannedTime struct {
	backend schema.DatabaseBackend
	t       time.Time
}

// Scan implements sql.Scanner.
func (s *scannedTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		s.t = v
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	case nil:
		s.t = time.Time{}
	default:
		return fmt.Errorf("unsupported time value %T for %s backend", src, s.backend)
	}
	return nil
}

// parse accepts RFC 3339 text and the MySQL DATETIME layout used without parseTime.
func (s *scannedTime) parse(v string) error {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999"} {
		if t, err := time.Parse(layout, v); err == nil {
			s.t = t
			return nil
		}
	}
	return fmt.Errorf("failed to parse time %q", v)
}
