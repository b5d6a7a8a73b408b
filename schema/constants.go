package schema

// Custom string types for type safety.
type (
	// ResultField represents a labeled field inside a result file.
	ResultField string

	// ComplexityLevel represents the complexity bucket of a subject.
	ComplexityLevel string

	// OutputMode represents the format of the output.
	OutputMode string

	// Status represents the pass status of a subject.
	Status string

	// LoadStatus represents the outcome of loading the history file.
	LoadStatus string

	// RecommendationKind represents the rule that produced a recommendation.
	RecommendationKind string

	// DatabaseBackend represents the database backend for run tracking.
	DatabaseBackend string
)

// Fields extracted from a result file.
const (
	FieldTotalTests   ResultField = "total_tests"
	FieldPassed       ResultField = "passed"
	FieldFailed       ResultField = "failed"
	FieldCoverage     ResultField = "coverage"
	FieldQualityScore ResultField = "quality_score"
)

// AllResultFields lists the fields in the order they appear in reports.
var AllResultFields = []ResultField{FieldTotalTests, FieldPassed, FieldFailed, FieldCoverage, FieldQualityScore}

// All complexity levels supported.
const (
	LowComplexity    ComplexityLevel = "LOW"
	MediumComplexity ComplexityLevel = "MEDIUM"
	HighComplexity   ComplexityLevel = "HIGH"
)

// Score returns the numeric score matching the complexity level.
func (c ComplexityLevel) Score() int {
	switch c {
	case LowComplexity:
		return 1
	case MediumComplexity:
		return 2
	case HighComplexity:
		return 3
	default:
		return 0
	}
}

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All status supported.
const (
	PassStatus    Status = "PASS"
	PartialStatus Status = "PARTIAL"
)

// All history load outcomes.
const (
	LoadedStatus    LoadStatus = "loaded"    // file parsed cleanly
	MissingStatus   LoadStatus = "missing"   // no file or empty file, empty history
	RecoveredStatus LoadStatus = "recovered" // content was corrupt, history is empty or partial
)

// All recommendation kinds.
const (
	DecomposeRecommendation RecommendationKind = "decompose"
	CoverageRecommendation  RecommendationKind = "coverage"
	FailuresRecommendation  RecommendationKind = "failures"
	HealthyRecommendation   RecommendationKind = "ok"
)

// All tracking backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid tracking backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
