package schema

import (
	"strings"
)

// ResultFileSuffix is the naming convention for per-subject result files.
const ResultFileSuffix = "_results.txt"

// ResultFileName returns the result file name for a subject.
func ResultFileName(subject string) string {
	return subject + ResultFileSuffix
}

// SubjectFromFileName extracts the subject name from a result file name.
// It returns false when the name does not follow the naming convention.
func SubjectFromFileName(fileName string) (string, bool) {
	subject, ok := strings.CutSuffix(fileName, ResultFileSuffix)
	if !ok || strings.TrimSpace(subject) == "" {
		return "", false
	}
	return subject, true
}

// StatusFor returns PASS when every test passed, PARTIAL otherwise.
func StatusFor(r SubjectResult) Status {
	if r.Passed == r.TotalTests {
		return PassStatus
	}
	return PartialStatus
}
