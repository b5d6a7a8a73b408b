package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectFromFileName(t *testing.T) {
	tests := []struct {
		fileName string
		want     string
		ok       bool
	}{
		{"NUMBERS_results.txt", "NUMBERS", true},
		{"string_utils_results.txt", "string_utils", true}, // underscores in the subject survive
		{"_results.txt", "", false},                        // empty subject
		{"NUMBERS_results.log", "", false},                 // wrong extension
		{"NUMBERS.txt", "", false},
		{"results.txt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			got, ok := SubjectFromFileName(tt.fileName)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResultFileName(t *testing.T) {
	assert.Equal(t, "NUMBERS_results.txt", ResultFileName("NUMBERS"))
	subject, ok := SubjectFromFileName(ResultFileName("ALPHA"))
	assert.True(t, ok)
	assert.Equal(t, "ALPHA", subject)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, PassStatus, StatusFor(SubjectResult{TotalTests: 10, Passed: 10}))
	assert.Equal(t, PartialStatus, StatusFor(SubjectResult{TotalTests: 10, Passed: 8}))
	assert.Equal(t, PassStatus, StatusFor(SubjectResult{})) // nothing ran, nothing failed
	assert.NotEqual(t, StatusFor(SubjectResult{TotalTests: 1, Passed: 1}), StatusFor(SubjectResult{TotalTests: 1}))
}
