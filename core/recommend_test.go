package core

import (
	"testing"

	"github.com/huangsam/testpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// subjectReport analyzes r and wraps it as a report entry.
func subjectReport(name string, r schema.SubjectResult) schema.SubjectReport {
	return schema.SubjectReport{Name: name, Result: r, Analysis: AnalyzeSubject(r)}
}

func TestRecommend_Healthy(t *testing.T) {
	recs := Recommend([]schema.SubjectReport{
		subjectReport("NUMBERS", schema.SubjectResult{TotalTests: 8, Passed: 8, Coverage: 95}),
	}, 80)

	require.Len(t, recs, 1)
	assert.Equal(t, schema.HealthyRecommendation, recs[0].Kind)
	assert.Empty(t, recs[0].Subject)
	assert.Equal(t, healthyMessage, recs[0].Message)
}

func TestRecommend_NoSubjects(t *testing.T) {
	recs := Recommend(nil, 80)
	require.Len(t, recs, 1)
	assert.Equal(t, schema.HealthyRecommendation, recs[0].Kind)
}

func TestRecommend_UnionInSubjectOrder(t *testing.T) {
	recs := Recommend([]schema.SubjectReport{
		subjectReport("ARRAYS", schema.SubjectResult{TotalTests: 25, Passed: 24, Coverage: 70}),
		subjectReport("NUMBERS", schema.SubjectResult{TotalTests: 6, Passed: 6, Coverage: 79}),
		subjectReport("STRINGS", schema.SubjectResult{TotalTests: 6, Passed: 6, Coverage: 80}),
	}, 80)

	kinds := make([]schema.RecommendationKind, 0, len(recs))
	subjects := make([]string, 0, len(recs))
	for _, r := range recs {
		kinds = append(kinds, r.Kind)
		subjects = append(subjects, r.Subject)
	}
	assert.Equal(t, []schema.RecommendationKind{
		schema.DecomposeRecommendation,
		schema.CoverageRecommendation,
		schema.FailuresRecommendation,
		schema.CoverageRecommendation,
	}, kinds)
	assert.Equal(t, []string{"ARRAYS", "ARRAYS", "ARRAYS", "NUMBERS"}, subjects)
	assert.Contains(t, recs[1].Message, "70%")
	assert.Contains(t, recs[2].Message, "24 of 25")
}

func TestRecommend_CustomThreshold(t *testing.T) {
	subjects := []schema.SubjectReport{
		subjectReport("NUMBERS", schema.SubjectResult{TotalTests: 6, Passed: 6, Coverage: 85}),
	}
	assert.Equal(t, schema.HealthyRecommendation, Recommend(subjects, 80)[0].Kind)
	assert.Equal(t, schema.CoverageRecommendation, Recommend(subjects, 90)[0].Kind)
}
