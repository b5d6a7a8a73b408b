package core

import (
	"fmt"

	"github.com/huangsam/testpulse/schema"
)

// healthyMessage is emitted when no rule fires for any subject.
const healthyMessage = "All programs meet quality standards. Keep up the good work!"

// Recommend applies every rule to every subject, in subject order, and returns
// the union of the findings. At least one recommendation is always returned.
func Recommend(subjects []schema.SubjectReport, coverageThreshold int) []schema.Recommendation {
	var recs []schema.Recommendation
	for _, s := range subjects {
		if s.Analysis.ComplexityLevel == schema.HighComplexity {
			recs = append(recs, schema.Recommendation{
				Subject: s.Name,
				Kind:    schema.DecomposeRecommendation,
				Message: fmt.Sprintf("%s has high complexity (%d test cases); consider breaking it into smaller, focused modules", s.Name, s.Result.TotalTests),
			})
		}
		if s.Result.Coverage < coverageThreshold {
			recs = append(recs, schema.Recommendation{
				Subject: s.Name,
				Kind:    schema.CoverageRecommendation,
				Message: fmt.Sprintf("%s has low coverage (%d%%, target %d%%); add tests for untested paths", s.Name, s.Result.Coverage, coverageThreshold),
			})
		}
		if s.Result.Passed < s.Result.TotalTests {
			recs = append(recs, schema.Recommendation{
				Subject: s.Name,
				Kind:    schema.FailuresRecommendation,
				Message: fmt.Sprintf("%s passed %d of %d tests; review the failing assertions", s.Name, s.Result.Passed, s.Result.TotalTests),
			})
		}
	}

	if len(recs) == 0 {
		recs = append(recs, schema.Recommendation{
			Kind:    schema.HealthyRecommendation,
			Message: healthyMessage,
		})
	}
	return recs
}
