package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"

	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/schema"
)

// fieldPatterns maps each field to the regex that extracts it. Matching stays on
// one line; anything that is not a digit may sit between the label and the number.
// Percent fields accept a fractional part, which is truncated.
var fieldPatterns = map[schema.ResultField]*regexp.Regexp{
	schema.FieldTotalTests:   regexp.MustCompile(`Total Test Cases[^\d\n]*(\d+)`),
	schema.FieldPassed:       regexp.MustCompile(`Tests Passed[^\d\n]*(\d+)`),
	schema.FieldFailed:       regexp.MustCompile(`Tests Failed[^\d\n]*(\d+)`),
	schema.FieldCoverage:     regexp.MustCompile(`Code Coverage[^\d\n]*(\d+)(?:\.\d+)?[ \t]*%`),
	schema.FieldQualityScore: regexp.MustCompile(`Test Quality Score[^\d\n]*(\d+)(?:\.\d+)?[ \t]*%`),
}

// percentFields are capped at 100.
var percentFields = map[schema.ResultField]bool{
	schema.FieldCoverage:     true,
	schema.FieldQualityScore: true,
}

// ParseResultText extracts the labeled counters from the text of a result file.
// Only the first match of each label counts. Labels that are absent, or whose
// number cannot be represented, leave the field at zero and unmarked in Found.
func ParseResultText(name, text string) schema.ParsedSubject {
	parsed := schema.ParsedSubject{
		Name:  name,
		Found: make(map[schema.ResultField]bool, len(fieldPatterns)),
	}

	values := make(map[schema.ResultField]int, len(fieldPatterns))
	for field, re := range fieldPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if percentFields[field] && n > 100 {
			n = 100
		}
		values[field] = n
		parsed.Found[field] = true
	}

	parsed.Result = schema.SubjectResult{
		TotalTests:   values[schema.FieldTotalTests],
		Passed:       values[schema.FieldPassed],
		Failed:       values[schema.FieldFailed],
		Coverage:     values[schema.FieldCoverage],
		QualityScore: values[schema.FieldQualityScore],
	}
	return parsed
}

// DiscoverSubjects lists every subject with a result file in dir, sorted by name.
// The run-level summary file is never treated as a subject.
func DiscoverSubjects(dir, summaryFile string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", contract.ErrResultsDirMissing, dir)
		}
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	var subjects []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || entry.Name() == summaryFile {
			continue
		}
		if subject, ok := schema.SubjectFromFileName(entry.Name()); ok {
			subjects = append(subjects, subject)
		}
	}
	slices.Sort(subjects)
	return subjects, nil
}

// ParseResults parses the result file of every subject. When subjects is empty the
// subjects are discovered from dir. A subject whose file is missing or unreadable is
// left out of the result rather than zero-filled. ErrNoResultFiles is returned when
// nothing could be parsed.
func ParseResults(ctx context.Context, dir string, subjects []string, summaryFile string) ([]schema.ParsedSubject, error) {
	if err := contract.CheckResultsDir(dir); err != nil {
		return nil, err
	}

	if len(subjects) == 0 {
		discovered, err := DiscoverSubjects(dir, summaryFile)
		if err != nil {
			return nil, err
		}
		subjects = discovered
	} else {
		subjects = slices.Clone(subjects)
		slices.Sort(subjects)
	}

	parsed := make([]schema.ParsedSubject, 0, len(subjects))
	for _, subject := range subjects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, schema.ResultFileName(subject))
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				contract.LogWarn(fmt.Sprintf("Skipping %s", subject), err)
			}
			continue
		}

		result := ParseResultText(subject, string(data))
		result.Path = path
		parsed = append(parsed, result)
	}

	if len(parsed) == 0 {
		return nil, fmt.Errorf("%w in %s (expected files named <SUBJECT>%s)", contract.ErrNoResultFiles, dir, schema.ResultFileSuffix)
	}
	return parsed, nil
}
