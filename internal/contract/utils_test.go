package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/testpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColorStatus(t *testing.T) {
	pass := GetColorStatus(schema.PassStatus)
	partial := GetColorStatus(schema.PartialStatus)

	assert.Contains(t, pass, "PASS")
	assert.Contains(t, partial, "PARTIAL")
	assert.NotEqual(t, pass, partial)
}

func TestGetColorComplexity(t *testing.T) {
	tests := []struct {
		level schema.ComplexityLevel
		label string
	}{
		{schema.LowComplexity, "LOW"},
		{schema.MediumComplexity, "MEDIUM"},
		{schema.HighComplexity, "HIGH"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			// Should contain the plain label
			assert.Contains(t, GetColorComplexity(tt.level), tt.label)
		})
	}
}

func TestGetColorCoverage(t *testing.T) {
	assert.Contains(t, GetColorCoverage(60, 80), "60%")
	assert.Contains(t, GetColorCoverage(85, 80), "85%")
	assert.Equal(t, "80%", GetColorCoverage(80, 80))
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		// Verify file was created
		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetTrackingDBFilePath(t *testing.T) {
	path := GetTrackingDBFilePath()

	// Should not be empty
	assert.NotEmpty(t, path)

	// Should contain the database name
	assert.Contains(t, path, ".testpulse_tracking.db")

	// Should be in home directory
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestTruncateName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"short name untouched", "NUMBERS", 20, "NUMBERS"},
		{"exact width untouched", "NUMBERS", 7, "NUMBERS"},
		{"long name truncated", "VERY_LONG_SUBJECT_NAME", 10, "VERY_LO..."},
		{"tiny width ignored", "NUMBERS", 3, "NUMBERS"},
		{"unicode safe", "ÄÖÜÄÖÜÄÖÜ", 6, "ÄÖÜ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateName(tt.input, tt.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input       string
		expected    bool
		expectError bool
	}{
		{"yes", true, false},
		{"YES", true, false},
		{"true", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
