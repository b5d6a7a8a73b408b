package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/testpulse/schema"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold) // criticalColor represents standard danger.
	ModerateColor = color.New(color.FgYellow)          // moderateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)            // lowColor represents informational / low-priority signal.
	GoodColor     = color.New(color.FgGreen, color.Bold)
)

// GetColorStatus returns a colored status label for console output (table).
func GetColorStatus(status schema.Status) string {
	if status == schema.PassStatus {
		return GoodColor.Sprint(status)
	}
	return ModerateColor.Sprint(status)
}

// GetColorComplexity returns a colored complexity label for console output (table).
func GetColorComplexity(level schema.ComplexityLevel) string {
	switch level {
	case schema.HighComplexity:
		return CriticalColor.Sprint(level)
	case schema.MediumComplexity:
		return ModerateColor.Sprint(level)
	default: // LOW
		return LowColor.Sprint(level)
	}
}

// GetColorCoverage returns the coverage percentage, red when it falls below the threshold.
func GetColorCoverage(coverage, threshold int) string {
	text := fmt.Sprintf("%d%%", coverage)
	if coverage < threshold {
		return CriticalColor.Sprint(text)
	}
	return text
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s: %v\n", CriticalColor.Sprint("Fatal"), msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s: %v\n", ModerateColor.Sprint("Warn"), msg, err)
}

// LogInfo logs a progress message to stderr so stdout stays machine-readable.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// GetTrackingDBFilePath returns the path to the SQLite DB file for run tracking.
func GetTrackingDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".testpulse_tracking.db"
	}
	return filepath.Join(homeDir, ".testpulse_tracking.db")
}

// TruncateName truncates a name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
