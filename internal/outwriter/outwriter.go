// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"os"

	"github.com/huangsam/testpulse/internal/atomicfile"
	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteTextReport renders the plain-text analysis report to path.
func (ow *OutWriter) WriteTextReport(report *schema.Report, path string) error {
	return atomicfile.Render(path, func(w io.Writer) error {
		return WriteTextReport(w, report)
	})
}

// WriteHTMLReport renders the HTML dashboard to path.
func (ow *OutWriter) WriteHTMLReport(report *schema.Report, cfg *contract.Config, path string) error {
	return atomicfile.Render(path, func(w io.Writer) error {
		return WriteHTMLReport(w, report, cfg.ChartURL, cfg.CoverageThreshold)
	})
}

// WriteSummary prints the run summary using the configured output format.
func (ow *OutWriter) WriteSummary(report *schema.Report, cfg *contract.Config) error {
	return PrintSummary(report, cfg)
}

// WriteHistory prints the stored snapshots using the configured output format.
func (ow *OutWriter) WriteHistory(history []schema.HistorySnapshot, trend *schema.TrendSummary, cfg *contract.Config) error {
	return PrintHistory(history, trend, cfg)
}

// GetMaxTableNameWidth calculates the maximum width for subject names in table output
// based on terminal width and table configuration.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Tests + Passed + Failed + Coverage + Quality + Index + Complexity + Status
	baseWidth := 70

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 20

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}
