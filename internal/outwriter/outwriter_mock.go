package outwriter

import (
	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockReportWriter is a mock implementation of ReportWriter for testing.
type MockReportWriter struct {
	mock.Mock
}

var (
	_ contract.ReportWriter = &MockReportWriter{} // Compile-time check
	_ contract.ReportWriter = &OutWriter{}
)

// WriteTextReport implements the ReportWriter interface.
func (m *MockReportWriter) WriteTextReport(report *schema.Report, path string) error {
	args := m.Called(report, path)
	return args.Error(0)
}

// WriteHTMLReport implements the ReportWriter interface.
func (m *MockReportWriter) WriteHTMLReport(report *schema.Report, cfg *contract.Config, path string) error {
	args := m.Called(report, cfg, path)
	return args.Error(0)
}

// WriteSummary implements the ReportWriter interface.
func (m *MockReportWriter) WriteSummary(report *schema.Report, cfg *contract.Config) error {
	args := m.Called(report, cfg)
	return args.Error(0)
}
