package outwriter

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Masterminds/sprig/v3"
	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/schema"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

// reportTitle heads the HTML dashboard.
const reportTitle = "Test Results Report"

// htmlTemplate is parsed once; rendering it is safe for concurrent use.
var htmlTemplate = template.Must(
	template.New("report.html.tmpl").
		Funcs(sprig.HtmlFuncMap()).
		ParseFS(templateFS, "templates/report.html.tmpl"),
)

// htmlView is the data handed to the dashboard template.
type htmlView struct {
	Title     string
	ChartURL  string
	Threshold int
	Report    *schema.Report
	Labels    []string // Chart labels, in subject order
	Coverages []int
}

// WriteHTMLReport renders the self-contained HTML dashboard. Only the charting
// library is loaded from chartURL.
func WriteHTMLReport(w io.Writer, report *schema.Report, chartURL string, threshold int) error {
	if chartURL == "" {
		chartURL = contract.DefaultChartURL
	}
	view := htmlView{
		Title:     reportTitle,
		ChartURL:  chartURL,
		Threshold: threshold,
		Report:    report,
		Labels:    make([]string, 0, len(report.Subjects)),
		Coverages: make([]int, 0, len(report.Subjects)),
	}
	for _, s := range report.Subjects {
		view.Labels = append(view.Labels, s.Name)
		view.Coverages = append(view.Coverages, s.Result.Coverage)
	}

	if err := htmlTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}
