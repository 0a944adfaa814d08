package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"climattr/domain/attribution"
	"climattr/internal/errors"
)

// Writer renders attribution results for the presentation layer: CSV tables
// for downstream tooling and a markdown/HTML summary for humans
type Writer struct{}

// NewWriter creates a new report writer
func NewWriter() *Writer {
	return &Writer{}
}

// WriteCSV writes the 4x3 metrics table with a header row
func (w *Writer) WriteCSV(out io.Writer, result attribution.MetricsResult) error {
	cw := csv.NewWriter(out)
	if err := cw.Write([]string{"metric", "value", "ci_inf", "ci_sup"}); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}
	for _, row := range result.Rows {
		record := []string{
			string(row.Metric),
			formatFloat(row.Value),
			formatFloat(row.CIInf),
			formatFloat(row.CISup),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "failed to write CSV row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush CSV output")
}

// Markdown renders a run summary as a markdown document
func (w *Writer) Markdown(run attribution.Run) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Attribution report %s\n\n", run.ID)
	fmt.Fprintf(&b, "- Fit function: `%s`\n", run.FitFunction)
	fmt.Fprintf(&b, "- Threshold: %g\n", run.Threshold)
	fmt.Fprintf(&b, "- Direction: %s\n", run.Direction)
	fmt.Fprintf(&b, "- Confidence level: %d%%\n", run.BootstrapCI)
	fmt.Fprintf(&b, "- Bootstrap trials: %d\n", run.BootSize)
	fmt.Fprintf(&b, "- Sample sizes: ALL=%d, NAT=%d\n\n", run.NAll, run.NNat)

	b.WriteString("| Metric | Value | CI inf | CI sup |\n")
	b.WriteString("|--------|-------|--------|--------|\n")
	for _, row := range run.Result.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			row.Metric, formatFloat(row.Value), formatFloat(row.CIInf), formatFloat(row.CISup))
	}

	if pr, ok := run.Result.Row(attribution.MetricPR); ok {
		b.WriteString("\n")
		switch {
		case pr.Value > 1:
			fmt.Fprintf(&b, "The event is about %.2fx more likely under the factual (ALL) ensemble.\n", pr.Value)
		case pr.Value < 1 && pr.Value > 0:
			fmt.Fprintf(&b, "The event is less likely under the factual (ALL) ensemble (PR=%.3f, protective effect).\n", pr.Value)
		}
	}
	return b.String()
}

// HTML renders the markdown run summary to a standalone HTML fragment
func (w *Writer) HTML(run attribution.Run) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(w.Markdown(run)), p, renderer)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
