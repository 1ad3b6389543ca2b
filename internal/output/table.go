package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/platcheck-dev/platcheck/internal/report"
)

// TableFormatter formats validation reports as a human-readable table.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// Format writes the validation report as a table.
func (f *TableFormatter) Format(rep *report.Report) error {
	fmt.Fprintf(f.writer, "Platform: %s\n", rep.Platform)
	fmt.Fprintf(f.writer, "Run:      %s (%s mode)\n", rep.RunID, rep.Mode)
	fmt.Fprintf(f.writer, "Started:  %s\n", rep.StartTime.Format(time.RFC3339))
	fmt.Fprintf(f.writer, "Duration: %s\n", rep.Duration.Round(time.Millisecond))
	fmt.Fprintln(f.writer)

	if len(rep.Results) == 0 {
		fmt.Fprintln(f.writer, "No components validated.")
		return nil
	}

	fmt.Fprintln(f.writer, "Components:")
	fmt.Fprintln(f.writer, strings.Repeat("─", 72))
	for _, res := range rep.Results {
		f.formatResult(res)
	}
	fmt.Fprintln(f.writer, strings.Repeat("─", 72))
	fmt.Fprintln(f.writer)

	f.formatSummary(rep)
	return nil
}

// formatResult formats a single component result.
func (f *TableFormatter) formatResult(res report.Result) {
	fmt.Fprintf(f.writer, "%s %-12s %s\n", statusSymbol(res.Status), res.Component, res.Diagnostic)
	if res.Metric != nil {
		fmt.Fprintf(f.writer, "    %s: %g %s\n", res.Metric.Name, res.Metric.Value, res.Metric.Unit)
	}
	if res.Duration > 0 {
		fmt.Fprintf(f.writer, "    took %s\n", res.Duration.Round(time.Millisecond))
	}
}

// formatSummary formats the summary statistics and verdict.
func (f *TableFormatter) formatSummary(rep *report.Report) {
	fmt.Fprintln(f.writer, "Summary:")
	fmt.Fprintf(f.writer, "  Components: %d total\n", rep.Summary.Total)
	fmt.Fprintf(f.writer, "  ✓ Passed:   %d\n", rep.Summary.Passed)
	fmt.Fprintf(f.writer, "  ✗ Failed:   %d\n", rep.Summary.Failed)
	fmt.Fprintf(f.writer, "  - Skipped:  %d\n", rep.Summary.Skipped)
	fmt.Fprintln(f.writer)
	fmt.Fprintf(f.writer, "Verdict: %s\n", strings.ToUpper(string(rep.Verdict)))
}

// statusSymbol returns a symbol for the given status.
func statusSymbol(status report.Status) string {
	switch status {
	case report.StatusPass:
		return "✓"
	case report.StatusFail:
		return "✗"
	case report.StatusSkip:
		return "-"
	default:
		return "?"
	}
}
