package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/platcheck-dev/platcheck/internal/report"
	"github.com/platcheck-dev/platcheck/internal/version"
)

// SARIFFormatter formats validation reports as SARIF 2.1.0 JSON.
// Each component validator becomes a SARIF rule and each result a SARIF
// result, so hardware validation findings flow into the same dashboards as
// static analysis.
type SARIFFormatter struct {
	writer io.Writer
}

// NewSARIFFormatter creates a new SARIF formatter.
func NewSARIFFormatter(w io.Writer) *SARIFFormatter {
	return &SARIFFormatter{writer: w}
}

// Format writes the validation report as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(rep *report.Report) error {
	doc := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("platcheck", "https://github.com/platcheck-dev/platcheck")
	v := version.Get().Version
	run.Tool.Driver.Version = &v

	for _, res := range rep.Results {
		rule := sarif.NewReportingDescriptor().WithID(res.Component)
		rule.WithName(res.Component)
		desc := fmt.Sprintf("Hardware validation of the %s component", res.Component)
		rule.WithShortDescription(&sarif.MultiformatMessageString{Text: &desc})
		run.Tool.Driver.AddRule(rule)

		result := sarif.NewRuleResult(res.Component)
		result.Level = statusLevel(res.Status)
		result.Kind = statusKind(res.Status)
		result.Message = sarif.NewTextMessage(res.Diagnostic)

		props := sarif.NewPropertyBag()
		props.Add("platform", rep.Platform)
		props.Add("duration_ms", res.Duration.Milliseconds())
		if res.Metric != nil {
			props.Add("metric", map[string]any{
				"name":  res.Metric.Name,
				"value": res.Metric.Value,
				"unit":  res.Metric.Unit,
			})
		}
		if len(res.Evidence) > 0 {
			props.Add("evidence", res.Evidence)
		}
		result.WithProperties(props)

		run.AddResult(result)
	}

	props := sarif.NewPropertyBag()
	props.Add("run_id", rep.RunID)
	props.Add("verdict", string(rep.Verdict))
	run.WithProperties(props)

	doc.AddRun(run)

	if err := doc.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}
	_, err := f.writer.Write([]byte("\n"))
	return err
}

// statusLevel maps a component status to a SARIF level.
func statusLevel(status report.Status) string {
	switch status {
	case report.StatusPass:
		return "note"
	case report.StatusFail:
		return "error"
	case report.StatusSkip:
		return "none"
	default:
		return "warning"
	}
}

// statusKind maps a component status to a SARIF kind.
func statusKind(status report.Status) string {
	switch status {
	case report.StatusPass:
		return "pass"
	case report.StatusFail:
		return "fail"
	case report.StatusSkip:
		return "notApplicable"
	default:
		return "review"
	}
}
