package pipeline

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/platcheck-dev/platcheck/internal/report"
	"github.com/platcheck-dev/platcheck/internal/validators"
)

// evaluateExpectations checks all expect expressions against the probe
// evidence. Every expression must evaluate to true for a pass; a
// compilation or evaluation error is a fail, never a crash.
func evaluateExpectations(expectations []string, ev validators.Evidence) (report.Status, string) {
	env := map[string]any{
		"data":    ev.Data,
		"healthy": ev.Healthy,
	}
	if ev.Metric != nil {
		env["metric"] = ev.Metric.Value
	} else {
		env["metric"] = 0.0
	}

	for _, expectation := range expectations {
		program, err := expr.Compile(expectation, expr.Env(env), expr.AsBool())
		if err != nil {
			return report.StatusFail, fmt.Sprintf("expectation %q failed to compile: %v", expectation, err)
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return report.StatusFail, fmt.Sprintf("expectation %q failed to evaluate: %v", expectation, err)
		}
		ok, isBool := out.(bool)
		if !isBool {
			return report.StatusFail, fmt.Sprintf("expectation %q did not produce a boolean", expectation)
		}
		if !ok {
			return report.StatusFail, fmt.Sprintf("expectation %q not satisfied", expectation)
		}
	}

	return report.StatusPass, fmt.Sprintf("all %d expectations satisfied", len(expectations))
}
