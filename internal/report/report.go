package report

import (
	"time"

	"github.com/google/uuid"
)

// Metric is an optional measured value attached to a result, such as a CPU
// frequency or a thermal-zone temperature.
type Metric struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
	Unit  string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Result is the outcome of validating a single hardware component.
// Immutable once produced by the pipeline.
type Result struct {
	Component  string         `json:"component" yaml:"component"`
	Status     Status         `json:"status" yaml:"status"`
	Diagnostic string         `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
	Metric     *Metric        `json:"metric,omitempty" yaml:"metric,omitempty"`
	Evidence   map[string]any `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	Duration   time.Duration  `json:"duration_ms" yaml:"duration_ms"`
}

// Summary provides aggregate statistics about a validation run.
type Summary struct {
	Total   int `json:"total" yaml:"total"`
	Passed  int `json:"passed" yaml:"passed"`
	Failed  int `json:"failed" yaml:"failed"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// Report is the complete result of a validation run. Results are ordered by
// the caller-specified component selection order, not by completion order,
// so reports are stable for diffing across runs.
type Report struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Platform  string        `json:"platform" yaml:"platform"`
	Mode      string        `json:"mode" yaml:"mode"`
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	EndTime   time.Time     `json:"end_time" yaml:"end_time"`
	Duration  time.Duration `json:"duration_ms" yaml:"duration_ms"`
	Results   []Result      `json:"results" yaml:"results"`
	Summary   Summary       `json:"summary" yaml:"summary"`
	Verdict   Status        `json:"verdict" yaml:"verdict"`
}

// New creates a report for the given platform with a fresh run ID and
// pre-allocated result slots, one per selected component. Each slot is
// filled by index so concurrent validators never contend.
func New(platform, mode string, components []string) *Report {
	results := make([]Result, len(components))
	for i, name := range components {
		results[i] = Result{Component: name}
	}
	return &Report{
		RunID:     uuid.New().String(),
		Platform:  platform,
		Mode:      mode,
		StartTime: time.Now(),
		Results:   results,
	}
}

// SetResult fills the slot for the component at index i.
func (r *Report) SetResult(i int, res Result) {
	r.Results[i] = res
}

// Finalize completes the report: sets the end time and computes the summary
// and overall verdict. The verdict is pass iff the executed subset contains
// zero fail entries; skips never block the verdict.
func (r *Report) Finalize() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)

	r.Summary = Summary{Total: len(r.Results)}
	for _, res := range r.Results {
		switch res.Status {
		case StatusPass:
			r.Summary.Passed++
		case StatusFail:
			r.Summary.Failed++
		case StatusSkip:
			r.Summary.Skipped++
		}
	}

	if r.Summary.Failed > 0 {
		r.Verdict = StatusFail
	} else {
		r.Verdict = StatusPass
	}
}
