// Package report contains the validation result model: per-component
// outcomes, aggregate reports, and the verdict rules applied to them.
package report

import "fmt"

// Status represents the outcome of a component validation.
type Status string

const (
	// StatusPass indicates the component validated successfully
	StatusPass Status = "pass"
	// StatusFail indicates the component probe failed, timed out, or an
	// expectation did not hold
	StatusFail Status = "fail"
	// StatusSkip indicates the component was not validated (capability
	// absent, not attempted, or canceled)
	StatusSkip Status = "skip"
)

// Precedence returns the numeric precedence of this status.
// Higher values indicate higher priority in aggregation.
//
// Precedence: Fail (2) > Skip (1) > Pass (0)
func (s Status) Precedence() int {
	switch s {
	case StatusFail:
		return 2
	case StatusSkip:
		return 1
	case StatusPass:
		return 0
	default:
		return -1
	}
}

// IsFailure returns true if this status represents a failure.
func (s Status) IsFailure() bool {
	return s == StatusFail
}

// IsSkipped returns true if this status represents a skip.
// Skips are recorded but never block the overall verdict.
func (s Status) IsSkipped() bool {
	return s == StatusSkip
}

// Validate returns an error if the status value is invalid.
func (s Status) Validate() error {
	switch s {
	case StatusPass, StatusFail, StatusSkip:
		return nil
	default:
		return fmt.Errorf("invalid status: %s", s)
	}
}
