// Package output provides formatters for platform validation reports.
package output

import (
	"fmt"
	"io"

	"github.com/platcheck-dev/platcheck/internal/report"
)

// Formatter renders a validation report to a writer.
type Formatter interface {
	Format(rep *report.Report) error
}

// Formats lists the supported output format names.
func Formats() []string {
	return []string{"table", "json", "yaml", "junit", "sarif"}
}

// New returns the formatter for the named format.
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "table", "":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w, true), nil
	case "yaml":
		return NewYAMLFormatter(w), nil
	case "junit":
		return NewJUnitFormatter(w), nil
	case "sarif":
		return NewSARIFFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
