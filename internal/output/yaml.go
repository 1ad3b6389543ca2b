package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/platcheck-dev/platcheck/internal/report"
)

// YAMLFormatter formats validation reports as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the validation report as YAML.
func (f *YAMLFormatter) Format(rep *report.Report) error {
	encoder := yaml.NewEncoder(f.writer)
	encoder.SetIndent(2)

	if err := encoder.Encode(rep); err != nil {
		return err
	}

	return encoder.Close()
}
