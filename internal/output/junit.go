package output

import (
	"encoding/xml"
	"io"

	"github.com/platcheck-dev/platcheck/internal/report"
)

// JUnitFormatter formats validation reports as JUnit XML, one test case per
// component, so CI systems can track hardware validation like a test run.
type JUnitFormatter struct {
	writer io.Writer
}

// NewJUnitFormatter creates a new JUnit formatter.
func NewJUnitFormatter(w io.Writer) *JUnitFormatter {
	return &JUnitFormatter{writer: w}
}

// JUnitTestSuites JUnit XML structures
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      float64         `xml:"time,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// Format writes the validation report as JUnit XML.
func (f *JUnitFormatter) Format(rep *report.Report) error {
	suite := JUnitTestSuite{
		Name:     rep.Platform,
		Tests:    rep.Summary.Total,
		Failures: rep.Summary.Failed,
		Skipped:  rep.Summary.Skipped,
		Time:     rep.Duration.Seconds(),
	}

	for _, res := range rep.Results {
		c := JUnitTestCase{
			Name:      res.Component,
			ClassName: rep.Platform,
			Time:      res.Duration.Seconds(),
		}
		switch res.Status {
		case report.StatusFail:
			c.Failure = &JUnitFailure{
				Message: res.Diagnostic,
				Content: res.Diagnostic,
			}
		case report.StatusSkip:
			c.Skipped = &JUnitSkipped{
				Message: res.Diagnostic,
			}
		}
		suite.TestCases = append(suite.TestCases, c)
	}

	suites := JUnitTestSuites{
		Name:       "platcheck",
		Tests:      rep.Summary.Total,
		Failures:   rep.Summary.Failed,
		Time:       rep.Duration.Seconds(),
		TestSuites: []JUnitTestSuite{suite},
	}

	if _, err := f.writer.Write([]byte(xml.Header)); err != nil {
		return err
	}

	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}

	_, err := f.writer.Write([]byte("\n"))
	return err
}
