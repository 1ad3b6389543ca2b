package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/platcheck-dev/platcheck/internal/report"
)

func sampleReport(t *testing.T) *report.Report {
	t.Helper()
	rep := report.New("rpi5", "collect-all", []string{"cpu", "gpu", "audio"})
	rep.SetResult(0, report.Result{
		Component:  "cpu",
		Status:     report.StatusPass,
		Diagnostic: "4 cores, max 2400 MHz",
		Metric:     &report.Metric{Name: "cpu_max_freq", Value: 2400, Unit: "MHz"},
		Duration:   12 * time.Millisecond,
	})
	rep.SetResult(1, report.Result{
		Component:  "gpu",
		Status:     report.StatusFail,
		Diagnostic: `gpu node /soc/gpu status is "disabled"`,
		Duration:   3 * time.Millisecond,
	})
	rep.SetResult(2, report.Result{
		Component:  "audio",
		Status:     report.StatusSkip,
		Diagnostic: "capability audio not enabled for this platform",
	})
	rep.Finalize()
	return rep
}

func TestNewFormatterSelection(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	for _, format := range Formats() {
		f, err := New(format, &buf)
		require.NoError(t, err, format)
		require.NotNil(t, f, format)
	}

	// Empty format defaults to the table renderer.
	f, err := New("", &buf)
	require.NoError(t, err)
	assert.IsType(t, &TableFormatter{}, f)

	_, err = New("csv", &buf)
	assert.Error(t, err)
}

func TestTableFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).Format(sampleReport(t)))

	out := buf.String()
	assert.Contains(t, out, "Platform: rpi5")
	assert.Contains(t, out, "✓ cpu")
	assert.Contains(t, out, "✗ gpu")
	assert.Contains(t, out, "- audio")
	assert.Contains(t, out, "cpu_max_freq: 2400 MHz")
	assert.Contains(t, out, "Verdict: FAIL")
}

func TestTableFormatEmptyReport(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	rep := report.New("rpi5", "collect-all", nil)
	rep.Finalize()
	require.NoError(t, NewTableFormatter(&buf).Format(rep))
	assert.Contains(t, buf.String(), "No components validated.")
}

func TestJSONFormatRoundTrips(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf, true).Format(sampleReport(t)))

	var decoded report.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "rpi5", decoded.Platform)
	assert.Equal(t, report.StatusFail, decoded.Verdict)
	require.Len(t, decoded.Results, 3)
	assert.Equal(t, "cpu", decoded.Results[0].Component)
	require.NotNil(t, decoded.Results[0].Metric)
	assert.InDelta(t, 2400, decoded.Results[0].Metric.Value, 0.01)
}

func TestJSONFormatCompact(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf, false).Format(sampleReport(t)))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "compact output stays on one line")
}

func TestYAMLFormatRoundTrips(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(&buf).Format(sampleReport(t)))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "rpi5", decoded["platform"])
	assert.Equal(t, "fail", decoded["verdict"])
}

func TestJUnitFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewJUnitFormatter(&buf).Format(sampleReport(t)))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))
	assert.Equal(t, 3, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	require.Len(t, suites.TestSuites, 1)

	suite := suites.TestSuites[0]
	assert.Equal(t, "rpi5", suite.Name)
	assert.Equal(t, 1, suite.Skipped)
	require.Len(t, suite.TestCases, 3)
	assert.Nil(t, suite.TestCases[0].Failure)
	require.NotNil(t, suite.TestCases[1].Failure)
	assert.Contains(t, suite.TestCases[1].Failure.Message, "/soc/gpu")
	require.NotNil(t, suite.TestCases[2].Skipped)
}

func TestSARIFFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewSARIFFormatter(&buf).Format(sampleReport(t)))

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID string `json:"ruleId"`
				Level  string `json:"level"`
				Kind   string `json:"kind"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	run := doc.Runs[0]
	assert.Equal(t, "platcheck", run.Tool.Driver.Name)
	require.Len(t, run.Tool.Driver.Rules, 3)
	require.Len(t, run.Results, 3)
	assert.Equal(t, "cpu", run.Results[0].RuleID)
	assert.Equal(t, "pass", run.Results[0].Kind)
	assert.Equal(t, "error", run.Results[1].Level)
	assert.Equal(t, "fail", run.Results[1].Kind)
	assert.Equal(t, "notApplicable", run.Results[2].Kind)
}
