package validators

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/platcheck-dev/platcheck/internal/report"
)

var cpuDirPattern = regexp.MustCompile(`^cpu[0-9]+$`)

// CPUValidator checks core count and maximum frequency against the resolved
// configuration thresholds.
type CPUValidator struct{}

func (v *CPUValidator) Name() string       { return "cpu" }
func (v *CPUValidator) Capability() string { return "cpu" }
func (v *CPUValidator) Resource() string   { return "" }

func (v *CPUValidator) OptionsSchema() string {
	return `{
		"type": "object",
		"properties": {
			"min_cores": {"type": "integer", "minimum": 0},
			"min_freq_mhz": {"type": "number", "minimum": 0},
			"expect": {"type": "array", "items": {"type": "string"}}
		},
		"additionalProperties": false
	}`
}

func (v *CPUValidator) Probe(_ context.Context, t *Target) (Evidence, error) {
	entries, err := t.SysFS.List("sys/devices/system/cpu")
	if err != nil {
		return Evidence{}, fmt.Errorf("cpu topology unavailable: %w", err)
	}

	cores := 0
	for _, name := range entries {
		if cpuDirPattern.MatchString(name) {
			cores++
		}
	}

	freqMHz := 0.0
	if raw, err := t.SysFS.ReadFile("sys/devices/system/cpu/cpu0/cpufreq/cpuinfo_max_freq"); err == nil {
		if khz, err := strconv.ParseFloat(raw, 64); err == nil {
			freqMHz = khz / 1000
		}
	}

	ev := Evidence{
		Data:   map[string]any{"cores": cores, "max_freq_mhz": freqMHz},
		Metric: &report.Metric{Name: "cpu_max_freq", Value: freqMHz, Unit: "MHz"},
	}

	minCores := int(t.Config.GetFloat("validation.cpu.min_cores", 1))
	minFreq := t.Config.GetFloat("validation.cpu.min_freq_mhz", 0)

	switch {
	case cores < minCores:
		ev.Detail = fmt.Sprintf("%d cores online, need %d", cores, minCores)
	case minFreq > 0 && freqMHz == 0:
		ev.Detail = "cpu frequency unavailable but a minimum is configured"
	case freqMHz < minFreq:
		ev.Detail = fmt.Sprintf("max frequency %.0f MHz below required %.0f MHz", freqMHz, minFreq)
	default:
		ev.Healthy = true
		ev.Detail = fmt.Sprintf("%d cores, max %.0f MHz", cores, freqMHz)
	}
	return ev, nil
}
