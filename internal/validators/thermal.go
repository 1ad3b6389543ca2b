package validators

import (
	"context"
	"fmt"
	"strconv"

	"github.com/platcheck-dev/platcheck/internal/report"
)

// ThermalValidator reads the SoC thermal zone and checks the temperature
// against the configured ceiling.
type ThermalValidator struct{}

func (v *ThermalValidator) Name() string       { return "thermal" }
func (v *ThermalValidator) Capability() string { return "thermal" }
func (v *ThermalValidator) Resource() string   { return "" }

func (v *ThermalValidator) OptionsSchema() string {
	return `{
		"type": "object",
		"properties": {
			"zone": {"type": "integer", "minimum": 0},
			"max_temp_c": {"type": "number"},
			"expect": {"type": "array", "items": {"type": "string"}}
		},
		"additionalProperties": false
	}`
}

func (v *ThermalValidator) Probe(_ context.Context, t *Target) (Evidence, error) {
	zone := int(t.Config.GetFloat("validation.thermal.zone", 0))
	path := fmt.Sprintf("sys/class/thermal/thermal_zone%d/temp", zone)

	raw, err := t.SysFS.ReadFile(path)
	if err != nil {
		return Evidence{}, fmt.Errorf("thermal zone %d unavailable: %w", zone, err)
	}
	milli, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Evidence{}, fmt.Errorf("thermal zone %d reading %q is not a number", zone, raw)
	}

	tempC := milli / 1000
	ev := Evidence{
		Data:   map[string]any{"zone": zone, "temp_c": tempC},
		Metric: &report.Metric{Name: "soc_temp", Value: tempC, Unit: "C"},
	}

	maxC := t.Config.GetFloat("validation.thermal.max_temp_c", 90)
	if tempC > maxC {
		ev.Detail = fmt.Sprintf("temperature %.1f C exceeds limit %.1f C", tempC, maxC)
	} else {
		ev.Healthy = true
		ev.Detail = fmt.Sprintf("temperature %.1f C within limit %.1f C", tempC, maxC)
	}
	return ev, nil
}
