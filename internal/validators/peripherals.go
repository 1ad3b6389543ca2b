package validators

import (
	"context"
	"fmt"
	"strings"
)

// PeripheralsValidator checks that the configured peripheral controller
// nodes are present and not disabled in the composed description. It shares
// the SoC peripheral bus with AudioValidator.
type PeripheralsValidator struct{}

func (v *PeripheralsValidator) Name() string       { return "peripherals" }
func (v *PeripheralsValidator) Capability() string { return "peripherals" }
func (v *PeripheralsValidator) Resource() string   { return "soc-bus" }

func (v *PeripheralsValidator) OptionsSchema() string {
	return `{
		"type": "object",
		"properties": {
			"nodes": {"type": "array", "items": {"type": "string"}},
			"expect": {"type": "array", "items": {"type": "string"}}
		},
		"additionalProperties": false
	}`
}

func (v *PeripheralsValidator) Probe(_ context.Context, t *Target) (Evidence, error) {
	nodes := t.Config.StringSlice("validation.peripherals.nodes")
	if len(nodes) == 0 {
		nodes = []string{"/soc/i2c", "/soc/spi"}
	}

	statuses := make(map[string]any, len(nodes))
	var missing, disabled []string
	for _, node := range nodes {
		status, found := nodeStatus(t.Description, node)
		if !found {
			statuses[node] = "absent"
			missing = append(missing, node)
			continue
		}
		statuses[node] = status
		if status == "disabled" {
			disabled = append(disabled, node)
		}
	}

	ev := Evidence{Data: map[string]any{"nodes": statuses}}

	switch {
	case len(missing) > 0:
		ev.Detail = fmt.Sprintf("peripheral nodes absent: %s", strings.Join(missing, ", "))
	case len(disabled) > 0:
		ev.Detail = fmt.Sprintf("peripheral nodes disabled: %s", strings.Join(disabled, ", "))
	default:
		ev.Healthy = true
		ev.Detail = fmt.Sprintf("%d peripheral nodes enabled", len(nodes))
	}
	return ev, nil
}
