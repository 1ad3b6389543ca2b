package validators

import (
	"context"
	"fmt"
)

// NetworkValidator checks that network interfaces exist and, when required,
// that at least one has link.
type NetworkValidator struct{}

func (v *NetworkValidator) Name() string       { return "network" }
func (v *NetworkValidator) Capability() string { return "network" }
func (v *NetworkValidator) Resource() string   { return "" }

func (v *NetworkValidator) OptionsSchema() string {
	return `{
		"type": "object",
		"properties": {
			"min_interfaces": {"type": "integer", "minimum": 0},
			"require_link": {"type": "boolean"},
			"expect": {"type": "array", "items": {"type": "string"}}
		},
		"additionalProperties": false
	}`
}

func (v *NetworkValidator) Probe(_ context.Context, t *Target) (Evidence, error) {
	names, err := t.SysFS.List("sys/class/net")
	if err != nil {
		return Evidence{}, fmt.Errorf("network class unavailable: %w", err)
	}

	states := make(map[string]any)
	linkUp := false
	for _, name := range names {
		if name == "lo" {
			continue
		}
		state, err := t.SysFS.ReadFile("sys/class/net/" + name + "/operstate")
		if err != nil {
			state = "unknown"
		}
		states[name] = state
		if state == "up" {
			linkUp = true
		}
	}

	ev := Evidence{Data: map[string]any{"interfaces": states}}

	minIfaces := int(t.Config.GetFloat("validation.network.min_interfaces", 1))
	requireLink := t.Config.GetBool("validation.network.require_link")

	switch {
	case len(states) < minIfaces:
		ev.Detail = fmt.Sprintf("%d interfaces present, need %d", len(states), minIfaces)
	case requireLink && !linkUp:
		ev.Detail = "no interface has link"
	default:
		ev.Healthy = true
		ev.Detail = fmt.Sprintf("%d interfaces present", len(states))
	}
	return ev, nil
}
