package validators

import (
	"context"
	"fmt"
)

// AudioValidator checks the audio controller node. It shares the SoC
// peripheral bus with PeripheralsValidator, so the pipeline serializes the
// two.
type AudioValidator struct{}

func (v *AudioValidator) Name() string       { return "audio" }
func (v *AudioValidator) Capability() string { return "audio" }
func (v *AudioValidator) Resource() string   { return "soc-bus" }

func (v *AudioValidator) OptionsSchema() string {
	return `{
		"type": "object",
		"properties": {
			"node": {"type": "string"},
			"expect": {"type": "array", "items": {"type": "string"}}
		},
		"additionalProperties": false
	}`
}

func (v *AudioValidator) Probe(_ context.Context, t *Target) (Evidence, error) {
	node := t.Config.GetString("validation.audio.node", "/soc/audio")

	status, found := nodeStatus(t.Description, node)
	ev := Evidence{Data: map[string]any{"node": node, "status": status}}

	switch {
	case !found:
		ev.Detail = fmt.Sprintf("audio node %s absent from composed description", node)
	case status != "okay":
		ev.Detail = fmt.Sprintf("audio node %s status is %q", node, status)
	default:
		ev.Healthy = true
		ev.Detail = fmt.Sprintf("audio node %s enabled", node)
	}
	return ev, nil
}
