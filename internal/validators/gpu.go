package validators

import (
	"context"
	"fmt"
)

// GPUValidator checks that the GPU node in the composed description is
// present and enabled, typically by an applied overlay fragment.
type GPUValidator struct{}

func (v *GPUValidator) Name() string       { return "gpu" }
func (v *GPUValidator) Capability() string { return "gpu" }
func (v *GPUValidator) Resource() string   { return "" }

func (v *GPUValidator) OptionsSchema() string {
	return `{
		"type": "object",
		"properties": {
			"node": {"type": "string"},
			"expect": {"type": "array", "items": {"type": "string"}}
		},
		"additionalProperties": false
	}`
}

func (v *GPUValidator) Probe(_ context.Context, t *Target) (Evidence, error) {
	node := t.Config.GetString("validation.gpu.node", "/soc/gpu")

	status, found := nodeStatus(t.Description, node)
	ev := Evidence{Data: map[string]any{"node": node, "status": status}}

	switch {
	case !found:
		ev.Detail = fmt.Sprintf("gpu node %s absent from composed description", node)
	case status != "okay":
		ev.Detail = fmt.Sprintf("gpu node %s status is %q", node, status)
	default:
		ev.Healthy = true
		ev.Detail = fmt.Sprintf("gpu node %s enabled", node)
	}
	return ev, nil
}
