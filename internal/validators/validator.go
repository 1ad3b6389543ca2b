// Package validators contains the built-in hardware component validators.
// Each validator probes one subsystem against the composed hardware
// description, the resolved configuration, and the live sysfs tree, and
// reports evidence the pipeline turns into a pass/fail/skip result.
package validators

import (
	"context"
	"fmt"

	"github.com/platcheck-dev/platcheck/internal/overlay"
	"github.com/platcheck-dev/platcheck/internal/report"
	"github.com/platcheck-dev/platcheck/internal/resolve"
)

// Target bundles the inputs a validator probes against.
type Target struct {
	Description *overlay.Composed
	Config      *resolve.Resolved
	SysFS       SysFS
}

// Options returns the component's option block from the resolved
// configuration (the "validation.<component>" map), nil when absent.
func (t *Target) Options(component string) map[string]any {
	return t.Config.Section("validation." + component)
}

// Evidence is what a probe observed. Healthy is the validator's own verdict,
// used when the configuration declares no expect expressions for the
// component; Detail carries the diagnostic either way.
type Evidence struct {
	Data    map[string]any
	Metric  *report.Metric
	Healthy bool
	Detail  string
}

// Probe is the single capability all component validators implement.
// A probe must never panic past its boundary or block past the context;
// the pipeline converts both into fail results.
type Probe interface {
	// Name is the component name ("cpu", "gpu", ...).
	Name() string
	// Capability is the resolved-configuration capability that must be
	// enabled for this validator to run; absent capability means skip.
	Capability() string
	// Resource names a shared hardware resource this probe touches, or ""
	// for none. Probes sharing a resource are serialized by the pipeline.
	Resource() string
	// OptionsSchema is the JSON Schema for the component's option block,
	// or "" when the validator takes no options.
	OptionsSchema() string
	// Probe inspects the target and reports evidence.
	Probe(ctx context.Context, t *Target) (Evidence, error)
}

// Registry holds the known validators in canonical order.
type Registry struct {
	order  []string
	byName map[string]Probe
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Probe)}
}

// Register adds a validator. Duplicate names are an error.
func (r *Registry) Register(p Probe) error {
	if _, exists := r.byName[p.Name()]; exists {
		return fmt.Errorf("validator %q registered twice", p.Name())
	}
	r.byName[p.Name()] = p
	r.order = append(r.order, p.Name())
	return nil
}

// Get returns the validator for a component name.
func (r *Registry) Get(name string) (Probe, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Names returns the registered component names in registration order.
func (r *Registry) Names() []string {
	return append([]string{}, r.order...)
}

// DefaultRegistry returns the registry with all built-in validators.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range []Probe{
		&CPUValidator{},
		&GPUValidator{},
		&AudioValidator{},
		&NetworkValidator{},
		&StorageValidator{},
		&PeripheralsValidator{},
		&ThermalValidator{},
	} {
		// Built-in names are unique by construction.
		_ = r.Register(p)
	}
	return r
}

// nodeStatus reads the status property of a description node. Device-tree
// semantics: a missing status property means the node is enabled.
func nodeStatus(desc *overlay.Composed, path string) (string, bool) {
	props, ok := desc.Description.Nodes[path]
	if !ok {
		return "", false
	}
	status, ok := props["status"].(string)
	if !ok {
		return "okay", true
	}
	return status, true
}
