// Package resolve implements layered configuration resolution: an explicit
// fold over a profile's ancestor chain, least specific layer first, with
// data-driven per-key merge policies and per-key provenance.
package resolve

import "fmt"

// Policy controls how a key collision between two layers is resolved.
type Policy string

const (
	// PolicyOverride replaces the earlier value with the more specific one.
	// This is the default for any key without a declared policy.
	PolicyOverride Policy = "override"
	// PolicyAppend concatenates sequence values ancestor-then-descendant,
	// never deduplicating: order is significant (driver load order).
	PolicyAppend Policy = "append"
	// PolicyMergeMap merges map values key by key, applying policies
	// recursively with override as the keyed default.
	PolicyMergeMap Policy = "merge-map"
)

// Validate returns an error for unknown policy names.
func (p Policy) Validate() error {
	switch p {
	case PolicyOverride, PolicyAppend, PolicyMergeMap:
		return nil
	default:
		return fmt.Errorf("unknown merge policy %q", p)
	}
}

// Layer is one configuration layer contributed by a profile. Values maps
// option keys to values; Policies maps dotted key paths ("boot.drivers") to
// the merge policy governing that key. Layers are ordered by specificity by
// the caller, least specific first.
type Layer struct {
	// Source is the profile id this layer came from, used for provenance.
	Source   string            `yaml:"-" json:"source"`
	Values   map[string]any    `yaml:"values" json:"values"`
	Policies map[string]Policy `yaml:"policies,omitempty" json:"policies,omitempty"`
}

// Validate checks the layer's declared policies.
func (l Layer) Validate() error {
	for path, pol := range l.Policies {
		if err := pol.Validate(); err != nil {
			return fmt.Errorf("layer %s, key %s: %w", l.Source, path, err)
		}
	}
	return nil
}

// deepCopy clones YAML-shaped values (maps, slices, scalars) so resolved
// output never aliases catalog data.
func deepCopy(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = deepCopy(e)
		}
		return out
	default:
		return v
	}
}
