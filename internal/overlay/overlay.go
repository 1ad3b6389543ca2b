// Package overlay composes device-tree overlay fragments onto a base
// hardware description, rejecting conflicting writes.
package overlay

import (
	"fmt"
	"sort"
	"strings"
)

// Properties is the property set of one description node.
type Properties map[string]any

// Description is an in-memory hardware description: a flat map of node paths
// ("/soc/gpu") to their properties. Flat paths keep conflict detection and
// subtree deletion simple; hierarchy is encoded in the path.
type Description struct {
	Nodes map[string]Properties `json:"nodes" yaml:"nodes"`
}

// Clone returns a deep copy of the description.
func (d Description) Clone() Description {
	nodes := make(map[string]Properties, len(d.Nodes))
	for path, props := range d.Nodes {
		cp := make(Properties, len(props))
		for k, v := range props {
			cp[k] = v
		}
		nodes[path] = cp
	}
	return Description{Nodes: nodes}
}

// NodePaths returns all node paths in sorted order.
func (d Description) NodePaths() []string {
	paths := make([]string, 0, len(d.Nodes))
	for p := range d.Nodes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Property returns a node property value.
func (d Description) Property(path, property string) (any, bool) {
	props, ok := d.Nodes[path]
	if !ok {
		return nil, false
	}
	v, ok := props[property]
	return v, ok
}

// Write is a single (node-path, property, value) patch. Replace marks the
// write as an explicit override of an earlier fragment's write to the same
// pair; without it such a collision is a composition error.
type Write struct {
	Path     string `yaml:"path" json:"path"`
	Property string `yaml:"property" json:"property"`
	Value    any    `yaml:"value" json:"value"`
	Replace  bool   `yaml:"replace,omitempty" json:"replace,omitempty"`
}

// Fragment is an ordered patch against a base description. Requires names
// the component capability that must be enabled in the resolved
// configuration for the fragment to apply; empty means unconditional.
type Fragment struct {
	ID       string   `yaml:"id" json:"id"`
	Requires string   `yaml:"requires,omitempty" json:"requires,omitempty"`
	Writes   []Write  `yaml:"writes,omitempty" json:"writes,omitempty"`
	Deletes  []string `yaml:"deletes,omitempty" json:"deletes,omitempty"`
}

// Validate checks a fragment for structural problems.
func (f Fragment) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("fragment has empty id")
	}
	for _, w := range f.Writes {
		if w.Path == "" || w.Property == "" {
			return fmt.Errorf("fragment %s has a write with empty path or property", f.ID)
		}
	}
	for _, del := range f.Deletes {
		if del == "" {
			return fmt.Errorf("fragment %s has an empty delete path", f.ID)
		}
	}
	return nil
}

// ConflictError reports two fragments colliding on the same description
// location without an explicit replace marker. Composition never permits
// silent double-writes.
type ConflictError struct {
	Path     string
	Property string // empty for delete-vs-write conflicts on the node itself
	First    string // fragment that wrote (or deleted) first
	Second   string // fragment whose operation collided
}

func (e *ConflictError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("overlay conflict at %s: fragment %q deleted the node and fragment %q writes under it", e.Path, e.First, e.Second)
	}
	return fmt.Sprintf("overlay conflict at %s property %s: fragments %q and %q both write it without replace", e.Path, e.Property, e.First, e.Second)
}

// SkippedFragment records a fragment left out of a composition and why.
type SkippedFragment struct {
	ID     string `json:"id" yaml:"id"`
	Reason string `json:"reason" yaml:"reason"`
}

// Override records an explicit replace of one fragment's write by another.
type Override struct {
	Path     string `json:"path" yaml:"path"`
	Property string `json:"property" yaml:"property"`
	Replaced string `json:"replaced" yaml:"replaced"` // fragment whose value was replaced
	By       string `json:"by" yaml:"by"`
}

// Manifest records what a composition actually did: fragments applied in
// order, fragments skipped over unmet prerequisites, and explicit overrides.
// Downstream image-assembly consumers read this alongside the description.
type Manifest struct {
	Applied   []string          `json:"applied" yaml:"applied"`
	Skipped   []SkippedFragment `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Overrides []Override        `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// subtreeOf reports whether path lies at or under root.
func subtreeOf(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+"/")
}
