package resolve

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MissingAncestorError indicates a profile declares an ancestor that is not
// present in the catalog. Configuration is not well-defined without its full
// chain, so this is fatal.
type MissingAncestorError struct {
	Profile  string
	Ancestor string
}

func (e *MissingAncestorError) Error() string {
	return fmt.Sprintf("profile %q declares ancestor %q which is not in the catalog", e.Profile, e.Ancestor)
}

// Resolved is the final configuration for one platform: a merged value tree
// plus per-key provenance recording which layer last set each key.
// Derived per run, never persisted.
type Resolved struct {
	Values     map[string]any    `json:"values" yaml:"values"`
	Provenance map[string]string `json:"provenance" yaml:"provenance"`
}

// Resolve folds the layers into a single configuration, root-first, so the
// most specific layer always wins ties. The fold is pure and deterministic:
// identical layer chains yield byte-identical CanonicalJSON output.
func Resolve(layers []Layer) (*Resolved, error) {
	r := &Resolved{
		Values:     make(map[string]any),
		Provenance: make(map[string]string),
	}
	effective := make(map[string]Policy)

	for _, layer := range layers {
		if err := layer.Validate(); err != nil {
			return nil, err
		}
		if err := r.fold(r.Values, layer.Values, "", layer, effective); err != nil {
			return nil, fmt.Errorf("merging layer %s: %w", layer.Source, err)
		}
	}
	return r, nil
}

// fold merges src into dst at the given path prefix. A key's policy is the
// folding layer's declaration for that path, else the last declaration seen
// for it in an earlier layer, else override.
func (r *Resolved) fold(dst, src map[string]any, prefix string, layer Layer, effective map[string]Policy) error {
	for key, incoming := range src {
		path := joinPath(prefix, key)

		pol := layer.Policies[path]
		if pol == "" {
			pol = effective[path]
		} else {
			effective[path] = pol
		}
		if pol == "" {
			pol = PolicyOverride
		}

		existing, exists := dst[key]
		if !exists {
			dst[key] = deepCopy(incoming)
			r.recordProvenance(path, incoming, layer.Source)
			continue
		}

		switch pol {
		case PolicyAppend:
			baseSeq, baseOK := existing.([]any)
			incSeq, incOK := incoming.([]any)
			if !baseOK || !incOK {
				return fmt.Errorf("key %s has policy append but is not sequence-valued in both layers", path)
			}
			merged := make([]any, 0, len(baseSeq)+len(incSeq))
			merged = append(merged, baseSeq...)
			merged = append(merged, deepCopy(incSeq).([]any)...)
			dst[key] = merged
			r.Provenance[path] = layer.Source

		case PolicyMergeMap:
			baseMap, baseOK := existing.(map[string]any)
			incMap, incOK := incoming.(map[string]any)
			if !baseOK || !incOK {
				return fmt.Errorf("key %s has policy merge-map but is not map-valued in both layers", path)
			}
			if err := r.fold(baseMap, incMap, path, layer, effective); err != nil {
				return err
			}

		default: // override
			dst[key] = deepCopy(incoming)
			r.recordProvenance(path, incoming, layer.Source)
		}
	}
	return nil
}

// recordProvenance marks the layer as the contributor of the key and, for
// map values, of every nested key the layer introduced.
func (r *Resolved) recordProvenance(path string, value any, source string) {
	r.Provenance[path] = source
	if m, ok := value.(map[string]any); ok {
		for k, v := range m {
			r.recordProvenance(joinPath(path, k), v, source)
		}
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Get walks a dotted key path and returns the value at it.
func (r *Resolved) Get(path string) (any, bool) {
	var cur any = r.Values
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetBool returns the boolean at path, false when absent or not a bool.
func (r *Resolved) GetBool(path string) bool {
	v, ok := r.Get(path)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// GetString returns the string at path, or the fallback.
func (r *Resolved) GetString(path, fallback string) string {
	if v, ok := r.Get(path); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// GetFloat returns the numeric value at path as a float64, or the fallback.
// YAML decoding may produce several integer widths, so all are accepted.
func (r *Resolved) GetFloat(path string, fallback float64) float64 {
	v, ok := r.Get(path)
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return fallback
	}
}

// StringSlice returns the sequence at path coerced to strings.
func (r *Resolved) StringSlice(path string) []string {
	v, ok := r.Get(path)
	if !ok {
		return nil
	}
	seq, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(seq))
	for _, e := range seq {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Section returns the map at path, nil when absent.
func (r *Resolved) Section(path string) map[string]any {
	v, ok := r.Get(path)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

// Capability reports whether the named component capability is enabled.
// Capabilities live under the "capabilities" map seeded from profile
// declarations along the ancestor chain.
func (r *Resolved) Capability(name string) bool {
	return r.GetBool("capabilities." + name)
}

// CanonicalJSON renders the resolved values deterministically: object keys
// are sorted, so identical inputs produce byte-identical output. Downstream
// image-assembly consumers rely on this for reproducible builds.
func (r *Resolved) CanonicalJSON() ([]byte, error) {
	return json.MarshalIndent(r.Values, "", "  ")
}
