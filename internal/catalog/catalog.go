// Package catalog holds the platform catalog: profiles, identity rules,
// configuration layers, and overlay fragments. The catalog is loaded once
// per process and read-only thereafter; this package validates its internal
// consistency at load time so matching and resolution never hit an
// inconsistent input.
package catalog

import (
	"fmt"
	"strings"

	"github.com/platcheck-dev/platcheck/internal/identity"
	"github.com/platcheck-dev/platcheck/internal/overlay"
	"github.com/platcheck-dev/platcheck/internal/resolve"
)

// Profile is one supported platform target: a canonical slug, the ancestor
// profiles it inherits configuration from (ordered root-first), the
// component capabilities it declares, and its own configuration layer.
// Immutable once the catalog is loaded.
type Profile struct {
	ID           string        `yaml:"id"`
	Description  string        `yaml:"description,omitempty"`
	Ancestors    []string      `yaml:"ancestors,omitempty"`
	Capabilities []string      `yaml:"capabilities,omitempty"`
	Config       resolve.Layer `yaml:"config,omitempty"`
}

// Catalog is the full platform definition set.
type Catalog struct {
	SchemaVersion string              `yaml:"schema_version"`
	Fallback      string              `yaml:"fallback,omitempty"`
	Rules         []identity.Rule     `yaml:"rules"`
	Profiles      []*Profile          `yaml:"profiles"`
	Base          overlay.Description `yaml:"base"`
	Fragments     []overlay.Fragment  `yaml:"fragments,omitempty"`

	index map[string]*Profile
}

// IntegrityError reports every internal-consistency problem found in a
// catalog. It is fatal: no partial result is meaningful over inconsistent
// platform definitions.
type IntegrityError struct {
	Problems []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("catalog integrity check failed:\n  - %s", strings.Join(e.Problems, "\n  - "))
}

// Profile returns the profile with the given id.
func (c *Catalog) Profile(id string) (*Profile, bool) {
	p, ok := c.index[id]
	return p, ok
}

// Matcher builds the identity matcher from the catalog's rule table.
// Construction fails on ambiguous rules; Validate surfaces the same problem
// at load time.
func (c *Catalog) Matcher() (*identity.Matcher, error) {
	return identity.NewMatcher(c.Rules, c.Fallback)
}

// Chain returns the configuration layers for a profile, ordered root-first
// with the profile's own layer last, ready for resolve.Resolve. Each
// profile's declared capabilities are seeded into its layer under the
// "capabilities" map so fragment gating and validator skips read them from
// the resolved configuration like any other option.
func (c *Catalog) Chain(profileID string) ([]resolve.Layer, error) {
	profile, ok := c.index[profileID]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", profileID)
	}

	ids := append(append([]string{}, profile.Ancestors...), profile.ID)
	layers := make([]resolve.Layer, 0, len(ids))
	for _, id := range ids {
		p, ok := c.index[id]
		if !ok {
			return nil, &resolve.MissingAncestorError{Profile: profileID, Ancestor: id}
		}
		layers = append(layers, p.layer())
	}
	return layers, nil
}

// layer returns the profile's configuration layer with capabilities seeded
// and the profile id as the provenance source.
func (p *Profile) layer() resolve.Layer {
	layer := resolve.Layer{
		Source:   p.ID,
		Values:   make(map[string]any, len(p.Config.Values)+1),
		Policies: make(map[string]resolve.Policy, len(p.Config.Policies)+1),
	}
	for k, v := range p.Config.Values {
		layer.Values[k] = v
	}
	for k, pol := range p.Config.Policies {
		layer.Policies[k] = pol
	}

	if len(p.Capabilities) > 0 {
		caps := make(map[string]any, len(p.Capabilities))
		for _, name := range p.Capabilities {
			caps[name] = true
		}
		layer.Values["capabilities"] = caps
		layer.Policies["capabilities"] = resolve.PolicyMergeMap
	}
	return layer
}

// EffectiveCapabilities returns the profile's capability names unioned along
// its ancestor chain, in chain declaration order without duplicates. This is
// the default component selection for a validation run.
func (c *Catalog) EffectiveCapabilities(profileID string) ([]string, error) {
	profile, ok := c.index[profileID]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", profileID)
	}

	seen := make(map[string]bool)
	var out []string
	ids := append(append([]string{}, profile.Ancestors...), profile.ID)
	for _, id := range ids {
		p, ok := c.index[id]
		if !ok {
			return nil, &resolve.MissingAncestorError{Profile: profileID, Ancestor: id}
		}
		for _, name := range p.Capabilities {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out, nil
}
