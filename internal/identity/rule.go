// Package identity maps a raw hardware descriptor to a canonical platform
// identifier using an ordered, declarative rule table.
package identity

import (
	"fmt"
	"strings"

	"github.com/platcheck-dev/platcheck/internal/hardware"
)

// Kind is the specificity class of a matching rule. Rules are evaluated in a
// fixed priority order: exact model match first, then model prefix, then
// compatible-string containment, then the catalog's generic fallback.
type Kind string

const (
	// KindExact matches the model string exactly.
	KindExact Kind = "exact"
	// KindPrefix matches when the model string starts with the pattern.
	KindPrefix Kind = "prefix"
	// KindCompatible matches when any device-tree compatible entry contains
	// the pattern.
	KindCompatible Kind = "compatible"
)

// kindOrder is the fixed evaluation priority, most specific first.
var kindOrder = []Kind{KindExact, KindPrefix, KindCompatible}

// Rule maps a descriptor pattern to a platform profile identifier.
type Rule struct {
	Kind    Kind   `yaml:"kind" json:"kind"`
	Pattern string `yaml:"pattern" json:"pattern"`
	Profile string `yaml:"profile" json:"profile"`
}

// Validate checks a single rule for structural problems.
func (r Rule) Validate() error {
	switch r.Kind {
	case KindExact, KindPrefix, KindCompatible:
	default:
		return fmt.Errorf("unknown rule kind %q", r.Kind)
	}
	if r.Pattern == "" {
		return fmt.Errorf("%s rule has empty pattern", r.Kind)
	}
	if r.Profile == "" {
		return fmt.Errorf("%s rule %q names no profile", r.Kind, r.Pattern)
	}
	return nil
}

// matches reports whether the rule applies to the descriptor.
func (r Rule) matches(desc hardware.Descriptor) bool {
	switch r.Kind {
	case KindExact:
		return desc.Model == r.Pattern
	case KindPrefix:
		return strings.HasPrefix(desc.Model, r.Pattern)
	case KindCompatible:
		return desc.HasCompatible(r.Pattern)
	default:
		return false
	}
}

// overlaps reports whether two rules of the same kind could both match one
// descriptor. Such a pair is ambiguous: neither is strictly more specific
// than the other, so first-wins ordering would be load-order dependent.
func (r Rule) overlaps(other Rule) bool {
	if r.Kind != other.Kind {
		return false
	}
	switch r.Kind {
	case KindExact:
		return r.Pattern == other.Pattern
	case KindPrefix:
		return strings.HasPrefix(r.Pattern, other.Pattern) || strings.HasPrefix(other.Pattern, r.Pattern)
	case KindCompatible:
		return strings.Contains(r.Pattern, other.Pattern) || strings.Contains(other.Pattern, r.Pattern)
	default:
		return false
	}
}
