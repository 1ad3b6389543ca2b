package identity

import (
	"fmt"

	"github.com/platcheck-dev/platcheck/internal/hardware"
)

// NoMatchError indicates that no rule matched and the catalog declares no
// generic fallback profile. This is a catalog-integrity failure: a valid
// catalog always resolves every descriptor.
type NoMatchError struct {
	Model string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no platform rule matched model %q and no fallback profile is declared", e.Model)
}

// AmbiguityError reports two rules of equal specificity that could both
// match the same descriptor. Detected at matcher construction, never at
// match time.
type AmbiguityError struct {
	Kind     Kind
	PatternA string
	PatternB string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("ambiguous %s rules: %q and %q can match the same device", e.Kind, e.PatternA, e.PatternB)
}

// Matcher resolves hardware descriptors to platform profile identifiers.
// Immutable once constructed.
type Matcher struct {
	byKind   map[Kind][]Rule
	fallback string
}

// NewMatcher builds a matcher from an ordered rule table and an optional
// generic fallback profile id. It refuses ambiguous tables: two rules of the
// same kind whose patterns overlap would make first-wins matching depend on
// declaration order rather than specificity.
func NewMatcher(rules []Rule, fallback string) (*Matcher, error) {
	byKind := make(map[Kind][]Rule, len(kindOrder))
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		byKind[rule.Kind] = append(byKind[rule.Kind], rule)
	}

	for _, kind := range kindOrder {
		ordered := byKind[kind]
		for i := 0; i < len(ordered); i++ {
			for j := i + 1; j < len(ordered); j++ {
				if ordered[i].overlaps(ordered[j]) {
					return nil, &AmbiguityError{Kind: kind, PatternA: ordered[i].Pattern, PatternB: ordered[j].Pattern}
				}
			}
		}
	}

	return &Matcher{byKind: byKind, fallback: fallback}, nil
}

// Resolve returns the platform profile id for the descriptor. Rules are
// tried in descending specificity (exact, prefix, compatible); the first
// match wins. When nothing matches, the generic fallback is returned, or a
// NoMatchError when the catalog has none.
//
// Resolution is pure: identical descriptors always resolve identically.
func (m *Matcher) Resolve(desc hardware.Descriptor) (string, error) {
	for _, kind := range kindOrder {
		for _, rule := range m.byKind[kind] {
			if rule.matches(desc) {
				return rule.Profile, nil
			}
		}
	}
	if m.fallback != "" {
		return m.fallback, nil
	}
	return "", &NoMatchError{Model: desc.Model}
}
