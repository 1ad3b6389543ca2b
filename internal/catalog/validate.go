package catalog

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Validate runs the load-time integrity checks: schema version support,
// duplicate identifiers, ancestor references, fallback presence, rule
// targets, rule ambiguity, and fragment structure. All problems are
// collected into one IntegrityError so a broken catalog is fixed in a
// single pass.
func (c *Catalog) Validate() error {
	var problems []string

	if c.SchemaVersion == "" {
		problems = append(problems, "schema_version is required")
	} else if v, err := semver.NewVersion(c.SchemaVersion); err != nil {
		problems = append(problems, fmt.Sprintf("schema_version %q is not a valid version", c.SchemaVersion))
	} else if !supportedSchema.Check(v) {
		problems = append(problems, fmt.Sprintf("schema_version %s is not supported (want %s)", c.SchemaVersion, supportedSchema))
	}

	problems = append(problems, c.validateProfiles()...)
	problems = append(problems, c.validateRules()...)
	problems = append(problems, c.validateFragments()...)

	if len(problems) > 0 {
		return &IntegrityError{Problems: problems}
	}
	return nil
}

func (c *Catalog) validateProfiles() []string {
	var problems []string

	if len(c.Profiles) == 0 {
		problems = append(problems, "at least one profile is required")
	}

	seen := make(map[string]bool)
	for i, p := range c.Profiles {
		if p.ID == "" {
			problems = append(problems, fmt.Sprintf("profile %d has empty id", i))
			continue
		}
		if seen[p.ID] {
			problems = append(problems, fmt.Sprintf("duplicate profile id %q", p.ID))
		}
		seen[p.ID] = true

		for _, anc := range p.Ancestors {
			if anc == p.ID {
				problems = append(problems, fmt.Sprintf("profile %q lists itself as an ancestor", p.ID))
			} else if _, ok := c.index[anc]; !ok {
				problems = append(problems, fmt.Sprintf("profile %q declares missing ancestor %q", p.ID, anc))
			}
		}

		if err := p.Config.Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("profile %q: %v", p.ID, err))
		}
	}

	if c.Fallback != "" {
		if _, ok := c.index[c.Fallback]; !ok {
			problems = append(problems, fmt.Sprintf("fallback profile %q is not in the catalog", c.Fallback))
		}
	}

	return problems
}

func (c *Catalog) validateRules() []string {
	var problems []string

	for _, rule := range c.Rules {
		if err := rule.Validate(); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		if _, ok := c.index[rule.Profile]; !ok {
			problems = append(problems, fmt.Sprintf("%s rule %q targets unknown profile %q", rule.Kind, rule.Pattern, rule.Profile))
		}
	}

	// Ambiguity detection is the matcher's construction check; surface it
	// here so the catalog refuses to load.
	if _, err := c.Matcher(); err != nil {
		problems = append(problems, err.Error())
	}

	return problems
}

func (c *Catalog) validateFragments() []string {
	var problems []string

	seen := make(map[string]bool)
	for _, frag := range c.Fragments {
		if err := frag.Validate(); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		if seen[frag.ID] {
			problems = append(problems, fmt.Sprintf("duplicate fragment id %q", frag.ID))
		}
		seen[frag.ID] = true
	}

	return problems
}
