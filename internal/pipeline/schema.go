package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/platcheck-dev/platcheck/internal/resolve"
)

// Preflight validates each selected component's option block in the
// resolved configuration against the validator's declared JSON Schema,
// before anything touches hardware. Misconfigured thresholds surface here
// as one aggregated error instead of as confusing probe results.
func (p *Pipeline) Preflight(components []string, cfg *resolve.Resolved) error {
	var problems []string

	for _, name := range components {
		probe, ok := p.registry.Get(name)
		if !ok {
			return fmt.Errorf("unknown component %q (known: %v)", name, p.registry.Names())
		}

		schemaSrc := probe.OptionsSchema()
		opts := cfg.Section("validation." + name)
		if schemaSrc == "" || opts == nil {
			continue
		}

		schema, err := jsonschema.CompileString(name+"-options.schema.json", schemaSrc)
		if err != nil {
			return fmt.Errorf("validator %s has an invalid options schema: %w", name, err)
		}

		value, err := toJSONValue(opts)
		if err != nil {
			return fmt.Errorf("component %s options are not representable as JSON: %w", name, err)
		}
		if err := schema.Validate(value); err != nil {
			problems = append(problems, fmt.Sprintf("component %s options: %v", name, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("option validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// toJSONValue round-trips a YAML-shaped value through encoding/json so the
// schema validator sees canonical JSON types regardless of how the YAML
// decoder represented numbers.
func toJSONValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
