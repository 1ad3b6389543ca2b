// Package engine wires identity resolution, configuration folding, overlay
// composition and the validator pipeline into a single run.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/platcheck-dev/platcheck/internal/catalog"
	"github.com/platcheck-dev/platcheck/internal/hardware"
	"github.com/platcheck-dev/platcheck/internal/overlay"
	"github.com/platcheck-dev/platcheck/internal/pipeline"
	"github.com/platcheck-dev/platcheck/internal/report"
	"github.com/platcheck-dev/platcheck/internal/resolve"
	"github.com/platcheck-dev/platcheck/internal/validators"
)

// Options controls a single validation run.
type Options struct {
	// Platform pins the profile explicitly; empty means resolve the profile
	// from the detected hardware descriptor.
	Platform string
	// Components selects which validators run, in report order. Empty means
	// every registered validator whose capability the profile enables.
	Components []string
	Mode       pipeline.Mode
	// Timeout bounds each individual probe; zero keeps the pipeline default.
	Timeout time.Duration
	// MaxConcurrent caps parallel probes in collect-all mode; zero keeps the
	// pipeline default.
	MaxConcurrent int
	// SysRoot rebases the sysfs reads, "" means the live filesystem root.
	SysRoot string
}

// RunResult carries everything a run produced, so callers can render the
// report and still inspect the intermediate artifacts.
type RunResult struct {
	Profile     string
	Descriptor  hardware.Descriptor
	Config      *resolve.Resolved
	Description *overlay.Composed
	Report      *report.Report
}

// Engine coordinates platform validation runs against one catalog.
type Engine struct {
	catalog  *catalog.Catalog
	registry *validators.Registry
	logger   *slog.Logger
}

// New creates an engine. A nil registry gets the built-in validators and a
// nil logger discards nothing but stays quiet at default level.
func New(cat *catalog.Catalog, registry *validators.Registry, logger *slog.Logger) *Engine {
	if registry == nil {
		registry = validators.DefaultRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{catalog: cat, registry: registry, logger: logger}
}

// ResolveProfile maps a hardware descriptor to a profile id through the
// catalog's identity rules.
func (e *Engine) ResolveProfile(desc hardware.Descriptor) (string, error) {
	matcher, err := e.catalog.Matcher()
	if err != nil {
		return "", err
	}
	return matcher.Resolve(desc)
}

// Run executes a full validation: identity, configuration, overlays,
// option preflight, then the probe pipeline. Everything before the pipeline
// is fatal on error; probe failures land in the report instead.
func (e *Engine) Run(ctx context.Context, desc hardware.Descriptor, opts Options) (*RunResult, error) {
	profile := opts.Platform
	if profile == "" {
		resolved, err := e.ResolveProfile(desc)
		if err != nil {
			return nil, fmt.Errorf("resolving platform identity: %w", err)
		}
		profile = resolved
	} else if _, ok := e.catalog.Profile(profile); !ok {
		return nil, fmt.Errorf("unknown platform %q", profile)
	}
	e.logger.Info("platform resolved", "profile", profile, "model", desc.Model)

	layers, err := e.catalog.Chain(profile)
	if err != nil {
		return nil, err
	}
	cfg, err := resolve.Resolve(layers)
	if err != nil {
		return nil, fmt.Errorf("resolving configuration for %s: %w", profile, err)
	}

	composed, err := overlay.Compose(e.catalog.Base, e.catalog.Fragments, cfg)
	if err != nil {
		return nil, fmt.Errorf("composing hardware description for %s: %w", profile, err)
	}
	e.logger.Debug("overlays composed",
		"applied", len(composed.Manifest.Applied),
		"skipped", len(composed.Manifest.Skipped))

	components := opts.Components
	if len(components) == 0 {
		components = e.defaultComponents(cfg)
	}

	pipeOpts := pipeline.DefaultOptions()
	if opts.Timeout > 0 {
		pipeOpts.Timeout = opts.Timeout
	}
	if opts.MaxConcurrent > 0 {
		pipeOpts.MaxConcurrent = opts.MaxConcurrent
	}
	pipe := pipeline.New(e.registry, pipeOpts)

	if err := pipe.Preflight(components, cfg); err != nil {
		return nil, fmt.Errorf("validator options rejected: %w", err)
	}

	sysRoot := opts.SysRoot
	if sysRoot == "" {
		sysRoot = "/"
	}
	target := &validators.Target{
		Description: composed,
		Config:      cfg,
		SysFS:       validators.SysFS{Root: sysRoot},
	}
	rep, err := pipe.Run(ctx, target, profile, components, opts.Mode)
	if err != nil {
		return nil, err
	}
	e.logger.Info("validation finished",
		"profile", profile,
		"verdict", rep.Verdict,
		"passed", rep.Summary.Passed,
		"failed", rep.Summary.Failed,
		"skipped", rep.Summary.Skipped)

	return &RunResult{
		Profile:     profile,
		Descriptor:  desc,
		Config:      cfg,
		Description: composed,
		Report:      rep,
	}, nil
}

// defaultComponents keeps registry order and drops validators whose
// capability the resolved configuration does not enable.
func (e *Engine) defaultComponents(cfg *resolve.Resolved) []string {
	var components []string
	for _, name := range e.registry.Names() {
		probe, ok := e.registry.Get(name)
		if !ok {
			continue
		}
		if capability := probe.Capability(); capability != "" && !cfg.Capability(capability) {
			continue
		}
		components = append(components, name)
	}
	return components
}
