// Package pipeline runs component validators against a composed hardware
// description and resolved configuration, aggregating their outcomes into a
// single report.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/platcheck-dev/platcheck/internal/report"
	"github.com/platcheck-dev/platcheck/internal/validators"
)

// Mode selects the pipeline's failure behavior.
type Mode string

const (
	// ModeCollectAll runs every selected component regardless of earlier
	// failures. Default for full platform acceptance testing.
	ModeCollectAll Mode = "collect-all"
	// ModeFailFast stops at the first fail; remaining components are
	// marked skip with reason "not attempted".
	ModeFailFast Mode = "fail-fast"
)

// ParseMode validates a mode flag value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCollectAll, ModeFailFast:
		return Mode(s), nil
	case "":
		return ModeCollectAll, nil
	default:
		return "", fmt.Errorf("invalid mode %q (valid: collect-all, fail-fast)", s)
	}
}

// Options controls pipeline execution.
type Options struct {
	// Timeout bounds each validator invocation. A timed-out probe becomes
	// a fail result, never an indefinite hang.
	Timeout time.Duration
	// MaxConcurrent limits parallel validators in collect-all mode
	// (0 = no limit).
	MaxConcurrent int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:       30 * time.Second,
		MaxConcurrent: 4,
	}
}

// Pipeline executes validators. Safe for reuse across runs.
type Pipeline struct {
	registry *validators.Registry
	opts     Options

	mu        sync.Mutex
	resources map[string]*sync.Mutex
}

// New creates a pipeline over the given validator registry.
func New(registry *validators.Registry, opts Options) *Pipeline {
	return &Pipeline{
		registry:  registry,
		opts:      opts,
		resources: make(map[string]*sync.Mutex),
	}
}

// Run validates the selected components and returns the aggregated report.
// Result ordering always follows the selection order, not completion order.
// Component failures and timeouts never propagate as errors; only an
// unknown component name does, since that is a caller mistake rather than a
// hardware outcome.
func (p *Pipeline) Run(ctx context.Context, target *validators.Target, platform string, components []string, mode Mode) (*report.Report, error) {
	probes := make([]validators.Probe, len(components))
	for i, name := range components {
		probe, ok := p.registry.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown component %q (known: %v)", name, p.registry.Names())
		}
		probes[i] = probe
	}

	rep := report.New(platform, string(mode), components)

	if mode == ModeFailFast {
		failed := false
		for i, probe := range probes {
			if failed {
				rep.SetResult(i, report.Result{
					Component:  probe.Name(),
					Status:     report.StatusSkip,
					Diagnostic: "not attempted",
				})
				continue
			}
			res := p.runOne(ctx, probe, target)
			rep.SetResult(i, res)
			if res.Status == report.StatusFail {
				failed = true
			}
		}
		rep.Finalize()
		return rep, nil
	}

	// collect-all: independent validators run concurrently; each writes its
	// own pre-allocated slot, so no result-side locking is needed.
	var g errgroup.Group
	if p.opts.MaxConcurrent > 0 {
		g.SetLimit(p.opts.MaxConcurrent)
	}
	for i, probe := range probes {
		g.Go(func() error {
			rep.SetResult(i, p.runOne(ctx, probe, target))
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	rep.Finalize()
	return rep, nil
}

// resourceMu returns the mutex serializing validators that touch the named
// shared hardware resource.
func (p *Pipeline) resourceMu(resource string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	mu, ok := p.resources[resource]
	if !ok {
		mu = &sync.Mutex{}
		p.resources[resource] = mu
	}
	return mu
}

// runOne executes a single validator, converting every internal failure
// (probe error, panic, timeout) into a fail result. Nothing escapes past
// this boundary.
func (p *Pipeline) runOne(ctx context.Context, probe validators.Probe, target *validators.Target) report.Result {
	start := time.Now()
	res := report.Result{Component: probe.Name()}

	// Cancellation stops scheduling new probes; a canceled run still fills
	// the slot so the report stays complete.
	if ctx.Err() != nil {
		res.Status = report.StatusSkip
		res.Diagnostic = "not attempted: run canceled"
		return res
	}

	if capability := probe.Capability(); capability != "" && !target.Config.Capability(capability) {
		res.Status = report.StatusSkip
		res.Diagnostic = fmt.Sprintf("capability %s not enabled for this platform", capability)
		return res
	}

	if resource := probe.Resource(); resource != "" {
		mu := p.resourceMu(resource)
		mu.Lock()
		defer mu.Unlock()
	}

	// The probe context is detached from run cancellation: a probe that has
	// started is allowed to finish rather than being killed mid-measurement,
	// bounded only by the per-validator timeout.
	probeCtx := context.WithoutCancel(ctx)
	var cancel context.CancelFunc
	if p.opts.Timeout > 0 {
		probeCtx, cancel = context.WithTimeout(probeCtx, p.opts.Timeout)
		defer cancel()
	}

	type outcome struct {
		ev  validators.Evidence
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("validator panicked: %v", r)}
			}
		}()
		ev, err := probe.Probe(probeCtx, target)
		done <- outcome{ev: ev, err: err}
	}()

	select {
	case out := <-done:
		res.Duration = time.Since(start)
		if out.err != nil {
			res.Status = report.StatusFail
			res.Diagnostic = out.err.Error()
			return res
		}
		res.Evidence = out.ev.Data
		res.Metric = out.ev.Metric
		res.Status, res.Diagnostic = p.decide(probe.Name(), out.ev, target)
		return res

	case <-probeCtx.Done():
		res.Duration = time.Since(start)
		res.Status = report.StatusFail
		res.Diagnostic = fmt.Sprintf("probe timed out after %s", p.opts.Timeout)
		return res
	}
}

// decide turns probe evidence into a status. When the configuration
// declares expect expressions for the component they are authoritative;
// otherwise the validator's own verdict stands.
func (p *Pipeline) decide(component string, ev validators.Evidence, target *validators.Target) (report.Status, string) {
	expectations := target.Config.StringSlice("validation." + component + ".expect")
	if len(expectations) > 0 {
		return evaluateExpectations(expectations, ev)
	}
	if ev.Healthy {
		return report.StatusPass, ev.Detail
	}
	return report.StatusFail, ev.Detail
}
