package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/spf13/cobra"

	"github.com/platcheck-dev/platcheck/internal/engine"
	"github.com/platcheck-dev/platcheck/internal/hardware"
	"github.com/platcheck-dev/platcheck/internal/output"
	"github.com/platcheck-dev/platcheck/internal/pipeline"
	"github.com/platcheck-dev/platcheck/internal/validators"
)

// errValidationFailed marks a completed run whose verdict was fail, so main
// can exit 1 instead of the fatal-error exit 2.
var errValidationFailed = errors.New("validation failed")

var (
	validateOpts     = DefaultCommonOptions()
	platformOverride string
	componentFlags   []string
	modeFlag         string
	filterExpr       string
)

// ComponentEnv exposes validator metadata for --filter expressions.
type ComponentEnv struct {
	Name       string `expr:"name"`
	Capability string `expr:"capability"`
	Resource   string `expr:"resource"`
}

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the hardware platform against its profile",
	Long: `Detect the running hardware (or accept an explicit --platform), resolve its
profile through the catalog's identity rules, fold the configuration chain,
compose the overlay fragments, and run the component validators.

Selection:
  --component cpu --component gpu   Validate only these components
  --filter "capability == 'gpu'"    Select components by expression
  --mode fail-fast                  Stop scheduling after the first failure`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateOpts.RegisterFlags(validateCmd)
	validateCmd.Flags().StringVar(&platformOverride, "platform", "",
		"Pin the platform profile instead of detecting the hardware")
	validateCmd.Flags().StringSliceVar(&componentFlags, "component", nil,
		"Components to validate (repeatable; default: all enabled by the profile)")
	validateCmd.Flags().StringVar(&modeFlag, "mode", "collect-all",
		"Execution mode: collect-all or fail-fast")
	validateCmd.Flags().StringVar(&filterExpr, "filter", "",
		"Component filter expression (e.g. \"capability in ['cpu', 'thermal']\")")
}

func runValidate(cmd *cobra.Command) error {
	if err := validateOpts.ValidateFlags(); err != nil {
		return err
	}
	mode, err := pipeline.ParseMode(modeFlag)
	if err != nil {
		return err
	}

	cat, err := validateOpts.LoadCatalog()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	var desc hardware.Descriptor
	if platformOverride == "" {
		detector := hardware.Detector{Root: validateOpts.SysRoot}
		desc, err = detector.Detect()
		if err != nil {
			return fmt.Errorf("hardware detection failed (use --platform to pin a profile): %w", err)
		}
		slog.Info("hardware detected", "model", desc.Model, "cpu_part", desc.CPUPart)
	}

	registry := validators.DefaultRegistry()
	components := componentFlags
	if len(components) == 0 && filterExpr != "" {
		components, err = filterComponents(registry, filterExpr)
		if err != nil {
			return err
		}
		if len(components) == 0 {
			return fmt.Errorf("--filter %q selects no components", filterExpr)
		}
	}

	eng := engine.New(cat, registry, slog.Default())
	res, err := eng.Run(cmd.Context(), desc, engine.Options{
		Platform:      platformOverride,
		Components:    components,
		Mode:          mode,
		Timeout:       validateOpts.Timeout,
		MaxConcurrent: validateOpts.Parallel,
		SysRoot:       validateOpts.SysRoot,
	})
	if err != nil {
		return err
	}

	writer, closeWriter, err := validateOpts.Writer()
	if err != nil {
		return err
	}
	defer func() {
		_ = closeWriter() // Best-effort cleanup
	}()

	formatter, err := output.New(validateOpts.Format, writer)
	if err != nil {
		return err
	}
	if err := formatter.Format(res.Report); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if res.Report.Summary.Failed > 0 {
		return fmt.Errorf("%w: %d passed, %d failed, %d skipped",
			errValidationFailed,
			res.Report.Summary.Passed,
			res.Report.Summary.Failed,
			res.Report.Summary.Skipped)
	}
	return nil
}

// filterComponents selects registry components by a compiled expression.
func filterComponents(registry *validators.Registry, expression string) ([]string, error) {
	program, err := expr.Compile(expression, expr.Env(ComponentEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid --filter expression: %w\nExample: capability in ['gpu', 'audio'] || name == 'cpu'", err)
	}

	var selected []string
	for _, name := range registry.Names() {
		probe, ok := registry.Get(name)
		if !ok {
			continue
		}
		env := ComponentEnv{
			Name:       probe.Name(),
			Capability: probe.Capability(),
			Resource:   probe.Resource(),
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return nil, fmt.Errorf("--filter evaluation failed for %s: %w", name, err)
		}
		if keep, ok := out.(bool); ok && keep {
			selected = append(selected, name)
		}
	}
	return selected, nil
}
