package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/platcheck-dev/platcheck/internal/catalog"
	"github.com/platcheck-dev/platcheck/internal/output"
)

// CommonOptions contains flags shared by the commands that produce reports.
type CommonOptions struct {
	// Output
	Format  string
	OutFile string

	// Execution
	Timeout  time.Duration
	Parallel int

	// Catalog and hardware sources
	CatalogPath string
	SysRoot     string
}

// DefaultCommonOptions returns sensible defaults.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{
		Format:   "table",
		Timeout:  30 * time.Second,
		Parallel: 4,
		SysRoot:  "/",
	}
}

// RegisterFlags adds common flags to a cobra command.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command) {
	// Execution
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout,
		"Per-validator timeout (0 to disable)")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", opts.Parallel,
		"Maximum concurrent validators in collect-all mode")

	// Output
	cmd.Flags().StringVar(&opts.Format, "format", opts.Format,
		"Output format: table, json, yaml, junit, sarif")
	cmd.Flags().StringVarP(&opts.OutFile, "output", "o", "",
		"Output file path (default: stdout)")

	// Sources
	cmd.Flags().StringVar(&opts.CatalogPath, "catalog", "",
		"Platform catalog file (default: built-in catalog)")
	cmd.Flags().StringVar(&opts.SysRoot, "sys-root", opts.SysRoot,
		"Root for /proc and /sys reads, for testing against captured trees")
}

// ValidateFlags validates common options.
func (opts *CommonOptions) ValidateFlags() error {
	valid := false
	for _, f := range output.Formats() {
		if opts.Format == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid format: %s (valid: table, json, yaml, junit, sarif)", opts.Format)
	}
	if opts.Parallel < 0 {
		return fmt.Errorf("--parallel must not be negative")
	}
	return nil
}

// LoadCatalog opens the configured catalog, falling back to the embedded one.
func (opts *CommonOptions) LoadCatalog() (*catalog.Catalog, error) {
	if opts.CatalogPath != "" {
		return catalog.Load(opts.CatalogPath)
	}
	return catalog.Default()
}

// Writer returns the report destination and a close function.
func (opts *CommonOptions) Writer() (io.Writer, func() error, error) {
	if opts.OutFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	file, err := os.Create(opts.OutFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, file.Close, nil
}
