package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/platcheck-dev/platcheck/internal/engine"
	"github.com/platcheck-dev/platcheck/internal/hardware"
)

var (
	detectOpts     = DefaultCommonOptions()
	detectAsJSON   bool
	detectNoLookup bool
)

// detectCmd represents the detect command.
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect the hardware platform and its matching profile",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runDetect()
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().StringVar(&detectOpts.CatalogPath, "catalog", "",
		"Platform catalog file (default: built-in catalog)")
	detectCmd.Flags().StringVar(&detectOpts.SysRoot, "sys-root", detectOpts.SysRoot,
		"Root for /proc and /sys reads, for testing against captured trees")
	detectCmd.Flags().BoolVar(&detectAsJSON, "json", false,
		"Emit the descriptor as JSON")
	detectCmd.Flags().BoolVar(&detectNoLookup, "no-profile", false,
		"Skip the catalog lookup and print the raw descriptor only")
}

func runDetect() error {
	detector := hardware.Detector{Root: detectOpts.SysRoot}
	desc, err := detector.Detect()
	if err != nil {
		return fmt.Errorf("hardware detection failed: %w", err)
	}

	profile := ""
	if !detectNoLookup {
		cat, err := detectOpts.LoadCatalog()
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		profile, err = engine.New(cat, nil, nil).ResolveProfile(desc)
		if err != nil {
			return err
		}
	}

	if detectAsJSON {
		payload := struct {
			hardware.Descriptor
			Profile string `json:"profile,omitempty"`
		}{Descriptor: desc, Profile: profile}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	fmt.Printf("Model:      %s\n", desc.Model)
	if len(desc.Compatible) > 0 {
		fmt.Printf("Compatible: %s\n", strings.Join(desc.Compatible, ", "))
	}
	if desc.CPUPart != "" {
		fmt.Printf("CPU part:   %s\n", desc.CPUPart)
	}
	if desc.MemoryMB > 0 {
		fmt.Printf("Memory:     %d MiB\n", desc.MemoryMB)
	}
	if profile != "" {
		fmt.Printf("Profile:    %s\n", profile)
	}
	return nil
}
