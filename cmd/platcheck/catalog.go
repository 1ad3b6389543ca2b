package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platcheck-dev/platcheck/internal/catalog"
)

// catalogCmd groups catalog maintenance subcommands.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and lint platform catalogs",
}

// catalogLintCmd validates a catalog file without running anything.
var catalogLintCmd = &cobra.Command{
	Use:   "lint <catalog.yaml>",
	Short: "Check a catalog for integrity problems",
	Long: `Load a catalog and run the full integrity validation: schema version,
profile ancestry, identity rule ambiguity, fragment well-formedness. All
problems are reported at once, not just the first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runCatalogLint(args[0])
	},
}

// catalogProfilesCmd lists the profiles a catalog defines.
var catalogProfilesCmd = &cobra.Command{
	Use:   "profiles [catalog.yaml]",
	Short: "List the profiles in a catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return runCatalogProfiles(path)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogLintCmd)
	catalogCmd.AddCommand(catalogProfilesCmd)
}

func runCatalogLint(path string) error {
	_, err := catalog.Load(path)
	if err != nil {
		var integrity *catalog.IntegrityError
		if errors.As(err, &integrity) {
			for _, problem := range integrity.Problems {
				fmt.Printf("  %s\n", problem)
			}
			return fmt.Errorf("catalog %s has %d problems", path, len(integrity.Problems))
		}
		return err
	}
	fmt.Printf("catalog %s is valid\n", path)
	return nil
}

func runCatalogProfiles(path string) error {
	var (
		cat *catalog.Catalog
		err error
	)
	if path == "" {
		cat, err = catalog.Default()
	} else {
		cat, err = catalog.Load(path)
	}
	if err != nil {
		return err
	}

	for _, profile := range cat.Profiles {
		marker := " "
		if profile.ID == cat.Fallback {
			marker = "*"
		}
		fmt.Printf("%s %-20s %s\n", marker, profile.ID, profile.Description)
	}
	return nil
}
