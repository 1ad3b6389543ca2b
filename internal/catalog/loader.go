package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
)

// supportedSchema is the catalog schema versions this build understands.
var supportedSchema = func() *semver.Constraints {
	c, err := semver.NewConstraint("^1")
	if err != nil {
		panic(err)
	}
	return c
}()

//go:embed catalog.yaml
var embeddedCatalog []byte

// Default returns the catalog embedded in the binary, covering the
// generic-arm64, Raspberry Pi, and ROCK 5B families.
func Default() (*Catalog, error) {
	return LoadFromReader(bytes.NewReader(embeddedCatalog))
}

// Load reads and validates a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(base)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	return LoadFromReader(file)
}

// LoadFromReader parses a catalog from an io.Reader and runs the full
// integrity validation before returning it.
func LoadFromReader(r io.Reader) (*Catalog, error) {
	var c Catalog

	decoder := yaml.NewDecoder(r, yaml.Strict())
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog YAML: %w", err)
	}

	c.index = make(map[string]*Profile, len(c.Profiles))
	for _, p := range c.Profiles {
		// Duplicate ids are reported by Validate; first declaration wins in
		// the index so validation can still run.
		if _, exists := c.index[p.ID]; !exists {
			c.index[p.ID] = p
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
