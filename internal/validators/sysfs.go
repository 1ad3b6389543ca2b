package validators

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SysFS reads kernel-exported hardware state. Root is prepended to every
// path so tests can point probes at a fixture tree; an empty Root reads the
// live system.
type SysFS struct {
	Root string
}

// ReadFile returns the trimmed contents of a file under the root.
func (s SysFS) ReadFile(rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.Root, "/", rel))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// List returns the sorted entry names of a directory under the root.
func (s SysFS) List(rel string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.Root, "/", rel))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
