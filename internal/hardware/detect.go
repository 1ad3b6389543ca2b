package hardware

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Detector reads device identity from the firmware-populated procfs nodes.
// Root is prepended to every path so tests can point it at a fixture tree;
// an empty Root reads the live system.
type Detector struct {
	Root string
}

// Detect builds a Descriptor for the running device. Missing sources degrade
// to empty fields rather than failing the whole probe; only a completely
// absent device-tree is an error, since no identification is possible then.
func (d Detector) Detect() (Descriptor, error) {
	desc := Descriptor{}

	model, err := d.readFile("proc/device-tree/model")
	if err != nil {
		return desc, fmt.Errorf("device identity source unavailable: %w", err)
	}
	desc.Model = strings.TrimRight(model, "\x00\n")

	// The compatible node is a NUL-separated list, most-specific first.
	if compat, err := d.readFile("proc/device-tree/compatible"); err == nil {
		for _, entry := range strings.Split(compat, "\x00") {
			if entry != "" {
				desc.Compatible = append(desc.Compatible, entry)
			}
		}
	}

	if cpuinfo, err := d.readFile("proc/cpuinfo"); err == nil {
		desc.CPUPart = parseCPUPart(cpuinfo)
	}

	if meminfo, err := d.readFile("proc/meminfo"); err == nil {
		desc.MemoryMB = parseMemTotalMB(meminfo)
	}

	return desc, nil
}

func (d Detector) readFile(rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(d.Root, "/", rel))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseCPUPart extracts the first "CPU part" field from /proc/cpuinfo.
func parseCPUPart(cpuinfo string) string {
	for _, line := range strings.Split(cpuinfo, "\n") {
		if !strings.HasPrefix(line, "CPU part") {
			continue
		}
		if _, value, ok := strings.Cut(line, ":"); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// parseMemTotalMB extracts MemTotal from /proc/meminfo, converted to MiB.
func parseMemTotalMB(meminfo string) int64 {
	for _, line := range strings.Split(meminfo, "\n") {
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0
		}
		return kb / 1024
	}
	return 0
}
