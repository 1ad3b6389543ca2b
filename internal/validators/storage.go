package validators

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/platcheck-dev/platcheck/internal/report"
)

// StorageValidator sums the capacity of physical block devices and checks
// it against the configured minimum.
type StorageValidator struct{}

func (v *StorageValidator) Name() string       { return "storage" }
func (v *StorageValidator) Capability() string { return "storage" }
func (v *StorageValidator) Resource() string   { return "" }

func (v *StorageValidator) OptionsSchema() string {
	return `{
		"type": "object",
		"properties": {
			"min_capacity_gb": {"type": "number", "minimum": 0},
			"expect": {"type": "array", "items": {"type": "string"}}
		},
		"additionalProperties": false
	}`
}

// virtual devices that do not count toward platform storage
var virtualBlockPrefixes = []string{"loop", "ram", "zram", "dm-"}

func (v *StorageValidator) Probe(_ context.Context, t *Target) (Evidence, error) {
	devices, err := t.SysFS.List("sys/block")
	if err != nil {
		return Evidence{}, fmt.Errorf("block device class unavailable: %w", err)
	}

	sizes := make(map[string]any)
	var totalBytes float64
	for _, dev := range devices {
		if isVirtualBlock(dev) {
			continue
		}
		raw, err := t.SysFS.ReadFile("sys/block/" + dev + "/size")
		if err != nil {
			continue
		}
		sectors, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		bytes := sectors * 512
		totalBytes += bytes
		sizes[dev] = bytes
	}

	totalGB := totalBytes / (1 << 30)
	ev := Evidence{
		Data:   map[string]any{"devices": sizes, "total_gb": totalGB},
		Metric: &report.Metric{Name: "storage_total", Value: totalGB, Unit: "GB"},
	}

	minGB := t.Config.GetFloat("validation.storage.min_capacity_gb", 0)
	switch {
	case len(sizes) == 0:
		ev.Detail = "no physical block devices found"
	case totalGB < minGB:
		ev.Detail = fmt.Sprintf("%.1f GB total storage below required %.1f GB", totalGB, minGB)
	default:
		ev.Healthy = true
		ev.Detail = fmt.Sprintf("%d devices, %.1f GB total", len(sizes), totalGB)
	}
	return ev, nil
}

func isVirtualBlock(dev string) bool {
	for _, prefix := range virtualBlockPrefixes {
		if strings.HasPrefix(dev, prefix) {
			return true
		}
	}
	return false
}
