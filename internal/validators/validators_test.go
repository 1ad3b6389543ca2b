package validators

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platcheck-dev/platcheck/internal/overlay"
	"github.com/platcheck-dev/platcheck/internal/resolve"
)

func newTarget(t *testing.T, values map[string]any, nodes map[string]overlay.Properties) *Target {
	t.Helper()
	cfg, err := resolve.Resolve([]resolve.Layer{{Source: "test", Values: values}})
	require.NoError(t, err)
	return &Target{
		Description: &overlay.Composed{Description: overlay.Description{Nodes: nodes}},
		Config:      cfg,
		SysFS:       SysFS{Root: t.TempDir()},
	}
}

func writeSys(t *testing.T, target *Target, rel, content string) {
	t.Helper()
	path := filepath.Join(target.SysFS.Root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()
	r := DefaultRegistry()
	assert.Equal(t, []string{"cpu", "gpu", "audio", "network", "storage", "peripherals", "thermal"}, r.Names())

	p, ok := r.Get("thermal")
	require.True(t, ok)
	assert.Equal(t, "thermal", p.Capability())

	_, ok = r.Get("bluetooth")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	require.NoError(t, r.Register(&CPUValidator{}))
	assert.Error(t, r.Register(&CPUValidator{}))
}

func TestCPUValidator(t *testing.T) {
	t.Parallel()
	target := newTarget(t, map[string]any{
		"validation": map[string]any{"cpu": map[string]any{"min_cores": 4, "min_freq_mhz": 600}},
	}, nil)
	for _, dir := range []string{"cpu0", "cpu1", "cpu2", "cpu3", "cpufreq"} {
		require.NoError(t, os.MkdirAll(filepath.Join(target.SysFS.Root, "sys/devices/system/cpu", dir), 0o755))
	}
	writeSys(t, target, "sys/devices/system/cpu/cpu0/cpufreq/cpuinfo_max_freq", "1500000\n")

	ev, err := (&CPUValidator{}).Probe(context.Background(), target)
	require.NoError(t, err)
	assert.True(t, ev.Healthy, ev.Detail)
	assert.Equal(t, 4, ev.Data["cores"])
	require.NotNil(t, ev.Metric)
	assert.InEpsilon(t, 1500.0, ev.Metric.Value, 1e-9)
}

func TestCPUValidatorTooFewCores(t *testing.T) {
	t.Parallel()
	target := newTarget(t, map[string]any{
		"validation": map[string]any{"cpu": map[string]any{"min_cores": 8}},
	}, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(target.SysFS.Root, "sys/devices/system/cpu/cpu0"), 0o755))

	ev, err := (&CPUValidator{}).Probe(context.Background(), target)
	require.NoError(t, err)
	assert.False(t, ev.Healthy)
	assert.Contains(t, ev.Detail, "need 8")
}

func TestCPUValidatorMissingTopologyErrors(t *testing.T) {
	t.Parallel()
	target := newTarget(t, nil, nil)
	_, err := (&CPUValidator{}).Probe(context.Background(), target)
	assert.Error(t, err)
}

func TestGPUValidator(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		nodes   map[string]overlay.Properties
		healthy bool
	}{
		{"enabled", map[string]overlay.Properties{"/soc/gpu": {"status": "okay"}}, true},
		{"disabled", map[string]overlay.Properties{"/soc/gpu": {"status": "disabled"}}, false},
		{"absent", map[string]overlay.Properties{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			target := newTarget(t, nil, tt.nodes)
			ev, err := (&GPUValidator{}).Probe(context.Background(), target)
			require.NoError(t, err)
			assert.Equal(t, tt.healthy, ev.Healthy, ev.Detail)
		})
	}
}

func TestNetworkValidator(t *testing.T) {
	t.Parallel()
	target := newTarget(t, map[string]any{
		"validation": map[string]any{"network": map[string]any{"require_link": true}},
	}, nil)
	writeSys(t, target, "sys/class/net/lo/operstate", "unknown")
	writeSys(t, target, "sys/class/net/eth0/operstate", "up")
	writeSys(t, target, "sys/class/net/wlan0/operstate", "down")

	ev, err := (&NetworkValidator{}).Probe(context.Background(), target)
	require.NoError(t, err)
	assert.True(t, ev.Healthy, ev.Detail)

	ifaces := ev.Data["interfaces"].(map[string]any)
	assert.Len(t, ifaces, 2, "loopback is excluded")
	assert.Equal(t, "up", ifaces["eth0"])
}

func TestStorageValidator(t *testing.T) {
	t.Parallel()
	target := newTarget(t, map[string]any{
		"validation": map[string]any{"storage": map[string]any{"min_capacity_gb": 8}},
	}, nil)
	// 32 GiB in 512-byte sectors, plus a loop device that must be ignored.
	writeSys(t, target, "sys/block/mmcblk0/size", "67108864")
	writeSys(t, target, "sys/block/loop0/size", "999999999")

	ev, err := (&StorageValidator{}).Probe(context.Background(), target)
	require.NoError(t, err)
	assert.True(t, ev.Healthy, ev.Detail)
	assert.InEpsilon(t, 32.0, ev.Metric.Value, 1e-9)
}

func TestStorageValidatorBelowMinimum(t *testing.T) {
	t.Parallel()
	target := newTarget(t, map[string]any{
		"validation": map[string]any{"storage": map[string]any{"min_capacity_gb": 64}},
	}, nil)
	writeSys(t, target, "sys/block/mmcblk0/size", "67108864")

	ev, err := (&StorageValidator{}).Probe(context.Background(), target)
	require.NoError(t, err)
	assert.False(t, ev.Healthy)
	assert.Contains(t, ev.Detail, "below required")
}

func TestPeripheralsValidator(t *testing.T) {
	t.Parallel()
	target := newTarget(t, nil, map[string]overlay.Properties{
		"/soc/i2c": {"status": "okay"},
		"/soc/spi": {},
	})

	ev, err := (&PeripheralsValidator{}).Probe(context.Background(), target)
	require.NoError(t, err)
	assert.True(t, ev.Healthy, ev.Detail)
}

func TestPeripheralsValidatorMissingNode(t *testing.T) {
	t.Parallel()
	target := newTarget(t, map[string]any{
		"validation": map[string]any{"peripherals": map[string]any{"nodes": []any{"/soc/i2c", "/soc/can0"}}},
	}, map[string]overlay.Properties{"/soc/i2c": {"status": "okay"}})

	ev, err := (&PeripheralsValidator{}).Probe(context.Background(), target)
	require.NoError(t, err)
	assert.False(t, ev.Healthy)
	assert.Contains(t, ev.Detail, "/soc/can0")
}

func TestThermalValidator(t *testing.T) {
	t.Parallel()
	target := newTarget(t, map[string]any{
		"validation": map[string]any{"thermal": map[string]any{"max_temp_c": 85}},
	}, nil)
	writeSys(t, target, "sys/class/thermal/thermal_zone0/temp", "48200\n")

	ev, err := (&ThermalValidator{}).Probe(context.Background(), target)
	require.NoError(t, err)
	assert.True(t, ev.Healthy, ev.Detail)
	assert.InEpsilon(t, 48.2, ev.Metric.Value, 1e-9)
}

func TestThermalValidatorOverLimit(t *testing.T) {
	t.Parallel()
	target := newTarget(t, map[string]any{
		"validation": map[string]any{"thermal": map[string]any{"max_temp_c": 85}},
	}, nil)
	writeSys(t, target, "sys/class/thermal/thermal_zone0/temp", "91000")

	ev, err := (&ThermalValidator{}).Probe(context.Background(), target)
	require.NoError(t, err)
	assert.False(t, ev.Healthy)
	assert.Contains(t, ev.Detail, "exceeds limit")
}

func TestThermalValidatorMissingZoneErrors(t *testing.T) {
	t.Parallel()
	target := newTarget(t, nil, nil)
	_, err := (&ThermalValidator{}).Probe(context.Background(), target)
	assert.Error(t, err)
}
