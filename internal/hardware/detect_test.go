package hardware

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDetectReadsDeviceTree(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFixture(t, root, "proc/device-tree/model", "Raspberry Pi 5 Model B Rev 1.0\x00")
	writeFixture(t, root, "proc/device-tree/compatible", "raspberrypi,5-model-b\x00brcm,bcm2712\x00")
	writeFixture(t, root, "proc/cpuinfo", "processor\t: 0\nCPU part\t: 0xd0b\n")
	writeFixture(t, root, "proc/meminfo", "MemTotal:        8244836 kB\n")

	desc, err := Detector{Root: root}.Detect()
	require.NoError(t, err)

	assert.Equal(t, "Raspberry Pi 5 Model B Rev 1.0", desc.Model)
	assert.Equal(t, []string{"raspberrypi,5-model-b", "brcm,bcm2712"}, desc.Compatible)
	assert.Equal(t, "0xd0b", desc.CPUPart)
	assert.Equal(t, int64(8051), desc.MemoryMB)
}

func TestDetectMissingModelFails(t *testing.T) {
	t.Parallel()
	_, err := Detector{Root: t.TempDir()}.Detect()
	assert.Error(t, err)
}

func TestDetectDegradesWithoutAuxiliarySources(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFixture(t, root, "proc/device-tree/model", "Radxa ROCK 5B")

	desc, err := Detector{Root: root}.Detect()
	require.NoError(t, err)
	assert.Equal(t, "Radxa ROCK 5B", desc.Model)
	assert.Empty(t, desc.Compatible)
	assert.Empty(t, desc.CPUPart)
	assert.Zero(t, desc.MemoryMB)
}

func TestHasCompatible(t *testing.T) {
	t.Parallel()
	desc := Descriptor{Compatible: []string{"raspberrypi,5-model-b", "brcm,bcm2712"}}
	assert.True(t, desc.HasCompatible("brcm"))
	assert.False(t, desc.HasCompatible("rockchip"))
}
