// Package hardware supplies the runtime-observed facts about the current
// device. It is the detection collaborator: the resolution core only ever
// consumes a Descriptor, it never probes the machine itself.
package hardware

import "strings"

// Descriptor holds runtime-observed facts about the device being validated.
// Produced once per run and read-only thereafter.
type Descriptor struct {
	// Model is the human-readable board model string, e.g.
	// "Raspberry Pi 5 Model B Rev 1.0".
	Model string `json:"model" yaml:"model"`
	// Compatible is the device-tree compatible list, ordered most-specific
	// first, e.g. ["raspberrypi,5-model-b", "brcm,bcm2712"].
	Compatible []string `json:"compatible,omitempty" yaml:"compatible,omitempty"`
	// CPUPart is the primary CPU part identifier, e.g. "0xd0b".
	CPUPart string `json:"cpu_part,omitempty" yaml:"cpu_part,omitempty"`
	// MemoryMB is the total system memory in mebibytes, 0 if unknown.
	MemoryMB int64 `json:"memory_mb,omitempty" yaml:"memory_mb,omitempty"`
}

// HasCompatible reports whether any compatible entry contains the given
// substring.
func (d Descriptor) HasCompatible(substr string) bool {
	for _, c := range d.Compatible {
		if strings.Contains(c, substr) {
			return true
		}
	}
	return false
}
