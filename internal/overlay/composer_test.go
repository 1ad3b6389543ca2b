package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capSet map[string]bool

func (c capSet) Capability(name string) bool { return c[name] }

func baseDescription() Description {
	return Description{Nodes: map[string]Properties{
		"/soc/gpu":       {"status": "disabled", "compatible": "brcm,bcm2712-vc6"},
		"/soc/audio":     {"status": "disabled"},
		"/soc/audio/dai": {"format": "i2s"},
	}}
}

func TestComposeAppliesEnabledFragmentsInOrder(t *testing.T) {
	t.Parallel()
	fragments := []Fragment{
		{ID: "vc4-kms", Requires: "gpu", Writes: []Write{{Path: "/soc/gpu", Property: "status", Value: "okay"}}},
		{ID: "hifiberry", Requires: "audio", Writes: []Write{{Path: "/soc/audio", Property: "status", Value: "okay"}}},
	}

	composed, err := Compose(baseDescription(), fragments, capSet{"gpu": true})
	require.NoError(t, err)

	assert.Equal(t, []string{"vc4-kms"}, composed.Manifest.Applied)
	require.Len(t, composed.Manifest.Skipped, 1)
	assert.Equal(t, "hifiberry", composed.Manifest.Skipped[0].ID)
	assert.Contains(t, composed.Manifest.Skipped[0].Reason, "audio")

	status, ok := composed.Description.Property("/soc/gpu", "status")
	require.True(t, ok)
	assert.Equal(t, "okay", status)

	// Skipped fragment left its target untouched.
	status, _ = composed.Description.Property("/soc/audio", "status")
	assert.Equal(t, "disabled", status)
}

func TestComposeDoubleWriteWithoutReplaceConflicts(t *testing.T) {
	t.Parallel()
	fragments := []Fragment{
		{ID: "frag-a", Writes: []Write{{Path: "/soc/gpu", Property: "status", Value: "okay"}}},
		{ID: "frag-b", Writes: []Write{{Path: "/soc/gpu", Property: "status", Value: "disabled"}}},
	}

	_, err := Compose(baseDescription(), fragments, capSet{})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "/soc/gpu", conflict.Path)
	assert.Equal(t, "status", conflict.Property)
	assert.Equal(t, "frag-a", conflict.First)
	assert.Equal(t, "frag-b", conflict.Second)
}

func TestComposeReplaceWinsAndRecordsOverride(t *testing.T) {
	t.Parallel()
	fragments := []Fragment{
		{ID: "frag-a", Writes: []Write{{Path: "/soc/gpu", Property: "status", Value: "okay"}}},
		{ID: "frag-b", Writes: []Write{{Path: "/soc/gpu", Property: "status", Value: "disabled", Replace: true}}},
	}

	composed, err := Compose(baseDescription(), fragments, capSet{})
	require.NoError(t, err)

	status, _ := composed.Description.Property("/soc/gpu", "status")
	assert.Equal(t, "disabled", status)

	require.Len(t, composed.Manifest.Overrides, 1)
	assert.Equal(t, Override{Path: "/soc/gpu", Property: "status", Replaced: "frag-a", By: "frag-b"}, composed.Manifest.Overrides[0])
	assert.Equal(t, []string{"frag-a", "frag-b"}, composed.Manifest.Applied)
}

func TestComposeDeleteRemovesSubtree(t *testing.T) {
	t.Parallel()
	fragments := []Fragment{
		{ID: "strip-audio", Deletes: []string{"/soc/audio"}},
	}

	composed, err := Compose(baseDescription(), fragments, capSet{})
	require.NoError(t, err)

	_, ok := composed.Description.Nodes["/soc/audio"]
	assert.False(t, ok)
	_, ok = composed.Description.Nodes["/soc/audio/dai"]
	assert.False(t, ok, "children are removed with the node")
	_, ok = composed.Description.Nodes["/soc/gpu"]
	assert.True(t, ok)
}

func TestComposeWriteUnderDeletedNodeConflicts(t *testing.T) {
	t.Parallel()
	fragments := []Fragment{
		{ID: "strip-audio", Deletes: []string{"/soc/audio"}},
		{ID: "late-codec", Writes: []Write{{Path: "/soc/audio/codec", Property: "status", Value: "okay"}}},
	}

	_, err := Compose(baseDescription(), fragments, capSet{})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "/soc/audio", conflict.Path)
	assert.Equal(t, "strip-audio", conflict.First)
	assert.Equal(t, "late-codec", conflict.Second)
}

func TestComposeDeleteAfterEarlierWriteIsAllowed(t *testing.T) {
	t.Parallel()
	fragments := []Fragment{
		{ID: "enable-audio", Writes: []Write{{Path: "/soc/audio", Property: "status", Value: "okay"}}},
		{ID: "strip-audio", Deletes: []string{"/soc/audio"}},
	}

	composed, err := Compose(baseDescription(), fragments, capSet{})
	require.NoError(t, err)
	_, ok := composed.Description.Nodes["/soc/audio"]
	assert.False(t, ok)
	assert.Equal(t, []string{"enable-audio", "strip-audio"}, composed.Manifest.Applied)
}

func TestComposeCreatesMissingNodes(t *testing.T) {
	t.Parallel()
	fragments := []Fragment{
		{ID: "add-led", Writes: []Write{{Path: "/leds/act", Property: "trigger", Value: "heartbeat"}}},
	}

	composed, err := Compose(baseDescription(), fragments, capSet{})
	require.NoError(t, err)
	v, ok := composed.Description.Property("/leds/act", "trigger")
	require.True(t, ok)
	assert.Equal(t, "heartbeat", v)
}

func TestComposeDoesNotMutateBase(t *testing.T) {
	t.Parallel()
	base := baseDescription()
	fragments := []Fragment{
		{ID: "vc4-kms", Writes: []Write{{Path: "/soc/gpu", Property: "status", Value: "okay"}}},
		{ID: "strip-audio", Deletes: []string{"/soc/audio"}},
	}

	_, err := Compose(base, fragments, capSet{})
	require.NoError(t, err)

	status, _ := base.Property("/soc/gpu", "status")
	assert.Equal(t, "disabled", status)
	_, ok := base.Nodes["/soc/audio"]
	assert.True(t, ok)
}

func TestComposeRejectsInvalidFragments(t *testing.T) {
	t.Parallel()
	_, err := Compose(baseDescription(), []Fragment{{ID: ""}}, capSet{})
	assert.Error(t, err)

	_, err = Compose(baseDescription(), []Fragment{{ID: "x", Writes: []Write{{Path: "", Property: "p"}}}}, capSet{})
	assert.Error(t, err)
}
