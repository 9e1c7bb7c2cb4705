package demobackend_test

import (
	"strings"
	"testing"

	"github.com/mna/gpvm/hw"
	"github.com/mna/gpvm/internal/demobackend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
modules:
  - tag: forager
    steps: 4
    spawn_tag: scout
    spawn_priority: 2.0
  - tag: scout
    steps: 2
`

func TestLoadConfig(t *testing.T) {
	cfg, err := demobackend.LoadConfig(strings.NewReader(testConfig))
	require.NoError(t, err)
	require.Len(t, cfg.Modules, 2)
	assert.Equal(t, "forager", cfg.Modules[0].Tag)
	assert.Equal(t, 4, cfg.Modules[0].Steps)
	assert.Equal(t, "scout", cfg.Modules[0].SpawnTag)
}

func TestLoadConfig_RejectsUnknownFields(t *testing.T) {
	_, err := demobackend.LoadConfig(strings.NewReader("modules:\n  - tag: x\n    bogus: 1\n"))
	assert.Error(t, err)
}

func TestBackend_RunsUntilBudgetExhaustedAndSpawnsFollowUp(t *testing.T) {
	cfg, err := demobackend.LoadConfig(strings.NewReader(testConfig))
	require.NoError(t, err)

	b := demobackend.NewBackend(cfg)
	h := hw.NewHost[*demobackend.State, string, *demobackend.Backend, any](hw.DefaultConfig(), b, nopLibrary{})

	id, ok := h.SpawnWithTag("forager", 1.0)
	require.True(t, ok)

	// Tick 1: admitted and takes its first step. Tick 2: second step
	// crosses the halfway mark and spawns a "scout" follow-up (pending
	// until tick 3). Tick 3: the scout is admitted and takes its first
	// step, while the forager is still alive.
	for i := 0; i < 3; i++ {
		require.NoError(t, h.Tick())
	}

	th, err := h.Thread(id)
	require.NoError(t, err)
	assert.Equal(t, hw.Running, th.RunState, "the forager has one step left before its budget runs out")

	report := h.ThreadUsage()
	var found bool
	for _, pid := range report.Active {
		if pid != id {
			found = true
		}
	}
	assert.True(t, found, "the forager's spawn_tag follow-up should have been admitted by the third tick")

	// Tick 4: both the forager and its follow-up exhaust their budgets.
	require.NoError(t, h.Tick())
	th, err = h.Thread(id)
	require.NoError(t, err)
	assert.Equal(t, hw.Dead, th.RunState)
}

type nopLibrary struct{}

func (nopLibrary) HandleEvent(hw.Control[*demobackend.State, string], hw.Event)  {}
func (nopLibrary) TriggerEvent(hw.Control[*demobackend.State, string], hw.Event) {}
