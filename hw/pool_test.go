package hw_test

import (
	"testing"

	"github.com/mna/gpvm/hw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnWithTag_NoMatch(t *testing.T) {
	b := newFakeBackend()
	h := newTestHost(hw.DefaultConfig(), b)

	id, ok := h.SpawnWithTag("nonexistent", 1.0)
	assert.False(t, ok)
	assert.Zero(t, id)
}

func TestSpawnWithTag_Match(t *testing.T) {
	b := newFakeBackend()
	b.addModule("forage", -1)
	h := newTestHost(hw.DefaultConfig(), b)

	id, ok := h.SpawnWithTag("forage", 1.0)
	require.True(t, ok)

	th, err := h.Thread(id)
	require.NoError(t, err)
	assert.Equal(t, hw.Pending, th.RunState)
}

func TestSpawnMany_PartialSuccess(t *testing.T) {
	b := newFakeBackend()
	for i := 0; i < 3; i++ {
		b.addModule("swarm", -1)
	}
	cfg := hw.DefaultConfig()
	cfg.MaxThreadSpace = 2
	cfg.MaxActiveThreads = 2
	h := newTestHost(cfg, b)

	ids, dropped := h.SpawnMany("swarm", 3, 1.0)
	assert.Len(t, ids, 2)
	assert.Equal(t, 1, dropped)
}

func TestSpawnMany_NoMatches(t *testing.T) {
	b := newFakeBackend()
	h := newTestHost(hw.DefaultConfig(), b)

	ids, dropped := h.SpawnMany("nothing", 5, 1.0)
	assert.Empty(t, ids)
	assert.Equal(t, 0, dropped)
}

// TestReap_ReleasesIDsAndResetsState verifies the reaped ids become
// available for reuse and that reuse resets thread state.
func TestReap_ReleasesIDsAndResetsState(t *testing.T) {
	b := newFakeBackend()
	shortLived := b.addModule("t", 1) // dies after its first step
	longLived := b.addModule("t", -1)

	cfg := hw.DefaultConfig()
	h := newTestHost(cfg, b)

	id, ok := h.SpawnWithModule(shortLived, 3.0)
	require.True(t, ok)
	require.NoError(t, h.Tick()) // admitted and immediately runs to death

	th, err := h.Thread(id)
	require.NoError(t, err)
	assert.Equal(t, hw.Dead, th.RunState)

	newID, ok := h.SpawnWithModule(longLived, 1.0)
	require.True(t, ok)
	assert.Equal(t, id, newID, "the reaped slot should be recycled")

	th2, err := h.Thread(newID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, th2.Priority)
}

func TestPoolGrowsUpToMaxThreadSpace(t *testing.T) {
	b := newFakeBackend()
	m := b.addModule("t", -1)
	cfg := hw.DefaultConfig()
	cfg.MaxActiveThreads = 1
	cfg.MaxThreadSpace = 5
	h := newTestHost(cfg, b)

	initial := h.PoolLen()
	assert.Equal(t, 2, initial) // min(2*1, 5)

	for i := 0; i < 5; i++ {
		_, ok := h.SpawnWithModule(m, 1.0)
		require.True(t, ok)
	}
	assert.Equal(t, 5, h.PoolLen())

	_, ok := h.SpawnWithModule(m, 1.0)
	assert.False(t, ok)
	assert.Equal(t, 5, h.PoolLen())
}

func TestKillIsIdempotent(t *testing.T) {
	b := newFakeBackend()
	m := b.addModule("t", -1)
	h := newTestHost(hw.DefaultConfig(), b)

	id, _ := h.SpawnWithModule(m, 1.0)
	require.NoError(t, h.Tick())

	h.Kill(id)
	h.Kill(id) // must not panic or double-decrement the active set

	th, err := h.Thread(id)
	require.NoError(t, err)
	assert.Equal(t, hw.Dead, th.RunState)
	assert.Equal(t, 0, h.ActiveCount())
}

func TestKill_OutOfBoundsIDPanics(t *testing.T) {
	b := newFakeBackend()
	h := newTestHost(hw.DefaultConfig(), b)

	assert.PanicsWithValue(t, hw.ErrInvalidThreadID, func() {
		h.Kill(hw.ThreadID(h.PoolLen() + 1000))
	})
}

func TestThread_InvalidID(t *testing.T) {
	b := newFakeBackend()
	h := newTestHost(hw.DefaultConfig(), b)

	_, err := h.Thread(hw.ThreadID(h.PoolLen() + 1000))
	require.Error(t, err)
}
