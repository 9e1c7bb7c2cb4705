package hw_test

import (
	"github.com/mna/gpvm/hw"
)

// fakeState is a minimal backend execution state used across the test
// suite: it counts the steps it has been given and, if constructed with
// a non-negative budget, kills its own thread once the budget runs out
// — standing in for a backend module that "runs out of things to do".
type fakeState struct {
	steps  int
	budget int
}

func (s *fakeState) Clear() { *s = fakeState{budget: -1} }

// fakeBackend is a tag-matching backend over string tags. Modules are
// registered with addModule and looked up by exact tag equality, in
// registration order, mirroring the spec's "descending match quality"
// contract trivially (there is only ever one quality level here).
type fakeBackend struct {
	byTag   map[string][]hw.ModuleID
	budgets []int

	hwResets   int
	progResets int
	program    any
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{byTag: make(map[string][]hw.ModuleID)}
}

// addModule registers a module under tag with the given step budget (-1
// for "never dies on its own") and returns its id.
func (b *fakeBackend) addModule(tag string, budget int) hw.ModuleID {
	id := hw.ModuleID(len(b.budgets))
	b.budgets = append(b.budgets, budget)
	b.byTag[tag] = append(b.byTag[tag], id)
	return id
}

func (b *fakeBackend) FindModuleMatch(tag string, maxN int) []hw.ModuleID {
	ids := b.byTag[tag]
	if maxN >= 0 && len(ids) > maxN {
		ids = ids[:maxN]
	}
	out := make([]hw.ModuleID, len(ids))
	copy(out, ids)
	return out
}

func (b *fakeBackend) InitThread(th *hw.Thread[*fakeState], moduleID hw.ModuleID) {
	budget := -1
	if int(moduleID) < len(b.budgets) {
		budget = b.budgets[moduleID]
	}
	th.State = &fakeState{budget: budget}
}

func (b *fakeBackend) SingleStep(ctl hw.Control[*fakeState, string], th *hw.Thread[*fakeState]) {
	th.State.steps++
	if th.State.budget >= 0 && th.State.steps >= th.State.budget {
		if id, ok := ctl.CurrentThreadID(); ok {
			ctl.Kill(id)
		}
	}
}

func (b *fakeBackend) ResetHardwareState() { b.hwResets++ }
func (b *fakeBackend) ResetProgram() {
	b.progResets++
	b.program = nil
}
func (b *fakeBackend) SetProgram(p any) { b.program = p }
func (b *fakeBackend) GetProgram() any  { return b.program }

// panicBackend always panics on SingleStep, used to test that the host
// lets a backend panic propagate while still restoring its invariants.
type panicBackend struct {
	fakeBackend
}

func (b *panicBackend) SingleStep(ctl hw.Control[*fakeState, string], th *hw.Thread[*fakeState]) {
	panic("boom")
}

// nopEventLibrary discards every event; tests that care about dispatch
// ordering install their own EventLibrary instead.
type nopEventLibrary struct{}

func (nopEventLibrary) HandleEvent(hw.Control[*fakeState, string], hw.Event)  {}
func (nopEventLibrary) TriggerEvent(hw.Control[*fakeState, string], hw.Event) {}

func newTestHost(cfg hw.Config, b *fakeBackend) *hw.Host[*fakeState, string, *fakeBackend, any] {
	return hw.NewHost[*fakeState, string, *fakeBackend, any](cfg, b, nopEventLibrary{})
}
