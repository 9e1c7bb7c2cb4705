// Package demobackend is a toy hw.Backend used by cmd/gpvm to exercise the
// host end to end. It has no evolutionary framing and no persistence: a
// module is just a tag, a step budget, and an optional follow-up spawn.
package demobackend

import (
	"fmt"
	"io"

	"github.com/mna/gpvm/hw"
	"gopkg.in/yaml.v3"
)

// ModuleSpec describes one toy module loaded from a config file.
type ModuleSpec struct {
	Tag string `yaml:"tag"`
	// Steps is how many times SingleStep runs before the thread kills
	// itself. A negative value means it never dies on its own.
	Steps int `yaml:"steps"`
	// SpawnTag, if set, is spawned once, halfway through Steps.
	SpawnTag      string  `yaml:"spawn_tag,omitempty"`
	SpawnPriority float64 `yaml:"spawn_priority,omitempty"`
}

// Config is the root of a demo backend config file.
type Config struct {
	Modules []ModuleSpec `yaml:"modules"`
}

// LoadConfig decodes a Config from r.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("demobackend: decode config: %w", err)
	}
	return cfg, nil
}

// State is the per-thread execution state for the demo backend. It
// carries a copy of the originating ModuleSpec's parameters, since the
// host does not retain a thread-to-module mapping once a thread is
// running.
type State struct {
	StepCount     int
	budget        int
	spawnTag      string
	spawnPriority float64
	halfway       int
	spawned       bool
}

// Clear resets s to its zero value, as required by hw.ExecState.
func (s *State) Clear() { *s = State{} }

// Backend is a minimal tag-matching hw.Backend over string tags, driven by
// a table of ModuleSpec loaded from a Config.
type Backend struct {
	specs   []ModuleSpec
	byTag   map[string][]hw.ModuleID
	program any
}

// NewBackend builds a Backend from cfg. Modules with the same tag are all
// registered under it; FindModuleMatch returns them in registration order.
func NewBackend(cfg Config) *Backend {
	b := &Backend{byTag: make(map[string][]hw.ModuleID)}
	for _, spec := range cfg.Modules {
		id := hw.ModuleID(len(b.specs))
		b.specs = append(b.specs, spec)
		b.byTag[spec.Tag] = append(b.byTag[spec.Tag], id)
	}
	return b
}

func (b *Backend) FindModuleMatch(tag string, maxN int) []hw.ModuleID {
	ids := b.byTag[tag]
	if maxN >= 0 && len(ids) > maxN {
		ids = ids[:maxN]
	}
	out := make([]hw.ModuleID, len(ids))
	copy(out, ids)
	return out
}

func (b *Backend) InitThread(th *hw.Thread[*State], moduleID hw.ModuleID) {
	spec, ok := b.specFor(moduleID)
	if !ok {
		th.State = &State{budget: -1}
		return
	}
	th.State = &State{
		budget:        spec.Steps,
		spawnTag:      spec.SpawnTag,
		spawnPriority: spec.SpawnPriority,
		halfway:       spec.Steps / 2,
	}
}

func (b *Backend) specFor(moduleID hw.ModuleID) (ModuleSpec, bool) {
	if int(moduleID) >= len(b.specs) {
		return ModuleSpec{}, false
	}
	return b.specs[int(moduleID)], true
}

// SingleStep advances th by one step: it increments the step counter,
// spawns the configured follow-up tag halfway through the module's
// budget, and kills the thread once the budget is exhausted.
func (b *Backend) SingleStep(ctl hw.Control[*State, string], th *hw.Thread[*State]) {
	th.State.StepCount++
	id, ok := ctl.CurrentThreadID()
	if !ok {
		return
	}
	if th.State.spawnTag != "" && !th.State.spawned && th.State.StepCount >= th.State.halfway {
		th.State.spawned = true
		ctl.SpawnWithTag(th.State.spawnTag, th.State.spawnPriority)
	}
	if th.State.budget >= 0 && th.State.StepCount >= th.State.budget {
		ctl.Kill(id)
	}
}

func (b *Backend) ResetHardwareState() {}

func (b *Backend) ResetProgram() { b.program = nil }

func (b *Backend) SetProgram(program any) { b.program = program }

func (b *Backend) GetProgram() any { return b.program }

// EventLog is a trivial hw.EventLibrary that writes every handled and
// triggered event to Output; the CLI demo uses it as its event library.
type EventLog struct {
	Output io.Writer
}

func (l EventLog) HandleEvent(_ hw.Control[*State, string], ev hw.Event) {
	fmt.Fprintf(l.Output, "handled event kind=%d payload=%v\n", ev.Kind, ev.Payload)
}

func (l EventLog) TriggerEvent(_ hw.Control[*State, string], ev hw.Event) {
	fmt.Fprintf(l.Output, "triggered event kind=%d payload=%v\n", ev.Kind, ev.Payload)
}
