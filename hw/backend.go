package hw

// Backend is the execution stepper contract: the pluggable collaborator
// that knows how programs are represented, how instructions execute, and
// how modules are matched against tags. The host is parameterised over a
// concrete Backend type (rather than storing it behind an interface
// value) so that the hot SingleStep path is a direct, statically
// resolved call instead of a virtual dispatch.
//
// S is the per-thread execution state (see ExecState); T is the tag type
// used to look up modules.
type Backend[S ExecState, T any] interface {
	// FindModuleMatch returns up to maxN module ids whose registered tag
	// best matches tag, in descending match quality. Returns nil or an
	// empty slice if nothing matches.
	FindModuleMatch(tag T, maxN int) []ModuleID

	// InitThread installs a call to moduleID on th's execution state. Must
	// be idempotent when th has just been reset.
	InitThread(th *Thread[S], moduleID ModuleID)

	// SingleStep advances th's execution state by one unit of progress.
	// It may call back into the host through ctl, including spawning new
	// threads, enqueueing or handling events, or killing any thread
	// (including th's own, via ctl.CurrentThreadID). If th has nothing
	// left to do, the backend must kill it itself.
	SingleStep(ctl Control[S, T], th *Thread[S])

	// ResetHardwareState resets the backend's internal state without
	// touching the currently loaded program. Called by Host.Reset, never
	// by Host.ResetBaseState.
	ResetHardwareState()

	// ResetProgram clears the currently loaded program, if any.
	ResetProgram()

	// SetProgram loads a new program. The program's shape is entirely
	// backend-defined; the host never inspects it.
	SetProgram(program any)

	// GetProgram returns the currently loaded program, or nil if none.
	GetProgram() any
}

// Control is the narrow set of host operations a Backend may call back
// into while stepping a thread. It is parameterised only by S and T (not
// by the host's backend or custom-component types) so that Backend does
// not need a circular type parameter referring back to its own host.
type Control[S ExecState, T any] interface {
	// SpawnWithModule allocates a new Pending thread running moduleID and
	// returns its id, or ok=false if thread space is exhausted.
	SpawnWithModule(moduleID ModuleID, priority float64) (id ThreadID, ok bool)

	// SpawnWithTag resolves tag to a single best-matching module via the
	// backend and spawns it, or ok=false if no module matches or thread
	// space is exhausted.
	SpawnWithTag(tag T, priority float64) (id ThreadID, ok bool)

	// SpawnMany resolves tag to up to n modules and spawns one thread per
	// match. The returned slice may be shorter than n; dropped accounts
	// for how many matched modules could not be spawned due to thread
	// space exhaustion.
	SpawnMany(tag T, n int, priority float64) (ids []ThreadID, dropped int)

	// Kill marks id Dead. It is idempotent; it does nothing if id is
	// already Dead. It does not affect the execution order mid-tick.
	Kill(id ThreadID)

	// HandleNow routes ev through the event library synchronously.
	HandleNow(ev Event)

	// Trigger routes ev through the event library's outward trigger path.
	Trigger(ev Event)

	// Enqueue appends ev to the event queue, to be drained at the start
	// of the next tick.
	Enqueue(ev Event)

	// CurrentThreadID returns the id of the thread currently being
	// stepped, if any.
	CurrentThreadID() (id ThreadID, ok bool)

	// Thread returns the live thread record for id, or an error wrapping
	// ErrInvalidThreadID if id is out of bounds.
	Thread(id ThreadID) (*Thread[S], error)
}

// EventLibrary resolves event kinds to handlers and routes events on the
// host's behalf. Handler logic (registration, dispatch policy) lives
// entirely in the implementation; the host only ever calls HandleEvent or
// TriggerEvent.
type EventLibrary[S ExecState, T any] interface {
	// HandleEvent delivers ev to its registered handler(s) synchronously.
	HandleEvent(ctl Control[S, T], ev Event)

	// TriggerEvent emits ev outward; fan-out semantics are defined by the
	// library.
	TriggerEvent(ctl Control[S, T], ev Event)
}
