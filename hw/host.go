package hw

import (
	"fmt"
	"io"

	"github.com/dolthub/swiss"
)

// Host is the hardware host: it multiplexes many logical threads over a
// Backend, arbitrating admission by priority and driving a per-tick
// scheduling loop. S is the backend's execution state type, T is its tag
// type, B is the concrete Backend implementation, and C is an optional
// custom per-host component the backend or its owner can stash arbitrary
// state in (the host itself never reads it).
type Host[S ExecState, T any, B Backend[S, T], C any] struct {
	cfg     Config
	backend B
	custom  C

	pool []Thread[S]

	activeSet    *swiss.Map[ThreadID, struct{}]
	pendingQueue []ThreadID
	unusedStack  []ThreadID
	execOrder    []ThreadID

	eventQueue []Event
	eventLib   EventLibrary[S, T]

	isExecuting  bool
	curThreadID  ThreadID
	hasCurThread bool

	panicHandler func(id ThreadID, recovered any)

	printHardwareState func(*Host[S, T, B, C], io.Writer)
	printEvent         func(Event, io.Writer)
	printExecState     func(S, io.Writer)
}

// NewHost constructs a Host with the given configuration, backend, and
// event library. It populates the pool and unused stack exactly as
// described by the specification: initial pool length is
// min(2*MaxActiveThreads, MaxThreadSpace), handed out lowest-id-first.
func NewHost[S ExecState, T any, B Backend[S, T], C any](cfg Config, backend B, eventLib EventLibrary[S, T]) *Host[S, T, B, C] {
	cfg = cfg.withDefaults()

	h := &Host[S, T, B, C]{
		cfg:          cfg,
		backend:      backend,
		eventLib:     eventLib,
		activeSet:    swiss.NewMap[ThreadID, struct{}](uint32(cfg.MaxActiveThreads)),
		hasCurThread: false,
		curThreadID:  noThread,
	}
	h.printHardwareState = func(*Host[S, T, B, C], io.Writer) {}
	h.printEvent = func(ev Event, w io.Writer) { fmt.Fprintf(w, "{kind:%d}", ev.Kind) }
	h.printExecState = func(S, io.Writer) {}
	h.panicHandler = func(ThreadID, any) {}

	initial := 2 * cfg.MaxActiveThreads
	if initial > cfg.MaxThreadSpace {
		initial = cfg.MaxThreadSpace
	}
	h.pool = make([]Thread[S], initial)
	h.unusedStack = make([]ThreadID, initial)
	for i := 0; i < initial; i++ {
		h.unusedStack[i] = ThreadID(initial - 1 - i)
	}
	return h
}

// Config returns the host's active configuration.
func (h *Host[S, T, B, C]) Config() Config { return h.cfg }

// Backend returns the host's backend.
func (h *Host[S, T, B, C]) Backend() B { return h.backend }

// Custom returns the host's custom per-instance component.
func (h *Host[S, T, B, C]) Custom() C { return h.custom }

// SetCustom replaces the host's custom per-instance component.
func (h *Host[S, T, B, C]) SetCustom(c C) { h.custom = c }

// IsExecuting reports whether the host is currently mid-tick.
func (h *Host[S, T, B, C]) IsExecuting() bool { return h.isExecuting }

// PoolLen returns the current pool size (active + pending + unused, plus
// any transient stale execution-order entries mid-tick).
func (h *Host[S, T, B, C]) PoolLen() int { return len(h.pool) }

// ActiveCount returns the number of Running threads.
func (h *Host[S, T, B, C]) ActiveCount() int { return int(h.activeSet.Count()) }

// PendingCount returns the number of Pending threads.
func (h *Host[S, T, B, C]) PendingCount() int { return len(h.pendingQueue) }

// UnusedCount returns the number of Dead threads available for reuse.
func (h *Host[S, T, B, C]) UnusedCount() int { return len(h.unusedStack) }

// Thread returns the live thread record for id.
func (h *Host[S, T, B, C]) Thread(id ThreadID) (*Thread[S], error) {
	if int(id) >= len(h.pool) {
		return nil, fmt.Errorf("hw: thread %d: %w", id, ErrInvalidThreadID)
	}
	return &h.pool[id], nil
}

// CurrentThreadID returns the id of the thread currently being stepped.
func (h *Host[S, T, B, C]) CurrentThreadID() (ThreadID, bool) {
	return h.curThreadID, h.hasCurThread
}

// SetPanicHandler installs the function called when a Backend.SingleStep
// call panics. The handler only observes the recovered value: the panic
// is re-raised afterwards and propagates out of Tick, and the panicking
// thread is left as it was (not killed). A nil handler is replaced with a
// no-op.
func (h *Host[S, T, B, C]) SetPanicHandler(fn func(id ThreadID, recovered any)) {
	if fn == nil {
		fn = func(ThreadID, any) {}
	}
	h.panicHandler = fn
}

// SetPrintHardwareStateFunc installs the hook used by PrintHardwareState.
func (h *Host[S, T, B, C]) SetPrintHardwareStateFunc(fn func(*Host[S, T, B, C], io.Writer)) {
	if fn == nil {
		fn = func(*Host[S, T, B, C], io.Writer) {}
	}
	h.printHardwareState = fn
}

// SetPrintEventFunc installs the hook used when rendering queued events.
func (h *Host[S, T, B, C]) SetPrintEventFunc(fn func(Event, io.Writer)) {
	if fn == nil {
		fn = func(Event, io.Writer) {}
	}
	h.printEvent = fn
}

// SetPrintExecutionStateFunc installs the hook used to render a single
// thread's execution state.
func (h *Host[S, T, B, C]) SetPrintExecutionStateFunc(fn func(S, io.Writer)) {
	if fn == nil {
		fn = func(S, io.Writer) {}
	}
	h.printExecState = fn
}

// PrintHardwareState writes the hardware-state hook's output to w.
func (h *Host[S, T, B, C]) PrintHardwareState(w io.Writer) { h.printHardwareState(h, w) }

// PrintEventQueue writes a rendering of the pending event queue to w.
func (h *Host[S, T, B, C]) PrintEventQueue(w io.Writer) {
	fmt.Fprintf(w, "event queue (%d): [", len(h.eventQueue))
	for i, ev := range h.eventQueue {
		if i > 0 {
			fmt.Fprint(w, ", ")
		}
		h.printEvent(ev, w)
	}
	fmt.Fprint(w, "]")
}
