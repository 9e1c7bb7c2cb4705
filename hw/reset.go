package hw

import "github.com/dolthub/swiss"

// ResetBaseState clears the event queue, resets every thread slot to
// Dead/priority 1.0/cleared state, empties the active set, pending
// queue, and execution order, and rebuilds the unused stack as all
// thread ids in reverse order. It does not touch the backend or the
// custom component. Returns ErrReentrantTick if called mid-tick.
func (h *Host[S, T, B, C]) ResetBaseState() error {
	if h.isExecuting {
		return ErrReentrantTick
	}

	h.eventQueue = h.eventQueue[:0]
	for i := range h.pool {
		h.pool[i].reset()
	}
	h.execOrder = h.execOrder[:0]
	h.pendingQueue = h.pendingQueue[:0]
	h.activeSet = swiss.NewMap[ThreadID, struct{}](uint32(h.cfg.MaxActiveThreads))

	n := len(h.pool)
	h.unusedStack = make([]ThreadID, n)
	for i := 0; i < n; i++ {
		h.unusedStack[i] = ThreadID(n - 1 - i)
	}

	h.curThreadID = noThread
	h.hasCurThread = false
	return nil
}

// Reset performs ResetBaseState and then asks the backend to reset its
// own hardware state (but not its loaded program). This is the full
// reset a derived host type is expected to extend with its own
// additional state.
func (h *Host[S, T, B, C]) Reset() error {
	if err := h.ResetBaseState(); err != nil {
		return err
	}
	h.backend.ResetHardwareState()
	return nil
}

// SetProgram loads a new program on the backend. The host does not
// otherwise react to program changes; callers typically follow this with
// a Reset.
func (h *Host[S, T, B, C]) SetProgram(program any) { h.backend.SetProgram(program) }

// GetProgram returns the backend's currently loaded program.
func (h *Host[S, T, B, C]) GetProgram() any { return h.backend.GetProgram() }

// ResetProgram clears the backend's currently loaded program.
func (h *Host[S, T, B, C]) ResetProgram() { h.backend.ResetProgram() }
