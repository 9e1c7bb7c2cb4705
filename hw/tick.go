package hw

// Tick executes one logical time step: drain queued events, run the
// admission controller, step every thread in the frozen execution order,
// then reap threads that died during the tick. Returns ErrReentrantTick
// if the host is already mid-tick. A panic raised by a backend's
// SingleStep is not recovered: it propagates out of Tick to the caller
// unwrapped, after the deferred cleanup below has already cleared
// isExecuting and the current-thread fields.
func (h *Host[S, T, B, C]) Tick() error {
	if h.isExecuting {
		return ErrReentrantTick
	}

	h.drainEvents()
	h.admit()

	h.isExecuting = true
	defer func() {
		h.hasCurThread = false
		h.curThreadID = noThread
		h.isExecuting = false
	}()

	// Snapshot N before iterating: threads spawned mid-tick land in the
	// pending queue and do not run until next tick, however far they push
	// execOrder's length out from under us.
	n := len(h.execOrder)
	for i := 0; i < n; i++ {
		id := h.execOrder[i]
		th := &h.pool[id]
		if th.RunState != Running {
			continue
		}
		h.curThreadID = id
		h.hasCurThread = true
		h.stepOne(id, th)
	}

	h.reap()
	return nil
}

// stepOne invokes the backend on a single thread. A panic raised by
// SingleStep is a backend-originated failure and is not recovered here:
// it hands the panic handler a chance to observe it as a diagnostic,
// then re-panics so the failure keeps unwinding out of Tick unwrapped.
// Tick's own defer still runs during that unwind, so isExecuting and the
// current-thread fields are clean by the time the panic reaches the
// caller.
func (h *Host[S, T, B, C]) stepOne(id ThreadID, th *Thread[S]) {
	defer func() {
		if r := recover(); r != nil {
			h.panicHandler(id, r)
			panic(r)
		}
	}()
	h.backend.SingleStep(h, th)
}

// reap rebuilds the execution order by dropping Dead ids, pushing each
// removed id onto the unused stack for reuse.
func (h *Host[S, T, B, C]) reap() {
	kept := h.execOrder[:0]
	for _, id := range h.execOrder {
		if h.pool[id].RunState == Dead {
			h.unusedStack = append(h.unusedStack, id)
		} else {
			kept = append(kept, id)
		}
	}
	h.execOrder = kept
}

// Run calls Tick k times, stopping at the first error (which will always
// be ErrReentrantTick, since Tick itself cannot otherwise fail).
func (h *Host[S, T, B, C]) Run(k int) error {
	for i := 0; i < k; i++ {
		if err := h.Tick(); err != nil {
			return err
		}
	}
	return nil
}
