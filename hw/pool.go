package hw

// activate promotes a Pending thread to Running: it is a precondition
// violation to call this on a thread that is not Pending.
func (h *Host[S, T, B, C]) activate(id ThreadID) {
	th := &h.pool[id]
	if th.RunState != Pending {
		panic(ErrBadStateTransition)
	}
	h.activeSet.Put(id, struct{}{})
	h.execOrder = append(h.execOrder, id)
	th.RunState = Running
}

// kill marks id Dead. A Running thread is removed from the active set;
// its execution-order entry is left for the next reap to clean up, same
// as a thread that dies of its own accord. A Pending thread is stripped
// out of the pending queue immediately and its slot returned to the
// unused stack directly via retireDeadSlot, the same helper admit uses
// to reject never-admitted Pending threads: a Pending thread never
// enters the execution order, so reap would never see it, and leaving it
// Dead inside the pending queue would make the next admit() pop it and
// panic in activate (ErrBadStateTransition). Kill is idempotent on
// already-Dead threads.
func (h *Host[S, T, B, C]) kill(id ThreadID) {
	th := &h.pool[id]
	switch th.RunState {
	case Dead:
		return
	case Running:
		h.activeSet.Delete(id)
		th.RunState = Dead
	case Pending:
		h.removePending(id)
		h.retireDeadSlot(id)
	}
}

// removePending strips id out of the pending queue, preserving the
// relative order of whatever remains.
func (h *Host[S, T, B, C]) removePending(id ThreadID) {
	for i, pid := range h.pendingQueue {
		if pid == id {
			h.pendingQueue = append(h.pendingQueue[:i], h.pendingQueue[i+1:]...)
			return
		}
	}
}

// retireDeadSlot marks id Dead and returns its slot to the unused stack
// directly, for an id that will never pass through the execution order
// (and so would never reach reap, which is what recycles everything
// else).
func (h *Host[S, T, B, C]) retireDeadSlot(id ThreadID) {
	h.pool[id].RunState = Dead
	h.unusedStack = append(h.unusedStack, id)
}

// Kill implements Control: it marks id Dead. An out-of-bounds id is a
// programmer error, same class as a bad state transition, so it panics
// rather than being swallowed as a silent no-op.
func (h *Host[S, T, B, C]) Kill(id ThreadID) {
	if int(id) >= len(h.pool) {
		panic(ErrInvalidThreadID)
	}
	h.kill(id)
}

// SpawnWithModule implements Control and is the sole thread-allocation
// primitive; SpawnWithTag and SpawnMany are built on top of it.
func (h *Host[S, T, B, C]) SpawnWithModule(moduleID ModuleID, priority float64) (ThreadID, bool) {
	id, ok := h.allocate()
	if !ok {
		return 0, false
	}

	th := &h.pool[id]
	th.reset()
	th.Priority = priority
	h.backend.InitThread(th, moduleID)

	th.RunState = Pending
	h.pendingQueue = append(h.pendingQueue, id)
	return id, true
}

// allocate reuses an unused slot or grows the pool, returning false if
// thread space is exhausted (CAPACITY_EXHAUSTED).
func (h *Host[S, T, B, C]) allocate() (ThreadID, bool) {
	if n := len(h.unusedStack); n > 0 {
		id := h.unusedStack[n-1]
		h.unusedStack = h.unusedStack[:n-1]
		return id, true
	}
	if len(h.pool) >= h.cfg.MaxThreadSpace || len(h.pool) >= int(maxThreadLimit) {
		return 0, false
	}
	id := ThreadID(len(h.pool))
	h.pool = append(h.pool, Thread[S]{})
	return id, true
}

// SpawnWithTag implements Control: it resolves tag to the single
// best-matching module and spawns it.
func (h *Host[S, T, B, C]) SpawnWithTag(tag T, priority float64) (ThreadID, bool) {
	matches := h.backend.FindModuleMatch(tag, 1)
	if len(matches) == 0 {
		return 0, false
	}
	return h.SpawnWithModule(matches[0], priority)
}

// SpawnMany implements Control: it resolves tag to up to n modules and
// spawns one thread per match. dropped counts matched modules that could
// not be spawned because thread space was exhausted.
func (h *Host[S, T, B, C]) SpawnMany(tag T, n int, priority float64) ([]ThreadID, int) {
	matches := h.backend.FindModuleMatch(tag, n)
	ids := make([]ThreadID, 0, len(matches))
	dropped := 0
	for _, m := range matches {
		id, ok := h.SpawnWithModule(m, priority)
		if !ok {
			dropped++
			continue
		}
		ids = append(ids, id)
	}
	return ids, dropped
}
