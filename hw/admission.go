package hw

import "container/heap"

// admissionItem pairs an active thread's priority with its id for the
// eviction-candidate min-heap.
type admissionItem struct {
	priority float64
	id       ThreadID
}

// minHeap is a container/heap min-heap over admissionItem, ordered by
// priority (lowest first) and then by id for a deterministic, if
// arbitrary, tiebreak. Grounded on the pack's own
// container/heap-based priority queue (Swind/go-task-runner's
// priorityHeap), adapted from "highest first" to "lowest first" since
// here the heap identifies eviction candidates, not dispatch order.
type minHeap []admissionItem

func (h minHeap) Len() int { return len(h) }
func (h minHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].id < h[j].id
}
func (h minHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)   { *h = append(*h, x.(admissionItem)) }
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// admit runs the admission controller once: it promotes as many Pending
// threads to Running as possible subject to MaxActiveThreads, using
// priority (then arrival order) as the tiebreaker when saturated. See
// the specification's Admission Controller section for the three-phase
// algorithm this implements verbatim.
func (h *Host[S, T, B, C]) admit() {
	// Phase 1: fill spare capacity.
	for len(h.pendingQueue) > 0 && h.ActiveCount() < h.cfg.MaxActiveThreads {
		id := h.pendingQueue[0]
		h.pendingQueue = h.pendingQueue[1:]
		h.activate(id)
	}
	if len(h.pendingQueue) == 0 {
		h.pendingQueue = h.pendingQueue[:0]
		return
	}

	if !h.cfg.UseThreadPriority {
		// FIFO mode: no eviction; every thread still pending loses.
		for _, id := range h.pendingQueue {
			h.retireDeadSlot(id)
		}
		h.pendingQueue = h.pendingQueue[:0]
		return
	}

	// Phase 2: priority eviction. First find the true maximum priority
	// across the remaining pending queue — the source's own computation
	// of this value is bugged (a const declared then assigned in a loop);
	// the intent, reflected here, is simply max-over-the-queue.
	pStar := h.pool[h.pendingQueue[0]].Priority
	for _, id := range h.pendingQueue[1:] {
		if p := h.pool[id].Priority; p > pStar {
			pStar = p
		}
	}

	// Build a min-heap of active threads strictly below pStar: only they
	// could plausibly be evicted.
	var candidates minHeap
	h.activeSet.Iter(func(id ThreadID, _ struct{}) (stop bool) {
		if p := h.pool[id].Priority; p < pStar {
			candidates = append(candidates, admissionItem{priority: p, id: id})
		}
		return false
	})
	heap.Init(&candidates)

	qi := 0
	for qi < len(h.pendingQueue) && candidates.Len() > 0 {
		pendID := h.pendingQueue[qi]
		pendPriority := h.pool[pendID].Priority
		top := candidates[0]
		if pendPriority > top.priority {
			heap.Pop(&candidates)
			h.kill(top.id)
			h.activate(pendID)
		} else {
			// Tie or loss: the incumbent keeps its slot.
			h.retireDeadSlot(pendID)
		}
		qi++
	}

	// Phase 3: reject leftovers that never got a chance against the heap
	// (it emptied before the queue did). Rejected ids never enter the
	// execution order, so retireDeadSlot (not reap) is what recycles them.
	for ; qi < len(h.pendingQueue); qi++ {
		h.retireDeadSlot(h.pendingQueue[qi])
	}
	h.pendingQueue = h.pendingQueue[:0]
}
