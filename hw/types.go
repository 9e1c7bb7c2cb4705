// Package hw implements the hardware host: the thread lifecycle,
// priority-based admission control, event dispatch, and per-tick
// scheduling loop shared by every tag-based genetic-programming virtual
// machine built on this module. It knows nothing about how programs are
// represented, how instructions execute, or how modules are matched
// against tags; all of that is delegated to a Backend supplied by the
// caller.
package hw

import "reflect"

// ThreadID is the stable index of a thread within a Host's pool. Ids are
// reused across a thread's lifetime, so a ThreadID only identifies a
// particular pool slot, not a particular logical run.
type ThreadID = uint32

// ModuleID identifies a unit of program code a Backend can install on a
// thread. The host never inspects a ModuleID; it only round-trips values
// returned by Backend.FindModuleMatch into Backend.InitThread.
type ModuleID = uint32

// noThread is the sentinel used internally for "no current thread"; it is
// never a valid ThreadID because the pool is capped below maxThreadLimit.
const noThread ThreadID = ^ThreadID(0)

// maxThreadLimit is the theoretical ceiling on pool size, independent of
// any (possibly misconfigured) Config.MaxThreadSpace. It exists so a
// caller cannot accidentally grow the pool into the sentinel value used
// for "no thread".
const maxThreadLimit = noThread - 1

// RunState is the lifecycle tag of a thread.
type RunState uint8

const (
	// Dead threads hold no live execution state and are either sitting in
	// the unused stack or are a stale execution-order entry awaiting reap.
	Dead RunState = iota
	// Pending threads are waiting on the admission controller.
	Pending
	// Running threads are iterated by the tick driver.
	Running
)

func (s RunState) String() string {
	switch s {
	case Dead:
		return "dead"
	case Pending:
		return "pending"
	case Running:
		return "running"
	default:
		return "invalid"
	}
}

// ExecState is the opaque, backend-defined per-thread execution state. The
// only operation the host requires of it is Clear, invoked whenever a
// thread slot is recycled.
type ExecState interface {
	Clear()
}

// Thread is a single logical thread of execution. Its id is implicit: it
// is the thread's index in the Host's pool.
type Thread[S ExecState] struct {
	// State is the backend-owned execution state.
	State S
	// Priority is a tiebreaker used by the admission controller; higher is
	// more important. Default 1.0.
	Priority float64
	// RunState is the thread's current lifecycle tag.
	RunState RunState
}

// reset clears the thread's state and restores it to a fresh Dead slot.
// A never-spawned slot (State still its zero value, typically a nil
// pointer) has nothing to clear; Clear is skipped in that case since
// most ExecState implementations have a pointer receiver and would
// otherwise panic dereferencing a nil receiver.
func (th *Thread[S]) reset() {
	if v := reflect.ValueOf(th.State); !(v.Kind() == reflect.Pointer && v.IsNil()) {
		th.State.Clear()
	}
	th.Priority = 1.0
	th.RunState = Dead
}

// Event is a record dispatched through the event library. Kind identifies
// the event type; Payload is opaque to the host.
type Event struct {
	Kind    int
	Payload any
}
