package hw

import "errors"

// Sentinel errors for the host's programmer-error conditions. These are
// never expected under correct use; callers should treat them as fatal
// and check them with errors.Is rather than branch on their message.
var (
	// ErrReentrantTick is returned by Tick or ResetBaseState when called
	// while the host is already executing a tick.
	ErrReentrantTick = errors.New("hw: tick or reset called while host is executing")

	// ErrInvalidThreadID is reported when an operation references a thread
	// id outside the pool's current bounds: Host.Thread returns it wrapped,
	// Kill panics with it.
	ErrInvalidThreadID = errors.New("hw: thread id out of bounds")

	// ErrBadStateTransition is the panic value used when an operation
	// requires a thread to be in a run state it is not in, e.g. activating
	// a thread that is not Pending.
	ErrBadStateTransition = errors.New("hw: invalid thread state transition")
)
