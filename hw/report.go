package hw

import (
	"fmt"
	"io"
	"slices"
)

// ThreadUsageReport is a read-only snapshot of the host's thread-index
// state, grounded on the original source's PrintThreadUsage /
// PrintActiveThreadStates methods. Unlike those, this type separates
// gathering the data from rendering it: call Host.ThreadUsage to get
// one, then WriteTo (or format it yourself) to render it.
type ThreadUsageReport struct {
	Active           []ThreadID
	Pending          []ThreadID
	Unused           []ThreadID
	ExecOrder        []ThreadID
	MaxActiveThreads int
	MaxThreadSpace   int
}

// ThreadUsage snapshots the host's current thread-index state.
func (h *Host[S, T, B, C]) ThreadUsage() ThreadUsageReport {
	active := make([]ThreadID, 0, h.ActiveCount())
	h.activeSet.Iter(func(id ThreadID, _ struct{}) (stop bool) {
		active = append(active, id)
		return false
	})
	slices.Sort(active)

	return ThreadUsageReport{
		Active:           active,
		Pending:          append([]ThreadID(nil), h.pendingQueue...),
		Unused:           append([]ThreadID(nil), h.unusedStack...),
		ExecOrder:        append([]ThreadID(nil), h.execOrder...),
		MaxActiveThreads: h.cfg.MaxActiveThreads,
		MaxThreadSpace:   h.cfg.MaxThreadSpace,
	}
}

// WriteTo renders the report in the same three-block shape as the
// original source's PrintThreadUsage.
func (r ThreadUsageReport) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "active threads (%d/%d): %v\npending threads (%d): %v\nunused threads (%d/%d): %v\n",
		len(r.Active), r.MaxActiveThreads, r.Active,
		len(r.Pending), r.Pending,
		len(r.Unused), r.MaxThreadSpace, r.Unused)
	return int64(n), err
}
