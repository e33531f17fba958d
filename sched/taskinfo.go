// File: sched/taskinfo.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sched

import (
	"sync/atomic"

	"github.com/momentics/taskpar/api"
)

// TaskFunc is the callable held by a task slot. A non-nil error marks
// the invocation as failed; panics are captured and treated the same.
type TaskFunc func(tk *Token) error

// ErrorHandler inspects a task failure. A handled failure is never
// re-raised from Run. Returning false forces the invocation to failed;
// returning true keeps a pending reschedule alive (retry allowed) and
// otherwise demotes the invocation from success to failed.
type ErrorHandler func(err error) bool

type inEdge struct {
	producer   api.TaskID
	consumable bool // producer has exactly one consumer
}

// taskInfo is one potentially-live task slot.
type taskInfo struct {
	task       TaskFunc
	errHandler ErrorHandler
	failure    error // captured unhandled failure, surfaced from Run
	priority   api.Priority

	outEdges []api.TaskID // consumers to signal when this completes
	inEdges  []inEdge     // producers feeding this task

	// pendingSignals counts not-yet-completed producers. Atomic because
	// finishing tasks decrement it concurrently.
	pendingSignals atomic.Int32

	// hasSignaled makes completion idempotent. Single-owner: only the
	// finishing worker touches it.
	hasSignaled bool

	state atomic.Uint32 // api.TaskState
}

func (t *taskInfo) loadState() api.TaskState {
	return api.TaskState(t.state.Load())
}

func (t *taskInfo) storeState(s api.TaskState) {
	t.state.Store(uint32(s))
}

func (t *taskInfo) alive() bool { return t.loadState() == api.TaskAlive }

// reset returns the slot to its pristine empty shape for reuse.
func (t *taskInfo) reset() {
	t.task = nil
	t.errHandler = nil
	t.failure = nil
	t.priority = api.PriorityNormal
	t.outEdges = nil
	t.inEdges = nil
	t.pendingSignals.Store(0)
	t.hasSignaled = false
	t.storeState(api.TaskEmpty)
}
