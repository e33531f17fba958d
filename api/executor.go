// Package api
// Author: momentics
//
// Executor contract for parallel dispatch of ad-hoc work.

package api

// Executor abstracts parallel execution of side work outside the task DAG.
type Executor interface {
	// Submit schedules fn for execution.
	Submit(fn func()) error

	// NumWorkers returns the number of worker routines.
	NumWorkers() int
}
