// File: sched/awaiter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sched

import "github.com/momentics/taskpar/core/concurrency"

// Awaiter blocks its caller until a piece of side work finishes and
// delivers the work's return value, or its failure.
type Awaiter[R any] struct {
	waiter   concurrency.Waiter
	value    R
	err      error
	finished bool
}

// Await blocks until the side work completes and returns its result.
func (a *Awaiter[R]) Await() (R, error) {
	a.waiter.Wait(func() bool { return a.finished })
	return a.value, a.err
}

// Done reports completion without blocking.
func (a *Awaiter[R]) Done() bool {
	done := false
	a.waiter.NotifyAll(func() { done = a.finished })
	return done
}

func (a *Awaiter[R]) notifyValue(v R) {
	a.waiter.NotifyAll(func() {
		a.value = v
		a.finished = true
	})
}

func (a *Awaiter[R]) notifyError(err error) {
	a.waiter.NotifyAll(func() {
		a.err = err
		a.finished = true
	})
}
