// File: sched/sidework.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Side work is ad-hoc callables submitted from inside tasks or by the
// caller. It runs on the same worker pool but outside the DAG: no
// dependencies, no value-store slot. Items are pooled to keep the
// submission path allocation-free.

package sched

import (
	"fmt"

	"github.com/momentics/taskpar/api"
)

type workItem struct {
	fn       func()
	priority api.Priority
}

// Ensure compile-time interface compliance.
var _ api.Executor = (*Scheduler)(nil)

// Submit implements api.Executor over the side-work queue.
func (s *Scheduler) Submit(fn func()) error {
	if !s.pool.isRunning() {
		return api.ErrExecutorClosed
	}
	s.QueueWork(fn, api.PriorityNormal)
	return nil
}

// NumWorkers implements api.Executor.
func (s *Scheduler) NumWorkers() int { return s.pool.numWorkers() }

// QueueWork enqueues fire-and-forget work. It runs the next time a
// worker finds no ready task while the scheduler is running.
func (s *Scheduler) QueueWork(fn func(), p api.Priority) {
	item := s.workItems.Get()
	item.fn = fn
	item.priority = p
	s.sideWork.Enqueue(item)
	s.pool.waiter.NotifyOne(nil)
}

// QueueWorkAwait enqueues work and returns an awaiter that yields the
// work's return value. A panic inside fn is delivered as the awaiter's
// error.
func QueueWorkAwait[R any](s *Scheduler, fn func() R, p api.Priority) *Awaiter[R] {
	a := &Awaiter[R]{}
	s.QueueWork(func() {
		defer func() {
			if r := recover(); r != nil {
				a.notifyError(fmt.Errorf("sched: side work panic: %v", r))
			}
		}()
		a.notifyValue(fn())
	}, p)
	return a
}

// runSideWork executes one queued item on the calling worker.
func (s *Scheduler) runSideWork(item *workItem) {
	applyPriority(item.priority)
	func() {
		defer func() {
			// A fire-and-forget panic has no surface to land on; drop
			// it so the worker survives.
			_ = recover()
		}()
		item.fn()
	}()
	item.fn = nil
	s.workItems.Put(item)
	s.sideWorkRun.Add(1)
	if s.sideWork.Empty() {
		s.waiter.NotifyAll(nil)
	}
}
