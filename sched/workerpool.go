// File: sched/workerpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The worker pool is a fixed set of goroutines spawned at scheduler
// construction. Workers sleep on the pool waiter until the scheduler is
// running and either a task slot is ready or side work is queued; they
// claim tasks through the signal trees and fall back to the side-work
// queue. With pinning enabled each worker locks its OS thread and pins
// it to a CPU so per-task thread priorities take effect.

package sched

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/taskpar/affinity"
	"github.com/momentics/taskpar/api"
	"github.com/momentics/taskpar/core/concurrency"
)

type workerPool struct {
	waiter  concurrency.Waiter
	running atomic.Bool
	wg      sync.WaitGroup
	s       *Scheduler
	size    int
}

func newWorkerPool(s *Scheduler, size int, pin bool) *workerPool {
	wp := &workerPool{s: s, size: size}
	wp.running.Store(true)
	wp.wg.Add(size)
	for i := 0; i < size; i++ {
		go wp.run(i, pin)
	}
	return wp
}

func (wp *workerPool) isRunning() bool { return wp.running.Load() }

func (wp *workerPool) numWorkers() int { return wp.size }

// stop wakes every worker with the running flag down and joins them.
func (wp *workerPool) stop() {
	wp.waiter.NotifyAll(func() {
		wp.running.Store(false)
	})
	wp.wg.Wait()
}

func (wp *workerPool) run(workerID int, pin bool) {
	defer wp.wg.Done()
	if pin {
		affinity.LockThread()
		defer affinity.UnlockThread()
		_ = affinity.Pin(workerID)
	}

	s := wp.s
	for {
		wp.waiter.Wait(func() bool {
			return !wp.running.Load() || (s.running.Load() &&
				(s.readyTasks.Load() != 0 || !s.sideWork.Empty()))
		})
		if !wp.running.Load() {
			return
		}

		id, ok := s.popTask()
		if !ok {
			if item, ok := s.sideWork.Dequeue(); ok {
				s.runSideWork(item)
			}
			continue
		}
		s.runTask(id, workerID)
	}
}

// applyPriority maps a task priority onto the calling thread before
// every dispatch. The level is not restored afterwards; it stays on the
// thread until the next dispatch sets its own. Failures are ignored:
// priority is best effort on platforms that refuse it.
func applyPriority(p api.Priority) {
	_ = affinity.SetThreadPriority(p)
}
