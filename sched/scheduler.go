// File: sched/scheduler.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Scheduler owns the task table, the signal trees, the value store, the
// arena, and the worker pool. Capacity grows in tree-sized strides; a
// task id is (tree index * treeCapacity + slot).

package sched

import (
	"fmt"
	"sync/atomic"

	"github.com/momentics/taskpar/api"
	"github.com/momentics/taskpar/core/concurrency"
	"github.com/momentics/taskpar/core/signal"
	"github.com/momentics/taskpar/pool"
	"github.com/momentics/taskpar/store"
)

// treeCapacity is the slot count of one signal tree. The scheduler
// composes as many trees as the task table needs.
const treeCapacity = 64

// Scheduler runs task DAGs over a fixed worker pool.
type Scheduler struct {
	trees []*signal.Tree
	info  []*taskInfo
	vals  *store.Store
	arena *pool.Block

	readyTasks    atomic.Int64
	running       atomic.Bool
	lastProcessed atomic.Uint64

	waiter concurrency.Waiter // caller join point
	pool   *workerPool

	sideWork  *concurrency.Queue[*workItem]
	workItems *pool.SyncPool[*workItem]

	// counters surfaced through control probes
	tasksRun    atomic.Uint64
	sideWorkRun atomic.Uint64
	failures    atomic.Uint64
}

// New creates a scheduler and spawns its worker pool.
func New(opts ...Option) *Scheduler {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	s := &Scheduler{
		vals:     store.New(0),
		arena:    pool.NewBlockSize("scheduler", o.arenaBytes),
		sideWork: concurrency.NewQueue[*workItem](0),
		workItems: pool.NewSyncPool(func() *workItem {
			return &workItem{}
		}),
	}
	s.lastProcessed.Store(uint64(api.InvalidTaskID))
	s.pool = newWorkerPool(s, o.workers, o.pinWorkers)
	return s
}

// Close stops the worker pool and joins every worker.
func (s *Scheduler) Close() {
	s.pool.stop()
}

// Arena exposes the scheduler-owned allocator for payload staging.
func (s *Scheduler) Arena() *pool.Block { return s.arena }

// DependencyTracker names a task slot and wires its dependencies.
type DependencyTracker struct {
	ID api.TaskID
	s  *Scheduler
}

// AddTask claims the first free slot for fn and returns its tracker.
// Must not be called while Run is in flight.
func (s *Scheduler) AddTask(fn TaskFunc, opts ...TaskOption) DependencyTracker {
	to := taskOptions{priority: api.PriorityNormal}
	for _, apply := range opts {
		apply(&to)
	}
	slot := -1
	for i, info := range s.info {
		if !info.alive() {
			slot = i
			break
		}
	}
	if slot == -1 {
		slot = len(s.info)
		s.ensureSpace(slot + 1)
	}
	info := s.info[slot]
	info.reset()
	info.task = fn
	info.errHandler = to.errHandler
	info.priority = to.priority
	info.storeState(api.TaskAlive)
	return DependencyTracker{ID: api.TaskID(slot), s: s}
}

// SetErrorHandler attaches a failure handler after construction.
func (d DependencyTracker) SetErrorHandler(h ErrorHandler) {
	if info := d.s.infoFor(d.ID); info != nil {
		info.errHandler = h
	}
}

// DepsOn records that d consumes the output of every producer given.
// A producer that is not alive is ignored, a duplicate edge is ignored,
// and an edge that would close a cycle is rolled back and reported.
func (d DependencyTracker) DepsOn(producers ...DependencyTracker) error {
	s := d.s
	for _, p := range producers {
		if p.ID == d.ID {
			return api.ErrCycleFound
		}
		prod := s.infoFor(p.ID)
		if prod == nil || !prod.alive() {
			continue
		}
		if containsID(prod.outEdges, d.ID) {
			continue
		}
		prod.outEdges = append(prod.outEdges, d.ID)
		if s.closesCycle(d.ID) {
			prod.outEdges = prod.outEdges[:len(prod.outEdges)-1]
			return api.ErrCycleFound
		}
		cons := s.infoFor(d.ID)
		cons.pendingSignals.Add(1)
		cons.inEdges = append(cons.inEdges, inEdge{producer: p.ID})
	}
	return nil
}

// Run builds the ready set, wakes the pool, and blocks until the graph
// and the side-work queue drain. The first unhandled task failure is
// returned after the join point.
func (s *Scheduler) Run() error {
	s.lastProcessed.Store(uint64(api.InvalidTaskID))
	if err := s.build(); err != nil {
		return err
	}
	s.running.Store(true)
	s.pool.waiter.NotifyAll(nil)
	s.waiter.Wait(func() bool {
		return s.readyTasks.Load() == 0 && s.pool.isRunning() && s.sideWork.Empty()
	})
	s.running.Store(false)

	for _, info := range s.info {
		if info.failure != nil {
			err := info.failure
			info.failure = nil
			return err
		}
	}
	return nil
}

// Reset clears the trees, the task table, and the value store. The
// worker pool stays alive. reuse keeps arena storage for the next run.
func (s *Scheduler) Reset(reuse bool) {
	for _, t := range s.trees {
		t.Clear()
	}
	for _, info := range s.info {
		info.reset()
	}
	s.vals.Clear()
	s.arena.Reset(reuse)
	s.readyTasks.Store(0)
	s.lastProcessed.Store(uint64(api.InvalidTaskID))
}

// GetResult moves the value produced by id out of the store. Fails with
// api.ErrNotFound while the scheduler is running.
func GetResult[T any](s *Scheduler, id api.TaskID) (T, error) {
	var zero T
	if s.running.Load() {
		return zero, api.ErrNotFound
	}
	cow, err := store.Consume[T](s.vals, id)
	if err != nil {
		return zero, err
	}
	return cow.Take(), nil
}

// GetTrackedResult is GetResult keyed by a tracker.
func GetTrackedResult[T any](s *Scheduler, d DependencyTracker) (T, error) {
	return GetResult[T](s, d.ID)
}

// GetLastResult returns the result of the most recently completed task.
func GetLastResult[T any](s *Scheduler) (T, error) {
	return GetResult[T](s, api.TaskID(s.lastProcessed.Load()))
}

// Running reports whether Run is currently in flight.
func (s *Scheduler) Running() bool { return s.running.Load() }

// Workers returns the worker pool size.
func (s *Scheduler) Workers() int { return s.pool.numWorkers() }

// ---- graph construction ----

func (s *Scheduler) infoFor(id api.TaskID) *taskInfo {
	i := int(id)
	if i < 0 || i >= len(s.info) {
		return nil
	}
	return s.info[i]
}

// ensureSpace grows the task table, the trees, and the store to hold n
// slots. Only called from AddTask, never during a run.
func (s *Scheduler) ensureSpace(n int) {
	for len(s.info) < n {
		s.trees = append(s.trees, signal.NewTree(treeCapacity))
		for i := 0; i < treeCapacity; i++ {
			info := &taskInfo{}
			info.reset()
			s.info = append(s.info, info)
		}
	}
	s.vals.Resize(len(s.info))
}

// closesCycle reports whether the graph now contains a path from start
// back to itself.
func (s *Scheduler) closesCycle(start api.TaskID) bool {
	visited := make(map[api.TaskID]struct{}, 8)
	stack := []api.TaskID{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		info := s.infoFor(id)
		if info == nil || !info.alive() {
			continue
		}
		for _, next := range info.outEdges {
			if next == start {
				return true
			}
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			stack = append(stack, next)
		}
	}
	return false
}

// build zeroes the trees, recomputes pending signal counts and
// consumable flags, and marks every dependency-free alive task ready.
func (s *Scheduler) build() error {
	for _, t := range s.trees {
		t.Clear()
	}

	inCounts := make([]int32, len(s.info))
	outDeg := make([]int32, len(s.info))
	for i, info := range s.info {
		if !info.alive() {
			continue
		}
		for _, dep := range info.outEdges {
			if cons := s.infoFor(dep); cons != nil && cons.alive() {
				inCounts[int(dep)]++
				outDeg[i]++
			}
		}
	}

	roots := 0
	for i, info := range s.info {
		if !info.alive() {
			continue
		}
		info.hasSignaled = false
		info.pendingSignals.Store(inCounts[i])
		for j := range info.inEdges {
			e := &info.inEdges[j]
			e.consumable = outDeg[int(e.producer)] == 1
		}
		if inCounts[i] == 0 {
			s.setSignal(api.TaskID(i))
			s.readyTasks.Add(1)
			roots++
		}
	}

	if roots == 0 {
		return api.ErrNoRootTask
	}
	return nil
}

// setSignal marks the slot of id ready in its tree.
func (s *Scheduler) setSignal(id api.TaskID) {
	info := s.infoFor(id)
	if info == nil || !info.alive() {
		return
	}
	tree, slot := int(id)/treeCapacity, int(id)%treeCapacity
	s.trees[tree].Set(slot)
}

// popTask claims one ready task from the trees, scanning in order.
func (s *Scheduler) popTask() (api.TaskID, bool) {
	for ti, t := range s.trees {
		slot, _ := t.Select()
		if slot == signal.InvalidSlot {
			continue
		}
		return api.TaskID(ti*treeCapacity + slot), true
	}
	return api.InvalidTaskID, false
}

// ---- completion protocol ----

// onComplete signals the consumers of id, promotes newly ready ones,
// and wakes workers and the caller. Idempotent per ready arrival.
func (s *Scheduler) onComplete(id api.TaskID, releaseSlot bool) {
	// Record before any consumer is promoted, so a consumer that finishes
	// quickly is never overwritten by its producer.
	s.lastProcessed.Store(uint64(id))
	info := s.infoFor(id)
	if info != nil && info.alive() {
		if releaseSlot {
			info.storeState(api.TaskEmpty)
			info.task = nil
		}
		if !info.hasSignaled {
			info.hasSignaled = true
			promoted := 0
			for _, succ := range info.outEdges {
				cons := s.infoFor(succ)
				if cons == nil {
					continue
				}
				if cons.pendingSignals.Load() == 0 {
					continue
				}
				if cons.pendingSignals.Add(-1) == 0 && cons.alive() {
					s.setSignal(succ)
					s.readyTasks.Add(1)
					promoted++
				}
			}
			if promoted > 1 {
				s.pool.waiter.NotifyAll(nil)
			}
		}
	}

	s.completeOne()
	s.pool.waiter.NotifyOne(nil)
}

// onFailure retires the invocation without signaling consumers.
func (s *Scheduler) onFailure(api.TaskID) {
	s.failures.Add(1)
	s.completeOne()
}

// onReschedule re-sets the task's slot now that the invocation has
// returned, then wakes one worker.
func (s *Scheduler) onReschedule(id api.TaskID) {
	s.setSignal(id)
	s.pool.waiter.NotifyOne(nil)
}

// completeOne decrements the global ready counter under the caller's
// waiter lock so the join predicate and the wakeup cannot interleave.
func (s *Scheduler) completeOne() {
	s.waiter.NotifyAll(func() {
		s.readyTasks.Add(-1)
	})
}

// runTask executes the slot's callable and applies the completion
// protocol for the invocation's result.
func (s *Scheduler) runTask(id api.TaskID, workerID int) {
	info := s.infoFor(id)
	if info == nil || info.task == nil {
		// The claimed signal still carried a ready unit; give it back so
		// the join predicate can reach zero.
		s.completeOne()
		return
	}
	tk := &Token{
		s:        s,
		id:       id,
		inputs:   info.inEdges,
		workerID: workerID,
	}
	applyPriority(info.priority)
	err := s.invoke(info, tk)
	if err != nil {
		if info.errHandler == nil {
			info.failure = err
			tk.result = api.TaskFailed
		} else if !info.errHandler(err) {
			tk.result = api.TaskFailed
		} else if tk.result == api.TaskSuccess {
			tk.result = api.TaskFailed
		}
	}
	s.tasksRun.Add(1)
	switch tk.result {
	case api.TaskSuccess:
		s.onComplete(id, true)
	case api.TaskFailed:
		s.onFailure(id)
	case api.TaskRescheduled:
		s.onReschedule(id)
	}
}

// invoke runs the callable, converting panics into errors.
func (s *Scheduler) invoke(info *taskInfo, tk *Token) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sched: task panic: %v", r)
		}
	}()
	return info.task(tk)
}

func containsID(ids []api.TaskID, id api.TaskID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
