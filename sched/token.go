// File: sched/token.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Token is the per-invocation handle a task uses to read its inputs,
// stage its output, reschedule or retire itself, and push side work.
// Input reads honor the consumable flag computed at build time: a
// producer with exactly one consumer is moved out of the store, any
// other is borrowed.

package sched

import (
	"reflect"

	"github.com/momentics/taskpar/api"
	"github.com/momentics/taskpar/store"
)

// Token is constructed once per task invocation.
type Token struct {
	s        *Scheduler
	id       api.TaskID
	inputs   []inEdge
	result   api.TaskResult
	workerID int
}

// OwnerID returns the id of the task this invocation belongs to.
func (t *Token) OwnerID() api.TaskID { return t.id }

// WorkerID returns the zero-based pool id of the executing worker.
func (t *Token) WorkerID() int { return t.workerID }

// Result returns the invocation outcome staged so far.
func (t *Token) Result() api.TaskResult { return t.result }

// Arg returns the input produced by producer. Moved out of the store
// when this task is the producer's only consumer, borrowed otherwise.
func Arg[T any](t *Token, producer api.TaskID) (store.Cow[T], error) {
	for _, e := range t.inputs {
		if e.producer != producer {
			continue
		}
		if e.consumable {
			cow, err := store.Consume[T](t.s.vals, producer)
			return cow, err
		}
		return store.Get[T](t.s.vals, producer)
	}
	return store.Cow[T]{}, api.ErrInvalidTaskID
}

// argByType claims the first input whose stored value has the wanted
// tag and is not already claimed in this call.
func argByType[T any](t *Token, claimed []api.TaskID) (store.Cow[T], []api.TaskID, error) {
	want := reflect.TypeFor[T]()
	for _, e := range t.inputs {
		if containsID(claimed, e.producer) {
			continue
		}
		if t.s.vals.TypeOf(e.producer) != want {
			continue
		}
		cow, err := Arg[T](t, e.producer)
		return cow, append(claimed, e.producer), err
	}
	return store.Cow[T]{}, claimed, api.ErrArityMismatch
}

// Arg1 resolves one input positionally by type.
func Arg1[T any](t *Token) (store.Cow[T], error) {
	cow, _, err := argByType[T](t, nil)
	return cow, err
}

// Arg2 resolves two inputs positionally by type: each requested type
// claims the first unclaimed producer whose stored value matches.
func Arg2[T1, T2 any](t *Token) (store.Cow[T1], store.Cow[T2], error) {
	a, claimed, err := argByType[T1](t, nil)
	if err != nil {
		return a, store.Cow[T2]{}, err
	}
	b, _, err := argByType[T2](t, claimed)
	return a, b, err
}

// Arg3 resolves three inputs positionally by type.
func Arg3[T1, T2, T3 any](t *Token) (store.Cow[T1], store.Cow[T2], store.Cow[T3], error) {
	a, claimed, err := argByType[T1](t, nil)
	if err != nil {
		return a, store.Cow[T2]{}, store.Cow[T3]{}, err
	}
	b, claimed, err := argByType[T2](t, claimed)
	if err != nil {
		return a, b, store.Cow[T3]{}, err
	}
	c, _, err := argByType[T3](t, claimed)
	return a, b, c, err
}

// AllOf returns every input whose stored value has type T, in in-edge
// order.
func AllOf[T any](t *Token) []store.Cow[T] {
	want := reflect.TypeFor[T]()
	var out []store.Cow[T]
	for _, e := range t.inputs {
		if t.s.vals.TypeOf(e.producer) != want {
			continue
		}
		if cow, err := Arg[T](t, e.producer); err == nil {
			out = append(out, cow)
		}
	}
	return out
}

// Return stages the invocation's output. Ignored once the task has
// failed; reports whether the value was stored.
func Return[T any](t *Token, v T) bool {
	if t.result == api.TaskFailed {
		return false
	}
	store.Put(t.s.vals, t.id, v)
	return true
}

// Schedule marks the task for another run. The scheduler re-sets the
// slot in the signal tree after the current invocation returns; the
// invocation produces no output.
func (t *Token) Schedule() {
	info := t.s.infoFor(t.id)
	if info == nil || !info.alive() {
		return
	}
	t.result = api.TaskRescheduled
}

// Stop retires the task: its stored value is destroyed and the slot is
// freed for reuse after the invocation returns.
func (t *Token) Stop() {
	info := t.s.infoFor(t.id)
	if info == nil {
		return
	}
	t.s.vals.Remove(t.id)
	info.storeState(api.TaskEmpty)
	t.result = api.TaskFailed
}

// QueueWork pushes fire-and-forget side work onto the scheduler queue.
func (t *Token) QueueWork(fn func(), p api.Priority) {
	t.s.QueueWork(fn, p)
}

// AwaitQueueWork pushes side work and returns an awaiter for its
// result. Awaiting from inside a task blocks this worker until the
// side work finishes on another one.
func AwaitQueueWork[R any](t *Token, fn func() R, p api.Priority) *Awaiter[R] {
	return QueueWorkAwait(t.s, fn, p)
}
