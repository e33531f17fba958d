// File: store/store.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Store maps task ids to heterogeneous return values. Each slot records
// the payload behind a typed pointer plus its reflect.Type tag, the Go
// analogue of the per-type destructor address: tag equality is the type
// check, and a mismatch surfaces as an error instead of a corrupt read.

package store

import (
	"reflect"
	"sync/atomic"

	"github.com/momentics/taskpar/api"
)

type slot struct {
	value any // always a *T for some T; nil when vacant
	tag   reflect.Type
}

// Store is a task-id-keyed value container.
type Store struct {
	slots []slot
	size  atomic.Int64
}

// New creates a store with capacity id slots.
func New(capacity int) *Store {
	return &Store{slots: make([]slot, capacity)}
}

// Resize grows the slot table to n entries. Shrinking is ignored.
func (s *Store) Resize(n int) {
	if n <= len(s.slots) {
		return
	}
	grown := make([]slot, n)
	copy(grown, s.slots)
	s.slots = grown
}

// Put moves a value into the store at id, destroying any prior value.
// Out-of-range ids are ignored.
func Put[T any](s *Store, id api.TaskID, v T) {
	i := int(id)
	if i < 0 || i >= len(s.slots) {
		return
	}
	if s.slots[i].value == nil {
		s.size.Add(1)
	}
	s.slots[i] = slot{value: &v, tag: reflect.TypeFor[T]()}
}

// Get returns a borrow of the value at id. The value stays in the store.
func Get[T any](s *Store, id api.TaskID) (Cow[T], error) {
	i := int(id)
	if i < 0 || i >= len(s.slots) || s.slots[i].value == nil {
		return Cow[T]{}, api.ErrNotFound
	}
	p, ok := s.slots[i].value.(*T)
	if !ok {
		return Cow[T]{}, api.ErrTypeMismatch
	}
	return Borrowed(p), nil
}

// Consume moves the value out of the store and frees the slot.
func Consume[T any](s *Store, id api.TaskID) (Cow[T], error) {
	i := int(id)
	if i < 0 || i >= len(s.slots) || s.slots[i].value == nil {
		return Cow[T]{}, api.ErrNotFound
	}
	p, ok := s.slots[i].value.(*T)
	if !ok {
		return Cow[T]{}, api.ErrTypeMismatch
	}
	s.slots[i] = slot{}
	s.size.Add(-1)
	return Owned(*p), nil
}

// Remove destroys the value at id, if any.
func (s *Store) Remove(id api.TaskID) {
	i := int(id)
	if i < 0 || i >= len(s.slots) || s.slots[i].value == nil {
		return
	}
	s.slots[i] = slot{}
	s.size.Add(-1)
}

// TypeOf returns the opaque type tag of the value at id, or nil.
func (s *Store) TypeOf(id api.TaskID) reflect.Type {
	i := int(id)
	if i < 0 || i >= len(s.slots) {
		return nil
	}
	return s.slots[i].tag
}

// Clear destroys every value. Capacity is kept.
func (s *Store) Clear() {
	for i := range s.slots {
		s.slots[i] = slot{}
	}
	s.size.Store(0)
}

// Len returns the number of stored values.
func (s *Store) Len() int { return int(s.size.Load()) }

// Empty reports whether the store holds no value. Safe to call
// concurrently with single-slot traffic.
func (s *Store) Empty() bool { return s.size.Load() == 0 }

// Cap returns the slot capacity.
func (s *Store) Cap() int { return len(s.slots) }
