// File: highlevel/parallel.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Parallel for/reduce over slices, expressed as independent tasks plus
// a fan-in sink. Both drive the scheduler to completion and therefore
// expect an otherwise idle scheduler.

package highlevel

import (
	"github.com/momentics/taskpar/sched"
)

// ForEach applies fn to every item, chunked across the worker pool.
func ForEach[T any](s *sched.Scheduler, items []T, fn func(item T)) error {
	if len(items) == 0 {
		return nil
	}
	for _, chunk := range chunks(items, s.Workers()) {
		chunk := chunk
		s.AddTask(func(*sched.Token) error {
			for i := range chunk {
				fn(chunk[i])
			}
			return nil
		})
	}
	return s.Run()
}

// Reduce folds items with combine, computing chunk partials in parallel
// and folding them in a fan-in sink. combine must be associative;
// identity is its neutral element.
func Reduce[T any](s *sched.Scheduler, items []T, identity T, combine func(a, b T) T) (T, error) {
	if len(items) == 0 {
		return identity, nil
	}
	parts := chunks(items, s.Workers())
	trackers := make([]sched.DependencyTracker, 0, len(parts))
	for _, chunk := range parts {
		chunk := chunk
		trackers = append(trackers, s.AddTask(func(tk *sched.Token) error {
			acc := identity
			for i := range chunk {
				acc = combine(acc, chunk[i])
			}
			sched.Return(tk, acc)
			return nil
		}))
	}

	sink := s.AddTask(func(tk *sched.Token) error {
		acc := identity
		for _, cow := range sched.AllOf[T](tk) {
			acc = combine(acc, cow.Take())
		}
		sched.Return(tk, acc)
		return nil
	})
	if err := sink.DepsOn(trackers...); err != nil {
		var zero T
		return zero, err
	}
	if err := s.Run(); err != nil {
		var zero T
		return zero, err
	}
	return sched.GetTrackedResult[T](s, sink)
}

// chunks splits items into at most n contiguous runs.
func chunks[T any](items []T, n int) [][]T {
	if n < 1 {
		n = 1
	}
	if n > len(items) {
		n = len(items)
	}
	out := make([][]T, 0, n)
	size := (len(items) + n - 1) / n
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}
