// File: sched/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sched

import (
	"runtime"

	"github.com/momentics/taskpar/api"
	"github.com/momentics/taskpar/control"
	"github.com/momentics/taskpar/pool"
)

type options struct {
	workers    int
	pinWorkers bool
	arenaBytes int
}

func defaultOptions() options {
	return options{
		workers:    runtime.NumCPU(),
		arenaBytes: pool.DefaultBlockBytes,
	}
}

// Option configures scheduler construction.
type Option func(*options)

// WithWorkers sets the worker pool size. n <= 0 keeps the default
// parallelism of runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithPinnedWorkers locks each worker to an OS thread and pins it to a
// CPU, enabling per-task thread priorities.
func WithPinnedWorkers() Option {
	return func(o *options) { o.pinWorkers = true }
}

// WithArenaBytes sets the arena block size for payload staging.
func WithArenaBytes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.arenaBytes = n
		}
	}
}

// FromConfig reads scheduler options from a control config snapshot.
// Recognized keys: "workers" (int), "pin_workers" (bool),
// "arena_bytes" (int). Unknown keys are ignored.
func FromConfig(cs *control.ConfigStore) Option {
	return func(o *options) {
		snap := cs.GetSnapshot()
		if v, ok := snap["workers"].(int); ok && v > 0 {
			o.workers = v
		}
		if v, ok := snap["pin_workers"].(bool); ok {
			o.pinWorkers = v
		}
		if v, ok := snap["arena_bytes"].(int); ok && v > 0 {
			o.arenaBytes = v
		}
	}
}

type taskOptions struct {
	priority   api.Priority
	errHandler ErrorHandler
}

// TaskOption configures one task at AddTask time.
type TaskOption func(*taskOptions)

// WithPriority sets the thread priority applied before dispatch.
func WithPriority(p api.Priority) TaskOption {
	return func(o *taskOptions) { o.priority = p }
}

// WithErrorHandler attaches a failure handler.
func WithErrorHandler(h ErrorHandler) TaskOption {
	return func(o *taskOptions) { o.errHandler = h }
}
