// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values shared across the taskpar library.

package api

import "errors"

// Graph errors, surfaced from DepsOn and Run. Both are recoverable: the
// caller can adjust the graph and retry.
var (
	ErrNoRootTask = errors.New("scheduler: there must be a root task that does not depend on any other task")
	ErrCycleFound = errors.New("scheduler: cycle detected")
)

// Value-store errors, surfaced from token argument reads and GetResult.
var (
	ErrTypeMismatch = errors.New("store: type mismatch")
	ErrNotFound     = errors.New("store: not found")
)

// Token errors layered on top of the store errors.
var (
	ErrInvalidTaskID = errors.New("task: invalid task id")
	ErrArityMismatch = errors.New("task: arity mismatch")
)

// Channel and executor lifecycle errors.
var (
	ErrChannelClosed  = errors.New("channel: closed")
	ErrExecutorClosed = errors.New("executor: closed")
)

// Arena errors.
var (
	ErrArenaExhausted = errors.New("arena: out of space")
)
