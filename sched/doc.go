// File: sched/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package sched drives task graphs across a worker pool.
//
// Callers add tasks, wire dependencies through DependencyTrackers, and
// call Run. Run marks dependency-free tasks ready in the signal trees,
// wakes the workers, and blocks until the graph drains. Each worker
// claims ready slots with Tree.Select, executes the task with a Token,
// and on completion signals the task's consumers; a consumer whose last
// producer finished is promoted into the trees. Return values travel
// producer to consumer through the value store, moved when a producer
// has exactly one consumer and borrowed otherwise.
//
// Tasks may also push ad-hoc side work onto the scheduler's unbounded
// queue; workers drain it whenever no task slot is ready.
package sched
