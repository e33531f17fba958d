// File: core/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package concurrency implements the lock-free primitives the scheduler is
// built from: a packed double-word atomic, a bounded MPMC ring with per-slot
// sequence numbers, an unbounded queue assembled from a list of rings with
// hazard-pointer reclamation, and a mutex+condvar predicate waiter.
//
// Atomics use code.hybscloud.com/atomix for explicit memory orderings and
// code.hybscloud.com/spin for adaptive backoff inside CAS retry loops.
package concurrency
