// File: core/concurrency/debug.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build !taskpar_debug

package concurrency

// debugChecks gates the assertion that no Enqueue or Dequeue overlaps a
// queue Reset. The default build compiles it out; the taskpar_debug tag
// turns it on. The check against two overlapping Resets is always on.
const debugChecks = false
