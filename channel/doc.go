// File: channel/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package channel provides blocking producer/consumer channels over the
// lock-free queues: a bounded form with backpressure, an unbounded form
// that never blocks senders, and a byte channel that stages payloads in
// an arena so the ring only carries arena regions.
//
// All variants share close semantics: Send fails once closed, Receive
// drains remaining items and then reports closed-and-empty.
package channel
