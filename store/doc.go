// File: store/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package store holds task return values keyed by task id and hands them
// to consumers by move or by borrow.
//
// The store is not safe for concurrent access to the same id; the
// scheduler's dependency ordering guarantees one producer and one
// consumer at a time. The size counter is atomic so Empty may be polled
// concurrently.
package store
