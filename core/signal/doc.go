// File: core/signal/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package signal implements a hierarchical counting tree used to pick a
// ready task slot out of N in logarithmic depth under contention.
//
// The tree is complete and binary over a power-of-two capacity. Every
// non-leaf counter holds the sum of its children; leaves hold 0 or 1.
// Counters at one level are packed side by side into 64-bit words sized
// so a counter can never overflow into its neighbor, and all updates go
// through single-word CAS.
package signal
