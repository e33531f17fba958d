// Package pool
// Author: momentics <momentics@gmail.com>
//
// Memory layer for taskpar: a lock-free bump arena with bulk reclamation,
// a block allocator that chains arenas, a byte pool facade, and a generic
// object pool. Payload staging for channels and side-work items draws
// from here instead of fragmenting runtime allocations.
// See bump.go, block.go, bytepool.go, objpool.go for details.
package pool
