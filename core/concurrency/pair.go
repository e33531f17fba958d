// File: core/concurrency/pair.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pair is a (first, second) double-word atomic. Go exposes no 128-bit CAS,
// so both halves are packed into a single 64-bit word, 32 bits each, and
// every read-modify-write goes through one-word CAS. Wait-free loads and
// stores; RMW ops busy-loop the CAS with adaptive backoff.

package concurrency

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Pair holds two 32-bit halves updated as one atomic unit.
// The zero value is (0, 0) and ready to use.
type Pair struct {
	word atomix.Uint64
}

// PackPair combines two halves into the packed word representation.
func PackPair(first, second uint32) uint64 {
	return uint64(first)<<32 | uint64(second)
}

// PairFirst extracts the first half of a packed word.
func PairFirst(w uint64) uint32 { return uint32(w >> 32) }

// PairSecond extracts the second half of a packed word.
func PairSecond(w uint64) uint32 { return uint32(w) }

// Load returns both halves with acquire ordering.
func (p *Pair) Load() (first, second uint32) {
	w := p.word.LoadAcquire()
	return PairFirst(w), PairSecond(w)
}

// LoadWord returns the packed word with acquire ordering.
func (p *Pair) LoadWord() uint64 { return p.word.LoadAcquire() }

// Store writes both halves with release ordering.
func (p *Pair) Store(first, second uint32) {
	p.word.StoreRelease(PackPair(first, second))
}

// StoreRelaxed writes both halves without ordering constraints.
// For single-owner initialization paths only.
func (p *Pair) StoreRelaxed(first, second uint32) {
	p.word.StoreRelaxed(PackPair(first, second))
}

// CompareAndSwap installs (newFirst, newSecond) iff the pair still holds
// (oldFirst, oldSecond). Acquire-release on success.
func (p *Pair) CompareAndSwap(oldFirst, oldSecond, newFirst, newSecond uint32) bool {
	return p.word.CompareAndSwapAcqRel(
		PackPair(oldFirst, oldSecond),
		PackPair(newFirst, newSecond),
	)
}

// CompareAndSwapWord is the packed-word form of CompareAndSwap.
func (p *Pair) CompareAndSwapWord(old, new uint64) bool {
	return p.word.CompareAndSwapAcqRel(old, new)
}

// FetchAdd adds the deltas to both halves and returns the previous pair.
// Each half wraps independently; no carry crosses the boundary.
func (p *Pair) FetchAdd(deltaFirst, deltaSecond uint32) (first, second uint32) {
	sw := spin.Wait{}
	for {
		w := p.word.LoadAcquire()
		f, s := PairFirst(w), PairSecond(w)
		if p.word.CompareAndSwapAcqRel(w, PackPair(f+deltaFirst, s+deltaSecond)) {
			return f, s
		}
		sw.Once()
	}
}

// FetchSub subtracts the deltas from both halves and returns the previous pair.
func (p *Pair) FetchSub(deltaFirst, deltaSecond uint32) (first, second uint32) {
	return p.FetchAdd(-deltaFirst, -deltaSecond)
}

// FetchOr ors the masks into both halves and returns the previous pair.
func (p *Pair) FetchOr(maskFirst, maskSecond uint32) (first, second uint32) {
	sw := spin.Wait{}
	for {
		w := p.word.LoadAcquire()
		f, s := PairFirst(w), PairSecond(w)
		if p.word.CompareAndSwapAcqRel(w, PackPair(f|maskFirst, s|maskSecond)) {
			return f, s
		}
		sw.Once()
	}
}

// FetchAnd ands the masks into both halves and returns the previous pair.
func (p *Pair) FetchAnd(maskFirst, maskSecond uint32) (first, second uint32) {
	sw := spin.Wait{}
	for {
		w := p.word.LoadAcquire()
		f, s := PairFirst(w), PairSecond(w)
		if p.word.CompareAndSwapAcqRel(w, PackPair(f&maskFirst, s&maskSecond)) {
			return f, s
		}
		sw.Once()
	}
}
