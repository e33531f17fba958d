// File: core/concurrency/hazard.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Hazard-pointer domain: per-reader protection slots plus a deferred
// retirement list. Readers publish the pointer they are about to
// dereference; retirement never frees a pointer while any slot holds it,
// so reclamation lag is bounded by the liveness of the protectors.
//
// Protection slots live in a lock-free list of fixed blocks and are
// reused after release. The retirement list is a FIFO on the slow path,
// guarded by a mutex; crossing the configured threshold triggers a scan
// that frees every entry no slot currently protects.

package concurrency

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/atomix"
	eq "github.com/eapache/queue"
)

// DefaultMaxRetired is the retirement-list length that triggers a scan.
const DefaultMaxRetired = 1000

const hazardSlotsPerBlock = 32

type hazardSlot struct {
	inUse atomix.Uint32
	ptr   atomix.Uintptr
	_     pad
}

type hazardBlock struct {
	slots [hazardSlotsPerBlock]hazardSlot
	next  atomic.Pointer[hazardBlock]
}

type retiredEntry struct {
	ptr     unsafe.Pointer
	deleter func(unsafe.Pointer)
}

// HazardDomain owns protection slots and the retirement list.
type HazardDomain struct {
	blocks atomic.Pointer[hazardBlock]
	limit  int

	mu      sync.Mutex
	retired *eq.Queue
}

// NewHazardDomain creates a domain. maxRetired <= 0 selects
// DefaultMaxRetired.
func NewHazardDomain(maxRetired int) *HazardDomain {
	if maxRetired <= 0 {
		maxRetired = DefaultMaxRetired
	}
	return &HazardDomain{
		limit:   maxRetired,
		retired: eq.New(),
	}
}

// HazardPointer is an acquired protection slot.
type HazardPointer struct {
	domain *HazardDomain
	slot   *hazardSlot
}

// Acquire claims a free protection slot, growing the block list if none
// is available.
func (d *HazardDomain) Acquire() *HazardPointer {
	for {
		for b := d.blocks.Load(); b != nil; b = b.next.Load() {
			for i := range b.slots {
				s := &b.slots[i]
				if s.inUse.LoadRelaxed() == 0 && s.inUse.CompareAndSwapAcqRel(0, 1) {
					return &HazardPointer{domain: d, slot: s}
				}
			}
		}
		nb := &hazardBlock{}
		head := d.blocks.Load()
		nb.next.Store(head)
		d.blocks.CompareAndSwap(head, nb)
	}
}

// Set publishes p as protected. Overwrites any previous protection.
func (h *HazardPointer) Set(p unsafe.Pointer) {
	h.slot.ptr.StoreRelease(uintptr(p))
}

// Clear drops the protection without releasing the slot.
func (h *HazardPointer) Clear() {
	h.slot.ptr.StoreRelease(0)
}

// Release clears the protection and returns the slot for reuse.
func (h *HazardPointer) Release() {
	h.slot.ptr.StoreRelease(0)
	h.slot.inUse.StoreRelease(0)
	h.slot = nil
}

// ProtectPointer publishes the pointer read from src and re-reads until
// the published value is stable, then returns it. The returned pointer
// stays valid until Clear or Release.
func ProtectPointer[T any](h *HazardPointer, src *atomic.Pointer[T]) *T {
	item := src.Load()
	for {
		h.slot.ptr.StoreRelease(uintptr(unsafe.Pointer(item)))
		again := src.Load()
		if again == item {
			return item
		}
		item = again
	}
}

// IsHazard reports whether any protection slot currently holds p.
func (d *HazardDomain) IsHazard(p unsafe.Pointer) bool {
	if p == nil {
		return false
	}
	for b := d.blocks.Load(); b != nil; b = b.next.Load() {
		for i := range b.slots {
			s := &b.slots[i]
			if s.inUse.LoadAcquire() != 0 && s.ptr.LoadAcquire() == uintptr(p) {
				return true
			}
		}
	}
	return false
}

// Retire queues p for deferred deletion. When the retirement list
// crosses the threshold, unprotected entries are reclaimed.
func (d *HazardDomain) Retire(p unsafe.Pointer, deleter func(unsafe.Pointer)) {
	if p == nil {
		return
	}
	d.mu.Lock()
	d.retired.Add(retiredEntry{ptr: p, deleter: deleter})
	if d.retired.Length() >= d.limit {
		d.scanLocked()
	}
	d.mu.Unlock()
}

// RetireObject is the typed form of Retire.
func RetireObject[T any](d *HazardDomain, p *T, deleter func(*T)) {
	d.Retire(unsafe.Pointer(p), func(raw unsafe.Pointer) {
		if deleter != nil {
			deleter((*T)(raw))
		}
	})
}

// Cleanup reclaims every retired entry that is not protected. Returns
// true when the retirement list is fully drained.
func (d *HazardDomain) Cleanup() bool {
	d.mu.Lock()
	d.scanLocked()
	empty := d.retired.Length() == 0
	d.mu.Unlock()
	return empty
}

// Retired returns the current retirement-list length.
func (d *HazardDomain) Retired() int {
	d.mu.Lock()
	n := d.retired.Length()
	d.mu.Unlock()
	return n
}

// scanLocked frees unprotected entries and re-queues protected ones.
func (d *HazardDomain) scanLocked() {
	n := d.retired.Length()
	for i := 0; i < n; i++ {
		e := d.retired.Remove().(retiredEntry)
		if d.IsHazard(e.ptr) {
			d.retired.Add(e)
			continue
		}
		if e.deleter != nil {
			e.deleter(e.ptr)
		}
	}
}
