// File: pool/bump.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bump is a monotone arena over one contiguous buffer. The allocation
// count and the cursor share a single packed atomic pair, so claiming a
// region and bumping the cursor is one CAS. Dealloc only drops the
// count; when it returns to zero the cursor rewinds and the whole
// buffer is reusable. Realloc can grow or shrink in place when the
// region is the most recent allocation.

package pool

import (
	"unsafe"

	"code.hybscloud.com/spin"

	"github.com/momentics/taskpar/core/concurrency"
)

// Marker is a bump-allocator position snapshot.
type Marker struct {
	Refs   uint32
	Cursor uint32
}

// Bump is a lock-free bump arena. The zero value is unusable; create
// with NewBump.
type Bump struct {
	mem []byte
	ref concurrency.Pair // (allocation count, cursor)
}

// NewBump allocates an arena of size bytes. Sizes above 4 GiB are not
// supported; the cursor is 32 bits wide.
func NewBump(size int) *Bump {
	if size <= 0 || int64(size) > int64(^uint32(0)) {
		panic("pool: invalid bump arena size")
	}
	return &Bump{mem: make([]byte, size)}
}

// Alloc returns a region of n bytes aligned to align, or nil when the
// arena cannot satisfy the request. align must be a power of two.
func (b *Bump) Alloc(n, align int) []byte {
	if n <= 0 || align <= 0 || align&(align-1) != 0 {
		return nil
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(b.mem)))
	sw := spin.Wait{}
	for {
		refs, cur := b.ref.Load()
		start := alignUp(base+uintptr(cur), uintptr(align)) - base
		end := start + uintptr(n)
		if end > uintptr(len(b.mem)) {
			return nil
		}
		if b.ref.CompareAndSwap(refs, cur, refs+1, uint32(end)) {
			return b.mem[start:end:end]
		}
		sw.Once()
	}
}

// Dealloc releases a region. The storage itself is reclaimed only when
// the allocation count returns to zero, which rewinds the cursor.
// Returns false when the region does not belong to this arena.
func (b *Bump) Dealloc(region []byte) bool {
	if !b.Contains(region) {
		return false
	}
	sw := spin.Wait{}
	for {
		refs, cur := b.ref.Load()
		if refs == 0 {
			return false
		}
		if refs == 1 {
			if b.ref.CompareAndSwap(refs, cur, 0, 0) {
				return true
			}
		} else if b.ref.CompareAndSwap(refs, cur, refs-1, cur) {
			return true
		}
		sw.Once()
	}
}

// Realloc resizes region in place when it is the most recent allocation
// and the new end stays inside the arena. Returns the resized region or
// nil when in-place resizing is impossible.
func (b *Bump) Realloc(region []byte, newLen int) []byte {
	if newLen < 0 || !b.Contains(region) {
		return nil
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(b.mem)))
	start := uintptr(unsafe.Pointer(unsafe.SliceData(region))) - base
	oldEnd := start + uintptr(len(region))
	newEnd := start + uintptr(newLen)
	if newEnd > uintptr(len(b.mem)) {
		return nil
	}
	sw := spin.Wait{}
	for {
		refs, cur := b.ref.Load()
		if uintptr(cur) != oldEnd {
			return nil // not the latest allocation
		}
		if b.ref.CompareAndSwap(refs, cur, refs, uint32(newEnd)) {
			return b.mem[start:newEnd:newEnd]
		}
		sw.Once()
	}
}

// Contains reports whether region points into this arena.
func (b *Bump) Contains(region []byte) bool {
	if len(b.mem) == 0 || region == nil {
		return false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(b.mem)))
	p := uintptr(unsafe.Pointer(unsafe.SliceData(region)))
	return p >= base && p+uintptr(len(region)) <= base+uintptr(len(b.mem))
}

// Size returns the arena capacity in bytes.
func (b *Bump) Size() int { return len(b.mem) }

// FreeSpace returns the bytes between the cursor and the end.
func (b *Bump) FreeSpace() int {
	_, cur := b.ref.Load()
	return len(b.mem) - int(cur)
}

// Empty reports whether no allocation is outstanding.
func (b *Bump) Empty() bool {
	refs, _ := b.ref.Load()
	return refs == 0
}

// Objects returns the number of outstanding allocations.
func (b *Bump) Objects() int {
	refs, _ := b.ref.Load()
	return int(refs)
}

// Marker snapshots the allocation count and cursor.
func (b *Bump) Marker() Marker {
	refs, cur := b.ref.Load()
	return Marker{Refs: refs, Cursor: cur}
}

// SetMarker rewinds the arena to a snapshot. Callers must guarantee no
// allocation made after the snapshot is still referenced.
func (b *Bump) SetMarker(m Marker) {
	b.ref.Store(m.Refs, m.Cursor)
}

// Reset discards every allocation and rewinds the cursor.
func (b *Bump) Reset() {
	b.ref.Store(0, 0)
}

func alignUp(p, align uintptr) uintptr {
	return (p + align - 1) &^ (align - 1)
}
