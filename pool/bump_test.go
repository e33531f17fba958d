package pool

import (
	"sync"
	"testing"
	"unsafe"
)

func TestBump_AllocAlignDealloc(t *testing.T) {
	b := NewBump(256)
	a := b.Alloc(10, 1)
	if a == nil || len(a) != 10 {
		t.Fatalf("alloc(10) = %v", a)
	}
	c := b.Alloc(16, 8)
	if c == nil {
		t.Fatal("aligned alloc refused")
	}
	if p := uintptr(unsafe.Pointer(unsafe.SliceData(c))); p%8 != 0 {
		t.Fatalf("region not 8-aligned: %#x", p)
	}
	if b.Objects() != 2 {
		t.Fatalf("objects = %d, want 2", b.Objects())
	}

	if !b.Dealloc(a) {
		t.Fatal("dealloc refused owned region")
	}
	if b.Empty() {
		t.Fatal("arena empty while one region is live")
	}
	if !b.Dealloc(c) {
		t.Fatal("dealloc refused owned region")
	}
	if !b.Empty() {
		t.Fatal("arena should be empty")
	}
	if b.FreeSpace() != b.Size() {
		t.Fatalf("cursor did not rewind: free %d of %d", b.FreeSpace(), b.Size())
	}
}

func TestBump_ExhaustionAndForeignRegion(t *testing.T) {
	b := NewBump(32)
	if b.Alloc(64, 1) != nil {
		t.Fatal("alloc beyond capacity should fail")
	}
	foreign := make([]byte, 8)
	if b.Dealloc(foreign) {
		t.Fatal("dealloc accepted a foreign region")
	}
}

func TestBump_ReallocInPlace(t *testing.T) {
	b := NewBump(128)
	first := b.Alloc(8, 1)
	last := b.Alloc(8, 1)

	grown := b.Realloc(last, 24)
	if grown == nil || len(grown) != 24 {
		t.Fatalf("in-place grow failed: %v", grown)
	}
	if unsafe.SliceData(grown) != unsafe.SliceData(last) {
		t.Fatal("grow moved the latest allocation")
	}

	if b.Realloc(first, 16) != nil {
		t.Fatal("realloc of a non-latest region should fail in place")
	}

	shrunk := b.Realloc(grown, 4)
	if shrunk == nil || len(shrunk) != 4 {
		t.Fatalf("in-place shrink failed: %v", shrunk)
	}
}

func TestBump_MarkerRestore(t *testing.T) {
	b := NewBump(128)
	b.Alloc(16, 1)
	m := b.Marker()
	b.Alloc(32, 1)
	b.SetMarker(m)
	if b.Objects() != 1 {
		t.Fatalf("objects = %d after restore, want 1", b.Objects())
	}
	if got := b.Marker(); got != m {
		t.Fatalf("marker = %+v after restore, want %+v", got, m)
	}
}

func TestBump_ConcurrentAlloc(t *testing.T) {
	b := NewBump(1 << 20)
	const workers = 8
	const perWorker = 100

	var wg sync.WaitGroup
	regions := make([][][]byte, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				r := b.Alloc(64, 8)
				if r == nil {
					t.Error("alloc failed with space available")
					return
				}
				regions[w] = append(regions[w], r)
			}
		}(w)
	}
	wg.Wait()

	if b.Objects() != workers*perWorker {
		t.Fatalf("objects = %d, want %d", b.Objects(), workers*perWorker)
	}
	seen := map[uintptr]bool{}
	for _, rs := range regions {
		for _, r := range rs {
			p := uintptr(unsafe.Pointer(unsafe.SliceData(r)))
			if seen[p] {
				t.Fatalf("overlapping allocation at %#x", p)
			}
			seen[p] = true
			if !b.Dealloc(r) {
				t.Fatal("dealloc refused")
			}
		}
	}
	if !b.Empty() {
		t.Fatal("arena should drain to empty")
	}
}
