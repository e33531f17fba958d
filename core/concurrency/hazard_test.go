package concurrency

import (
	"sync/atomic"
	"testing"
	"unsafe"
)

type tracked struct {
	id int
}

func TestHazard_ProtectDefersFree(t *testing.T) {
	d := NewHazardDomain(0)
	src := atomic.Pointer[tracked]{}
	obj := &tracked{id: 1}
	src.Store(obj)

	hp := d.Acquire()
	got := ProtectPointer(hp, &src)
	if got != obj {
		t.Fatalf("protect returned %p, want %p", got, obj)
	}
	if !d.IsHazard(unsafe.Pointer(obj)) {
		t.Fatal("protected pointer not reported as hazard")
	}

	freed := 0
	RetireObject(d, obj, func(*tracked) { freed++ })
	d.Cleanup()
	if freed != 0 {
		t.Fatal("cleanup freed a protected pointer")
	}
	if d.Retired() != 1 {
		t.Fatalf("retired = %d, want 1", d.Retired())
	}

	hp.Release()
	if d.IsHazard(unsafe.Pointer(obj)) {
		t.Fatal("pointer still hazard after release")
	}
	d.Cleanup()
	if freed != 1 {
		t.Fatalf("freed = %d, want 1 after release", freed)
	}
	if d.Retired() != 0 {
		t.Fatalf("retired = %d, want 0 after cleanup", d.Retired())
	}
}

func TestHazard_ThresholdScan(t *testing.T) {
	d := NewHazardDomain(4)
	freed := 0
	for i := 0; i < 4; i++ {
		RetireObject(d, &tracked{id: i}, func(*tracked) { freed++ })
	}
	// The fourth retire crosses the threshold and triggers a scan.
	if freed != 4 {
		t.Fatalf("freed = %d, want 4 after threshold scan", freed)
	}
}

func TestHazard_SlotReuse(t *testing.T) {
	d := NewHazardDomain(0)
	a := d.Acquire()
	slot := a.slot
	a.Release()
	b := d.Acquire()
	if b.slot != slot {
		t.Error("released slot was not reused")
	}
	b.Release()
}

func TestHazard_ProtectTracksMovingSource(t *testing.T) {
	d := NewHazardDomain(0)
	src := atomic.Pointer[tracked]{}
	first := &tracked{id: 1}
	second := &tracked{id: 2}
	src.Store(first)

	hp := d.Acquire()
	defer hp.Release()
	got := ProtectPointer(hp, &src)
	if got != first {
		t.Fatalf("protect returned id %d, want 1", got.id)
	}
	hp.Clear()

	src.Store(second)
	got = ProtectPointer(hp, &src)
	if got != second {
		t.Fatalf("protect returned id %d, want 2", got.id)
	}
}
