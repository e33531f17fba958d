package signal

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestTree_SetPropagatesToRoot(t *testing.T) {
	tree := NewTree(4)
	if !tree.Empty() {
		t.Fatal("fresh tree should be empty")
	}
	for i := 0; i < 4; i++ {
		if v := tree.count(2, i); v != 0 {
			t.Fatalf("leaf %d = %d before set", i, v)
		}
		tree.Set(i)
		if v := tree.count(2, i); v != 1 {
			t.Fatalf("leaf %d = %d after set", i, v)
		}
	}
	if v := tree.count(0, 0); v != 4 {
		t.Fatalf("root = %d, want 4", v)
	}
	if v := tree.count(1, 0); v != 2 {
		t.Fatalf("level1[0] = %d, want 2", v)
	}
	if v := tree.count(1, 1); v != 2 {
		t.Fatalf("level1[1] = %d, want 2", v)
	}
}

func TestTree_SelectLeftBiased(t *testing.T) {
	tree := NewTree(4)
	tree.Set(0)
	tree.Set(2)
	tree.Set(1)
	if v := tree.count(0, 0); v != 3 {
		t.Fatalf("root = %d, want 3", v)
	}

	// Selection happens left to right.
	want := []int{0, 1, 2}
	for _, expect := range want {
		slot, _ := tree.Select()
		if slot != expect {
			t.Fatalf("select = %d, want %d", slot, expect)
		}
	}
	if slot, _ := tree.Select(); slot != InvalidSlot {
		t.Fatalf("select on empty tree = %d, want invalid", slot)
	}
	if !tree.Empty() {
		t.Fatal("tree should be empty after draining")
	}
}

func TestTree_SetIdempotent(t *testing.T) {
	tree := NewTree(8)
	if _, applied := tree.Set(3); !applied {
		t.Fatal("first set not applied")
	}
	if _, applied := tree.Set(3); applied {
		t.Fatal("second set of the same slot should be a no-op")
	}
	if v := tree.count(0, 0); v != 1 {
		t.Fatalf("root = %d after double set, want 1", v)
	}
}

func TestTree_WasEmptyWasLast(t *testing.T) {
	tree := NewTree(4)
	wasEmpty, _ := tree.Set(1)
	if !wasEmpty {
		t.Fatal("first signal should report the tree was empty")
	}
	wasEmpty, _ = tree.Set(2)
	if wasEmpty {
		t.Fatal("second signal should not report empty")
	}
	if _, last := tree.Select(); last {
		t.Fatal("first select of two should not be the last")
	}
	if _, last := tree.Select(); !last {
		t.Fatal("second select should report taking the last slot")
	}
}

// Sums at every level must match their children at quiescent points.
func checkSums(t *testing.T, tree *Tree) {
	t.Helper()
	for l := 0; l < tree.depth()-1; l++ {
		for i := 0; i < 1<<l; i++ {
			parent := tree.count(l, i)
			sum := tree.count(l+1, 2*i) + tree.count(l+1, 2*i+1)
			if parent != sum {
				t.Fatalf("level %d node %d = %d, children sum %d", l, i, parent, sum)
			}
		}
	}
}

func TestTree_SumInvariantUnderContention(t *testing.T) {
	const capacity = 64
	tree := NewTree(capacity)

	var claimed [capacity]int32
	var wg sync.WaitGroup
	for i := 0; i < capacity; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			tree.Set(slot)
		}(i)
	}

	var got int64
	selectors := 8
	var swg sync.WaitGroup
	for c := 0; c < selectors; c++ {
		swg.Add(1)
		go func() {
			defer swg.Done()
			for atomic.LoadInt64(&got) < capacity {
				slot, _ := tree.Select()
				if slot == InvalidSlot {
					runtime.Gosched()
					continue
				}
				atomic.AddInt32(&claimed[slot], 1)
				atomic.AddInt64(&got, 1)
			}
		}()
	}

	wg.Wait()
	swg.Wait()

	for i, n := range claimed {
		if n != 1 {
			t.Fatalf("slot %d claimed %d times", i, n)
		}
	}
	if !tree.Empty() {
		t.Fatal("tree should drain to empty")
	}
	checkSums(t, tree)
}
