package concurrency

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRing_FIFO(t *testing.T) {
	r := NewRing[int](4)
	if r.Cap() != 4 {
		t.Fatalf("cap = %d, want 4", r.Cap())
	}
	for i := 0; i < 4; i++ {
		if !r.Enqueue(i) {
			t.Fatalf("enqueue %d refused on non-full ring", i)
		}
	}
	if r.Enqueue(99) {
		t.Fatal("enqueue succeeded on full ring")
	}
	if !r.Full() {
		t.Fatal("ring should report full")
	}
	for i := 0; i < 4; i++ {
		v, ok := r.Dequeue()
		if !ok || v != i {
			t.Fatalf("dequeue = (%d, %v), want (%d, true)", v, ok, i)
		}
	}
	if _, ok := r.Dequeue(); ok {
		t.Fatal("dequeue succeeded on empty ring")
	}
	if !r.Empty() {
		t.Fatal("ring should report empty")
	}
}

func TestRing_WrapAround(t *testing.T) {
	r := NewRing[int](2)
	for lap := 0; lap < 100; lap++ {
		if !r.Enqueue(lap) {
			t.Fatalf("lap %d: enqueue refused", lap)
		}
		v, ok := r.Dequeue()
		if !ok || v != lap {
			t.Fatalf("lap %d: dequeue = (%d, %v)", lap, v, ok)
		}
	}
}

func TestRing_MPMC(t *testing.T) {
	r := NewRing[int](1024)
	producers := 8
	consumers := 8
	itemsPerProducer := 10000

	var wg sync.WaitGroup
	var sentSum int64
	var receivedSum int64
	var receivedCount int64
	totalItems := int64(producers * itemsPerProducer)

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(pid int) {
			defer wg.Done()
			for i := 0; i < itemsPerProducer; i++ {
				val := pid*itemsPerProducer + i + 1
				for !r.Enqueue(val) {
					runtime.Gosched()
				}
				atomic.AddInt64(&sentSum, int64(val))
			}
		}(p)
	}

	consumerWg := sync.WaitGroup{}
	for c := 0; c < consumers; c++ {
		consumerWg.Add(1)
		go func() {
			defer consumerWg.Done()
			for {
				if val, ok := r.Dequeue(); ok {
					atomic.AddInt64(&receivedSum, int64(val))
					if atomic.AddInt64(&receivedCount, 1) == totalItems {
						return
					}
				} else {
					if atomic.LoadInt64(&receivedCount) >= totalItems {
						return
					}
					runtime.Gosched()
				}
			}
		}()
	}

	wg.Wait()
	done := make(chan struct{})
	go func() {
		consumerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if sentSum != receivedSum {
			t.Errorf("checksum mismatch: sent %d, received %d", sentSum, receivedSum)
		}
	case <-time.After(10 * time.Second):
		t.Errorf("timeout waiting for consumers, received %d/%d",
			atomic.LoadInt64(&receivedCount), totalItems)
	}
}
