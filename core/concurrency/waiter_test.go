package concurrency

import (
	"testing"
	"time"
)

func TestWaiter_PredicateWait(t *testing.T) {
	var w Waiter
	ready := false
	done := make(chan struct{})

	go func() {
		w.Wait(func() bool { return ready })
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("wait returned before the predicate held")
	default:
	}

	w.NotifyAll(func() { ready = true })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not wake after notify")
	}
}

func TestWaiter_WaitForTimeout(t *testing.T) {
	var w Waiter
	start := time.Now()
	ok := w.WaitFor(20*time.Millisecond, func() bool { return false })
	if ok {
		t.Fatal("WaitFor reported success on a never-true predicate")
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Fatal("WaitFor returned before the deadline")
	}
}
