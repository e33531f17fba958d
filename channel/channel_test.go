package channel

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/momentics/taskpar/api"
	"github.com/momentics/taskpar/pool"
)

func TestBounded_ProducerConsumer(t *testing.T) {
	c := NewBounded[int](8)

	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i < 100; i++ {
			if err := c.Send(i); err != nil {
				return err
			}
		}
		c.Close()
		return nil
	})

	var got []int
	g.Go(func() error {
		for {
			v, ok := c.Receive()
			if !ok {
				return nil
			}
			got = append(got, v)
		}
	})

	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 100 {
		t.Fatalf("received %d items, want 100", len(got))
	}
	// Single producer: arrival order is send order.
	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d, want %d", i, v, i)
		}
	}
	if _, ok := c.Receive(); ok {
		t.Fatal("receive succeeded on closed drained channel")
	}
}

func TestBounded_SendAfterClose(t *testing.T) {
	c := NewBounded[int](4)
	c.Close()
	if err := c.Send(1); err != api.ErrChannelClosed {
		t.Fatalf("send err = %v, want ErrChannelClosed", err)
	}
	if _, err := c.TrySend(1); err != api.ErrChannelClosed {
		t.Fatalf("try_send err = %v, want ErrChannelClosed", err)
	}
}

func TestBounded_TrySendFull(t *testing.T) {
	c := NewBounded[int](2)
	for i := 0; i < 2; i++ {
		ok, err := c.TrySend(i)
		if err != nil || !ok {
			t.Fatalf("try_send %d = (%v, %v)", i, ok, err)
		}
	}
	ok, err := c.TrySend(9)
	if err != nil || ok {
		t.Fatalf("try_send on full = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestBounded_SendBlocksUntilSpace(t *testing.T) {
	c := NewBounded[int](2)
	c.Send(1)
	c.Send(2)

	unblocked := make(chan struct{})
	go func() {
		c.Send(3)
		close(unblocked)
	}()

	select {
	case <-unblocked:
		t.Fatal("send returned on a full channel")
	case <-time.After(20 * time.Millisecond):
	}

	if v, ok := c.Receive(); !ok || v != 1 {
		t.Fatalf("receive = (%d, %v)", v, ok)
	}
	select {
	case <-unblocked:
	case <-time.After(2 * time.Second):
		t.Fatal("send did not unblock after space freed")
	}
}

func TestBounded_CloseWakesReceiver(t *testing.T) {
	c := NewBounded[int](4)
	done := make(chan struct{})
	go func() {
		if _, ok := c.Receive(); ok {
			t.Error("receive yielded an item from an empty channel")
		}
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	c.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("receiver not woken by close")
	}
}

func TestUnbounded_NeverBlocksSender(t *testing.T) {
	c := NewUnbounded[int](4)
	for i := 0; i < 1000; i++ {
		if err := c.Send(i); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if c.Len() != 1000 {
		t.Fatalf("len = %d, want 1000", c.Len())
	}
	c.Close()
	for i := 0; i < 1000; i++ {
		v, ok := c.Receive()
		if !ok || v != i {
			t.Fatalf("receive = (%d, %v), want (%d, true)", v, ok, i)
		}
	}
	if _, ok := c.Receive(); ok {
		t.Fatal("receive succeeded on drained closed channel")
	}
}

func TestBytes_ArenaRoundTrip(t *testing.T) {
	arena := pool.NewBlockSize("chan", 4096)
	c := NewBytes(8, arena)

	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i < 20; i++ {
			if err := c.Send([]byte(fmt.Sprintf("payload-%02d", i))); err != nil {
				return err
			}
		}
		c.Close()
		return nil
	})

	var count int
	g.Go(func() error {
		for {
			msg, ok := c.Receive()
			if !ok {
				return nil
			}
			want := []byte(fmt.Sprintf("payload-%02d", count))
			if !bytes.Equal(msg, want) {
				return fmt.Errorf("message %d = %q, want %q", count, msg, want)
			}
			c.Free(msg)
			count++
		}
	})

	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if count != 20 {
		t.Fatalf("received %d payloads, want 20", count)
	}
	if arena.TotalObjects() != 0 {
		t.Fatalf("arena still holds %d regions after free", arena.TotalObjects())
	}
}
