package sched

import (
	"sync/atomic"
	"testing"
)

func BenchmarkScheduler_IndependentTasks(b *testing.B) {
	s := New(WithWorkers(4))
	defer s.Close()

	var count atomic.Int64
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		s.Reset(true)
		const width = 64
		for t := 0; t < width; t++ {
			s.AddTask(func(*Token) error {
				count.Add(1)
				return nil
			})
		}
		b.StartTimer()
		if err := s.Run(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScheduler_Chain(b *testing.B) {
	s := New(WithWorkers(4))
	defer s.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		s.Reset(true)
		prev := s.AddTask(func(tk *Token) error {
			Return(tk, 0)
			return nil
		})
		for d := 0; d < 16; d++ {
			src := prev
			next := s.AddTask(func(tk *Token) error {
				x, err := Arg[int](tk, src.ID)
				if err != nil {
					return err
				}
				Return(tk, x.Take()+1)
				return nil
			})
			if err := next.DepsOn(src); err != nil {
				b.Fatal(err)
			}
			prev = next
		}
		b.StartTimer()
		if err := s.Run(); err != nil {
			b.Fatal(err)
		}
	}
}
