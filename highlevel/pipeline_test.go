package highlevel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/taskpar/sched"
)

func newTestScheduler(t *testing.T) *sched.Scheduler {
	t.Helper()
	s := sched.New(sched.WithWorkers(4))
	t.Cleanup(s.Close)
	return s
}

func TestPipeline_StagesRunInOrder(t *testing.T) {
	s := newTestScheduler(t)

	var order atomic.Int64
	stamp := func() int64 { return order.Add(1) }

	var first, second1, second2, last int64
	p := NewPipeline(s).
		Then(func(*sched.Token) error { first = stamp(); return nil }).
		FanOut([]sched.TaskFunc{
			func(*sched.Token) error { second1 = stamp(); return nil },
			func(*sched.Token) error { second2 = stamp(); return nil },
		}).
		Sink(func(*sched.Token) error { last = stamp(); return nil })

	order.Store(0)
	require.NoError(t, p.Err())

	ids, err := p.Validate()
	require.NoError(t, err)
	assert.Len(t, ids, 4)

	require.NoError(t, p.Run())
	assert.Less(t, first, second1)
	assert.Less(t, first, second2)
	assert.Greater(t, last, second1)
	assert.Greater(t, last, second2)
}

func TestPipeline_TrackersExposeLastStage(t *testing.T) {
	s := newTestScheduler(t)
	p := NewPipeline(s).
		Then(func(tk *sched.Token) error { sched.Return(tk, 5); return nil }).
		Sink(func(tk *sched.Token) error {
			for _, cow := range sched.AllOf[int](tk) {
				sched.Return(tk, cow.Take()*2)
			}
			return nil
		})
	require.NoError(t, p.Run())

	trackers := p.Trackers()
	require.Len(t, trackers, 1)
	v, err := sched.GetTrackedResult[int](s, trackers[0])
	require.NoError(t, err)
	assert.Equal(t, 10, v)
}

func TestForEach_VisitsEveryItem(t *testing.T) {
	s := newTestScheduler(t)

	items := make([]int, 1000)
	for i := range items {
		items[i] = i
	}
	var sum atomic.Int64
	require.NoError(t, ForEach(s, items, func(v int) {
		sum.Add(int64(v))
	}))
	assert.Equal(t, int64(999*1000/2), sum.Load())
}

func TestReduce_SumsRange(t *testing.T) {
	s := newTestScheduler(t)

	nums := make([]int, 101)
	for i := range nums {
		nums[i] = i
	}
	sum, err := Reduce(s, nums, 0, func(a, b int) int { return a + b })
	require.NoError(t, err)
	assert.Equal(t, 5050, sum)
}

func TestReduce_EmptyInput(t *testing.T) {
	s := newTestScheduler(t)
	v, err := Reduce(s, nil, 42, func(a, b int) int { return a + b })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}
