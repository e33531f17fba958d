// File: highlevel/pipeline.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pipeline composes tasks in stages: every task of a stage depends on
// every task of the stage before it. Validate cross-checks the staged
// graph with a topological sort before the scheduler runs it.

package highlevel

import (
	"fmt"

	"github.com/gammazero/toposort"

	"github.com/momentics/taskpar/api"
	"github.com/momentics/taskpar/sched"
)

// Pipeline is a staged task-graph builder.
type Pipeline struct {
	s      *sched.Scheduler
	stages [][]sched.DependencyTracker
	err    error
}

// NewPipeline starts an empty pipeline on s.
func NewPipeline(s *sched.Scheduler) *Pipeline {
	return &Pipeline{s: s}
}

// Then appends a single-task stage depending on the whole previous stage.
func (p *Pipeline) Then(fn sched.TaskFunc, opts ...sched.TaskOption) *Pipeline {
	return p.FanOut([]sched.TaskFunc{fn}, opts...)
}

// FanOut appends a stage of parallel tasks, each depending on the whole
// previous stage.
func (p *Pipeline) FanOut(fns []sched.TaskFunc, opts ...sched.TaskOption) *Pipeline {
	if p.err != nil || len(fns) == 0 {
		return p
	}
	stage := make([]sched.DependencyTracker, 0, len(fns))
	for _, fn := range fns {
		stage = append(stage, p.s.AddTask(fn, opts...))
	}
	if len(p.stages) > 0 {
		prev := p.stages[len(p.stages)-1]
		for _, t := range stage {
			if err := t.DepsOn(prev...); err != nil {
				p.err = err
				return p
			}
		}
	}
	p.stages = append(p.stages, stage)
	return p
}

// Sink appends a terminal single-task stage.
func (p *Pipeline) Sink(fn sched.TaskFunc, opts ...sched.TaskOption) *Pipeline {
	return p.Then(fn, opts...)
}

// OnError attaches a failure handler to every task of the last stage.
func (p *Pipeline) OnError(h sched.ErrorHandler) *Pipeline {
	if p.err != nil || len(p.stages) == 0 {
		return p
	}
	for _, t := range p.stages[len(p.stages)-1] {
		t.SetErrorHandler(h)
	}
	return p
}

// Trackers returns the trackers of the last stage, for wiring results.
func (p *Pipeline) Trackers() []sched.DependencyTracker {
	if len(p.stages) == 0 {
		return nil
	}
	return p.stages[len(p.stages)-1]
}

// Err returns the first error recorded while building.
func (p *Pipeline) Err() error { return p.err }

// Validate runs a topological sort over the staged graph.
// Returns ordered task ids or an error if the graph is cyclic.
func (p *Pipeline) Validate() ([]api.TaskID, error) {
	if p.err != nil {
		return nil, p.err
	}
	var edges []toposort.Edge
	for si, stage := range p.stages {
		for _, t := range stage {
			if si == 0 {
				edges = append(edges, toposort.Edge{nil, t.ID})
				continue
			}
			for _, dep := range p.stages[si-1] {
				edges = append(edges, toposort.Edge{dep.ID, t.ID})
			}
		}
	}
	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", api.ErrCycleFound, err)
	}
	order := make([]api.TaskID, 0, len(sorted))
	for _, v := range sorted {
		if id, ok := v.(api.TaskID); ok {
			order = append(order, id)
		}
	}
	return order, nil
}

// Run validates the staged graph and drives the scheduler.
func (p *Pipeline) Run() error {
	if _, err := p.Validate(); err != nil {
		return err
	}
	return p.s.Run()
}
