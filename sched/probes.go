// File: sched/probes.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Operability wiring: the scheduler exposes its counters through the
// control metrics registry and its live state through debug probes.

package sched

import "github.com/momentics/taskpar/control"

// RegisterProbes installs scheduler state dumps into a probe registry.
func (s *Scheduler) RegisterProbes(dp *control.DebugProbes) {
	dp.RegisterProbe("scheduler", func() any {
		alive := 0
		for _, info := range s.info {
			if info.alive() {
				alive++
			}
		}
		return map[string]any{
			"running":      s.running.Load(),
			"workers":      s.pool.numWorkers(),
			"slots":        len(s.info),
			"alive_tasks":  alive,
			"ready_tasks":  s.readyTasks.Load(),
			"side_work":    s.sideWork.Len(),
			"arena_blocks": s.arena.NBlocks(),
			"arena_bytes":  s.arena.TotalBytes(),
		}
	})
}

// PublishMetrics pushes the scheduler counters into a metrics registry.
func (s *Scheduler) PublishMetrics(mr *control.MetricsRegistry) {
	mr.SetAll(map[string]any{
		"tasks_run":     s.tasksRun.Load(),
		"side_work_run": s.sideWorkRun.Load(),
		"failures":      s.failures.Load(),
		"values_stored": s.vals.Len(),
	})
}
