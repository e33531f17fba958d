//go:build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux implementation on top of golang.org/x/sys; no cgo required.
// Priorities map onto nice levels for the calling thread (tid 0).

package affinity

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/taskpar/api"
)

// cpuSetSize mirrors Linux's CPU_SETSIZE (not exported by x/sys/unix).
const cpuSetSize = 1024

// setAffinityPlatform pins the calling thread to the given CPU.
func setAffinityPlatform(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID % cpuSetSize)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: sched_setaffinity: %w", err)
	}
	return nil
}

// setPriorityPlatform maps a priority onto a nice level for the
// calling thread.
func setPriorityPlatform(p api.Priority) error {
	nice := 0
	switch p {
	case api.PriorityIdle:
		nice = 19
	case api.PriorityBelowNormal:
		nice = 5
	case api.PriorityNormal:
		nice = 0
	case api.PriorityAboveNormal:
		nice = -5
	case api.PriorityHigh:
		nice = -10
	}
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, nice); err != nil {
		return fmt.Errorf("affinity: setpriority: %w", err)
	}
	return nil
}
