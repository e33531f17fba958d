// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity and thread priority. Platform
// implementations live in separate files guarded by build tags.

package affinity

import (
	"runtime"

	"github.com/momentics/taskpar/api"
)

// Pin binds the current OS thread to a logical CPU. The calling
// goroutine must be locked to its thread for the pin to be meaningful.
// On unsupported platforms returns an error.
func Pin(cpuID int) error {
	return setAffinityPlatform(cpuID)
}

// SetThreadPriority applies a task priority to the current OS thread.
// On unsupported platforms returns an error.
func SetThreadPriority(p api.Priority) error {
	return setPriorityPlatform(p)
}

// LockThread wires the calling goroutine to its OS thread.
func LockThread() { runtime.LockOSThread() }

// UnlockThread releases the goroutine/thread wiring.
func UnlockThread() { runtime.UnlockOSThread() }
