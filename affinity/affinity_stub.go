//go:build !linux

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.
// Returns errors to indicate unavailability.

package affinity

import (
	"errors"

	"github.com/momentics/taskpar/api"
)

func setAffinityPlatform(cpuID int) error {
	return errors.New("affinity: not supported on this platform")
}

func setPriorityPlatform(api.Priority) error {
	return errors.New("affinity: thread priority not supported on this platform")
}
