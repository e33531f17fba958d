// File: core/concurrency/debug_on.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build taskpar_debug

package concurrency

const debugChecks = true
