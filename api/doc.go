// Package api
// Author: momentics <momentics@gmail.com>
//
// Contract layer for the taskpar task-parallel scheduling library.
// Defines shared identifiers, error values, and the interfaces implemented
// by the core/concurrency, pool, sched, and control packages.
// Pure declarations only; no implementation code lives here.
package api
