// control/doc.go
// Author: momentics <momentics@gmail.com>
//
// Package control carries the runtime operability surface of taskpar:
// a dynamic configuration store with reload listeners, a metrics
// registry the scheduler publishes counters into, and a debug-probe
// registry for live state dumps.
package control
