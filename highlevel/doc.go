// File: highlevel/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package highlevel offers sugar over the scheduler: a staged pipeline
// builder and parallel ForEach/Reduce adapters. Everything here is a
// thin layer that adds ordinary tasks; the underlying graph remains the
// contract.
package highlevel
