// Package kerrors defines the kernel's recoverable error set.
//
// Only resource exhaustion is modeled as a recoverable error; everything
// else is either an invariant violation or a fatal trap, both of which go
// through kpanic rather than returning an error.
package kerrors

import "errors"

// ErrOutOfMemory is returned by the page pool and anything built on top
// of it when no frame is available and growth fails.
var ErrOutOfMemory = errors.New("kernel: out of memory")

// ErrRunQueueFull is returned by Spawn when a hart's bounded local run
// queue has no room left for a new thread.
var ErrRunQueueFull = errors.New("kernel: run queue full")
