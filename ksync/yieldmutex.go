package ksync

import (
	"sync/atomic"

	"github.com/losfair/riscv-hart-kernel/proc"
)

// YieldMutex is a spinlock that yields the hart cooperatively on
// contention instead of sleeping. It exists for code paths that cannot
// safely go through the sleeping Mutex because blocking there could
// recurse back into the same lock (the global allocator bookkeeping this
// package's globalAllocLock guards is the one user): DoYield only gives up
// the remainder of a timeslice, it never allocates or touches a wait
// queue.
type YieldMutex[T any] struct {
	locked atomic.Bool
	value  T
}

// NewYieldMutex wraps an initial value.
func NewYieldMutex[T any](v T) *YieldMutex[T] {
	return &YieldMutex[T]{value: v}
}

// Lock spins, cooperatively yielding the hart between attempts, until it
// acquires the lock, then returns a pointer to the guarded value. Callers
// must hold a ThreadToken: DoYield may only be called from thread
// context.
func (m *YieldMutex[T]) Lock(tok proc.ThreadToken) *T {
	for !m.locked.CompareAndSwap(false, true) {
		proc.ThisHart().DoYield(tok)
	}
	return &m.value
}

// TryLock attempts to acquire the lock without blocking, for use from
// Critical scheduling context where yielding is not an option. It
// reports whether the lock was acquired.
func (m *YieldMutex[T]) TryLock() (*T, bool) {
	if !m.locked.CompareAndSwap(false, true) {
		return nil, false
	}
	return &m.value, true
}

// Unlock releases the lock.
func (m *YieldMutex[T]) Unlock() {
	m.locked.Store(false)
}

// allocStats is the tiny slice of global allocator bookkeeping that
// genuinely needs a lock safe to take from both thread and (try-lock
// only) interrupt context: one kernel-wide pair of allocation/free
// counters, shared by all harts and kept for diagnostics (nothing in the
// kernel prints them). The page pool's own
// free-list mutations stay behind pagepool.LockedPagePool's plain
// sync.Mutex — pagepool sits below proc/ksync in the package graph and
// cannot import either.
type allocStats struct {
	TotalAllocations uint64
	TotalFrees       uint64
}

var globalAllocLock = NewYieldMutex(allocStats{})

// AcquireAllocatorLock locks the global allocator statistics for the
// duration of f.
func AcquireAllocatorLock(tok proc.ThreadToken, f func(totalAllocations, totalFrees *uint64)) {
	stats := globalAllocLock.Lock(tok)
	defer globalAllocLock.Unlock()
	f(&stats.TotalAllocations, &stats.TotalFrees)
}

// RecordAllocation increments the allocation counter from Critical
// (interrupt) context, falling back to a try-lock since DoYield is not
// available there; a failed try-lock simply means another hart is
// updating the same counters and this update is dropped, acceptable for
// a diagnostics-only counter.
func RecordAllocation() {
	if stats, ok := globalAllocLock.TryLock(); ok {
		stats.TotalAllocations++
		globalAllocLock.Unlock()
	}
}
