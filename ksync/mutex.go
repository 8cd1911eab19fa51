package ksync

import (
	"sync/atomic"
	"unsafe"

	"github.com/losfair/riscv-hart-kernel/addr"
	"github.com/losfair/riscv-hart-kernel/proc"
)

// Mutex is a futex-backed sleeping mutex: on contention the caller parks
// on a WaitQueue instead of spinning, so it must only ever be locked from
// thread context (it takes a ThreadToken). YieldMutex is the spinning
// alternative for code that cannot block.
//
// Mutex is identified to its WaitQueue by the physical address of its own
// lock word, matching the original's "key the futex by the lock byte's
// address" design — one WaitQueue can back any number of independent
// Mutex values. There is no real identity-mapped physical address for an
// arbitrary Go heap value outside the kernel's own page-pool frames, so
// the lock's own pointer identity stands in for it here.
type Mutex[T any] struct {
	_      noCopy
	locked atomic.Bool
	wq     *WaitQueue
	value  T
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// NewMutex returns an unlocked mutex guarding v, parking contended
// waiters on wq.
func NewMutex[T any](wq *WaitQueue, v T) *Mutex[T] {
	return &Mutex[T]{wq: wq, value: v}
}

func (m *Mutex[T]) addr() addr.PhysAddr {
	return addr.PhysAddr(uintptr(unsafe.Pointer(m)))
}

// Lock blocks until the mutex is acquired and returns a pointer to the
// guarded value.
func (m *Mutex[T]) Lock(tok proc.ThreadToken) *T {
	for !m.locked.CompareAndSwap(false, true) {
		m.wq.Wait(m.addr(), func() bool { return m.locked.Load() })
	}
	return &m.value
}

// Unlock releases the mutex and wakes one waiter, if any.
func (m *Mutex[T]) Unlock() {
	m.locked.Store(false)
	m.wq.WakeOne(m.addr())
}
