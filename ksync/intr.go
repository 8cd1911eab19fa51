// Package ksync is the kernel's blocking-synchronization layer: the
// interrupt-masking guard cell, the cooperative-yield spinlock used by
// code that must never block, the futex-style wait queue, and the
// sleeping mutex built on top of it.
//
// Components covering the interrupt guard, the two mutex flavors and the
// wait queue are merged into one package for the same reason proc merges
// five spec components: the original's mutex and wait-queue modules call
// back into the scheduler (to yield or to suspend a thread), and the
// scheduler calls back into the wait queue to requeue a woken thread —
// mutually recursive in one crate, impossible to split into importing-only-
// downward Go packages.
package ksync

import (
	"github.com/losfair/riscv-hart-kernel/proc"
)

// IntrGuard witnesses that interrupts are masked for as long as it is
// held, and restores the previous enabled/disabled state exactly once,
// on Release — nesting-safe: only the outermost guard actually flips the
// hart's interrupt-enable bit back on.
type IntrGuard struct {
	prevEnabled bool
	released    bool
}

// DisableInterrupts masks interrupts on the calling hart and returns a
// guard that will restore the prior state when released.
func DisableInterrupts() *IntrGuard {
	prev := disableInterrupts()
	return &IntrGuard{prevEnabled: prev}
}

// Token mints the InterruptToken proof that code running under this
// guard may rely on: interrupts are masked, so it must not allocate or
// block.
func (g *IntrGuard) Token() proc.InterruptToken {
	return proc.NewInterruptTokenForGuard()
}

// Release restores the interrupt-enable state to what it was before this
// guard was taken. Calling it more than once is a no-op.
func (g *IntrGuard) Release() {
	if g.released {
		return
	}
	g.released = true
	if g.prevEnabled {
		enableInterrupts()
	}
}

// WithoutInterrupts runs f with interrupts masked for its duration,
// handing f the InterruptToken proving it.
func WithoutInterrupts(f func(proc.InterruptToken)) {
	g := DisableInterrupts()
	defer g.Release()
	f(g.Token())
}

// IntrCell is a value only ever touched with interrupts masked on the
// owning hart — the kernel's substitute for the original's
// UnsafeCell-based per-hart cell, since a single hart only ever has one
// thread of control and masking interrupts is sufficient exclusion.
type IntrCell[T any] struct {
	value T
}

// NewIntrCell wraps an initial value.
func NewIntrCell[T any](v T) *IntrCell[T] {
	return &IntrCell[T]{value: v}
}

// With runs f with exclusive access to the cell's contents, masking
// interrupts for the duration.
func (c *IntrCell[T]) With(f func(*T)) {
	WithoutInterrupts(func(proc.InterruptToken) {
		f(&c.value)
	})
}
