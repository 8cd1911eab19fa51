package proc

import "github.com/losfair/riscv-hart-kernel/kerrors"

// KernelTask is a unit of work handed to Spawn: a plain closure. The
// original source smuggled a trait object's data and vtable pointers
// through a pair of raw integers to cross the FFI-shaped boundary between
// its allocator-free bring-up code and the scheduler; a Go func value
// already is the safe version of that trick, carried directly in
// Thread.entry until the new thread's first scheduling, so no registry
// or boxing step is needed here.
type KernelTask func(ThreadToken)

// Spawn creates a new thread running task, adds it to proc, and enqueues
// it on the least-loaded hart's run queue.
func Spawn(plan *GlobalPlan, proc *LockedProcess, task KernelTask) (*Thread, error) {
	t := NewThread(proc, func(tok ThreadToken) { task(tok) })
	proc.AddThread(t)
	if !plan.Enqueue(t) {
		proc.RemoveThread(t.ID)
		return nil, kerrors.ErrRunQueueFull
	}
	return t, nil
}

// SpawnOnHart is Spawn but pins the new thread to a specific hart's local
// run queue instead of letting GlobalPlan pick the least-loaded one; used
// for per-hart idle/init tasks during boot.
func SpawnOnHart(h *HardwareThread, proc *LockedProcess, task KernelTask) (*Thread, error) {
	t := NewThread(proc, func(tok ThreadToken) { task(tok) })
	proc.AddThread(t)
	if !h.AddThread(t, NonCritical) {
		proc.RemoveThread(t.ID)
		return nil, kerrors.ErrRunQueueFull
	}
	return t, nil
}
