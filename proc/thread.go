package proc

import (
	"sync/atomic"
)

// ThreadID uniquely identifies a Thread for the lifetime of the kernel;
// IDs are never reused.
type ThreadID uint64

var nextThreadID atomic.Uint64

func allocThreadID() ThreadID {
	return ThreadID(nextThreadID.Add(1))
}

// kernelStackSize is how much stack every thread gets, independent of
// whether it ever drops to user mode: 64 KiB.
const kernelStackSize = 64 * 1024

// RawThreadState is the fixed-size, 16-byte-aligned block a thread's
// kernel stack is carved out of: the kernel stack lives below it, the
// struct itself at the top of the stack region. Ucontext holds the saved
// user-mode register file (only meaningful once the thread has entered
// the kernel from user mode at least once); Kcontext holds the saved
// kernel-mode register file used to resume a suspended thread via
// ll_yield. HartPtr is a back-pointer slot for the running hart; nothing
// in this package assigns it, so it stays nil.
type RawThreadState struct {
	Ucontext      Context
	Kcontext      Context
	HartPtr       *HardwareThread
	KcontextValid bool
}

const rawThreadStateSize = 2*contextSize + 8 + 8 // HartPtr + bool, padded

// Thread is one schedulable unit of execution: a kernel stack, its saved
// register state, and the bookkeeping the scheduler needs to decide
// whether and where to run it next.
type Thread struct {
	ID ThreadID

	state *RawThreadState

	// stack backs the kernel stack region below state; kept alive here so
	// it is never collected while state points inside it.
	stack []byte

	// onSuspend, when non-nil, runs on the hart that is about to switch
	// away from this thread: after the thread has been requeued (if it is
	// being requeued) and before its kernel context is saved. It replaces
	// the original's RAII suspend-guard with an explicit callback; nothing
	// in this package sets it.
	onSuspend func(outgoing *Thread)

	proc *LockedProcess

	// entry is consumed exactly once, by runThreadEntry, the first time
	// this thread is ever scheduled.
	entry func(ThreadToken)
}

// NewThread allocates a kernel stack and an empty Thread ready to be
// entered via EnterKernel. entry is the function the thread starts
// executing in kernel mode; it receives the ThreadToken proving it runs
// with interrupts enabled and may block or allocate.
func NewThread(proc *LockedProcess, entry func(ThreadToken)) *Thread {
	stack := make([]byte, kernelStackSize)
	state := (*RawThreadState)(stateAt(stack))

	t := &Thread{
		ID:    allocThreadID(),
		state: state,
		stack: stack,
		proc:  proc,
	}
	t.state.Kcontext = bootstrapKcontext(stack, entry, t)
	t.state.KcontextValid = true
	return t
}

// EntryReason records why a thread is being handed back to the
// scheduler: it finished a trap from user mode, it cooperatively
// yielded, or its timeslice expired.
type EntryReason int

const (
	// EntryFromUser means the thread trapped in from user mode (syscall,
	// page fault, or an asynchronous interrupt taken in user mode).
	EntryFromUser EntryReason = iota
	// EntryYield means the thread called DoYield from kernel mode.
	EntryYield
	// EntryTimerTick means a periodic timer interrupt fired while the
	// thread was running in kernel mode.
	EntryTimerTick
)

func (r EntryReason) String() string {
	switch r {
	case EntryFromUser:
		return "from-user"
	case EntryYield:
		return "yield"
	case EntryTimerTick:
		return "timer-tick"
	default:
		return "unknown"
	}
}
