package proc

import "unsafe"

// stateAt returns a pointer to the RawThreadState living at the top of
// stack, 16-byte aligned, with the kernel stack proper occupying the
// bytes below it.
func stateAt(stack []byte) unsafe.Pointer {
	top := uintptr(unsafe.Pointer(&stack[0])) + uintptr(len(stack))
	top -= rawThreadStateSize
	top &^= 15
	return unsafe.Pointer(top)
}

// stackTopFor returns the initial kernel stack pointer for a thread whose
// RawThreadState sits at state: immediately below the state block.
func stackTopFor(stack []byte, state unsafe.Pointer) uintptr {
	_ = stack
	return uintptr(state)
}

// bootstrapKcontext builds the kernel context a never-yet-run thread will
// be entered through: sepc points at the asm trampoline that bridges the
// restore path into runThreadEntry, a0 carries the Thread pointer, sp is
// the top of the stack region below the RawThreadState.
func bootstrapKcontext(stack []byte, entry func(ThreadToken), t *Thread) Context {
	t.entry = entry
	var c Context
	c.Sepc = threadTrampolineAddr()
	c.Sstatus = initialSstatus
	c.Gregs[2] = uint64(stackTopFor(stack, stateAt(stack))) // sp
	c.Gregs[10] = uintptr2reg(unsafe.Pointer(t))            // a0 = *Thread
	return c
}

func uintptr2reg(p unsafe.Pointer) uint64 { return uint64(uintptr(p)) }

// runThreadEntry is the landing point the assembly trampoline calls with
// the Thread pointer recovered from a0. It runs the thread's entry
// closure under a freshly minted ThreadToken, then exits the thread.
//
//go:nosplit
func runThreadEntry(t *Thread) {
	entry := t.entry
	t.entry = nil
	entry(newThreadToken())
	ThisHart().ExitThread(newThreadToken())
}
