//go:build riscv64

package boot

import (
	"fmt"

	"github.com/losfair/riscv-hart-kernel/console"
	"github.com/losfair/riscv-hart-kernel/kpanic"
	"github.com/losfair/riscv-hart-kernel/proc"
	"github.com/losfair/riscv-hart-kernel/sbi"
)

// timerIntervalCycles is how many mtime ticks elapse between periodic
// timer interrupts; chosen to give each thread a perceptible but short
// slice at typical QEMU `virt` clock rates.
const timerIntervalCycles = 1_000_000

// programTrapVector is implemented in trap_riscv64.s: it points stvec at
// the kernel's trap entry trampoline.
func programTrapVector()

func programPeriodicTimer() {
	sbi.SetTimer(timerIntervalCycles)
}

// readScause is implemented in trap_riscv64.s: returns the scause CSR
// captured by trapEntry before any further trap could overwrite it.
func readScause() uint64

// trapScratch holds the register file trapEntry saved before calling
// trapDispatch: the state of whatever was running at the instant of the
// trap, independent of any thread's own Kcontext/Ucontext. When a timer
// tick does not force a reschedule, resuming execution means leaving
// this context, not the current thread's last-saved one (which may be
// stale, pointing at wherever that thread last cooperatively yielded
// from).
var trapScratch proc.Context

// trapDispatch is called by trapEntry with the interrupted register file
// already saved into trapScratch. It is the whole of this kernel's trap
// handling: a periodic timer interrupt calls Tick, then resumes either
// the same context (no reschedule happened) or whatever thread the
// scheduler switched to (Tick's call into llYield already left via that
// thread's own context and never returns here). A breakpoint prints its
// address and resumes just past the ebreak. Anything else is treated as
// fatal, since user-mode syscalls and page faults are outside this
// kernel's scope.
func trapDispatch() {
	cause := readScause()
	h := proc.ThisHart()

	if cause == scauseSupervisorTimerInterrupt {
		programPeriodicTimer()
		h.Tick(proc.NewInterruptTokenForGuard())
		trapScratch.Leave()
	}

	if cause == scauseBreakpoint {
		console.Printf("Breakpoint at 0x%x\n", trapScratch.Sepc)
		trapScratch.Sepc = breakpointResumeSepc(trapScratch.Sepc)
		trapScratch.Leave()
	}

	reportFatalTrap(cause)
}

var gregNames = []string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

func reportFatalTrap(cause uint64) {
	names := append([]string{}, gregNames...)
	values := append([]uint64{}, trapScratch.Gregs[:]...)
	dump := console.RegisterTable(names, values)
	kpanic.FatalTrap(fmt.Sprintf("scause=0x%x", cause), trapScratch.Sepc, dump)
}
