package boot

// scauseSupervisorTimerInterrupt is scause's value for an S-mode timer
// interrupt: the interrupt bit (63) set, cause code 5.
const scauseSupervisorTimerInterrupt = (uint64(1) << 63) | 5

// scauseBreakpoint is scause's value for an ebreak exception: no
// interrupt bit, cause code 3. Breakpoint and timer are the only two
// trap causes this kernel treats as non-fatal.
const scauseBreakpoint = 3

// ebreakInstructionSize is the width in bytes of the compressed-or-not
// ebreak encoding this kernel ever plants: always the 2-byte c.ebreak
// form, so resuming means stepping sepc forward by 2, not 4.
const ebreakInstructionSize = 2

// breakpointResumeSepc computes the sepc to resume at after an ebreak
// trap: one past the 2-byte instruction that trapped, so execution
// doesn't loop on the same ebreak forever.
func breakpointResumeSepc(trappedSepc uint64) uint64 {
	return trappedSepc + ebreakInstructionSize
}
