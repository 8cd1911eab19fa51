package boot

import "testing"

func TestBreakpointResumeSepcAdvancesByInstructionWidth(t *testing.T) {
	const trapAddr = uint64(0xffff_ffff_8001_2340)
	got := breakpointResumeSepc(trapAddr)
	want := trapAddr + 2
	if got != want {
		t.Fatalf("breakpointResumeSepc(0x%x) = 0x%x, want 0x%x", trapAddr, got, want)
	}
}

func TestTrapCauseConstantsAreDistinct(t *testing.T) {
	if scauseSupervisorTimerInterrupt == scauseBreakpoint {
		t.Fatal("timer and breakpoint scause values must not collide")
	}
	if scauseSupervisorTimerInterrupt&(uint64(1)<<63) == 0 {
		t.Fatal("timer cause must have the interrupt bit set")
	}
	if scauseBreakpoint&(uint64(1)<<63) != 0 {
		t.Fatal("breakpoint cause is an exception, not an interrupt")
	}
}
