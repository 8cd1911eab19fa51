package proc

import "testing"

func TestContextWasUser(t *testing.T) {
	var c Context
	c.Sstatus = 0
	if !c.WasUser() {
		t.Fatal("SPP=0 should report WasUser() == true")
	}
	c.Sstatus = sstatusSPP
	if c.WasUser() {
		t.Fatal("SPP=1 should report WasUser() == false")
	}
}

func TestContextSizeAligned(t *testing.T) {
	if contextSize%16 != 0 {
		t.Fatalf("contextSize = %d, not 16-byte aligned", contextSize)
	}
	if contextSize != 272 {
		t.Fatalf("contextSize = %d, want 272", contextSize)
	}
}

func TestEntryReasonString(t *testing.T) {
	cases := map[EntryReason]string{
		EntryFromUser:  "from-user",
		EntryYield:     "yield",
		EntryTimerTick: "timer-tick",
	}
	for reason, want := range cases {
		if got := reason.String(); got != want {
			t.Fatalf("%v.String() = %q, want %q", reason, got, want)
		}
	}
}
