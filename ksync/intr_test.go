package ksync

import "testing"

func TestIntrGuardNestingRestoresOuterState(t *testing.T) {
	interruptsEnabled = true

	outer := DisableInterrupts()
	if interruptsEnabled {
		t.Fatal("outer guard should have disabled interrupts")
	}

	inner := DisableInterrupts()
	inner.Release()
	if interruptsEnabled {
		t.Fatal("releasing the inner guard must not re-enable interrupts")
	}

	outer.Release()
	if !interruptsEnabled {
		t.Fatal("releasing the outer guard should restore interrupts")
	}
}

func TestIntrGuardReleaseIsIdempotent(t *testing.T) {
	interruptsEnabled = true
	g := DisableInterrupts()
	g.Release()
	g.Release() // must not double-restore
	if !interruptsEnabled {
		t.Fatal("interrupts should be enabled after release")
	}
}

func TestIntrCellWith(t *testing.T) {
	c := NewIntrCell(0)
	c.With(func(v *int) { *v = 42 })
	got := 0
	c.With(func(v *int) { got = *v })
	if got != 42 {
		t.Fatalf("IntrCell value = %d, want 42", got)
	}
}
