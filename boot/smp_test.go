package boot

import (
	"sync"
	"testing"
)

func TestNumHartsStartsAtOne(t *testing.T) {
	if NumHarts() != 1 {
		t.Fatalf("NumHarts() = %d, want 1", NumHarts())
	}
}

func TestAPBootHandshake(t *testing.T) {
	before := NumHarts()

	var wg sync.WaitGroup
	var initCalled, startCalled bool
	var startedWith uint32

	wg.Add(1)
	go func() {
		defer wg.Done()
		APBoot(7,
			func() { initCalled = true },
			func(id uint32) { startCalled = true; startedWith = id },
		)
	}()

	BootAP(7)
	wg.Wait()

	if !initCalled {
		t.Fatal("apInit was not called")
	}
	if !startCalled || startedWith != 7 {
		t.Fatalf("apStart called=%v with=%d, want true,7", startCalled, startedWith)
	}
	if NumHarts() != before+1 {
		t.Fatalf("NumHarts() = %d, want %d", NumHarts(), before+1)
	}
}

func TestAPBootDoneFlag(t *testing.T) {
	ClearAPBootDone()
	if APBootDone() {
		t.Fatal("expected APBootDone() == false after Clear")
	}
	SetAPBootDone()
	if !APBootDone() {
		t.Fatal("expected APBootDone() == true after Set")
	}
	ClearAPBootDone()
	if APBootDone() {
		t.Fatal("expected APBootDone() == false after second Clear")
	}
}
