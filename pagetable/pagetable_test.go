package pagetable

import (
	"testing"

	"github.com/losfair/riscv-hart-kernel/addr"
)

func TestEntryRoundTrip(t *testing.T) {
	ppn := addr.PhysPageNum(0x123456)
	e := NewEntry(ppn, Valid|Readable|Writable)
	if e.IsEmpty() {
		t.Fatal("entry should not be empty")
	}
	if got := e.PPN(); got != ppn {
		t.Fatalf("PPN() = %#x, want %#x", uint64(got), uint64(ppn))
	}
	if got := e.Flags(); got != Valid|Readable|Writable {
		t.Fatalf("Flags() = %#x, want %#x", got, Valid|Readable|Writable)
	}
}

func TestEntryEmpty(t *testing.T) {
	var e Entry
	if !e.IsEmpty() {
		t.Fatal("zero-value entry should be empty")
	}
}
