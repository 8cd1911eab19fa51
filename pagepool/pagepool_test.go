package pagepool

import (
	"testing"

	"github.com/losfair/riscv-hart-kernel/addr"
)

// TestAllocateFreeRoundTrip checks that a VPN allocated and then freed
// comes back out of the free set, and the next allocation may reuse it.
func TestAllocateFreeRoundTrip(t *testing.T) {
	p := NewPagePool()
	vpn, err := p.Allocate()
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	p.Free(vpn)
	vpn2, err := p.Allocate()
	if err != nil {
		t.Fatalf("Allocate after free: %v", err)
	}
	if vpn2 != vpn {
		t.Fatalf("expected reuse of %v, got %v", vpn, vpn2)
	}
}

// TestGrowShrink allocates 65 frames (one grow), frees every frame but
// the first (64 frees, one shrink attempt, which drops the now wholly
// unused trailing set), leaving exactly one set holding the retained
// frame, then checks the next allocation doesn't reuse it.
func TestGrowShrink(t *testing.T) {
	p := NewPagePool()
	var vpns []uint64
	for i := 0; i < 65; i++ {
		vpn, err := p.Allocate()
		if err != nil {
			t.Fatalf("Allocate %d: %v", i, err)
		}
		vpns = append(vpns, uint64(vpn))
	}
	if got := p.NumSets(); got != 2 {
		t.Fatalf("expected grow to 2 sets after 65 allocations, got %d", got)
	}

	// Free all but the first; the sole survivor (vpns[0]) lives in the
	// first set, so the second, trailing set ends up wholly unused.
	for i := 1; i < 65; i++ {
		p.Free(addr.VirtPageNum(vpns[i]))
	}
	if got := p.NumSets(); got != 1 {
		t.Fatalf("expected shrink to 1 set, got %d", got)
	}

	next, err := p.Allocate()
	if err != nil {
		t.Fatalf("Allocate after shrink: %v", err)
	}
	if uint64(next) == vpns[0] {
		t.Fatalf("new allocation reused the retained frame")
	}
}

// TestInvariant checks |free| + |allocated| == pagesPerSet * |sets| holds
// across a mixed sequence of allocate/free calls.
func TestInvariant(t *testing.T) {
	p := NewPagePool()
	var held []uint64
	for i := 0; i < 200; i++ {
		if i%3 == 0 && len(held) > 0 {
			p.Free(addr.VirtPageNum(held[0]))
			held = held[1:]
		} else {
			vpn, err := p.Allocate()
			if err != nil {
				t.Fatalf("Allocate: %v", err)
			}
			held = append(held, uint64(vpn))
		}
		total := len(p.free) + len(p.allocated)
		want := pagesPerSet * len(p.sets)
		if total != want {
			t.Fatalf("step %d: |free|+|allocated|=%d, want %d", i, total, want)
		}
	}
}
