package mapping

import (
	"testing"

	"github.com/losfair/riscv-hart-kernel/addr"
	"github.com/losfair/riscv-hart-kernel/pagepool"
	"github.com/losfair/riscv-hart-kernel/pagetable"
	"github.com/losfair/riscv-hart-kernel/proc"
)

func testTok() proc.ThreadToken { return proc.NewThreadTokenForTest() }

func TestEntryCreatesIntermediateTables(t *testing.T) {
	pool := pagepool.NewLockedPagePool()
	m, err := NewWithoutKernelRegion(pool, testTok())
	if err != nil {
		t.Fatalf("NewWithoutKernelRegion: %v", err)
	}

	vpn := addr.VirtPageNum(0x1_0000)
	e, err := m.Entry(vpn, testTok())
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	if !e.IsEmpty() {
		t.Fatal("a freshly reached leaf entry should be empty")
	}
	// Walking the root + one L1 table should have allocated 2 extra
	// tables beyond the root.
	if len(m.tables) != 3 {
		t.Fatalf("len(tables) = %d, want 3 (root + L1 + L0)", len(m.tables))
	}

	// Re-fetching the same VPN must not allocate further tables.
	if _, err := m.Entry(vpn, testTok()); err != nil {
		t.Fatalf("Entry (second call): %v", err)
	}
	if len(m.tables) != 3 {
		t.Fatalf("re-fetching the same VPN grew tables to %d", len(m.tables))
	}
}

func TestMapOneRejectsDoubleMapping(t *testing.T) {
	pool := pagepool.NewLockedPagePool()
	m, err := NewWithoutKernelRegion(pool, testTok())
	if err != nil {
		t.Fatalf("NewWithoutKernelRegion: %v", err)
	}
	vpn := addr.VirtPageNum(42)
	if err := m.MapOne(vpn, addr.PhysPageNum(7), pagetable.Readable, testTok()); err != nil {
		t.Fatalf("MapOne: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("MapOne on an already-mapped vpn should panic")
		}
	}()
	m.MapOne(vpn, addr.PhysPageNum(8), pagetable.Writable, testTok())
}

func TestMapSegmentAnonymous(t *testing.T) {
	pool := pagepool.NewLockedPagePool()
	m, err := NewWithoutKernelRegion(pool, testTok())
	if err != nil {
		t.Fatalf("NewWithoutKernelRegion: %v", err)
	}
	seg := Segment{
		Start:    addr.VirtPageNum(0x2000),
		NumPages: 4,
		Flags:    pagetable.Readable | pagetable.Writable,
		Backing:  AnonymousBacking{},
	}
	if err := m.MapSegment(&seg, testTok()); err != nil {
		t.Fatalf("MapSegment: %v", err)
	}
	if len(m.ownedPages) != 4 {
		t.Fatalf("ownedPages = %d, want 4", len(m.ownedPages))
	}
	for i := uint64(0); i < seg.NumPages; i++ {
		vpn := addr.VirtPageNum(uint64(seg.Start) + i)
		e, err := m.Entry(vpn, testTok())
		if err != nil {
			t.Fatalf("Entry(%d): %v", i, err)
		}
		if e.IsEmpty() {
			t.Fatalf("page %d of segment was not mapped", i)
		}
	}
}

func TestMapSegmentEmptyMapsNothing(t *testing.T) {
	pool := pagepool.NewLockedPagePool()
	m, err := NewWithoutKernelRegion(pool, testTok())
	if err != nil {
		t.Fatalf("NewWithoutKernelRegion: %v", err)
	}
	seg := Segment{Start: addr.VirtPageNum(0x3000), NumPages: 0, Backing: AnonymousBacking{}}
	if err := m.MapSegment(&seg, testTok()); err != nil {
		t.Fatalf("MapSegment: %v", err)
	}
	if len(m.ownedPages) != 0 {
		t.Fatalf("ownedPages = %d, want 0", len(m.ownedPages))
	}
	if len(m.tables) != 1 {
		t.Fatalf("len(tables) = %d, want 1 (root only)", len(m.tables))
	}
}

func TestForkSharesKernelWindowEntry(t *testing.T) {
	pool := pagepool.NewLockedPagePool()
	parent, err := NewWithoutKernelRegion(pool, testTok())
	if err != nil {
		t.Fatalf("NewWithoutKernelRegion: %v", err)
	}

	kernelIdx := addr.KernelIdmapStart.VPN().Levels()[0]
	parent.tables[0].Table().Entries[kernelIdx] = pagetable.NewEntry(addr.PhysPageNum(0xface), pagetable.Valid)

	child, err := parent.Fork(pool, testTok())
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}
	got := child.tables[0].Table().Entries[kernelIdx]
	want := parent.tables[0].Table().Entries[kernelIdx]
	if got != want {
		t.Fatalf("child kernel-window entry = %#x, want %#x", uint64(got), uint64(want))
	}

	parent.Release(testTok())
	child.Release(testTok())
}

func TestReleaseIsIdempotentAndFreesPages(t *testing.T) {
	pool := pagepool.NewLockedPagePool()
	m, err := NewWithoutKernelRegion(pool, testTok())
	if err != nil {
		t.Fatalf("NewWithoutKernelRegion: %v", err)
	}
	seg := Segment{Start: addr.VirtPageNum(0x5000), NumPages: 2, Backing: AnonymousBacking{}}
	if err := m.MapSegment(&seg, testTok()); err != nil {
		t.Fatalf("MapSegment: %v", err)
	}
	m.Release(testTok())
	m.Release(testTok()) // must not double-free
}
