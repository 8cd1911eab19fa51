// Package mapping builds and owns one address space's Sv39 page tables:
// allocating intermediate levels lazily, mapping individual frames or
// whole segments, forking a new mapping that shares an existing one's
// kernel window, and activating it on the calling hart.
package mapping

import (
	"runtime"

	"github.com/losfair/riscv-hart-kernel/addr"
	"github.com/losfair/riscv-hart-kernel/kpanic"
	"github.com/losfair/riscv-hart-kernel/ksync"
	"github.com/losfair/riscv-hart-kernel/pagepool"
	"github.com/losfair/riscv-hart-kernel/pagetable"
	"github.com/losfair/riscv-hart-kernel/proc"
)

// SegmentBacking describes where a Segment's frames come from.
type SegmentBacking interface {
	isSegmentBacking()
}

// AnonymousBacking means MapSegment allocates a fresh, zeroed frame from
// the pool for every page in the segment.
type AnonymousBacking struct{}

func (AnonymousBacking) isSegmentBacking() {}

// DirectBacking means the segment maps an existing, already-owned run of
// physical frames starting at StartPPN (used for the kernel's own
// text/rodata/data regions, which this Mapping never allocates or
// frees).
type DirectBacking struct {
	StartPPN addr.PhysPageNum
}

func (DirectBacking) isSegmentBacking() {}

// Segment is a contiguous run of virtual pages mapped with one set of
// permissions.
type Segment struct {
	Start    addr.VirtPageNum
	NumPages uint64
	Flags    pagetable.Flags
	Backing  SegmentBacking
}

// Mapping owns the page tables for one address space: every intermediate
// table it allocates and, for anonymously-backed segments, every data
// frame too. Release must be called before a Mapping is dropped (further
// calls are no-ops); a finalizer panics if one reaches the garbage
// collector still live, standing in for the original's Drop-time
// assertion.
type Mapping struct {
	tables       []*pagetable.TableHandle // tables[0] is the root (L2) table
	ownedPages   []addr.VirtPageNum
	rootPPN      addr.PhysPageNum
	pool         pagepool.LockedPagePool
	readyForDrop bool
}

func finalizeMapping(m *Mapping) {
	if !m.readyForDrop {
		kpanic.Fatalf("mapping: Mapping garbage-collected without Release")
	}
}

// NewWithoutKernelRegion allocates a fresh root table with no entries:
// the caller is expected to populate the kernel window itself (see
// RemapKernel) before activating this mapping.
func NewWithoutKernelRegion(pool pagepool.LockedPagePool, _ proc.ThreadToken) (*Mapping, error) {
	root, err := pagetable.NewTable(pool)
	if err != nil {
		return nil, err
	}
	m := &Mapping{
		tables:  []*pagetable.TableHandle{root},
		rootPPN: root.PPN(),
		pool:    pool,
	}
	runtime.SetFinalizer(m, finalizeMapping)
	return m, nil
}

// RootPPN returns the physical page number of this mapping's root table,
// the value Activate writes into satp.
func (m *Mapping) RootPPN() addr.PhysPageNum { return m.rootPPN }

// Entry returns a pointer to the leaf (L0) page table entry for vpn,
// allocating the intermediate L1/L0 tables along the way if they do not
// exist yet.
func (m *Mapping) Entry(vpn addr.VirtPageNum, _ proc.ThreadToken) (*pagetable.Entry, error) {
	levels := vpn.Levels()
	table := m.tables[0].Table()

	for depth := 0; depth < 2; depth++ {
		idx := levels[depth]
		e := &table.Entries[idx]
		if e.IsEmpty() {
			next, err := pagetable.NewTable(m.pool)
			if err != nil {
				return nil, err
			}
			m.tables = append(m.tables, next)
			*e = pagetable.NewEntry(next.PPN(), pagetable.Valid)
			table = next.Table()
		} else {
			table = e.NextLevel()
		}
	}

	return &table.Entries[levels[2]], nil
}

// MapOne installs a single leaf mapping vpn -> ppn with the given flags.
// It is an error (panic) to map a VPN that is already mapped: callers
// are expected to Entry().IsEmpty()-check first if overwriting is
// intentional.
func (m *Mapping) MapOne(vpn addr.VirtPageNum, ppn addr.PhysPageNum, flags pagetable.Flags, tok proc.ThreadToken) error {
	e, err := m.Entry(vpn, tok)
	if err != nil {
		return err
	}
	if !e.IsEmpty() {
		panic("mapping: MapOne: vpn already mapped")
	}
	*e = pagetable.NewEntry(ppn, flags|pagetable.Valid)
	return nil
}

// MapSegment installs every page of seg, allocating fresh frames for
// AnonymousBacking segments (and tracking them in ownedPages for Release
// to free) or mapping directly into DirectBacking's existing frames.
func (m *Mapping) MapSegment(seg *Segment, tok proc.ThreadToken) error {
	for i := uint64(0); i < seg.NumPages; i++ {
		vpn := addr.VirtPageNum(uint64(seg.Start) + i)

		var ppn addr.PhysPageNum
		switch b := seg.Backing.(type) {
		case AnonymousBacking:
			frameVPN, err := m.pool.Allocate()
			if err != nil {
				return err
			}
			m.ownedPages = append(m.ownedPages, frameVPN)
			pa, ok := addr.VirtAddr(frameVPN.StartAddr()).ToPhys()
			if !ok {
				panic("mapping: MapSegment: allocated frame has no physical mapping")
			}
			ppn = pa.PPN()
		case DirectBacking:
			ppn = addr.PhysPageNum(uint64(b.StartPPN) + i)
		default:
			panic("mapping: MapSegment: unknown SegmentBacking implementation")
		}

		if err := m.MapOne(vpn, ppn, seg.Flags, tok); err != nil {
			return err
		}
	}
	return nil
}

// Fork creates a new mapping sharing this one's kernel window: it
// asserts that the two lower VPN level indices of KernelIdmapStart are
// zero (i.e. the kernel window starts on the boundary of one root-level
// entry), then copies that single root-level entry into the new mapping
// so both address spaces observe identical kernel mappings without
// duplicating any intermediate table.
func (m *Mapping) Fork(pool pagepool.LockedPagePool, tok proc.ThreadToken) (*Mapping, error) {
	kernelLevels := addr.KernelIdmapStart.VPN().Levels()
	if kernelLevels[1] != 0 || kernelLevels[2] != 0 {
		panic("mapping: Fork: kernel window does not start on a root-entry boundary")
	}

	child, err := NewWithoutKernelRegion(pool, tok)
	if err != nil {
		return nil, err
	}

	rootTable := m.tables[0].Table()
	rootIdx := kernelLevels[0]

	childRoot := child.tables[0].Table()
	childRoot.Entries[rootIdx] = rootTable.Entries[rootIdx]
	return child, nil
}

// Activate installs this mapping's root table into satp and flushes the
// TLB, all with interrupts masked so the hart is never preempted mid
// address-space switch.
func (m *Mapping) Activate(_ proc.ThreadToken) {
	ksync.WithoutInterrupts(func(proc.InterruptToken) {
		setSatp(addr.Satp(m.rootPPN))
		sfenceVMA()
	})
}

// Release frees every page table this mapping allocated and every
// anonymously-backed data frame, and marks the mapping safe to garbage
// collect. Calling any other method after Release is a programming
// error.
func (m *Mapping) Release(_ proc.ThreadToken) {
	if m.readyForDrop {
		return
	}
	for _, t := range m.tables {
		t.Close()
	}
	for _, vpn := range m.ownedPages {
		m.pool.Free(vpn)
	}
	m.tables = nil
	m.ownedPages = nil
	m.readyForDrop = true
}
