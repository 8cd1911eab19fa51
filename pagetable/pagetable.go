// Package pagetable implements the Sv39 page table entry and table
// handle: three levels of 512-entry tables, one frame each, drawn from
// the page pool.
package pagetable

import (
	"unsafe"

	"github.com/losfair/riscv-hart-kernel/addr"
	"github.com/losfair/riscv-hart-kernel/pagepool"
)

// Flags packs the per-entry permission and status bits into bits 0..8 of
// an Entry.
type Flags uint64

const (
	Valid Flags = 1 << iota
	Readable
	Writable
	Executable
	User
	Global
	Accessed
	Dirty
)

const (
	flagsMask = 0x1ff
	ppnShift  = 10
	ppnMask   = (uint64(1) << 44) - 1
)

// Entry is one 64-bit Sv39 page table entry.
type Entry uint64

// NewEntry packs ppn and flags into a leaf or intermediate entry.
func NewEntry(ppn addr.PhysPageNum, flags Flags) Entry {
	return Entry((uint64(flags) & flagsMask) | (uint64(ppn)&ppnMask)<<ppnShift)
}

// IsEmpty reports whether the entry has never been written (all zero,
// i.e. not VALID and no PPN set).
func (e Entry) IsEmpty() bool { return e == 0 }

// PPN extracts the physical page number packed into e.
func (e Entry) PPN() addr.PhysPageNum {
	return addr.PhysPageNum((uint64(e) >> ppnShift) & ppnMask)
}

// Flags extracts the flag bits packed into e.
func (e Entry) Flags() Flags { return Flags(uint64(e) & flagsMask) }

// NextLevel returns a pointer to the table this entry refers to, valid
// only when e.Flags()&Valid != 0 and e is an intermediate (non-leaf)
// entry.
func (e Entry) NextLevel() *Table {
	va, ok := e.PPN().StartAddr().ToVirt()
	if !ok {
		panic("pagetable: Entry.NextLevel: PPN has no kernel-window mapping")
	}
	return (*Table)(unsafe.Pointer(uintptr(va)))
}

// Table is one 512-entry, 4 KiB-aligned Sv39 page table level.
type Table struct {
	Entries [512]Entry
}

// TableHandle owns exactly one page-pool frame holding a Table; Close
// returns that frame to the pool. Go has no Drop, so every owner of a
// TableHandle (mapping.Mapping) is responsible for calling Close when it
// releases the table, the explicit substitute for the original's
// implicit-drop TableHandle.
type TableHandle struct {
	table *Table
	vpn   addr.VirtPageNum
	pool  pagepool.LockedPagePool
	freed bool
}

// NewTable allocates a fresh, zeroed frame from pool and returns a handle
// to it, interpreted as a page table.
func NewTable(pool pagepool.LockedPagePool) (*TableHandle, error) {
	vpn, err := pool.Allocate()
	if err != nil {
		return nil, err
	}
	return &TableHandle{
		table: (*Table)(unsafe.Pointer(uintptr(vpn.StartAddr()))),
		vpn:   vpn,
		pool:  pool,
	}, nil
}

// Table returns the underlying table.
func (h *TableHandle) Table() *Table { return h.table }

// PPN returns the physical page number backing this table.
func (h *TableHandle) PPN() addr.PhysPageNum {
	pa, ok := addr.VirtAddr(h.vpn.StartAddr()).ToPhys()
	if !ok {
		panic("pagetable: TableHandle.PPN: table has no physical mapping")
	}
	return pa.PPN()
}

// Close returns the frame backing this table to its pool. Calling it more
// than once is a no-op; calling it on a table still referenced by a live
// mapping is the caller's responsibility to avoid.
func (h *TableHandle) Close() {
	if h.freed {
		return
	}
	h.freed = true
	h.pool.Free(h.vpn)
}
