package mapping

import (
	"github.com/losfair/riscv-hart-kernel/addr"
	"github.com/losfair/riscv-hart-kernel/pagepool"
	"github.com/losfair/riscv-hart-kernel/pagetable"
	"github.com/losfair/riscv-hart-kernel/proc"
)

// pagesBetween returns how many whole pages separate two page-aligned
// virtual addresses. A linker-script build pins these symbols in
// ascending order; host builds derive them from ordinary package-level
// variables, whose relative layout Go does not guarantee, so an
// out-of-order pair here maps zero pages instead of wrapping to an
// enormous count.
func pagesBetween(from, to addr.VirtAddr) uint64 {
	fromVPN, toVPN := uint64(from.VPN()), uint64(to.VPN())
	if toVPN <= fromVPN {
		return 0
	}
	return toVPN - fromVPN
}

// RemapKernel builds the boot hart's own page tables for the three
// kernel image segments the boot banner prints: executable text,
// read-only rodata, and writable data+bss through the end of RAM. Each
// segment identity-maps its virtual range to the matching physical
// frames (the kernel runs out of the high half with a constant
// KernelIdmapStart offset), matching the three-segment remap memory/boot.rs
// performs once the boot hart can no longer rely on the firmware's page
// tables.
func RemapKernel(pool pagepool.LockedPagePool, tok proc.ThreadToken) (*Mapping, error) {
	m, err := NewWithoutKernelRegion(pool, tok)
	if err != nil {
		return nil, err
	}

	textStart := addr.TextStart()
	rodataStart := addr.RodataStart()
	dataStart := addr.DataStart()

	segments := []Segment{
		{
			Start:    textStart.VPN(),
			NumPages: pagesBetween(textStart, rodataStart),
			Flags:    pagetable.Readable | pagetable.Executable,
			Backing:  directBackingFor(textStart),
		},
		{
			Start:    rodataStart.VPN(),
			NumPages: pagesBetween(rodataStart, dataStart),
			Flags:    pagetable.Readable,
			Backing:  directBackingFor(rodataStart),
		},
		{
			Start:    dataStart.VPN(),
			NumPages: pagesBetween(dataStart, addr.DataSegmentEnd()),
			Flags:    pagetable.Readable | pagetable.Writable,
			Backing:  directBackingFor(dataStart),
		},
	}

	for i := range segments {
		if err := m.MapSegment(&segments[i], tok); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func directBackingFor(va addr.VirtAddr) DirectBacking {
	pa, ok := va.ToPhys()
	if !ok {
		panic("mapping: RemapKernel: kernel image address has no physical mapping")
	}
	return DirectBacking{StartPPN: pa.PPN()}
}
