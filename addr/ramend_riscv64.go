//go:build riscv64

package addr

// DataSegmentEnd is the upper bound of the kernel's data+bss segment:
// the real kernel maps all the way to the end of physical RAM, not just
// its own image, so the rest of RAM is available to later allocations
// out of the same segment's mapping.
func DataSegmentEnd() VirtAddr { return RAMEnd }
