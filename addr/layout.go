package addr

import (
	"unsafe"

	"github.com/losfair/riscv-hart-kernel/console"
)

// These six one-byte placeholders are each pinned to a segment boundary
// by scripts/kernel.ld; only their address matters, never their
// contents. This mirrors layout.rs's `extern "C" { static
// KERNEL_START: Data; }` externs, adapted to plain Go vars since Go's
// linker has no zero-sized-extern-symbol convention to borrow.
var (
	kernelStartSym [1]byte
	textStartSym   [1]byte
	rodataStartSym [1]byte
	dataStartSym   [1]byte
	bssStartSym    [1]byte
	kernelEndSym   [1]byte
)

func symAddr(p *[1]byte) VirtAddr { return VirtAddr(uintptr(unsafe.Pointer(p))) }

// KernelStart is the virtual address of the start of the kernel image.
func KernelStart() VirtAddr { return symAddr(&kernelStartSym) }

// TextStart is the virtual address of the start of the .text segment.
func TextStart() VirtAddr { return symAddr(&textStartSym) }

// RodataStart is the virtual address of the start of the .rodata segment.
func RodataStart() VirtAddr { return symAddr(&rodataStartSym) }

// DataStart is the virtual address of the start of the .data segment.
func DataStart() VirtAddr { return symAddr(&dataStartSym) }

// BSSStart is the virtual address of the start of the .bss segment.
func BSSStart() VirtAddr { return symAddr(&bssStartSym) }

// KernelEnd is the virtual address one past the end of the kernel image.
func KernelEnd() VirtAddr { return symAddr(&kernelEndSym) }

// PrintLayout dumps the kernel image layout and assumed RAM bounds to the
// console, matching layout.rs's boot-time banner.
func PrintLayout() {
	console.Println("Kernel image layout:")
	console.Printf("- Kernel start: %s\n", KernelStart())
	console.Printf("- Text start:   %s\n", TextStart())
	console.Printf("- Rodata start: %s\n", RodataStart())
	console.Printf("- Data start:   %s\n", DataStart())
	console.Printf("- BSS start:    %s\n", BSSStart())
	console.Printf("- Kernel end:   %s\n", KernelEnd())
	console.Printf("Assuming RAM [%s, %s)\n", RAMStart, RAMEnd)
}
