// Command breakline disassembles a flat x86-64 binary (the small
// QEMU/OpenSBI firmware stub this kernel boots under, not the RISC-V64
// kernel image itself — x86/x86asm has no RISC-V decoder) and prints
// every breakpoint and syscall-class instruction it finds, by offset.
// It's a diagnostic aid for a boot hang: a firmware build that traps
// unexpectedly usually does so at one of these sites.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/arch/x86/x86asm"
)

func main() {
	path := flag.String("firmware", "", "path to the flat x86-64 firmware image")
	base := flag.Uint64("base", 0, "load address of the first byte of the image")
	flag.Parse()

	if *path == "" {
		log.Fatal("breakline: -firmware is required")
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("breakline: %v", err)
	}

	count := scan(os.Stdout, data, *base)
	if count == 0 {
		fmt.Println("no breakpoint or syscall-class instructions found")
	}
}

// scan decodes data as a stream of x86-64 instructions starting at
// address base, printing every INT3 (breakpoint) and SYSCALL/SYSENTER
// (privilege-transfer) site it walks past. It returns how many it
// found. Decode errors are skipped one byte at a time rather than
// aborting the whole scan, since a flat firmware image mixes code and
// data and there's no symbol table telling us where one ends.
func scan(w *os.File, data []byte, base uint64) int {
	found := 0
	off := 0
	for off < len(data) {
		inst, err := x86asm.Decode(data[off:], 64)
		if err != nil || inst.Len == 0 {
			off++
			continue
		}
		if isBreakpoint(inst) || inst.Op == x86asm.SYSCALL || inst.Op == x86asm.SYSENTER {
			fmt.Fprintf(w, "0x%08x: %s\n", base+uint64(off), inst.String())
			found++
		}
		off += inst.Len
	}
	return found
}

// isBreakpoint reports whether inst is the one-byte INT3 breakpoint
// trap. x86asm decodes it as the general INT opcode with an immediate
// operand of 3, rather than a dedicated INT3 constant.
func isBreakpoint(inst x86asm.Inst) bool {
	if inst.Op != x86asm.INT {
		return false
	}
	imm, ok := inst.Args[0].(x86asm.Imm)
	return ok && imm == 3
}
