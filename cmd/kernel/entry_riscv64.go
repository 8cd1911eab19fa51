//go:build riscv64

package main

import (
	"github.com/losfair/riscv-hart-kernel/addr"
	"github.com/losfair/riscv-hart-kernel/boot"
)

// bootHartID and bootDTB are filled in by _start (entry_riscv64.s)
// before it calls runKernel: OpenSBI enters the kernel with the
// booting hart's id in a0 and the device tree blob's physical address
// in a1, per the SBI firmware boot convention every hart observes.
var (
	bootHartID uint32
	bootDTB    uint64
)

// runKernel hands off to boot.Start and never returns; boot.Start
// itself never returns either; Start only returns control to its
// caller by entering a thread via Context.Leave, which issues sret
// and does not come back up the Go call stack.
func runKernel() {
	boot.Start(bootHartID, addr.PhysAddr(bootDTB))
	for {
	}
}
