//go:build !riscv64

package ksync

// interruptsEnabled simulates the hart's sstatus.SIE bit on host builds,
// so IntrGuard's nesting logic is exercisable by tests without a real
// CSR to read.
var interruptsEnabled = true

func disableInterrupts() bool {
	prev := interruptsEnabled
	interruptsEnabled = false
	return prev
}

func enableInterrupts() {
	interruptsEnabled = true
}
