//go:build riscv64

package ksync

// disableInterrupts and enableInterrupts are implemented in
// intr_riscv64.s: they read and write the SIE bit of sstatus via csrrc
// and csrrs.

func disableInterrupts() bool

func enableInterrupts()
