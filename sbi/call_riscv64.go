//go:build riscv64

package sbi

// call issues an `ecall` with the given extension id and up to three
// argument registers (x10..x12), returning the value in x10. Implemented
// in call_riscv64.s.
func call(which, arg0, arg1, arg2 uintptr) uintptr
