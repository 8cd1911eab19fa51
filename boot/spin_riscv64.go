//go:build riscv64

package boot

// spinHint is implemented in spin_riscv64.s: a single volatile NOP,
// matching the original's inline-asm empty statement that stops the
// compiler from folding the whole busy-wait loop away.
func spinHint()
