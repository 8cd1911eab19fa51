//go:build !riscv64

package boot

//go:noinline
func spinHint() {}
