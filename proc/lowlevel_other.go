//go:build !riscv64

package proc

// These stand in for lowlevel_riscv64.s on host builds (tests, tooling)
// where there is no hart to trap into or out of.

func leaveContext(c *Context) {
	panic("proc: leaveContext: no hart to sret into outside riscv64")
}

func saveContext(ctx *Context) uint64 {
	return 1
}

func threadTrampolineAddr() uint64 {
	return 0
}
