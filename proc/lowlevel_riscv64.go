//go:build riscv64

package proc

// leaveContext is implemented in lowlevel_riscv64.s: it restores every
// general register, sstatus and sepc from c, then executes sret. It
// never returns.
func leaveContext(c *Context)

// saveContext is implemented in lowlevel_riscv64.s: the longjmp-style
// "returns twice" save used by llYield. On the save
// branch it stores the caller's register file into ctx and returns a
// nonzero value. When some later sret lands at the resume label baked
// into ctx.Sepc at save time, execution falls through to the same
// epilogue and the function "returns" zero instead, unwinding the
// caller's stack frame exactly where it left off.
func saveContext(ctx *Context) uint64

// threadTrampolineAddr returns the code address a freshly constructed
// thread's Kcontext.Sepc must point to: the asm shim that loads the
// Thread pointer out of a0 and calls runThreadEntry.
func threadTrampolineAddr() uint64
