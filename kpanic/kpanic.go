// Package kpanic is the kernel's fatal-error path: it formats a message,
// writes it to the console, and shuts the machine down. It never returns.
//
// It is the sink for invariant violations and unhandled traps, the
// direct analogue of panic.rs's #[panic_handler].
package kpanic

import (
	"github.com/losfair/riscv-hart-kernel/console"
	"github.com/losfair/riscv-hart-kernel/sbi"
)

// Fatalf prints a red-bannered message to the console, then shuts down.
// It never returns, but is not typed `-> !` the way Rust would since Go
// has no bottom type; callers that need the compiler to know control
// doesn't fall through should immediately follow with a `panic` or an
// infinite loop, matching how this function itself never returns from
// Shutdown.
func Fatalf(format string, args ...any) {
	console.Printf("\x1b[1;31mpanic: ")
	console.Printf(format, args...)
	console.Printf("\x1b[0m\n")
	sbi.Shutdown()
}

// FatalTrap reports an unhandled trap cause along with the sepc it
// trapped at and the interrupted register dump, then shuts down.
func FatalTrap(cause string, sepc uint64, dump string) {
	console.Printf("\x1b[1;31munhandled trap: %s (sepc=0x%x)\n%s\x1b[0m\n", cause, sepc, dump)
	sbi.Shutdown()
}
