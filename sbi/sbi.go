// Package sbi wraps the Supervisor Binary Interface call surface that
// OpenSBI (or any other firmware booting this kernel) exposes via `ecall`.
//
// The kernel core consumes firmware services only through this
// interface. The legacy SBI v0.1 extension ids are used for the four
// calls the kernel needs: set_timer (0), console_putchar (1),
// send_ipi (4), shutdown (8).
package sbi

import "unsafe"

const (
	extSetTimer        = 0
	extConsolePutchar  = 1
	extConsoleGetchar  = 2
	extClearIPI        = 3
	extSendIPI         = 4
	extRemoteFenceI    = 5
	extRemoteSfenceVMA = 6
	extShutdown        = 8
)

// SetTimer schedules the next supervisor timer interrupt for the given
// absolute `time` CSR value.
func SetTimer(cycles uint64) {
	call(extSetTimer, uintptr(cycles), 0, 0)
}

// ConsolePutchar writes a single byte to the firmware console.
func ConsolePutchar(b byte) {
	call(extConsolePutchar, uintptr(b), 0, 0)
}

// ConsoleGetchar reads one byte from the firmware console, or -1 if none
// is available.
func ConsoleGetchar() int {
	return int(int32(call(extConsoleGetchar, 0, 0, 0)))
}

// SendIPI posts an inter-processor interrupt to every hart named in the
// bitmask pointed to by hartMask.
func SendIPI(hartMask *uintptr) {
	call(extSendIPI, uintptr(unsafe.Pointer(hartMask)), 0, 0)
}

// Shutdown powers the machine off. It never returns.
func Shutdown() {
	call(extShutdown, 0, 0, 0)
	for {
	}
}
