// Package console formats kernel output over the SBI console, following
// the original's print!/println! shim (console.rs) but built on
// fmt.Fprintf instead of hand-walking UTF-8 bytes, since Go's fmt works
// over any io.Writer without a no_std restriction.
package console

import (
	"fmt"
	"io"
	"sync"

	"golang.org/x/text/width"

	"github.com/losfair/riscv-hart-kernel/sbi"
)

// Writer sends every byte written to it to the firmware console one at a
// time via sbi.ConsolePutchar. It is safe for concurrent use by multiple
// harts; writes from different goroutines/harts are not interleaved
// mid-line.
var Writer io.Writer = &consoleWriter{}

type consoleWriter struct {
	mu sync.Mutex
}

func (w *consoleWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, b := range p {
		sbi.ConsolePutchar(b)
	}
	return len(p), nil
}

// Printf formats and writes to the console, like fmt.Printf but targeting
// the firmware console instead of stdout.
func Printf(format string, args ...any) {
	fmt.Fprintf(Writer, format, args...)
}

// Println is Printf's line-oriented sibling.
func Println(args ...any) {
	fmt.Fprintln(Writer, args...)
}

// padDisplay right-pads s with spaces so it occupies n terminal columns,
// accounting for wide runes the way a panic report's register table
// needs to when aligning columns (golang.org/x/text/width classifies
// each rune's on-screen width).
func padDisplay(s string, n int) string {
	cols := 0
	for _, r := range s {
		if width.LookupRune(r).Kind() == width.EastAsianWide {
			cols += 2
		} else {
			cols++
		}
	}
	if cols >= n {
		return s
	}
	out := make([]byte, 0, len(s)+n-cols)
	out = append(out, s...)
	for i := cols; i < n; i++ {
		out = append(out, ' ')
	}
	return string(out)
}

// RegisterTable formats a trap context's general-purpose registers as an
// aligned, fixed-width table for inclusion in a panic report
// (kpanic.FatalTrap), four "name = value" cells per line.
func RegisterTable(names []string, values []uint64) string {
	var b []byte
	for i, name := range names {
		b = append(b, padDisplay(fmt.Sprintf("%-4s", name), 6)...)
		b = append(b, fmt.Sprintf("= 0x%016x", values[i])...)
		if (i+1)%4 == 0 {
			b = append(b, '\n')
		} else {
			b = append(b, "  "...)
		}
	}
	return string(b)
}
