package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestScanFindsBreakpointAndSyscall(t *testing.T) {
	// NOP; INT3; NOP NOP; SYSCALL; NOP
	code := []byte{
		0x90,       // nop
		0xcc,       // int3
		0x90, 0x90, // nop nop
		0x0f, 0x05, // syscall
		0x90, // nop
	}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer r.Close()

	found := scan(w, code, 0x1000)
	w.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("reading pipe: %v", err)
	}

	if found != 2 {
		t.Fatalf("found = %d, want 2", found)
	}
	out := buf.String()
	if !strings.Contains(out, "0x00001001") {
		t.Errorf("output missing int3 offset: %q", out)
	}
	if !strings.Contains(out, "0x00001004") {
		t.Errorf("output missing syscall offset: %q", out)
	}
}

func TestScanNoMatches(t *testing.T) {
	code := []byte{0x90, 0x90, 0x90}
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	if found := scan(w, code, 0); found != 0 {
		t.Fatalf("found = %d, want 0", found)
	}
}
