//go:build riscv64

package proc

import "unsafe"

// readGP is implemented in gp_riscv64.s: returns the current value of gp
// (x3), which kernel-mode code keeps pointed at the running hart's
// HardwareThread.
func readGP() uintptr

func readGPHart() *HardwareThread {
	p := readGP()
	if p == 0 {
		return nil
	}
	return (*HardwareThread)(unsafe.Pointer(p))
}

// setGP is implemented in gp_riscv64.s: installs h as gp, called once per
// hart during boot before any thread runs on it.
func setGP(h *HardwareThread)
