//go:build !riscv64

package proc

// readGPHart always falls through to the currentHart test/boot hook on
// non-riscv64 builds; there is no gp register to read.
func readGPHart() *HardwareThread { return nil }

func setGP(h *HardwareThread) { setCurrentHart(h) }
