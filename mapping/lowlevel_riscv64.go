//go:build riscv64

package mapping

// setSatp and sfenceVMA are implemented in lowlevel_riscv64.s.

func setSatp(value uint64)

func sfenceVMA()
