//go:build !selftest

package boot

import (
	"github.com/losfair/riscv-hart-kernel/console"
	"github.com/losfair/riscv-hart-kernel/proc"
)

// runInitWorkload spawns two threads that cooperatively yield a handful
// of times and exit, the minimal demonstration that spawning and
// cross-thread scheduling both work. Build with -tags selftest for the
// fuller mutex-contention workload.
func runInitWorkload(bs *bootState, tok proc.ThreadToken) {
	for id := 0; id < 2; id++ {
		id := id
		_, err := proc.Spawn(bs.plan, bs.process, func(workerTok proc.ThreadToken) {
			for i := 0; i < 5; i++ {
				console.Printf("worker %d: yield %d\n", id, i)
				proc.ThisHart().DoYield(workerTok)
			}
		})
		if err != nil {
			console.Printf("runInitWorkload: spawn worker %d failed: %v\n", id, err)
		}
	}
	proc.ThisHart().DoYield(tok)
}
