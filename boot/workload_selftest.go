//go:build selftest

package boot

import (
	"github.com/losfair/riscv-hart-kernel/console"
	"github.com/losfair/riscv-hart-kernel/ksync"
	"github.com/losfair/riscv-hart-kernel/proc"
)

// testMutexWaitQueue backs the single shared mutex both worker threads
// contend on; a real deployment would size a WaitQueue once at boot and
// share it across every sleeping lock, not mint one per mutex.
var testMutexWaitQueue = ksync.NewWaitQueue()

// testMutex reproduces the original's TEST_MUTEX end-to-end workload: two
// threads each incrementing a shared counter 10000 times through the
// same sleeping mutex, yielding a few times while holding it to make
// contention likely. The final value must be exactly 20000.
var testMutex = ksync.NewMutex(testMutexWaitQueue, 0)

// runInitWorkload is the selftest build's variant: it spawns the two
// worker threads exercising ksync.Mutex under real scheduling, instead
// of workload_default.go's plain-yield demonstration.
func runInitWorkload(bs *bootState, tok proc.ThreadToken) {
	for id := 0; id < 2; id++ {
		id := id
		_, err := proc.Spawn(bs.plan, bs.process, func(workerTok proc.ThreadToken) {
			console.Printf("thread %d begins to wait for mutex\n", id)
			for i := 0; i < 10000; i++ {
				v := testMutex.Lock(workerTok)
				*v++
				for j := 0; j < 5; j++ {
					proc.ThisHart().DoYield(workerTok)
				}
				testMutex.Unlock()
				proc.ThisHart().DoYield(workerTok)
				proc.ThisHart().DoYield(workerTok)
			}
			console.Printf("thread %d done\n", id)
		})
		if err != nil {
			console.Printf("runInitWorkload: spawn worker %d failed: %v\n", id, err)
		}
	}
	proc.ThisHart().DoYield(tok)
}
