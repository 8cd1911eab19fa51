// Package boot sequences hardware bring-up: the boot hart builds the
// page pool and the kernel's own page tables, constructs the scheduling
// plan, spawns the init task and starts running; secondary harts (APs)
// wait to be released one at a time and join the same plan.
package boot

import "sync/atomic"

var (
	numHarts        atomic.Uint32
	currentBooting  atomic.Uint32
	currentBootDone atomic.Bool
)

func init() {
	numHarts.Store(1) // the boot hart counts itself
}

// NumHarts reports how many harts have joined so far, the boot hart
// included.
func NumHarts() uint32 {
	return numHarts.Load()
}

// WaitForAP spins for a fixed, short interval: the boot hart's crude
// rendezvous delay while polling for an AP to reach ApBoot, matching the
// original's busy-wait (no inter-processor interrupt is wired up for
// this).
func WaitForAP() {
	for i := 0; i < 1_000_000; i++ {
		spinHint()
	}
}

// APBoot is called by a secondary hart as its very first action: it
// registers itself, then blocks until the boot hart calls BootAP with
// this hart's ID.
func APBoot(hartID uint32, apInit func(), apStart func(uint32)) {
	apInit()
	numHarts.Add(1)
	for currentBooting.Load() != hartID {
		spinHint()
	}
	apStart(hartID)
}

// BootAP releases the AP currently spinning in APBoot for hartID.
func BootAP(hartID uint32) {
	currentBooting.Store(hartID)
}

// SetAPBootDone marks the AP bring-up handshake complete.
func SetAPBootDone() {
	currentBootDone.Store(true)
}

// ClearAPBootDone resets the handshake flag before booting the next AP.
func ClearAPBootDone() {
	currentBootDone.Store(false)
}

// APBootDone reports whether the current AP has finished its handshake.
func APBootDone() bool {
	return currentBootDone.Load()
}
