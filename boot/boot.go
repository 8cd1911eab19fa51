package boot

import (
	"github.com/losfair/riscv-hart-kernel/addr"
	"github.com/losfair/riscv-hart-kernel/console"
	"github.com/losfair/riscv-hart-kernel/mapping"
	"github.com/losfair/riscv-hart-kernel/pagepool"
	"github.com/losfair/riscv-hart-kernel/proc"
)

// maxHarts bounds how many per-hart SimplePolicy slots GlobalPlan
// allocates up front; APs joining later than this would need a plan
// resize this kernel does not implement.
const maxHarts = 8

// bootState is everything built once, by the boot hart, and shared by
// every hart that subsequently joins.
type bootState struct {
	pool    pagepool.LockedPagePool
	plan    *proc.GlobalPlan
	kernel  *mapping.Mapping
	process *proc.LockedProcess
}

var global *bootState

// buildBootPlan runs the boot hart's one-time initialization: the page
// pool, the kernel's own page tables, the scheduling plan, and the init
// thread, but stops short of actually entering it. Split out from Start
// so it can be exercised without a real hart to sret into.
func buildBootPlan(dtbPA addr.PhysAddr) (*bootState, *proc.Thread, error) {
	console.Printf("booting: dtb at %s\n", dtbPA)
	addr.PrintLayout()

	pool := pagepool.NewLockedPagePool()
	tok := proc.NewThreadTokenForTest()

	kernel, err := mapping.RemapKernel(pool, tok)
	if err != nil {
		return nil, nil, err
	}

	plan := proc.NewGlobalPlan(maxHarts)
	process := proc.NewLockedProcess()

	bs := &bootState{pool: pool, plan: plan, kernel: kernel, process: process}
	global = bs

	initThread, err := proc.Spawn(plan, process, initTask(bs))
	if err != nil {
		return nil, nil, err
	}
	return bs, initThread, nil
}

// initTask returns the boot-time init thread body: it spawns the two
// cooperating worker tasks of the init workload (workload_selftest.go's
// mutex workload under the selftest build tag, workload_default.go's
// plain-yield pair otherwise), then exits, leaving them to run to
// completion.
func initTask(bs *bootState) proc.KernelTask {
	return func(tok proc.ThreadToken) {
		console.Println("init thread started")
		runInitWorkload(bs, tok)
		console.Println("init thread exiting")
		proc.ThisHart().ExitThread(tok)
	}
}

// Start is the entry point cmd/kernel's _start calls once per hart,
// after the assembly prologue has set up a stack and sp/gp are valid:
// hart 0 performs full boot-state construction, every other hart
// rendezvouses through APBoot and joins the existing plan.
func Start(hartID uint32, dtbPA addr.PhysAddr) {
	if hartID == 0 {
		startBootHart(dtbPA)
	} else {
		startAP(hartID)
	}
}

func startBootHart(dtbPA addr.PhysAddr) {
	bs, initThread, err := buildBootPlan(dtbPA)
	if err != nil {
		panic(err)
	}

	h := proc.NewHardwareThread(0, bs.plan)
	proc.SetGP(h)
	programTrapVector()
	programPeriodicTimer()

	h.EnterKernel(initThread)
}

func startAP(hartID uint32) {
	APBoot(hartID,
		func() { programTrapVector() },
		func(id uint32) {
			h := proc.NewHardwareThread(proc.HartID(id), global.plan)
			proc.SetGP(h)
			programPeriodicTimer()
			SetAPBootDone()

			idle, err := proc.SpawnOnHart(h, global.process, func(proc.ThreadToken) {})
			if err != nil {
				panic(err)
			}
			h.EnterKernel(idle)
		},
	)
}
