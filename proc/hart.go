package proc

// HartID is a zero-based hardware thread index.
type HartID uint32

// SwitchReason records why HardwareThread.yieldOrExit was invoked:
// cooperative (DoYield) or forced by the periodic timer.
type SwitchReason int

const (
	SwitchYield SwitchReason = iota
	SwitchPeriodic
)

// HardwareThread is the per-hart executor: it owns the hart's slice of
// the GlobalPlan, tracks the thread presently running on it, and is the
// only thing that may call into the low-level context-switch primitives.
// Exactly one HardwareThread exists per physical hart; on riscv64 builds
// gp always points at the current hart's instance while executing in
// kernel mode.
type HardwareThread struct {
	ID HartID

	plan *GlobalPlan

	current        *Thread
	remainingTicks int
}

// NewHardwareThread constructs the per-hart executor for id, backed by
// plan's per-hart run queue.
func NewHardwareThread(id HartID, plan *GlobalPlan) *HardwareThread {
	return &HardwareThread{ID: id, plan: plan, remainingTicks: maxTicks}
}

// currentHart backs ThisHart on non-riscv64 builds and is what tests set
// directly; on riscv64 it is unused, ThisHart reads gp instead.
var currentHart *HardwareThread

// setCurrentHart installs h as ThisHart()'s answer, used by boot and by
// tests.
func setCurrentHart(h *HardwareThread) { currentHart = h }

// SetGP installs h as the value ThisHart() returns on the calling hart:
// on riscv64 it writes h into gp, elsewhere it sets the host test hook.
// Called exactly once per hart during boot.
func SetGP(h *HardwareThread) { setGP(h) }

// ThisHart returns the HardwareThread executing on the calling hart.
func ThisHart() *HardwareThread {
	if h := readGPHart(); h != nil {
		return h
	}
	return currentHart
}

// Current returns the thread presently running on this hart, or nil if
// the hart is idling.
func (h *HardwareThread) Current() *Thread { return h.current }

// AddThread enqueues t onto this hart's local run queue.
func (h *HardwareThread) AddThread(t *Thread, ctx SchedContext) bool {
	return h.plan.PolicyFor(h.ID).AddThread(t, ctx)
}

// EnterKernel is called once per hart at boot, after the first thread
// has been chosen: it never returns to its caller, instead sret-ing into
// that thread's context.
func (h *HardwareThread) EnterKernel(t *Thread) {
	h.current = t
	h.remainingTicks = maxTicks
	t.state.Kcontext.Leave()
}

// Tick is called from the timer interrupt handler, holding an
// InterruptToken: it decrements the running thread's timeslice and,
// if exhausted, forces a switch. Runs in Critical scheduling context —
// it must not allocate.
func (h *HardwareThread) Tick(_ InterruptToken) {
	if h.remainingTicks > 0 {
		h.remainingTicks--
	}
	if h.remainingTicks == 0 {
		h.remainingTicks = maxTicks
		h.yieldOrExit(SwitchPeriodic, true)
	}
}

// DoYield cooperatively gives up the remainder of the current thread's
// timeslice. Requires a ThreadToken: the caller must not be holding an
// IntrGuard or running inside a trap handler.
func (h *HardwareThread) DoYield(_ ThreadToken) {
	h.yieldOrExit(SwitchYield, true)
}

// ExitThread terminates the calling thread: it is removed from its
// process and never rescheduled. Like DoYield, requires a ThreadToken.
func (h *HardwareThread) ExitThread(_ ThreadToken) {
	outgoing := h.current
	if outgoing != nil && outgoing.proc != nil {
		outgoing.proc.RemoveThread(outgoing.ID)
	}
	h.yieldOrExit(SwitchYield, false)
}

// yieldOrExit is the common core of DoYield/Tick/ExitThread: pick the
// next runnable thread (idling if none), and switch to it. If
// requeueOutgoing is false the current thread is dropped instead of
// being placed back on a run queue (the ExitThread path).
func (h *HardwareThread) yieldOrExit(reason SwitchReason, requeueOutgoing bool) {
	outgoing := h.current

	ctx := NonCritical
	if reason == SwitchPeriodic {
		ctx = Critical
	}

	next := h.plan.PolicyFor(h.ID).Next(ctx)
	if next == nil {
		if outgoing == nil {
			return // nothing to do, nothing running: stay idle
		}
		if !requeueOutgoing {
			// No other thread to run and this one is exiting: the hart
			// idles. A real kernel would halt (WFI) here; tests never
			// reach this path with requeueOutgoing false and no
			// replacement ready.
			h.current = nil
			return
		}
		return // only the outgoing thread is runnable: keep running it
	}

	if outgoing != nil && requeueOutgoing {
		h.AddThread(outgoing, ctx)
	}
	if outgoing != nil && outgoing.onSuspend != nil {
		outgoing.onSuspend(outgoing)
	}

	h.current = next
	h.remainingTicks = maxTicks

	if outgoing == nil {
		next.state.Kcontext.Leave()
		return
	}

	h.llYield(outgoing, next)
}

// llYield performs the longjmp-style switch between two already-started
// threads: save the outgoing thread's kernel context, and if that save
// call returns nonzero (the save branch, not a later resume), restore
// the incoming thread's context.
func (h *HardwareThread) llYield(outgoing, incoming *Thread) {
	if saveContext(&outgoing.state.Kcontext) != 0 {
		incoming.state.Kcontext.Leave()
	}
	// Reached only when some later switch resumed outgoing via sret
	// landing at saveContext's resume label; outgoing.Kcontext.Leave()
	// already happened implicitly via sret, so there is nothing left to
	// do here.
}
