package proc

import (
	"sync"
	"sync/atomic"
)

// ProcessID identifies an address-space owner. Multiple threads may
// belong to the same process, even though nothing in this kernel yet
// schedules more than one user address space per hart.
type ProcessID uint64

var nextProcessID atomic.Uint64

func allocProcessID() ProcessID { return ProcessID(nextProcessID.Add(1)) }

// Process groups the threads sharing one address space.
type Process struct {
	ID      ProcessID
	threads []*Thread
}

// LockedProcess is the shared, mutex-guarded handle every Thread holds a
// reference to.
type LockedProcess struct {
	mu      sync.Mutex
	process Process
}

// NewLockedProcess allocates a fresh, empty process.
func NewLockedProcess() *LockedProcess {
	return &LockedProcess{process: Process{ID: allocProcessID()}}
}

// AddThread records t as belonging to this process.
func (p *LockedProcess) AddThread(t *Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.process.threads = append(p.process.threads, t)
}

// RemoveThread drops t from this process's thread list, e.g. on exit.
func (p *LockedProcess) RemoveThread(id ThreadID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ts := p.process.threads
	for i, t := range ts {
		if t.ID == id {
			p.process.threads = append(ts[:i], ts[i+1:]...)
			return
		}
	}
}

// ThreadCount reports how many threads currently belong to this process.
func (p *LockedProcess) ThreadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.process.threads)
}

// GlobalPlan is the system-wide scheduling state: one Policy per hart,
// sized at boot once the hart count is known.
type GlobalPlan struct {
	policies []*SimplePolicy
}

// NewGlobalPlan allocates one SimplePolicy per hart.
func NewGlobalPlan(numHarts int) *GlobalPlan {
	g := &GlobalPlan{policies: make([]*SimplePolicy, numHarts)}
	for i := range g.policies {
		g.policies[i] = NewSimplePolicy()
	}
	return g
}

// PolicyFor returns the policy owning hart id's local run queue.
func (g *GlobalPlan) PolicyFor(id HartID) *SimplePolicy {
	return g.policies[id]
}

// Enqueue adds t to the least-loaded hart's run queue, the global plan's
// only load-balancing decision: there is no work stealing beyond
// placement at enqueue time.
func (g *GlobalPlan) Enqueue(t *Thread) bool {
	best := 0
	for i, p := range g.policies {
		if p.Len() < g.policies[best].Len() {
			best = i
		}
	}
	return g.policies[best].AddThread(t, NonCritical)
}
