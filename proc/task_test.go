package proc

import "testing"

func TestSpawnEnqueuesAndRegistersWithProcess(t *testing.T) {
	plan := NewGlobalPlan(2)
	proc := NewLockedProcess()

	th, err := Spawn(plan, proc, func(ThreadToken) {})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if proc.ThreadCount() != 1 {
		t.Fatalf("ThreadCount() = %d, want 1", proc.ThreadCount())
	}
	total := plan.PolicyFor(0).Len() + plan.PolicyFor(1).Len()
	if total != 1 {
		t.Fatalf("expected exactly one hart queue to hold the new thread, got total %d", total)
	}
	if th.entry == nil {
		t.Fatal("spawned thread should carry its entry closure until first run")
	}
}

func TestSpawnThreadIDsAreMonotonicallyIncreasing(t *testing.T) {
	plan := NewGlobalPlan(1)
	proc := NewLockedProcess()

	a, err := Spawn(plan, proc, func(ThreadToken) {})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	b, err := Spawn(plan, proc, func(ThreadToken) {})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if b.ID <= a.ID {
		t.Fatalf("second spawn's ID %d is not strictly greater than the first's %d", b.ID, a.ID)
	}
}

func TestSpawnOnHartPins(t *testing.T) {
	plan := NewGlobalPlan(2)
	proc := NewLockedProcess()
	h0 := NewHardwareThread(0, plan)

	_, err := SpawnOnHart(h0, proc, func(ThreadToken) {})
	if err != nil {
		t.Fatalf("SpawnOnHart: %v", err)
	}
	if plan.PolicyFor(0).Len() != 1 {
		t.Fatalf("expected thread pinned to hart 0, got len %d", plan.PolicyFor(0).Len())
	}
	if plan.PolicyFor(1).Len() != 0 {
		t.Fatalf("hart 1 should be untouched, got len %d", plan.PolicyFor(1).Len())
	}
}
