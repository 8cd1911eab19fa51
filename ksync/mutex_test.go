package ksync

import (
	"sync"
	"testing"

	"github.com/losfair/riscv-hart-kernel/proc"
)

// TestMutexMutualExclusion covers two goroutines each incrementing a
// shared counter 10000 times through the same Mutex: the final total
// must be exactly 20000, with no lost updates.
func TestMutexMutualExclusion(t *testing.T) {
	wq := NewWaitQueue()
	m := NewMutex(wq, 0)

	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		tok := proc.NewThreadTokenForTest()
		for i := 0; i < 10000; i++ {
			v := m.Lock(tok)
			*v++
			m.Unlock()
		}
	}

	wg.Add(2)
	go worker()
	go worker()
	wg.Wait()

	tok := proc.NewThreadTokenForTest()
	final := *m.Lock(tok)
	m.Unlock()
	if final != 20000 {
		t.Fatalf("final counter = %d, want 20000", final)
	}
}

func TestMutexUnlockWakesOneWaiter(t *testing.T) {
	wq := NewWaitQueue()
	m := NewMutex(wq, 0)
	tok := proc.NewThreadTokenForTest()

	v := m.Lock(tok) // acquire, holding it while a waiter queues up
	*v = 1

	acquired := make(chan struct{})
	go func() {
		waiterTok := proc.NewThreadTokenForTest()
		m.Lock(waiterTok)
		close(acquired)
	}()

	// Give the waiter a chance to actually park before unlocking.
	for wq.NumWaiting(m.addr()) == 0 {
	}

	m.Unlock()
	<-acquired
}
