package ksync

import (
	"container/list"
	"sync"

	"github.com/losfair/riscv-hart-kernel/addr"
)

// WaitQueue is a futex-style wait queue keyed by the physical address of
// whatever word the caller is synchronizing on: any number of distinct
// locks or condition variables can share one WaitQueue as long as their
// addresses differ. Each address has its own FIFO list of waiters.
type WaitQueue struct {
	mu      sync.Mutex
	waiters map[addr.PhysAddr]*list.List
}

// NewWaitQueue returns an empty queue.
func NewWaitQueue() *WaitQueue {
	return &WaitQueue{waiters: make(map[addr.PhysAddr]*list.List)}
}

// Wait blocks the calling thread on pa until woken, unless stillWaiting
// (evaluated under the queue's internal lock, so it cannot race a
// concurrent WakeOne) already reports false. The predicate check and
// the reservation of the waiter's slot happen under that same lock, and
// both happen before the calling goroutine actually parks, so a WakeOne
// that lands between the reservation and the park is never lost.
func (q *WaitQueue) Wait(pa addr.PhysAddr, stillWaiting func() bool) {
	q.mu.Lock()
	if !stillWaiting() {
		q.mu.Unlock()
		return
	}
	ch := make(chan struct{}, 1)
	l, ok := q.waiters[pa]
	if !ok {
		l = list.New()
		q.waiters[pa] = l
	}
	l.PushBack(ch)
	q.mu.Unlock()

	<-ch
}

// WakeOne wakes the longest-waiting thread blocked on pa, if any, and
// reports whether one was woken.
func (q *WaitQueue) WakeOne(pa addr.PhysAddr) bool {
	q.mu.Lock()
	l, ok := q.waiters[pa]
	if !ok || l.Len() == 0 {
		q.mu.Unlock()
		return false
	}
	front := l.Front()
	l.Remove(front)
	if l.Len() == 0 {
		delete(q.waiters, pa)
	}
	q.mu.Unlock()

	ch := front.Value.(chan struct{})
	ch <- struct{}{}
	return true
}

// WakeAll wakes every thread currently blocked on pa and reports how
// many were woken.
func (q *WaitQueue) WakeAll(pa addr.PhysAddr) int {
	n := 0
	for q.WakeOne(pa) {
		n++
	}
	return n
}

// NumWaiting reports how many threads are currently blocked on pa
// (test/debug introspection).
func (q *WaitQueue) NumWaiting(pa addr.PhysAddr) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	l, ok := q.waiters[pa]
	if !ok {
		return 0
	}
	return l.Len()
}
