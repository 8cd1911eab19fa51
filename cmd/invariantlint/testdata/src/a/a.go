package a

import (
	"ksync"
	"pagepool"
)

func HandleTick() {
	ksync.Wait() // want "interrupt-reachable function \"HandleTick\" calls a blocking ksync wait-queue operation"
}

func trapDispatch() {
	ksync.WakeOne() // want "interrupt-reachable function \"trapDispatch\" calls a blocking ksync wait-queue operation"
}

func runsOnAnOrdinaryThread() {
	ksync.Wait() // no diagnostic: not on an interrupt path
}

type SimplePolicy struct{}

func (p *SimplePolicy) Next() {
	pagepool.Allocate() // want "scheduling-policy method \"Next\" calls into pagepool while the run queue is locked"
}

func (p *SimplePolicy) AddThread() {
	pagepool.Free() // want "scheduling-policy method \"AddThread\" calls into pagepool while the run queue is locked"
}

func (p *SimplePolicy) Len() int {
	pagepool.Allocate() // no diagnostic: Len is not one of the flagged policy methods
	return 0
}
