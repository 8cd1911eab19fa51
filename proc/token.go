package proc

// ThreadToken is a zero-sized capability witnessing "currently executing
// as an ordinary thread with interrupts enabled": holding one proves the
// caller may allocate, may suspend itself and may take sleeping locks.
// It is never stored in a struct field and never leaves the stack frame
// it was minted in — the Go equivalent of the original's non-Send,
// non-Sync, non-Copy marker type.
type ThreadToken struct{ _ noCopy }

// InterruptToken is the dual capability: "currently executing with
// interrupts masked", as inside a trap handler or a critical section
// guarded by IntrGuard. Holding one proves the caller must not allocate
// or block.
type InterruptToken struct{ _ noCopy }

// noCopy is embedded (never copied) purely so `go vet -copylocks` style
// tooling and careful readers flag accidental duplication of a token;
// tokens carry no state, only the proof that one exists.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// newThreadToken mints a ThreadToken. Inside this package it is called by
// runThreadEntry, for a thread's entry closure and for its closing
// ExitThread; NewThreadTokenForTest wraps it for other packages.
func newThreadToken() ThreadToken { return ThreadToken{} }

func newInterruptToken() InterruptToken { return InterruptToken{} }

// NewInterruptTokenForGuard mints an InterruptToken. It exists only for
// ksync.IntrGuard to call once it has actually masked interrupts on the
// calling hart; nothing else should call it.
func NewInterruptTokenForGuard() InterruptToken { return newInterruptToken() }

// NewThreadTokenForTest mints a ThreadToken outside of runThreadEntry's
// normal path, for package tests that need one without booting a real
// hart.
func NewThreadTokenForTest() ThreadToken { return newThreadToken() }
