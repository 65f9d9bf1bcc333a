package rlu

import "sync/atomic"

// ThreadContext holds everything one registered goroutine needs to drive
// reader and writer sections: its clocks, run counter, writer flag, two
// write logs with an active/draining selector, and a bounded free list.
// All clock and run-count fields are atomic so other threads'
// commit/synchronize phases can observe them without taking a lock.
//
// Fields are laid out with a trailing pad to reduce false sharing between
// adjacent entries in Global's fixed thread array.
type ThreadContext[T any] struct {
	id int

	// isWriter is touched only by the owning thread between ReaderLock
	// and the matching ReaderUnlock/Abort; never read cross-thread.
	isWriter bool

	localClock atomic.Int64
	writeClock atomic.Int64
	runCnt     atomic.Int64

	logs       [2]writeLog[T]
	currentLog int

	freeNodes [FreeMax]Ref[T]
	freeSize  int

	_ [56]byte // padding
}

func (t *ThreadContext[T]) init(id int) {
	t.id = id
	t.isWriter = false
	t.writeClock.Store(infinity)
	t.localClock.Store(0)
	t.runCnt.Store(0)
	t.currentLog = 0
	t.logs[0].reset()
	t.logs[1].reset()
	t.freeSize = 0
}

func (t *ThreadContext[T]) active() *writeLog[T] {
	return &t.logs[t.currentLog]
}
