package rlu

// commit runs the full write-commit pipeline for tid, invoked only from
// ReaderUnlock when the section called TryLock at least once (TryLock
// marks the section a writer section whether or not it succeeds). Phases run in this strict order; steps 3 and 4 must happen
// strictly after step 2 (synchronize) returns, and steps 1 and 5 are each
// a single sequentially-consistent store.
func (g *Global[T]) commit(tid int) {
	g.timestamp(tid)
	g.synchronize(tid)
	g.writeback(tid)
	g.unlockLog(tid)
	g.thread(tid).writeClock.Store(infinity)
	g.swapLogs(tid)
	g.processFree(tid)
}

// timestamp is commit phase 1: the writer claims the next global clock
// value as its own commit timestamp, then advances the global clock.
// After this store, the writer is logically committed at write_clock
// even though synchronize/writeback/unlock haven't run yet -- readers
// racing to observe this thread's copies via Dereference decide "steal or
// not" by comparing against this value: this store happens-before any
// reader's observation of a stale copy pointer.
func (g *Global[T]) timestamp(tid int) {
	t := g.thread(tid)
	t.writeClock.Store(g.globalClock.Load() + 1)
	g.globalClock.Add(1)
	logger.Printf("thread %d: commit timestamp=%d", tid, t.writeClock.Load())
}

// synchronize is commit phase 2: drain every other thread whose reader
// snapshot predates this commit, so that writeback/unlock never race a
// reader still looking at the pre-commit state.
//
// For each other thread i we snapshot its run_cnt once, then spin until
// one of three conditions holds:
//
//   - the snapshot was even: thread i wasn't in a reader section when we
//     looked, so it cannot be relying on pre-commit data from that
//     section;
//   - run_cnt has since changed: thread i ended (or ended and restarted)
//     the section we snapshotted, so any section live at the time of that
//     snapshot is over;
//   - our write_clock is at or before thread i's local_clock: thread i's
//     own snapshot already starts at or after our commit, so it will
//     already prefer our new copies via Dereference's stealing rule.
//
// No ordering beyond sequentially consistent atomics is required; this is
// the only suspension point in the whole runtime.
func (g *Global[T]) synchronize(tid int) {
	self := g.thread(tid)
	n := int(g.nThreads.Load())

	syncCnts := make([]int64, n)
	for i := 0; i < n; i++ {
		syncCnts[i] = g.threads[i].runCnt.Load()
	}

	for i := 0; i < n; i++ {
		if i == tid {
			continue
		}
		other := &g.threads[i]
		for {
			if syncCnts[i]%2 == 0 {
				break
			}
			if other.runCnt.Load() != syncCnts[i] {
				break
			}
			if self.writeClock.Load() <= other.localClock.Load() {
				break
			}
		}
	}
	logger.Printf("thread %d: synchronize complete", tid)
}

// writeback is commit phase 3: copy each logged Copy's speculative data
// back into its original object. Must run after synchronize returns.
func (g *Global[T]) writeback(tid int) {
	log := g.thread(tid).active()
	for i := 0; i < log.size; i++ {
		c := &log.slots[i]
		c.original.data = c.data
	}
	logger.Printf("thread %d: writeback %d entries", tid, log.size)
}

// unlockLog is commit phase 4: null out each logged Copy's object
// lock-pointer, publishing the new original value and releasing the
// object for the next writer's CAS -- this store happens-before the next
// writer's successful CAS on the same object. Also used by Abort, on the
// same active log, to unwind an aborted writer's already-CAS'd copies.
func (g *Global[T]) unlockLog(tid int) {
	log := g.thread(tid).active()
	for i := 0; i < log.size; i++ {
		c := &log.slots[i]
		c.original.copy.Store(nil)
	}
	log.reset()
}

// swapLogs is commit phase 6: flip the active/draining log selector and
// clear the new active log's size, so the next writer session can start
// filling it while whatever remains of the prior log's bookkeeping (none,
// by this point -- writeback/unlock already drained it) has no further
// use.
func (g *Global[T]) swapLogs(tid int) {
	t := g.thread(tid)
	t.currentLog = 1 - t.currentLog
	t.active().reset()
	logger.Printf("thread %d: swap logs -> %d", tid, t.currentLog)
}

// processFree is commit phase 7: deallocate everything on tid's free
// list. This runs after synchronize, which is what makes it safe -- no
// reader whose section predates this commit is still live to dereference
// an object being freed here.
func (g *Global[T]) processFree(tid int) {
	t := g.thread(tid)
	for i := 0; i < t.freeSize; i++ {
		t.freeNodes[i] = Ref[T]{}
	}
	t.freeSize = 0
	logger.Printf("thread %d: process_free done", tid)
}
