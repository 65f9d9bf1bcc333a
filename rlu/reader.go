package rlu

// ReaderLock opens a reader section for tid. It asserts run_cnt was even
// (no section already open), marks the thread a non-writer until a
// TryLock says otherwise, advances run_cnt to odd, and snapshots the
// global clock into local_clock. Every ReaderLock must be matched by
// exactly one ReaderUnlock or Abort.
func (g *Global[T]) ReaderLock(tid int) {
	t := g.thread(tid)
	if t.runCnt.Load()&1 != 0 {
		fatalf("ReaderLock", "thread %d: nested reader section", tid)
	}
	t.isWriter = false
	t.runCnt.Add(1)
	t.localClock.Store(g.globalClock.Load())
	logger.Printf("thread %d: reader_lock (local_clock=%d)", tid, t.localClock.Load())
}

// ReaderUnlock closes the reader section for tid. It asserts run_cnt was
// odd, advances it to even, and if the section called TryLock (whether or
// not the call succeeded), runs the commit pipeline before returning.
func (g *Global[T]) ReaderUnlock(tid int) {
	t := g.thread(tid)
	if t.runCnt.Load()&1 == 0 {
		fatalf("ReaderUnlock", "thread %d: unlock without a matching lock", tid)
	}
	t.runCnt.Add(1)
	logger.Printf("thread %d: reader_unlock", tid)
	if t.isWriter {
		t.isWriter = false
		g.commit(tid)
	}
}

// Dereference returns a pointer to the value an RLU-managed Ref should be
// read as, from the perspective of tid's current reader section. Three
// cases, in order:
//
//  1. The object is unlocked: return the original.
//  2. The object is locked by tid itself: return that copy's data ("read
//     your own writes").
//  3. The object is locked by another thread: steal the new value only if
//     that thread's write_clock (its commit timestamp) is at or before
//     tid's own local_clock snapshot -- otherwise tid is still looking at
//     a point in time before that writer logically committed, so it must
//     see the old value.
func (g *Global[T]) Dereference(tid int, ref Ref[T]) *T {
	obj := ref.obj
	c := obj.copy.Load()
	if c == nil {
		return &obj.data
	}
	if c.threadID == tid {
		return &c.data
	}

	locker := g.thread(c.threadID)
	caller := g.thread(tid)
	if locker.writeClock.Load() <= caller.localClock.Load() {
		return &c.data
	}
	return &obj.data
}
