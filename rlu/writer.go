package rlu

// TryLock attempts to take ref for writing within tid's current reader
// section. It marks the section a writer section
// regardless of outcome -- even a failed attempt means the caller will
// Abort, which must still unwind any copies already published by earlier
// TryLock calls in the same section.
//
// Three outcomes:
//
//   - ref is already locked by tid: re-returns a pointer to that copy's
//     data. The owner's run_cnt is compared with tid's current run_cnt,
//     which is the same counter, so this always succeeds; a copy never
//     outlives the section that took it, since commit and Abort both
//     release every copy in the active log.
//   - ref is locked by another thread: returns (nil, false). This is
//     ordinary, expected contention, not a fault -- the caller should
//     Abort and retry.
//   - ref is unlocked: reserves the next slot in tid's active write log,
//     clones the current value into it, and CASes the object's
//     lock-pointer from nil to that slot. A lost CAS race (another writer
//     got there first) rewinds the reservation and returns (nil, false).
func (g *Global[T]) TryLock(tid int, ref Ref[T]) (*T, bool) {
	t := g.thread(tid)
	t.isWriter = true

	obj := ref.obj
	if existing := obj.copy.Load(); existing != nil {
		if existing.threadID == tid {
			owner := g.thread(existing.threadID)
			if owner.runCnt.Load() == t.runCnt.Load() {
				logger.Printf("thread %d: try_lock re-entrant hit", tid)
				return &existing.data, true
			}
		}
		return nil, false
	}

	active := t.active()
	idx := active.reserve("TryLock")
	slot := &active.slots[idx]
	slot.threadID = tid
	slot.original = obj
	slot.data = obj.data

	if !obj.copy.CompareAndSwap(nil, slot) {
		active.rewind()
		return nil, false
	}

	logger.Printf("thread %d: try_lock acquired", tid)
	return &slot.data, true
}

// Abort unwinds tid's current writer section: run_cnt returns to even
// (asserted to have been odd), and if the section had acquired any
// copies, they are unlocked (but never written back) and the active log
// is discarded. Callers retry the whole reader section from ReaderLock.
func (g *Global[T]) Abort(tid int) {
	t := g.thread(tid)
	prev := t.runCnt.Add(1) - 1
	if prev&1 == 0 {
		fatalf("Abort", "thread %d: abort outside a reader section", tid)
	}
	logger.Printf("thread %d: abort", tid)
	if t.isWriter {
		t.isWriter = false
		g.unlockLog(tid)
		t.active().reset()
	}
}
