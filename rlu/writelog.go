package rlu

// writeLog is a fixed-capacity ordered sequence of speculative copies
// owned by exactly one thread. A thread holds
// two of these; at any time exactly one is "active": TryLock writes into
// it, and commit's writeback and unlockLog drain that same log before
// swapLogs makes the other one active. Logs are never shared across
// threads.
type writeLog[T any] struct {
	slots [LogMax]copyRec[T]
	size  int
}

// reserve appends a new, uninitialized slot and returns its index. The
// caller fills in the slot's fields and, on CAS failure against the
// object's lock-pointer, must call rewind to give the slot back.
func (l *writeLog[T]) reserve(op string) int {
	if l.size >= LogMax {
		fatalf(op, "write log saturated at capacity %d", LogMax)
	}
	idx := l.size
	l.size++
	return idx
}

// rewind discards the most recently reserved slot. Used only when the
// CAS publishing that slot as an object's lock-pointer loses the race.
func (l *writeLog[T]) rewind() {
	l.size--
}

// reset empties the log in place without touching its backing array;
// old copyRec values are simply overwritten as new slots are reserved.
func (l *writeLog[T]) reset() {
	l.size = 0
}
