// Package rluset implements a sorted singly linked set of ints on top of
// the rlu package -- a concrete collaborator data structure built purely
// on the RLU runtime's public surface: ReaderLock, Dereference, TryLock,
// Abort, and Free.
//
// Traversal never blocks: Contains is a pure reader section. Insert and
// Delete walk the list as readers to find their target, then TryLock the
// node(s) they need to mutate; on contention they Abort the whole section
// and retry from the top.
package rluset

import "github.com/4molybdenum2/safe-rlu/rlu"

type node struct {
	key  int
	next rlu.Ref[node]
}

// List is a sorted set of distinct ints. The zero value is not usable;
// construct one with New. A *List is safe to share across goroutines: all
// of its state lives behind the embedded *rlu.Global[node].
type List struct {
	g    *rlu.Global[node]
	head rlu.Ref[node]
}

// New constructs an empty list together with the Global it is built on.
// Every goroutine that will call List methods must first call ThreadInit
// (a thin pass-through to the underlying rlu.Global) exactly once.
func New() *List {
	g := rlu.NewGlobal[node]()
	head := g.Alloc(node{key: minKey})
	return &List{g: g, head: head}
}

// minKey is a sentinel smaller than any real element; the head node
// always carries it and is never exposed to callers.
const minKey = -1 << 62

// ThreadInit registers the calling goroutine and returns its thread id.
// Must be called once per goroutine before any other List method.
func (l *List) ThreadInit() int {
	return l.g.ThreadInit()
}

// Contains reports whether key is present. Pure reader section: never
// blocks, never retries.
func (l *List) Contains(tid int, key int) bool {
	l.g.ReaderLock(tid)
	defer l.g.ReaderUnlock(tid)

	cur := l.head
	for {
		n := l.g.Dereference(tid, cur)
		if n.next.IsZero() {
			return false
		}
		next := l.g.Dereference(tid, n.next)
		if next.key == key {
			return true
		}
		if next.key > key {
			return false
		}
		cur = n.next
	}
}

// Len walks the whole list in one reader section and returns its length.
func (l *List) Len(tid int) int {
	l.g.ReaderLock(tid)
	defer l.g.ReaderUnlock(tid)

	count := 0
	cur := l.head
	for {
		n := l.g.Dereference(tid, cur)
		if n.next.IsZero() {
			return count
		}
		count++
		cur = n.next
	}
}

// Snapshot returns the set's elements in ascending order, as of one
// reader section's view.
func (l *List) Snapshot(tid int) []int {
	l.g.ReaderLock(tid)
	defer l.g.ReaderUnlock(tid)

	var out []int
	cur := l.head
	for {
		n := l.g.Dereference(tid, cur)
		if n.next.IsZero() {
			return out
		}
		next := l.g.Dereference(tid, n.next)
		out = append(out, next.key)
		cur = n.next
	}
}

// Insert adds key to the set, returning false if it was already present.
// Retries the whole traversal-and-lock section on contention, and also
// if a concurrent writer relinked the predecessor between our read-only
// traversal and our lock (the standard lock-coupling validation step).
func (l *List) Insert(tid int, key int) bool {
	for {
		l.g.ReaderLock(tid)

		pred := l.head
		predNode := l.g.Dereference(tid, pred)
		oldNext := predNode.next
		for !oldNext.IsZero() {
			next := l.g.Dereference(tid, oldNext)
			if next.key == key {
				l.g.ReaderUnlock(tid)
				return false
			}
			if next.key > key {
				break
			}
			pred = oldNext
			oldNext = next.next
		}

		predPtr, ok := l.g.TryLock(tid, pred)
		if !ok {
			l.g.Abort(tid)
			continue
		}
		if !predPtr.next.Equal(oldNext) {
			l.g.Abort(tid)
			continue
		}

		newRef := l.g.Alloc(node{key: key, next: oldNext})
		predPtr.next = newRef

		l.g.ReaderUnlock(tid)
		return true
	}
}

// Delete removes key from the set, returning false if it was absent.
// Retries the whole traversal-and-lock section on contention, including
// when validation after locking detects a concurrent relink. Locks both
// the predecessor and the target node within one section -- the runtime
// permits a writer to hold more than one TryLock at once within a
// section.
func (l *List) Delete(tid int, key int) bool {
	for {
		l.g.ReaderLock(tid)

		pred := l.head
		predNode := l.g.Dereference(tid, pred)
		cur := predNode.next
		found := false
		for !cur.IsZero() {
			next := l.g.Dereference(tid, cur)
			if next.key == key {
				found = true
				break
			}
			if next.key > key {
				break
			}
			pred = cur
			cur = next.next
		}
		if !found {
			l.g.ReaderUnlock(tid)
			return false
		}
		target := cur

		predPtr, ok := l.g.TryLock(tid, pred)
		if !ok {
			l.g.Abort(tid)
			continue
		}
		if !predPtr.next.Equal(target) {
			l.g.Abort(tid)
			continue
		}
		targetPtr, ok := l.g.TryLock(tid, target)
		if !ok {
			l.g.Abort(tid)
			continue
		}

		predPtr.next = targetPtr.next
		l.g.Free(tid, target)

		l.g.ReaderUnlock(tid)
		return true
	}
}
