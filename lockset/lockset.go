// Package lockset implements a sorted singly linked set of ints using
// hand-over-hand (lock-coupling) traversal over nodelock.Lock instead of
// RLU. It exists solely as a baseline cmd/rlubench can benchmark rluset
// against: same Contains/Insert/Delete/Len surface, a traditional locking
// discipline instead of speculative logging.
//
// Readers crab forward holding RLock on at most two adjacent nodes at
// once, releasing the trailing one as they advance. Writers do the same
// with Lock: holding a node's exclusive lock for the whole time it takes
// to reach (and lock) its successor means nobody else can ever change
// that node's next pointer out from under the walker, so Insert and
// Delete never need to re-validate or retry -- the held lock itself is
// the proof that nothing moved.
package lockset

import "github.com/4molybdenum2/safe-rlu/nodelock"

type node struct {
	key  int
	next *node
	lock *nodelock.Lock
}

// List is a sorted set of distinct ints, safe for concurrent use by many
// goroutines. The zero value is not usable; construct one with New.
type List struct {
	head *node
}

const minKey = -1 << 62

// New constructs an empty list.
func New() *List {
	return &List{head: &node{key: minKey, lock: nodelock.New()}}
}

// Contains reports whether key is present.
func (l *List) Contains(key int) bool {
	prev := l.head
	prev.lock.RLock()
	for prev.next != nil && prev.next.key < key {
		next := prev.next
		next.lock.RLock()
		prev.lock.RUnlock()
		prev = next
	}
	found := prev.next != nil && prev.next.key == key
	prev.lock.RUnlock()
	return found
}

// Len walks the whole list under RLock and returns its length.
func (l *List) Len() int {
	prev := l.head
	prev.lock.RLock()
	count := 0
	for prev.next != nil {
		next := prev.next
		next.lock.RLock()
		prev.lock.RUnlock()
		prev = next
		count++
	}
	prev.lock.RUnlock()
	return count
}

// Snapshot returns the set's elements in ascending order.
func (l *List) Snapshot() []int {
	prev := l.head
	prev.lock.RLock()
	var out []int
	for prev.next != nil {
		next := prev.next
		out = append(out, next.key)
		next.lock.RLock()
		prev.lock.RUnlock()
		prev = next
	}
	prev.lock.RUnlock()
	return out
}

// Insert adds key to the set, returning false if it was already present.
func (l *List) Insert(key int) bool {
	prev := l.head
	prev.lock.Lock()
	for prev.next != nil && prev.next.key < key {
		next := prev.next
		next.lock.Lock()
		prev.lock.Unlock()
		prev = next
	}
	if prev.next != nil && prev.next.key == key {
		prev.lock.Unlock()
		return false
	}

	newNode := &node{key: key, next: prev.next, lock: nodelock.New()}
	prev.next = newNode
	prev.lock.Unlock()
	return true
}

// Delete removes key from the set, returning false if it was absent.
func (l *List) Delete(key int) bool {
	prev := l.head
	prev.lock.Lock()
	for prev.next != nil && prev.next.key < key {
		next := prev.next
		next.lock.Lock()
		prev.lock.Unlock()
		prev = next
	}
	if prev.next == nil || prev.next.key != key {
		prev.lock.Unlock()
		return false
	}

	target := prev.next
	target.lock.Lock()
	prev.next = target.next
	target.lock.Unlock()
	prev.lock.Unlock()
	return true
}
