// Copyright 2020 Nathan Taylor (nbtaylor@gmail.com)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package nodelock implements the per-node lock lockset crabs across while
// walking a linked chain: the traditional locking-based alternative to RLU
// that cmd/rlubench benchmarks RLU against.
//
// Consider a singly linked list traversed by many goroutines concurrently.
// A single lock over the whole list would serialize every insert and delete
// against every read, anywhere in the list. Lock-coupling (also called
// crabbing) fixes this with one lock per node: before stepping from node A
// to node B, a goroutine takes B's lock and only then releases A's. Holding
// two adjacent locks at once during the handoff is what makes it safe --
// nobody can splice a new node in front of B, or delete B, while the walker
// holds either A or B.
//
// Unlike a tree or trie, a linked list has no branching: a walker only ever
// needs to reason about the one node it is leaving and the one it is
// entering, never about a whole subtree hanging off to the side. That means
// there is no need for a separate "intention" mode signaling a walk-through
// as distinct from a real hold -- every node a walker touches gets a real
// hold, for as long as it takes to reach the next one. So this lock has
// exactly two modes:
//
// `RLock` grants shared access: any number of readers may hold a node in
// RLock at once, for following the chain read-only or inspecting the node's
// key.
//
// `Lock` grants exclusive access: a writer linking or unlinking a node
// holds it alone. Lock blocks while the node is held in RLock or Lock by
// anyone else.
//
// lockset's crabbing writers hold Lock on a node until they have Lock on
// its successor (or have finished mutating it), so there is never a window
// in which a node's next pointer can change while a walker is mid-stride
// past it -- no optimistic re-validation is needed anywhere in this package.
package nodelock

import (
	"sync"
	"sync/atomic"
)

const (
	writerHeld  uint64 = 1 << 63
	readerMask  uint64 = writerHeld - 1
)

// Lock is a per-node reader/writer lock for crabbing traversal. The zero
// value is not usable; construct one with New.
//
// state packs both the exclusive flag and the reader count into one word.
// RLock and Lock take mtx to test compatibility and register, waiting on c
// while the state is incompatible; RUnlock and Unlock update state without
// mtx and broadcast on c.
type Lock struct {
	mtx   sync.Mutex
	c     *sync.Cond
	state uint64
}

// New returns a new, unlocked Lock.
func New() *Lock {
	var l Lock
	l.c = sync.NewCond(&l.mtx)
	return &l
}

func compatibleWithR(state uint64) bool {
	return state&writerHeld == 0
}

func compatibleWithW(state uint64) bool {
	return state == 0
}

// registerR records one more reader and reports whether doing so was
// compatible with the state held just beforehand.
func (l *Lock) registerR() bool {
	for {
		state := atomic.LoadUint64(&l.state)
		newState := state + 1
		if atomic.CompareAndSwapUint64(&l.state, state, newState) {
			return compatibleWithR(state)
		}
	}
}

func (l *Lock) registerW() bool {
	for {
		state := atomic.LoadUint64(&l.state)
		if atomic.CompareAndSwapUint64(&l.state, state, state|writerHeld) {
			return compatibleWithW(state)
		}
	}
}

// RLock takes the lock for shared (read) access. Blocks while the node is
// held exclusively.
func (l *Lock) RLock() {
	l.mtx.Lock()
	for !compatibleWithR(atomic.LoadUint64(&l.state)) {
		l.c.Wait()
	}
	l.registerR()
	l.mtx.Unlock()
}

// RUnlock releases one reader hold and, if that was the last one, wakes
// blocked callers.
func (l *Lock) RUnlock() {
	var state uint64
	for {
		old := atomic.LoadUint64(&l.state)
		state = old - 1
		if atomic.CompareAndSwapUint64(&l.state, old, state) {
			break
		}
	}
	if state&readerMask == 0 {
		l.c.Broadcast()
	}
}

// Lock takes the lock for exclusive access. Blocks while the node is held
// by any reader or the other writer.
func (l *Lock) Lock() {
	l.mtx.Lock()
	for !compatibleWithW(atomic.LoadUint64(&l.state)) {
		l.c.Wait()
	}
	l.registerW()
	l.mtx.Unlock()
}

// Unlock releases the exclusive hold and wakes blocked callers.
func (l *Lock) Unlock() {
	for {
		state := atomic.LoadUint64(&l.state)
		if atomic.CompareAndSwapUint64(&l.state, state, state&^writerHeld) {
			break
		}
	}
	l.c.Broadcast()
}
