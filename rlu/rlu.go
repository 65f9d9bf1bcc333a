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

// Package rlu implements Read-Log-Update, a synchronization discipline that
// lets many reader goroutines traverse a shared mutable object graph without
// ever blocking, while a small number of writer goroutines mutate objects
// through speculative per-thread write logs that are published atomically.
//
// RLU is strictly stronger than RCU: it permits coordinated writes across
// more than one object in a single commit. It is also simpler to program
// against than fine-grained locking, because a writer's updates are either
// all visible or none are, regardless of how many objects it touched.
//
// ## Overview
//
// Every object managed by this package carries an atomic "lock-pointer":
// nil when the object is unlocked, or a pointer to a speculative Copy owned
// by exactly one writer when locked. Readers never take this pointer as a
// lock; they use it only to decide whether to read the object's original
// data or a copy's speculative data, based on a comparison between a clock
// value captured when the copy's writer committed and a clock value
// captured when the reader's section began.
//
// A goroutine alternates between reader sections (ReaderLock/Dereference/
// ReaderUnlock) and, within such a section, optional write attempts
// (TryLock). A reader section that called TryLock at least once
// becomes a writer on ReaderUnlock: its speculative copies are
// published through a commit pipeline (timestamp, synchronize, writeback,
// unlock, swap, process-free) before ReaderUnlock returns.
//
// Contention on TryLock is not a fault -- the caller is expected to Abort
// the section and retry it from the top. Exceeding any of the compile-time
// capacities below (thread registry, a thread's active write log, a
// thread's free list) is a fatal, unrecoverable condition: this package
// panics rather than returning a recoverable error, because the caller
// configured the capacities and can only fix this by raising them.
//
// The state transitions that matter to an external caller:
//
//	+----------------+-----------+------------------------------+
//	| Operation      | Faults?   | Recoverable outcome           |
//	+----------------+-----------+------------------------------+
//	| ReaderLock     | fatal if  | -                             |
//	|                | nested    |                               |
//	| Dereference    | no        | pointer to current value      |
//	| TryLock        | fatal if  | (nil, false) on contention    |
//	|                | log full  |                               |
//	| Abort          | fatal if  | section ended, may retry      |
//	|                | no section|                               |
//	| ReaderUnlock   | fatal if  | commits pending writes if any |
//	|                | no section|                               |
//	| Alloc          | no        | new object handle             |
//	| Free           | fatal if  | -                              |
//	|                | list full |                                |
//	+----------------+-----------+------------------------------+
package rlu

import (
	"io"
	"log"
)

// Compile-time capacities. These intentionally cannot be changed at
// runtime: the whole point of the fixed arenas below is that no allocation
// happens on the hot path after a thread has registered.
const (
	// MaxThreads bounds the number of goroutines that may ever call
	// ThreadInit on a given Global.
	MaxThreads = 32

	// LogMax bounds the number of distinct objects a single writer may
	// TryLock within one reader section before it must commit or abort.
	LogMax = 128

	// FreeMax bounds the number of objects a single writer may Free
	// within one reader section before it must commit.
	FreeMax = 100
)

// infinity is the write_clock sentinel meaning "this thread is not
// currently committing". It must exceed any local_clock value reachable
// during the process's lifetime; global_clock increments by exactly one
// per commit, so the max int64 is safe for any realistic run.
const infinity int64 = 1<<63 - 1

var logger = log.New(io.Discard, "rlu: ", log.LstdFlags)

// SetLogger redirects the package's debug trace output. By default traces
// are discarded; pass a logger writing to os.Stderr (or similar) to see
// the per-operation trace used while debugging commit ordering issues.
// Safe to call before any Global is constructed; not safe to call
// concurrently with in-flight operations.
func SetLogger(l *log.Logger) {
	logger = l
}
