package nodelock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRLockAllowsConcurrentReaders(t *testing.T) {
	l := New()
	l.RLock()
	done := make(chan struct{})
	go func() {
		l.RLock()
		l.RUnlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("second RLock should not block behind an outstanding RLock")
	}
	l.RUnlock()
}

func TestLockExcludesReaders(t *testing.T) {
	l := New()
	l.Lock()
	done := make(chan struct{})
	go func() {
		l.RLock()
		l.RUnlock()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("RLock should block while the node is held exclusively")
	case <-time.After(50 * time.Millisecond):
	}
	l.Unlock()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("RLock should proceed once the exclusive hold is released")
	}
}

func TestLockMutualExclusion(t *testing.T) {
	l := New()
	var mu sync.Mutex
	holders := 0
	maxHolders := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Lock()
				mu.Lock()
				holders++
				if holders > maxHolders {
					maxHolders = holders
				}
				mu.Unlock()

				mu.Lock()
				holders--
				mu.Unlock()
				l.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxHolders, "at most one goroutine should hold Lock at a time")
}

// TestHandOverHandWalk exercises the exact pattern lockset uses: take RLock
// on a chain of nodes one at a time, releasing the previous as each new
// one is acquired.
func TestHandOverHandWalk(t *testing.T) {
	const chainLen = 5
	locks := make([]*Lock, chainLen)
	for i := range locks {
		locks[i] = New()
	}

	locks[0].RLock()
	for i := 1; i < chainLen; i++ {
		locks[i].RLock()
		locks[i-1].RUnlock()
	}
	locks[chainLen-1].RUnlock()
}
