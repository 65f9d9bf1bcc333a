package rluset

import (
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertContainsDelete(t *testing.T) {
	l := New()
	tid := l.ThreadInit()

	assert.False(t, l.Contains(tid, 5))
	assert.True(t, l.Insert(tid, 5))
	assert.True(t, l.Contains(tid, 5))
	assert.False(t, l.Insert(tid, 5), "re-inserting an existing key should fail")

	assert.True(t, l.Insert(tid, 1))
	assert.True(t, l.Insert(tid, 9))
	assert.Equal(t, []int{1, 5, 9}, l.Snapshot(tid))

	assert.True(t, l.Delete(tid, 5))
	assert.False(t, l.Contains(tid, 5))
	assert.False(t, l.Delete(tid, 5), "deleting an absent key should fail")
	assert.Equal(t, []int{1, 9}, l.Snapshot(tid))
}

func TestLen(t *testing.T) {
	l := New()
	tid := l.ThreadInit()
	assert.Equal(t, 0, l.Len(tid))
	for i := 0; i < 10; i++ {
		l.Insert(tid, i)
	}
	assert.Equal(t, 10, l.Len(tid))
}

// TestConcurrentInsertDelete drives many goroutines doing overlapping
// inserts/deletes/reads against the same keyspace and checks the set
// stays internally consistent (sorted, no duplicates) at the end.
func TestConcurrentInsertDelete(t *testing.T) {
	l := New()
	const nWorkers = 8
	const opsPerWorker = 500
	const keyRange = 64

	var wg sync.WaitGroup
	for w := 0; w < nWorkers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			tid := l.ThreadInit()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < opsPerWorker; i++ {
				key := rng.Intn(keyRange)
				switch rng.Intn(3) {
				case 0:
					l.Insert(tid, key)
				case 1:
					l.Delete(tid, key)
				case 2:
					l.Contains(tid, key)
				}
			}
		}(int64(w))
	}
	wg.Wait()

	tid := l.ThreadInit()
	snap := l.Snapshot(tid)
	sorted := append([]int(nil), snap...)
	sort.Ints(sorted)
	assert.Equal(t, sorted, snap, "set must stay sorted under concurrent mutation")

	seen := make(map[int]bool)
	for _, k := range snap {
		assert.False(t, seen[k], "set must not contain duplicates")
		seen[k] = true
	}
}
