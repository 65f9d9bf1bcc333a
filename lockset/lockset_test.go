package lockset

import (
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertContainsDelete(t *testing.T) {
	l := New()

	assert.False(t, l.Contains(5))
	assert.True(t, l.Insert(5))
	assert.True(t, l.Contains(5))
	assert.False(t, l.Insert(5), "re-inserting an existing key should fail")

	assert.True(t, l.Insert(1))
	assert.True(t, l.Insert(9))
	assert.Equal(t, []int{1, 5, 9}, l.Snapshot())

	assert.True(t, l.Delete(5))
	assert.False(t, l.Contains(5))
	assert.False(t, l.Delete(5), "deleting an absent key should fail")
	assert.Equal(t, []int{1, 9}, l.Snapshot())
}

func TestLen(t *testing.T) {
	l := New()
	assert.Equal(t, 0, l.Len())
	for i := 0; i < 10; i++ {
		l.Insert(i)
	}
	assert.Equal(t, 10, l.Len())
}

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
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < opsPerWorker; i++ {
				key := rng.Intn(keyRange)
				switch rng.Intn(3) {
				case 0:
					l.Insert(key)
				case 1:
					l.Delete(key)
				case 2:
					l.Contains(key)
				}
			}
		}(int64(w))
	}
	wg.Wait()

	snap := l.Snapshot()
	sorted := append([]int(nil), snap...)
	sort.Ints(sorted)
	assert.Equal(t, sorted, snap, "set must stay sorted under concurrent mutation")

	seen := make(map[int]bool)
	for _, k := range snap {
		assert.False(t, seen[k], "set must not contain duplicates")
		seen[k] = true
	}
}
