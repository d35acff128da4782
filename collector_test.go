package main

import (
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func te(path string, ts int64) TimestampedEntry {
	return TimestampedEntry{Entry: Entry{Path: path, Type: FileTypeFile, Depth: 1}, Timestamp: ts}
}

func paths(items []TimestampedEntry) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Entry.Path
	}
	return out
}

func TestSortEntriesOrder(t *testing.T) {
	items := []TimestampedEntry{
		te("r/b", 100),
		te("r/old", 1),
		te("r/a", 100),
		te("r/new", 500),
		te("r/failed", 0),
	}

	got := SortEntries(items, 1)
	assert.Equal(t, []string{"r/new", "r/a", "r/b", "r/old", "r/failed"}, paths(got))
}

func TestSortEntriesParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	items := make([]TimestampedEntry, 5*minChunkSize+123)
	for i := range items {
		// Few distinct timestamps so the path tie-break matters.
		items[i] = te(fmt.Sprintf("r/f%06d", rng.Intn(len(items))), int64(rng.Intn(50)))
	}

	sequential := slices.Clone(items)
	slices.SortFunc(sequential, compareEntries)

	for _, workers := range []int{2, 3, 4, 16} {
		got := SortEntries(slices.Clone(items), workers)
		require.Len(t, got, len(items))
		assert.Equal(t, sequential, got, "workers=%d", workers)
	}
}

func TestChunkCount(t *testing.T) {
	assert.Equal(t, 1, chunkCount(100, 4))
	assert.Equal(t, 1, chunkCount(10*minChunkSize, 1))
	assert.Equal(t, 2, chunkCount(2*minChunkSize, 4))
	assert.Equal(t, 4, chunkCount(100*minChunkSize, 4))
}

func TestCollectorConcurrentAdd(t *testing.T) {
	var c Collector
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				c.Add(te(fmt.Sprintf("r/%d-%d", w, i), int64(i)))
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 8*500, c.Len())
	sorted := c.Sorted(4)
	require.Len(t, sorted, 8*500)
	assert.True(t, slices.IsSortedFunc(sorted, compareEntries))
	assert.Zero(t, c.Len(), "Sorted hands the items over")
}
