package main

import (
	"slices"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// minChunkSize keeps parallel sorting from splitting tiny inputs.
const minChunkSize = 4096

// Collector is the single shared accumulation point of a walk. Workers only
// ever append to it.
type Collector struct {
	mu    sync.Mutex
	items []TimestampedEntry
}

// Add appends one pair. Safe for concurrent use.
func (c *Collector) Add(te TimestampedEntry) {
	c.mu.Lock()
	c.items = append(c.items, te)
	c.mu.Unlock()
}

// Len returns the number of collected pairs.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Sorted hands over the collected pairs ordered by recency. Call it once,
// after the walk has finished.
func (c *Collector) Sorted(workers int) []TimestampedEntry {
	c.mu.Lock()
	items := c.items
	c.items = nil
	c.mu.Unlock()

	return SortEntries(items, workers)
}

// compareEntries orders by timestamp descending, then path ascending. The
// path tie-break makes the order total, so the result does not depend on
// collection order or sort stability.
func compareEntries(a, b TimestampedEntry) int {
	switch {
	case a.Timestamp > b.Timestamp:
		return -1
	case a.Timestamp < b.Timestamp:
		return 1
	}
	return strings.Compare(a.Entry.Path, b.Entry.Path)
}

// SortEntries sorts in place and returns items. With more than one worker
// and enough input, chunks are sorted concurrently and merged; the result is
// identical to a sequential sort.
func SortEntries(items []TimestampedEntry, workers int) []TimestampedEntry {
	chunks := chunkCount(len(items), workers)
	if chunks <= 1 {
		slices.SortFunc(items, compareEntries)
		return items
	}

	size := (len(items) + chunks - 1) / chunks
	var parts [][]TimestampedEntry
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		parts = append(parts, items[start:end])
	}

	p := pool.New().WithMaxGoroutines(workers)
	for _, part := range parts {
		p.Go(func() {
			slices.SortFunc(part, compareEntries)
		})
	}
	p.Wait()

	for len(parts) > 1 {
		merged := make([][]TimestampedEntry, 0, (len(parts)+1)/2)
		for i := 0; i < len(parts); i += 2 {
			if i+1 == len(parts) {
				merged = append(merged, parts[i])
				continue
			}
			merged = append(merged, mergeSorted(parts[i], parts[i+1]))
		}
		parts = merged
	}

	copy(items, parts[0])
	return items
}

func chunkCount(n, workers int) int {
	if workers <= 1 || n < 2*minChunkSize {
		return 1
	}
	chunks := n / minChunkSize
	if chunks > workers {
		chunks = workers
	}
	return chunks
}

// mergeSorted merges two sorted runs into a new slice.
func mergeSorted(a, b []TimestampedEntry) []TimestampedEntry {
	out := make([]TimestampedEntry, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if compareEntries(b[j], a[i]) < 0 {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
