// Package sorting implements a stable divide-and-conquer merge sort used to
// put observation series into chronological order before analysis.
package sorting

import (
	"errors"
	"sync"

	"github.com/Alias1177/Analyzer/models"
)

// ErrInvalidInput is returned when a sort key cannot be compared, e.g. an
// observation with no timestamp.
var ErrInvalidInput = errors.New("sorting: non-comparable key")

// parallelCutoff is the sub-problem size below which recursion stays on the
// calling goroutine. Spawning for small halves costs more than it saves.
const parallelCutoff = 1000

// Stable returns a new slice with the same elements in non-decreasing order
// according to less. The sort is stable: elements comparing equal keep their
// original relative order. The input slice is not modified.
func Stable[T any](items []T, less func(a, b T) bool) []T {
	out := make([]T, len(items))
	copy(out, items)
	if len(out) <= 1 {
		return out
	}
	scratch := make([]T, len(out))
	sortRange(out, scratch, less)
	return out
}

// sortRange sorts items in place using scratch as the merge buffer. Both
// slices always have the same length, so recursive calls can split the
// buffer alongside the data.
func sortRange[T any](items, scratch []T, less func(a, b T) bool) {
	n := len(items)
	if n <= 1 {
		return
	}
	mid := n / 2
	if n >= parallelCutoff {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			sortRange(items[:mid], scratch[:mid], less)
		}()
		sortRange(items[mid:], scratch[mid:], less)
		wg.Wait()
	} else {
		sortRange(items[:mid], scratch[:mid], less)
		sortRange(items[mid:], scratch[mid:], less)
	}
	merge(items, scratch, mid, less)
}

// merge combines the two sorted halves items[:mid] and items[mid:] back into
// items. On equal keys the left half wins, which is what keeps the sort
// stable.
func merge[T any](items, scratch []T, mid int, less func(a, b T) bool) {
	copy(scratch, items)
	left, right := scratch[:mid], scratch[mid:]

	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if !less(right[j], left[i]) {
			items[k] = left[i]
			i++
		} else {
			items[k] = right[j]
			j++
		}
		k++
	}
	for i < len(left) {
		items[k] = left[i]
		i++
		k++
	}
	for j < len(right) {
		items[k] = right[j]
		j++
		k++
	}
}

// ByTimestamp returns a new slice of the given observations sorted
// chronologically. Observations sharing a timestamp keep their original
// relative order. An empty input yields an empty result; a zero timestamp
// anywhere in the input fails with ErrInvalidInput.
func ByTimestamp(points []models.DataPoint) ([]models.DataPoint, error) {
	for _, p := range points {
		if p.Timestamp.IsZero() {
			return nil, ErrInvalidInput
		}
	}
	sorted := Stable(points, func(a, b models.DataPoint) bool {
		return a.Timestamp.Before(b.Timestamp)
	})
	return sorted, nil
}
