// Package maxsubarray finds the contiguous run of maximum cumulative gain in
// a delta series via divide-and-conquer, in 1D and in a 2D grid variant.
package maxsubarray

import (
	"errors"
	"math"

	"github.com/Alias1177/Analyzer/models"
)

var (
	// ErrEmptyInput is returned when the delta series has no elements.
	ErrEmptyInput = errors.New("maxsubarray: empty input")
	// ErrInvalidInput is returned for a ragged 2D grid.
	ErrInvalidInput = errors.New("maxsubarray: rows have unequal length")
)

// Deltas derives consecutive price differences from a chronologically sorted
// series. N points yield N-1 deltas; fewer than two points yield nil.
func Deltas(points []models.DataPoint) []float64 {
	if len(points) < 2 {
		return nil
	}
	deltas := make([]float64, len(points)-1)
	for i := 1; i < len(points); i++ {
		deltas[i-1] = points[i].Price - points[i-1].Price
	}
	return deltas
}

// Find returns the non-empty interval of maximum sum. For an all-negative
// input this is the single least-negative element. When several intervals
// tie on sum, the one with the smaller start index wins, then the shorter
// one. An empty input fails with ErrEmptyInput.
func Find(deltas []float64) (models.Interval, error) {
	if len(deltas) == 0 {
		return models.Interval{}, ErrEmptyInput
	}
	return solve(deltas, 0, len(deltas)-1), nil
}

// solve is the recursive core over arr[lo..hi] inclusive. The answer is the
// best of the left half, the right half, and the best interval crossing the
// midpoint.
func solve(arr []float64, lo, hi int) models.Interval {
	if lo == hi {
		return models.Interval{Start: lo, End: lo, Sum: arr[lo]}
	}
	mid := (lo + hi) / 2
	left := solve(arr, lo, mid)
	right := solve(arr, mid+1, hi)
	cross := crossing(arr, lo, mid, hi)
	return best(best(left, right), cross)
}

// crossing finds the best interval spanning the mid/mid+1 boundary: the best
// suffix ending at mid plus the best prefix starting at mid+1.
func crossing(arr []float64, lo, mid, hi int) models.Interval {
	leftSum := math.Inf(-1)
	sum := 0.0
	start := mid
	// >= keeps extending on ties so the smaller start index wins
	for i := mid; i >= lo; i-- {
		sum += arr[i]
		if sum >= leftSum {
			leftSum = sum
			start = i
		}
	}

	rightSum := math.Inf(-1)
	sum = 0
	end := mid + 1
	// strict > stops at the first maximum so ties keep the shorter interval
	for i := mid + 1; i <= hi; i++ {
		sum += arr[i]
		if sum > rightSum {
			rightSum = sum
			end = i
		}
	}

	return models.Interval{Start: start, End: end, Sum: leftSum + rightSum}
}

// best picks the winning candidate: larger sum, then smaller start index,
// then shorter interval.
func best(a, b models.Interval) models.Interval {
	if b.Sum != a.Sum {
		if b.Sum > a.Sum {
			return b
		}
		return a
	}
	if b.Start != a.Start {
		if b.Start < a.Start {
			return b
		}
		return a
	}
	if b.End < a.End {
		return b
	}
	return a
}
