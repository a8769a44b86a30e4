// Package closestpair finds the pair of 2D points at minimum Euclidean
// distance via divide-and-conquer with a strip merge, in O(N log N). The
// minimum-distance pair is the anomaly signal used by the analysis pipeline;
// deciding what distance counts as anomalous is the caller's policy.
package closestpair

import (
	"errors"
	"math"

	"github.com/Alias1177/Analyzer/internal/sorting"
	"github.com/Alias1177/Analyzer/models"
)

// ErrInsufficientPoints is returned when fewer than two points are supplied.
var ErrInsufficientPoints = errors.New("closestpair: need at least two points")

// Point is a 2D sample tagged with its index in the caller's series. Indexes
// are carried through the search so the result can be mapped back to the
// original observations.
type Point struct {
	Index int
	X     float64
	Y     float64
}

// node wraps a point with its rank in the x-sorted order, which is what the
// recursion partitions on.
type node struct {
	Point
	ord int
}

// Find returns the pair with minimum Euclidean distance. Coincident points
// yield distance zero, which is a valid (and likely anomalous) result. When
// several pairs tie on distance, the lexicographically smallest (A, B) index
// pair wins. Fewer than two points fail with ErrInsufficientPoints.
func Find(points []Point) (models.PointPair, error) {
	if len(points) < 2 {
		return models.PointPair{}, ErrInsufficientPoints
	}

	px := make([]node, len(points))
	sortedX := sorting.Stable(points, func(a, b Point) bool {
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	for i, p := range sortedX {
		px[i] = node{Point: p, ord: i}
	}
	py := sorting.Stable(px, func(a, b node) bool {
		return a.Y < b.Y
	})

	return solve(px, py, 0, len(px)), nil
}

// solve searches px[lo:hi]. py holds exactly the same points pre-sorted by
// y; partitioning it by x-rank keeps every level linear, which is what keeps
// the whole search at O(N log N) instead of O(N^2).
func solve(px, py []node, lo, hi int) models.PointPair {
	n := hi - lo
	if n <= 3 {
		return bruteForce(px[lo:hi])
	}

	m := lo + n/2
	midX := px[m].X

	pyLeft := make([]node, 0, n/2)
	pyRight := make([]node, 0, n-n/2)
	for _, p := range py {
		if p.ord < m {
			pyLeft = append(pyLeft, p)
		} else {
			pyRight = append(pyRight, p)
		}
	}

	found := closer(solve(px, pyLeft, lo, m), solve(px, pyRight, m, hi))

	// Points within the current best distance of the dividing line, already
	// in y order. A point in the strip can only beat the current best
	// against its next few y-neighbors, so the scan below stays linear.
	strip := make([]node, 0, n)
	for _, p := range py {
		if math.Abs(p.X-midX) <= found.Distance {
			strip = append(strip, p)
		}
	}
	for i := range strip {
		for j := i + 1; j < len(strip) && j-i <= 7; j++ {
			if strip[j].Y-strip[i].Y > found.Distance {
				break
			}
			found = closer(found, pairOf(strip[i].Point, strip[j].Point))
		}
	}

	return found
}

// bruteForce handles the recursion base case of up to three points.
func bruteForce(points []node) models.PointPair {
	winner := pairOf(points[0].Point, points[1].Point)
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			winner = closer(winner, pairOf(points[i].Point, points[j].Point))
		}
	}
	return winner
}

// pairOf builds a PointPair with indexes normalized to A < B.
func pairOf(p, q Point) models.PointPair {
	a, b := p.Index, q.Index
	if b < a {
		a, b = b, a
	}
	return models.PointPair{
		A:        a,
		B:        b,
		Distance: math.Hypot(p.X-q.X, p.Y-q.Y),
	}
}

// closer picks the pair with the smaller distance; ties go to the
// lexicographically smaller (A, B).
func closer(a, b models.PointPair) models.PointPair {
	if b.Distance != a.Distance {
		if b.Distance < a.Distance {
			return b
		}
		return a
	}
	if b.A != a.A {
		if b.A < a.A {
			return b
		}
		return a
	}
	if b.B < a.B {
		return b
	}
	return a
}
