package maxsubarray

import (
	"github.com/Alias1177/Analyzer/models"
)

// FindGrid returns the sub-grid of maximum sum. Each (top, bottom) row
// boundary pair collapses the rows between them into a 1D column-sum array
// solved by Find, so the cost is O(rows^2 * cols log cols). The pair loop is
// deliberately an explicit nested iteration: the quadratic factor is the
// price of the straightforward extension and should stay visible.
//
// An empty grid fails with ErrEmptyInput; rows of unequal length fail with
// ErrInvalidInput.
func FindGrid(rows [][]float64) (models.Rectangle, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return models.Rectangle{}, ErrEmptyInput
	}
	cols := len(rows[0])
	for _, row := range rows {
		if len(row) != cols {
			return models.Rectangle{}, ErrInvalidInput
		}
	}

	var found bool
	var winner models.Rectangle
	colSums := make([]float64, cols)

	for top := 0; top < len(rows); top++ {
		for i := range colSums {
			colSums[i] = 0
		}
		for bottom := top; bottom < len(rows); bottom++ {
			for c := 0; c < cols; c++ {
				colSums[c] += rows[bottom][c]
			}
			iv, err := Find(colSums)
			if err != nil {
				return models.Rectangle{}, err
			}
			// strict > keeps the first candidate on ties, which is the
			// smallest (top, bottom) pair in iteration order
			if !found || iv.Sum > winner.Sum {
				winner = models.Rectangle{
					Top:    top,
					Bottom: bottom,
					Left:   iv.Start,
					Right:  iv.End,
					Sum:    iv.Sum,
				}
				found = true
			}
		}
	}

	return winner, nil
}
