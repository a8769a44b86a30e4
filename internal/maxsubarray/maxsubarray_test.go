package maxsubarray

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/Alias1177/Analyzer/models"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name     string
		deltas   []float64
		expected models.Interval
	}{
		{
			name:     "classic mixed series",
			deltas:   []float64{-2, -3, 4, -1, -2, 1, 5, -3},
			expected: models.Interval{Start: 2, End: 6, Sum: 7},
		},
		{
			name:     "single element",
			deltas:   []float64{3},
			expected: models.Interval{Start: 0, End: 0, Sum: 3},
		},
		{
			name:     "all negative picks least bad element",
			deltas:   []float64{-5, -2, -9},
			expected: models.Interval{Start: 1, End: 1, Sum: -2},
		},
		{
			name:     "all positive takes everything",
			deltas:   []float64{1, 2, 3},
			expected: models.Interval{Start: 0, End: 2, Sum: 6},
		},
		{
			name:     "equal sums prefer smaller start then shorter",
			deltas:   []float64{1, -1, 1, -1},
			expected: models.Interval{Start: 0, End: 0, Sum: 1},
		},
		{
			name:     "zeros prefer earliest shortest",
			deltas:   []float64{0, 0, 0},
			expected: models.Interval{Start: 0, End: 0, Sum: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Find(tt.deltas)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("Find() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestFindEmpty(t *testing.T) {
	if _, err := Find(nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("Find() error = %v, want ErrEmptyInput", err)
	}
}

func TestFindMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	deltas := make([]float64, 60)
	for i := range deltas {
		deltas[i] = float64(rng.Intn(21) - 10)
	}

	got, err := Find(deltas)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	// exactness: the divide-and-conquer sum must equal the quadratic scan
	want := math.Inf(-1)
	for i := 0; i < len(deltas); i++ {
		sum := 0.0
		for j := i; j < len(deltas); j++ {
			sum += deltas[j]
			if sum > want {
				want = sum
			}
		}
	}
	if got.Sum != want {
		t.Errorf("Find() sum = %v, brute force = %v", got.Sum, want)
	}

	check := 0.0
	for i := got.Start; i <= got.End; i++ {
		check += deltas[i]
	}
	if check != got.Sum {
		t.Errorf("interval sum %v does not match reported sum %v", check, got.Sum)
	}
}

func TestDeltas(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []models.DataPoint{
		{Timestamp: base, Price: 10},
		{Timestamp: base.AddDate(0, 0, 1), Price: 11},
		{Timestamp: base.AddDate(0, 0, 2), Price: 9},
		{Timestamp: base.AddDate(0, 0, 3), Price: 15},
		{Timestamp: base.AddDate(0, 0, 4), Price: 12},
	}

	deltas := Deltas(points)
	expected := []float64{1, -2, 6, -3}
	if len(deltas) != len(expected) {
		t.Fatalf("Deltas() returned %d deltas, want %d", len(deltas), len(expected))
	}
	for i, want := range expected {
		if deltas[i] != want {
			t.Errorf("delta %d = %v, want %v", i, deltas[i], want)
		}
	}

	// the best gain of this series is 9 -> 15
	iv, err := Find(deltas)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if iv.Sum != 6 || iv.Start != 2 || iv.End != 2 {
		t.Errorf("Find() = %+v, want start 2 end 2 sum 6", iv)
	}
}

func TestDeltasTooShort(t *testing.T) {
	if d := Deltas(nil); d != nil {
		t.Errorf("Deltas(nil) = %v, want nil", d)
	}
	single := []models.DataPoint{{Price: 5}}
	if d := Deltas(single); d != nil {
		t.Errorf("Deltas(single) = %v, want nil", d)
	}
}

func TestFindGrid(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]float64
		expected models.Rectangle
	}{
		{
			name: "single positive corner",
			rows: [][]float64{
				{1, -2},
				{-3, 4},
			},
			expected: models.Rectangle{Top: 1, Bottom: 1, Left: 1, Right: 1, Sum: 4},
		},
		{
			name: "rectangle spans rows",
			rows: [][]float64{
				{1, 2, -1},
				{-4, 5, 2},
				{1, 1, -6},
			},
			expected: models.Rectangle{Top: 0, Bottom: 1, Left: 1, Right: 2, Sum: 8},
		},
		{
			name: "all negative picks single cell",
			rows: [][]float64{
				{-3, -1},
				{-2, -4},
			},
			expected: models.Rectangle{Top: 0, Bottom: 0, Left: 1, Right: 1, Sum: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindGrid(tt.rows)
			if err != nil {
				t.Fatalf("FindGrid() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("FindGrid() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestFindGridErrors(t *testing.T) {
	if _, err := FindGrid(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("FindGrid(nil) error = %v, want ErrEmptyInput", err)
	}
	if _, err := FindGrid([][]float64{{}}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("FindGrid(empty row) error = %v, want ErrEmptyInput", err)
	}
	ragged := [][]float64{{1, 2}, {3}}
	if _, err := FindGrid(ragged); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("FindGrid(ragged) error = %v, want ErrInvalidInput", err)
	}
}
