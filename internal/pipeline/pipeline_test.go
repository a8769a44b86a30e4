package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/Analyzer/internal/sorting"
	"github.com/Alias1177/Analyzer/models"
)

func samplePoints() []models.DataPoint {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := []float64{100, 102, 98, 103, 107, 104, 110}

	points := make([]models.DataPoint, len(prices))
	for i, p := range prices {
		points[i] = models.DataPoint{
			Timestamp: base.AddDate(0, 0, i),
			Price:     p,
			Volume:    1000 + float64(i)*50,
		}
	}
	return points
}

func allAnalyses() Options {
	return Options{
		RunMaxGain:      true,
		RunClosestPair:  true,
		ZScoreWindow:    3,
		ZScoreThreshold: 2.0,
	}
}

func TestRun(t *testing.T) {
	points := samplePoints()

	report, err := New(allAnalyses()).Run(context.Background(), points)
	require.NoError(t, err)

	assert.Equal(t, 7, report.PointCount)
	assert.Equal(t, points[0].Timestamp, report.Start)
	assert.Equal(t, points[6].Timestamp, report.End)

	// deltas are [2,-4,5,4,-3,6]; the best run is 98 -> 110 skipping the
	// leading drop, i.e. deltas 2..5 summing to 12
	require.NotNil(t, report.MaxGain)
	assert.Equal(t, models.Interval{Start: 2, End: 5, Sum: 12}, *report.MaxGain)
	assert.Equal(t, points[2].Timestamp, report.GainStart)
	assert.Equal(t, points[6].Timestamp, report.GainEnd)

	require.NotNil(t, report.ClosestPair)
	assert.Less(t, report.ClosestPair.A, report.ClosestPair.B)
	assert.GreaterOrEqual(t, report.ClosestPair.Distance, 0.0)

	assert.InDelta(t, 103.428571, report.PriceStats.Mean, 1e-5)
	assert.Equal(t, 98.0, report.PriceStats.Min)
	assert.Equal(t, 110.0, report.PriceStats.Max)
}

func TestRunSortsBeforeAnalyses(t *testing.T) {
	points := samplePoints()

	// reversed input must produce the identical report: sort always
	// completes before either consumer starts
	reversed := make([]models.DataPoint, len(points))
	for i, p := range points {
		reversed[len(points)-1-i] = p
	}

	p := New(allAnalyses())
	fromSorted, err := p.Run(context.Background(), points)
	require.NoError(t, err)
	fromReversed, err := p.Run(context.Background(), reversed)
	require.NoError(t, err)

	assert.Equal(t, fromSorted.MaxGain, fromReversed.MaxGain)
	assert.Equal(t, fromSorted.ClosestPair, fromReversed.ClosestPair)
	assert.Equal(t, fromSorted.PriceStats, fromReversed.PriceStats)
	assert.Equal(t, fromSorted.Anomalies, fromReversed.Anomalies)
}

func TestRunDeterministic(t *testing.T) {
	points := samplePoints()
	p := New(allAnalyses())

	first, err := p.Run(context.Background(), points)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := p.Run(context.Background(), points)
		require.NoError(t, err)
		assert.Equal(t, first.MaxGain, again.MaxGain)
		assert.Equal(t, first.ClosestPair, again.ClosestPair)
	}
}

func TestRunDuplicateObservations(t *testing.T) {
	points := samplePoints()
	points = append(points, points[3]) // exact duplicate

	report, err := New(allAnalyses()).Run(context.Background(), points)
	require.NoError(t, err)

	require.NotNil(t, report.ClosestPair)
	assert.Equal(t, 0.0, report.ClosestPair.Distance)
}

func TestRunSelectsAnalyses(t *testing.T) {
	points := samplePoints()

	report, err := New(Options{RunMaxGain: true}).Run(context.Background(), points)
	require.NoError(t, err)
	assert.NotNil(t, report.MaxGain)
	assert.Nil(t, report.ClosestPair)
	assert.Nil(t, report.Anomalies)

	report, err = New(Options{RunClosestPair: true}).Run(context.Background(), points)
	require.NoError(t, err)
	assert.Nil(t, report.MaxGain)
	assert.NotNil(t, report.ClosestPair)
}

func TestRunShortSeries(t *testing.T) {
	single := samplePoints()[:1]

	report, err := New(allAnalyses()).Run(context.Background(), single)
	require.NoError(t, err)
	assert.Equal(t, 1, report.PointCount)
	assert.Nil(t, report.MaxGain)
	assert.Nil(t, report.ClosestPair)
}

func TestRunEmpty(t *testing.T) {
	report, err := New(allAnalyses()).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.PointCount)
	assert.Nil(t, report.MaxGain)
	assert.Nil(t, report.ClosestPair)
}

func TestRunInvalidTimestamp(t *testing.T) {
	points := samplePoints()
	points[2].Timestamp = time.Time{}

	_, err := New(allAnalyses()).Run(context.Background(), points)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sorting.ErrInvalidInput))
}
