// Package stats provides descriptive statistics for observation series and
// the rolling z-score policy that turns them into anomaly reports.
package stats

import (
	"math"

	"github.com/Alias1177/Analyzer/models"
)

// zScoreCap is the score assigned when a trailing window has zero deviation
// but the current value moved off the window mean: a definite anomaly
// against a perfectly stable baseline.
const zScoreCap = 100.0

// Summary computes mean, population standard deviation, min and max.
// An empty input yields the zero value.
func Summary(values []float64) models.SummaryStats {
	if len(values) == 0 {
		return models.SummaryStats{}
	}
	mean, std := MeanStdDev(values)
	s := models.SummaryStats{
		Mean: mean,
		Std:  std,
		Min:  values[0],
		Max:  values[0],
	}
	for _, v := range values[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	return s
}

// MeanStdDev computes the population mean and standard deviation.
// Returns (0, 0) for empty input.
func MeanStdDev(values []float64) (mean, std float64) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	var sumSq float64
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	std = math.Sqrt(sumSq / float64(n))

	return mean, std
}

// RollingZScores computes, for each value, how many standard deviations it
// sits from the mean of the trailing window values[max(0,i-window):i]. The
// first value has an empty window and scores zero. A zero-deviation window
// with a differing value scores +/- zScoreCap.
func RollingZScores(values []float64, window int) []float64 {
	if len(values) == 0 {
		return nil
	}
	if window < 1 {
		window = 1
	}

	scores := make([]float64, len(values))
	for i := range values {
		start := i - window
		if start < 0 {
			start = 0
		}
		trailing := values[start:i]
		if len(trailing) == 0 {
			continue
		}

		mean, std := MeanStdDev(trailing)
		if std == 0 {
			if diff := values[i] - mean; diff != 0 {
				scores[i] = math.Copysign(zScoreCap, diff)
			}
			continue
		}
		scores[i] = (values[i] - mean) / std
	}
	return scores
}

// DetectAnomalies flags observations whose price z-score against the
// trailing window exceeds threshold in absolute value. Expected is the
// window mean and the deviation is reported relative to it. Series shorter
// than the window still score against whatever trailing history exists.
func DetectAnomalies(points []models.DataPoint, window int, threshold float64) []models.AnomalyReport {
	if len(points) == 0 {
		return nil
	}

	prices := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.Price
	}
	scores := RollingZScores(prices, window)

	var anomalies []models.AnomalyReport
	for i, score := range scores {
		if math.Abs(score) <= threshold {
			continue
		}
		start := i - window
		if start < 0 {
			start = 0
		}
		expected, _ := MeanStdDev(prices[start:i])

		deviation := 0.0
		if expected != 0 {
			deviation = math.Abs(prices[i]-expected) / math.Abs(expected) * 100
		}
		anomalies = append(anomalies, models.AnomalyReport{
			Timestamp:    points[i].Timestamp,
			Value:        prices[i],
			Expected:     expected,
			DeviationPct: deviation,
		})
	}
	return anomalies
}
