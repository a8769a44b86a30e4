// Package pipeline composes the analysis stages: chronological sort first,
// then maximum-gain and closest-pair searches over the sorted series, then
// report assembly. It contains no algorithmic content of its own.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Alias1177/Analyzer/internal/closestpair"
	"github.com/Alias1177/Analyzer/internal/maxsubarray"
	"github.com/Alias1177/Analyzer/internal/sorting"
	"github.com/Alias1177/Analyzer/internal/stats"
	"github.com/Alias1177/Analyzer/models"
)

// hoursPerDay converts timestamp offsets into day units so the closest-pair
// x axis is comparable to the price axis.
const hoursPerDay = 24

// Options selects which analyses run and configures the rolling z-score
// post-processing policy. A zero ZScoreWindow disables it.
type Options struct {
	RunMaxGain      bool
	RunClosestPair  bool
	ZScoreWindow    int
	ZScoreThreshold float64
}

// Pipeline runs the configured analyses over one observation series per
// call. It holds no mutable state between runs.
type Pipeline struct {
	opts   Options
	logger zerolog.Logger
}

// New creates a pipeline with the given options.
func New(opts Options) *Pipeline {
	return &Pipeline{
		opts:   opts,
		logger: log.With().Str("component", "pipeline").Logger(),
	}
}

// Run sorts the series and executes the selected analyses. The sort must
// complete before either consumer starts because both assume chronological
// input; the two consumers then run concurrently over the same read-only
// sorted slice. Analyses needing at least two points are skipped, not
// failed, when the series is too short; their report fields stay nil.
func (p *Pipeline) Run(ctx context.Context, points []models.DataPoint) (*models.AnalysisReport, error) {
	sorted, err := sorting.ByTimestamp(points)
	if err != nil {
		return nil, fmt.Errorf("sorting input: %w", err)
	}

	report := &models.AnalysisReport{
		Points:     sorted,
		PointCount: len(sorted),
	}
	if len(sorted) > 0 {
		report.Start = sorted[0].Timestamp
		report.End = sorted[len(sorted)-1].Timestamp
		report.PriceStats = stats.Summary(series(sorted, func(p models.DataPoint) float64 { return p.Price }))
		report.VolumeStats = stats.Summary(series(sorted, func(p models.DataPoint) float64 { return p.Volume }))
	}

	var (
		interval *models.Interval
		pair     *models.PointPair
	)
	g, _ := errgroup.WithContext(ctx)
	if p.opts.RunMaxGain && len(sorted) >= 2 {
		g.Go(func() error {
			iv, err := maxsubarray.Find(maxsubarray.Deltas(sorted))
			if err != nil {
				return fmt.Errorf("max gain search: %w", err)
			}
			interval = &iv
			return nil
		})
	}
	if p.opts.RunClosestPair && len(sorted) >= 2 {
		g.Go(func() error {
			pp, err := closestpair.Find(planePoints(sorted))
			if err != nil {
				return fmt.Errorf("closest pair search: %w", err)
			}
			pair = &pp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if interval != nil {
		report.MaxGain = interval
		// delta i spans points i..i+1, so the gain period ends one point
		// past the interval's last delta
		report.GainStart = sorted[interval.Start].Timestamp
		report.GainEnd = sorted[interval.End+1].Timestamp
	}
	report.ClosestPair = pair

	if p.opts.ZScoreWindow > 0 {
		report.Anomalies = stats.DetectAnomalies(sorted, p.opts.ZScoreWindow, p.opts.ZScoreThreshold)
	}

	p.logger.Debug().
		Int("points", len(sorted)).
		Bool("max_gain", interval != nil).
		Bool("closest_pair", pair != nil).
		Int("anomalies", len(report.Anomalies)).
		Msg("Analysis complete")

	return report, nil
}

// planePoints projects observations onto the (days since first observation,
// price) plane for the closest-pair search. The projection is this
// pipeline's policy; the finder itself is metric-agnostic plain Euclidean.
func planePoints(sorted []models.DataPoint) []closestpair.Point {
	first := sorted[0].Timestamp
	points := make([]closestpair.Point, len(sorted))
	for i, p := range sorted {
		points[i] = closestpair.Point{
			Index: i,
			X:     p.Timestamp.Sub(first).Hours() / hoursPerDay,
			Y:     p.Price,
		}
	}
	return points
}

func series(points []models.DataPoint, value func(models.DataPoint) float64) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = value(p)
	}
	return out
}
