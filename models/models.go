package models

import (
	"time"
)

// DataPoint represents a single market observation. Values are never mutated
// after construction; analysis stages share read-only slices of them.
type DataPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume,omitempty"`
}

// Interval is the result of a maximum-gain search over price deltas.
// Start and End index the delta slice with Start <= End, and Sum is the
// exact total gain over [Start, End]. Delta i covers the move from point i
// to point i+1 of the sorted series.
type Interval struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Sum   float64 `json:"sum"`
}

// Rectangle is the 2D variant of Interval: the sub-grid of maximum sum,
// bounded by row range [Top, Bottom] and column range [Left, Right].
type Rectangle struct {
	Top    int     `json:"top"`
	Bottom int     `json:"bottom"`
	Left   int     `json:"left"`
	Right  int     `json:"right"`
	Sum    float64 `json:"sum"`
}

// PointPair is the result of a closest-pair search. A and B index the input
// point set with A < B, and Distance is the exact minimum over all pairs.
// A zero distance means two coincident observations.
type PointPair struct {
	A        int     `json:"index_a"`
	B        int     `json:"index_b"`
	Distance float64 `json:"distance"`
}

// SummaryStats holds basic descriptive statistics for one series.
type SummaryStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// AnomalyReport describes one observation flagged by the rolling z-score
// policy: the value seen, the value the trailing window expected, and the
// deviation from it in percent.
type AnomalyReport struct {
	Timestamp    time.Time `json:"timestamp"`
	Value        float64   `json:"value"`
	Expected     float64   `json:"expected_value"`
	DeviationPct float64   `json:"deviation_percentage"`
}

// AnalysisReport aggregates one full pipeline run. It is built once per run
// and read-only afterwards; the pipeline owns it exclusively until returned
// to the caller.
type AnalysisReport struct {
	Points     []DataPoint `json:"-"`
	PointCount int         `json:"data_points"`
	Start      time.Time   `json:"start_date"`
	End        time.Time   `json:"end_date"`

	MaxGain   *Interval `json:"max_gain_period,omitempty"`
	GainStart time.Time `json:"gain_start,omitempty"`
	GainEnd   time.Time `json:"gain_end,omitempty"`

	ClosestPair *PointPair      `json:"closest_pair,omitempty"`
	Anomalies   []AnomalyReport `json:"anomalies,omitempty"`

	PriceStats  SummaryStats `json:"price_statistics"`
	VolumeStats SummaryStats `json:"volume_statistics"`
}
