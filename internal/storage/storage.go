// Package storage persists analysis reports to PostgreSQL so rendering
// collaborators can pick them up later.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Alias1177/Analyzer/models"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ReportRecord is one persisted analysis report row.
type ReportRecord struct {
	ID           int64
	CreatedAt    time.Time
	Symbol       string
	PointCount   int
	RangeStart   time.Time
	RangeEnd     time.Time
	MaxGain      *models.Interval
	GainStart    time.Time
	GainEnd      time.Time
	ClosestPair  *models.PointPair
	PriceStats   models.SummaryStats
	AnomalyCount int
}

// New creates a new database connection
func New(params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_reports (
			id SERIAL PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			symbol TEXT NOT NULL,
			point_count INT NOT NULL,
			range_start TIMESTAMP NOT NULL,
			range_end TIMESTAMP NOT NULL,
			gain_delta_start INT,
			gain_delta_end INT,
			max_gain DOUBLE PRECISION,
			gain_start TIMESTAMP,
			gain_end TIMESTAMP,
			pair_a INT,
			pair_b INT,
			pair_distance DOUBLE PRECISION,
			price_mean DOUBLE PRECISION NOT NULL,
			price_std DOUBLE PRECISION NOT NULL,
			price_min DOUBLE PRECISION NOT NULL,
			price_max DOUBLE PRECISION NOT NULL,
			anomaly_count INT NOT NULL
		)
	`)

	return err
}

// SaveReport persists one analysis report and returns its row id.
func (db *DB) SaveReport(symbol string, report *models.AnalysisReport) (int64, error) {
	var (
		gainStart, gainEnd     sql.NullInt64
		maxGain, pairDistance  sql.NullFloat64
		gainStartTS, gainEndTS sql.NullTime
		pairA, pairB           sql.NullInt64
	)
	if report.MaxGain != nil {
		gainStart = sql.NullInt64{Int64: int64(report.MaxGain.Start), Valid: true}
		gainEnd = sql.NullInt64{Int64: int64(report.MaxGain.End), Valid: true}
		maxGain = sql.NullFloat64{Float64: report.MaxGain.Sum, Valid: true}
		gainStartTS = sql.NullTime{Time: report.GainStart, Valid: true}
		gainEndTS = sql.NullTime{Time: report.GainEnd, Valid: true}
	}
	if report.ClosestPair != nil {
		pairA = sql.NullInt64{Int64: int64(report.ClosestPair.A), Valid: true}
		pairB = sql.NullInt64{Int64: int64(report.ClosestPair.B), Valid: true}
		pairDistance = sql.NullFloat64{Float64: report.ClosestPair.Distance, Valid: true}
	}

	var id int64
	err := db.QueryRow(`
		INSERT INTO analysis_reports (
			created_at, symbol, point_count, range_start, range_end,
			gain_delta_start, gain_delta_end, max_gain, gain_start, gain_end,
			pair_a, pair_b, pair_distance,
			price_mean, price_std, price_min, price_max, anomaly_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
	`,
		time.Now(), symbol, report.PointCount, report.Start, report.End,
		gainStart, gainEnd, maxGain, gainStartTS, gainEndTS,
		pairA, pairB, pairDistance,
		report.PriceStats.Mean, report.PriceStats.Std, report.PriceStats.Min, report.PriceStats.Max,
		len(report.Anomalies),
	).Scan(&id)

	if err != nil {
		return 0, err
	}

	return id, nil
}

// LatestReport retrieves the most recent report for a symbol, or nil when
// none has been stored yet.
func (db *DB) LatestReport(symbol string) (*ReportRecord, error) {
	var (
		rec                    ReportRecord
		gainStart, gainEnd     sql.NullInt64
		maxGain, pairDistance  sql.NullFloat64
		gainStartTS, gainEndTS sql.NullTime
		pairA, pairB           sql.NullInt64
	)

	err := db.QueryRow(`
		SELECT
			id, created_at, symbol, point_count, range_start, range_end,
			gain_delta_start, gain_delta_end, max_gain, gain_start, gain_end,
			pair_a, pair_b, pair_distance,
			price_mean, price_std, price_min, price_max, anomaly_count
		FROM analysis_reports
		WHERE symbol = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, symbol).Scan(
		&rec.ID, &rec.CreatedAt, &rec.Symbol, &rec.PointCount, &rec.RangeStart, &rec.RangeEnd,
		&gainStart, &gainEnd, &maxGain, &gainStartTS, &gainEndTS,
		&pairA, &pairB, &pairDistance,
		&rec.PriceStats.Mean, &rec.PriceStats.Std, &rec.PriceStats.Min, &rec.PriceStats.Max,
		&rec.AnomalyCount,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No report stored yet
		}
		return nil, err
	}

	if gainStart.Valid && gainEnd.Valid && maxGain.Valid {
		rec.MaxGain = &models.Interval{
			Start: int(gainStart.Int64),
			End:   int(gainEnd.Int64),
			Sum:   maxGain.Float64,
		}
	}
	if gainStartTS.Valid {
		rec.GainStart = gainStartTS.Time
	}
	if gainEndTS.Valid {
		rec.GainEnd = gainEndTS.Time
	}
	if pairA.Valid && pairB.Valid && pairDistance.Valid {
		rec.ClosestPair = &models.PointPair{
			A:        int(pairA.Int64),
			B:        int(pairB.Int64),
			Distance: pairDistance.Float64,
		}
	}

	return &rec, nil
}
