package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Analyzer/internal/api/marketdata"
	"github.com/Alias1177/Analyzer/internal/config"
	"github.com/Alias1177/Analyzer/internal/pipeline"
	"github.com/Alias1177/Analyzer/internal/storage"
	"github.com/Alias1177/Analyzer/models"
)

func main() {
	synthetic := flag.Bool("synthetic", false, "use a generated series instead of the market data API")
	syntheticCount := flag.Int("synthetic-count", 250, "number of generated observations")
	seed := flag.Int64("seed", 1, "seed for the generated series")
	analyses := flag.String("analyses", "gain,pairs", "comma-separated analyses to run: gain, pairs")
	store := flag.Bool("store", false, "persist the report to PostgreSQL")
	flag.Parse()

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	setupSignalHandling(cancel)

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// 2. Configure logging
	setupLogging(cfg.LogLevel)
	log.Info().Msg("Starting Financial Series Analyzer")

	// 3. Print configuration
	printConfig(cfg)

	// 4. Acquire the observation series
	points, err := loadSeries(ctx, cfg, *synthetic, *syntheticCount, *seed)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load observation series")
	}

	// 5. Run the analysis pipeline
	opts := pipeline.Options{
		RunMaxGain:      selected(*analyses, "gain"),
		RunClosestPair:  selected(*analyses, "pairs"),
		ZScoreWindow:    cfg.ZScoreWindow,
		ZScoreThreshold: cfg.ZScoreThreshold,
	}
	report, err := pipeline.New(opts).Run(ctx, points)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	// 6. Print the report
	printReport(report)

	// 7. Persist the report if requested
	if *store {
		storeReport(cfg, report)
	}
}

// setupSignalHandling configures signal handling for graceful shutdown
func setupSignalHandling(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("Shutdown signal received, exiting...")
		cancel()
		os.Exit(0)
	}()
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}

// printConfig outputs the current configuration
func printConfig(cfg *config.Config) {
	log.Info().
		Str("Symbol", cfg.Symbol).
		Str("Interval", cfg.Interval).
		Int("OutputSize", cfg.OutputSize).
		Int("ZScoreWindow", cfg.ZScoreWindow).
		Float64("ZScoreThreshold", cfg.ZScoreThreshold).
		Msg("Configuration loaded")
}

// loadSeries acquires observations from the API or the synthetic fallback
func loadSeries(ctx context.Context, cfg *config.Config, synthetic bool, count int, seed int64) ([]models.DataPoint, error) {
	if synthetic {
		log.Info().Int("count", count).Int64("seed", seed).Msg("Generating synthetic series")
		start := time.Now().AddDate(0, 0, -count).Truncate(24 * time.Hour)
		return marketdata.Synthetic(count, start, 24*time.Hour, seed), nil
	}

	client := marketdata.NewClient(marketdata.ClientOptions{
		APIKey:         cfg.MarketAPIKey,
		BaseURL:        cfg.MarketBaseURL,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: 5,
	})
	return client.GetSeries(ctx, cfg.Symbol, cfg.Interval, cfg.OutputSize)
}

// selected reports whether name appears in the comma-separated list
func selected(list, name string) bool {
	for _, item := range strings.Split(list, ",") {
		if strings.TrimSpace(item) == name {
			return true
		}
	}
	return false
}

// printReport outputs the analysis results
func printReport(report *models.AnalysisReport) {
	fmt.Println("\n===== ANALYSIS REPORT =====")
	fmt.Printf("Observations: %d (%s to %s)\n",
		report.PointCount,
		report.Start.Format("2006-01-02"),
		report.End.Format("2006-01-02"))

	fmt.Printf("\nPrice: mean %.4f, std %.4f, min %.4f, max %.4f\n",
		report.PriceStats.Mean, report.PriceStats.Std, report.PriceStats.Min, report.PriceStats.Max)
	fmt.Printf("Volume: mean %.1f, std %.1f, min %.1f, max %.1f\n",
		report.VolumeStats.Mean, report.VolumeStats.Std, report.VolumeStats.Min, report.VolumeStats.Max)

	if report.MaxGain != nil {
		fmt.Printf("\nMaximum Gain Period: %s to %s (total gain %.4f)\n",
			report.GainStart.Format("2006-01-02"),
			report.GainEnd.Format("2006-01-02"),
			report.MaxGain.Sum)
	}

	if report.ClosestPair != nil {
		fmt.Printf("\nClosest Pair: observations %d and %d (distance %.6f)\n",
			report.ClosestPair.A, report.ClosestPair.B, report.ClosestPair.Distance)
		if report.ClosestPair.Distance == 0 {
			fmt.Println("WARNING: coincident observations, possible duplicate entries")
		}
	}

	if len(report.Anomalies) > 0 {
		fmt.Printf("\nAnomalies (%d):\n", len(report.Anomalies))
		for _, a := range report.Anomalies {
			fmt.Printf("- %s: %.4f (expected %.4f, deviation %.1f%%)\n",
				a.Timestamp.Format("2006-01-02"), a.Value, a.Expected, a.DeviationPct)
		}
	}
	fmt.Println()
}

// storeReport persists the report to PostgreSQL
func storeReport(cfg *config.Config, report *models.AnalysisReport) {
	db, err := storage.New(storage.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to database")
		return
	}
	defer db.Close()

	id, err := db.SaveReport(cfg.Symbol, report)
	if err != nil {
		log.Error().Err(err).Msg("Failed to store report")
		return
	}
	log.Info().Int64("id", id).Msg("Report stored")
}
