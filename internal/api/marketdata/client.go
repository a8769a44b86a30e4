// Package marketdata is the input collaborator: it fetches raw observation
// series over HTTP and hands them to the analysis core as DataPoints. The
// core never parses wire formats itself.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	platformhttp "github.com/Alias1177/Analyzer/internal/platform/http"
	"github.com/Alias1177/Analyzer/models"
)

const wireTimeLayout = "2006-01-02 15:04:05"

// Client is the market data API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *platformhttp.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new market data client
type ClientOptions struct {
	APIKey          string
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetryTimeout time.Duration
}

// seriesResponse is the wire format of the time series endpoint
type seriesResponse struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Interval string `json:"interval"`
	} `json:"meta"`
	Values []struct {
		Datetime string  `json:"datetime"`
		Close    float64 `json:"close,string"`
		Volume   float64 `json:"volume,string,omitempty"`
	} `json:"values"`
	Status string `json:"status"`
}

// NewClient creates a new market data API client
func NewClient(options ClientOptions) *Client {
	httpOpts := platformhttp.ClientOptions{
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetryTimeout: options.MaxRetryTimeout,
	}

	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = "https://api.twelvedata.com"
	}

	return &Client{
		apiKey:     options.APIKey,
		baseURL:    baseURL,
		httpClient: platformhttp.NewClient(httpOpts),
		logger:     log.With().Str("component", "marketdata_client").Logger(),
	}
}

// GetSeries fetches an observation series for the given symbol and interval.
// The returned points are in wire order; chronological ordering is the
// analysis core's job, not this client's.
func (c *Client) GetSeries(ctx context.Context, symbol, interval string, outputSize int) ([]models.DataPoint, error) {
	url := fmt.Sprintf(
		"%s/time_series?symbol=%s&interval=%s&outputsize=%d&apikey=%s",
		c.baseURL,
		symbol,
		interval,
		outputSize,
		c.apiKey,
	)

	c.logger.Debug().Str("symbol", symbol).Str("interval", interval).Msg("Fetching series")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if strings.Contains(string(body), `"status":"error"`) {
		c.logger.Error().Str("response", string(body)).Msg("Market data API error")
		return nil, fmt.Errorf("market data API error: %s", string(body))
	}

	var data seriesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Msg("Error parsing JSON")
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	if len(data.Values) == 0 {
		return nil, fmt.Errorf("empty data returned")
	}

	points := make([]models.DataPoint, 0, len(data.Values))
	for _, v := range data.Values {
		ts, err := time.Parse(wireTimeLayout, v.Datetime)
		if err != nil {
			return nil, fmt.Errorf("parsing datetime %q: %w", v.Datetime, err)
		}
		points = append(points, models.DataPoint{
			Timestamp: ts,
			Price:     v.Close,
			Volume:    v.Volume,
		})
	}

	c.logger.Debug().Int("count", len(points)).Msg("Fetched series")
	return points, nil
}
