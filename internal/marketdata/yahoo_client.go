package marketdata

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

// YahooClient implements HistoryClient using the go-yfinance library.
type YahooClient struct {
	maxRetries int
	log        zerolog.Logger
}

// NewYahooClient creates a new Yahoo Finance history client.
func NewYahooClient(log zerolog.Logger) *YahooClient {
	return &YahooClient{
		maxRetries: 3,
		log:        log.With().Str("client", "yahoo").Logger(),
	}
}

// FetchAdjustedCloses fetches daily adjusted closes for ticker between
// startDate and endDate (inclusive, YYYY-MM-DD). Transient failures are
// retried with exponential backoff.
func (c *YahooClient) FetchAdjustedCloses(symbol, startDate, endDate string) ([]PricePoint, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s before start date %s", endDate, startDate)
	}

	period := periodCovering(start)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			waitTime := time.Duration(1<<uint(attempt-1)) * time.Second
			c.log.Warn().
				Err(lastErr).
				Str("symbol", symbol).
				Int("attempt", attempt+1).
				Dur("wait", waitTime).
				Msg("Retrying historical fetch")
			time.Sleep(waitTime)
		}

		points, err := c.fetchOnce(symbol, period, startDate, endDate)
		if err != nil {
			lastErr = err
			continue
		}
		return points, nil
	}

	return nil, fmt.Errorf("failed to fetch history for %s after %d attempts: %w", symbol, c.maxRetries, lastErr)
}

func (c *YahooClient) fetchOnce(symbol, period, startDate, endDate string) ([]PricePoint, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	params := models.HistoryParams{
		Period:     period,
		Interval:   "1d",
		AutoAdjust: true,
	}

	bars, err := t.History(params)
	if err != nil {
		return nil, fmt.Errorf("failed to get historical prices: %w", err)
	}

	// The period is a superset of the requested window; trim to [start, end].
	points := make([]PricePoint, 0, len(bars))
	for _, bar := range bars {
		date := bar.Date.Format("2006-01-02")
		if date < startDate || date > endDate {
			continue
		}
		adjClose := bar.AdjClose
		if adjClose == 0 {
			adjClose = bar.Close
		}
		if adjClose == 0 {
			continue
		}
		points = append(points, PricePoint{Date: date, AdjClose: adjClose})
	}

	c.log.Info().
		Str("symbol", symbol).
		Str("period", period).
		Int("count", len(points)).
		Msg("Fetched adjusted closes")

	return points, nil
}

// periodCovering maps a start date to the smallest Yahoo period string that
// covers it. The fetched window is trimmed to the exact dates afterwards.
func periodCovering(start time.Time) string {
	age := time.Since(start)
	switch {
	case age <= 28*24*time.Hour:
		return "1mo"
	case age <= 88*24*time.Hour:
		return "3mo"
	case age <= 178*24*time.Hour:
		return "6mo"
	case age <= 360*24*time.Hour:
		return "1y"
	case age <= 720*24*time.Hour:
		return "2y"
	case age <= 1800*24*time.Hour:
		return "5y"
	case age <= 3600*24*time.Hour:
		return "10y"
	default:
		return "max"
	}
}
