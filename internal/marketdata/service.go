package marketdata

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Service provides fetch-through access to price history: reads come from
// history.db, and missing ranges are fetched from the upstream provider and
// stored before being returned.
type Service struct {
	client HistoryClient
	repo   *Repository
	log    zerolog.Logger
}

// NewService creates a new market data service.
func NewService(client HistoryClient, repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		repo:   repo,
		log:    log.With().Str("service", "marketdata").Logger(),
	}
}

// GetSeries returns the adjusted-close series for a ticker between
// startDate and endDate (inclusive). When the local store has no coverage
// past startDate, the range is fetched upstream first.
func (s *Service) GetSeries(ticker, startDate, endDate string) (PriceSeries, error) {
	points, err := s.repo.GetRange(ticker, startDate, endDate)
	if err != nil {
		return PriceSeries{}, err
	}

	if len(points) == 0 {
		s.log.Debug().
			Str("ticker", ticker).
			Str("start", startDate).
			Str("end", endDate).
			Msg("No local coverage, fetching upstream")

		fetched, err := s.client.FetchAdjustedCloses(ticker, startDate, endDate)
		if err != nil {
			return PriceSeries{}, fmt.Errorf("failed to fetch %s: %w", ticker, err)
		}
		if len(fetched) == 0 {
			return PriceSeries{}, fmt.Errorf("no price data for %s between %s and %s", ticker, startDate, endDate)
		}
		if err := s.repo.Upsert(ticker, fetched); err != nil {
			return PriceSeries{}, fmt.Errorf("failed to store prices for %s: %w", ticker, err)
		}
		points = fetched
	}

	return PriceSeries{Ticker: ticker, Points: points}, nil
}

// GetAlignedSeries returns series for several tickers over the same window,
// keeping only dates present for every ticker so downstream matrices stay
// rectangular.
func (s *Service) GetAlignedSeries(tickers []string, startDate, endDate string) ([]PriceSeries, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers provided")
	}

	series := make([]PriceSeries, 0, len(tickers))
	for _, ticker := range tickers {
		ps, err := s.GetSeries(ticker, startDate, endDate)
		if err != nil {
			return nil, err
		}
		series = append(series, ps)
	}

	return AlignSeries(series), nil
}

// Refresh fetches the last lookbackDays of history for each ticker and
// stores it. Used by the scheduled refresh job and the manual refresh
// endpoint. Per-ticker failures are logged and skipped.
func (s *Service) Refresh(tickers []string, lookbackDays int) error {
	if len(tickers) == 0 {
		return fmt.Errorf("no tickers to refresh")
	}
	if lookbackDays <= 0 {
		lookbackDays = 365
	}
	end := time.Now().Format("2006-01-02")
	start := time.Now().AddDate(0, 0, -lookbackDays).Format("2006-01-02")

	var failed int
	for _, ticker := range tickers {
		points, err := s.client.FetchAdjustedCloses(ticker, start, end)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("Refresh fetch failed")
			failed++
			continue
		}
		if err := s.repo.Upsert(ticker, points); err != nil {
			s.log.Error().Err(err).Str("ticker", ticker).Msg("Refresh store failed")
			failed++
			continue
		}
		s.log.Info().Str("ticker", ticker).Int("count", len(points)).Msg("Refreshed prices")
	}

	if failed == len(tickers) {
		return fmt.Errorf("refresh failed for all %d tickers", len(tickers))
	}
	return nil
}

// AlignSeries intersects the series on shared dates. Each returned series
// has identical, ascending dates.
func AlignSeries(series []PriceSeries) []PriceSeries {
	if len(series) == 0 {
		return series
	}

	shared := make(map[string]int)
	for _, s := range series {
		for _, p := range s.Points {
			shared[p.Date]++
		}
	}

	aligned := make([]PriceSeries, len(series))
	for i, s := range series {
		out := PriceSeries{Ticker: s.Ticker}
		for _, p := range s.Points {
			if shared[p.Date] == len(series) {
				out.Points = append(out.Points, p)
			}
		}
		aligned[i] = out
	}

	return aligned
}
