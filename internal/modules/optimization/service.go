package optimization

import (
	"errors"
	"fmt"
	"time"

	"github.com/quantfolio/quantfolio/internal/marketdata"
	"github.com/quantfolio/quantfolio/internal/modules/calculations"
	"github.com/quantfolio/quantfolio/internal/modules/returns"
	"github.com/rs/zerolog"
)

// DefaultLookbackDays is the price history window used when a request omits one.
const DefaultLookbackDays = 365

// SeriesProvider supplies aligned price histories for a set of tickers.
type SeriesProvider interface {
	GetAlignedSeries(tickers []string, startDate, endDate string) ([]marketdata.PriceSeries, error)
}

// assetStats is the cached slice of return statistics an optimization needs.
type assetStats struct {
	MeanReturns []float64   `msgpack:"mean_returns"`
	Covariance  [][]float64 `msgpack:"covariance"`
}

// Service runs mean-variance optimizations over stored price history.
type Service struct {
	provider  SeriesProvider
	cache     *calculations.Cache
	optimizer *Optimizer
	log       zerolog.Logger
}

// NewService creates a new optimization service. cache may be nil, in which
// case return statistics are recomputed on every request.
func NewService(provider SeriesProvider, cache *calculations.Cache, optimizer *Optimizer, log zerolog.Logger) *Service {
	return &Service{
		provider:  provider,
		cache:     cache,
		optimizer: optimizer,
		log:       log.With().Str("service", "optimization").Logger(),
	}
}

// Optimize solves the minimum-risk weights for a single target return.
func (s *Service) Optimize(tickers []string, targetReturn float64, lookbackDays int) (*Result, error) {
	stats, err := s.statistics(tickers, lookbackDays)
	if err != nil {
		return nil, err
	}
	return s.optimizer.MinimumRiskWeights(stats.MeanReturns, stats.Covariance, targetReturn)
}

// Frontier samples the efficient frontier for the given tickers.
func (s *Service) Frontier(tickers []string, numPoints, lookbackDays int) (*Frontier, error) {
	stats, err := s.statistics(tickers, lookbackDays)
	if err != nil {
		return nil, err
	}
	return s.optimizer.SampleFrontier(tickers, stats.MeanReturns, stats.Covariance, numPoints)
}

// StreamFrontier runs the frontier sweep, pushing each solved point through
// onPoint as it converges. Used by the websocket streaming endpoint.
func (s *Service) StreamFrontier(tickers []string, numPoints, lookbackDays int, onPoint func(FrontierPoint), onSkip func(float64, error)) error {
	stats, err := s.statistics(tickers, lookbackDays)
	if err != nil {
		return err
	}
	if numPoints <= 0 {
		numPoints = FrontierPoints
	}
	return s.optimizer.walkFrontier(stats.MeanReturns, stats.Covariance, numPoints, onPoint, onSkip)
}

// statistics returns mean returns and the covariance matrix for the tickers,
// reading through the calculation cache when one is configured.
func (s *Service) statistics(tickers []string, lookbackDays int) (*assetStats, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers provided")
	}
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}

	cacheKey := fmt.Sprintf("stats:%s:%d", calculations.HashTickers(tickers), lookbackDays)
	if s.cache != nil {
		var cached assetStats
		err := s.cache.Get(cacheKey, &cached)
		if err == nil {
			s.log.Debug().Str("key", cacheKey).Msg("Covariance cache hit")
			return &cached, nil
		}
		if !errors.Is(err, calculations.ErrCacheMiss) {
			s.log.Warn().Err(err).Str("key", cacheKey).Msg("Covariance cache read failed")
		}
	}

	endDate := time.Now().Format("2006-01-02")
	startDate := time.Now().AddDate(0, 0, -lookbackDays).Format("2006-01-02")

	series, err := s.provider.GetAlignedSeries(tickers, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}

	stats, err := returns.Calculate(series)
	if err != nil {
		return nil, fmt.Errorf("failed to compute return statistics: %w", err)
	}

	result := &assetStats{
		MeanReturns: stats.MeanReturns,
		Covariance:  stats.Covariance,
	}

	if s.cache != nil {
		if err := s.cache.Set(cacheKey, result, calculations.TTLCovariance); err != nil {
			s.log.Warn().Err(err).Str("key", cacheKey).Msg("Covariance cache write failed")
		}
	}

	return result, nil
}
