// Package risk computes historical risk metrics for portfolios.
package risk

import (
	"fmt"
	"time"

	"github.com/quantfolio/quantfolio/internal/marketdata"
	"github.com/quantfolio/quantfolio/internal/modules/returns"
	"github.com/quantfolio/quantfolio/pkg/formulas"
	"github.com/rs/zerolog"
)

// DefaultConfidence is the confidence level used when a request omits one.
const DefaultConfidence = 0.95

// DefaultLookbackDays is the price history window for portfolio metrics.
const DefaultLookbackDays = 365

// SeriesProvider supplies aligned price histories for a set of tickers.
type SeriesProvider interface {
	GetAlignedSeries(tickers []string, startDate, endDate string) ([]marketdata.PriceSeries, error)
}

// Metrics holds the result of a historical VaR/CVaR calculation.
type Metrics struct {
	VaR          float64 `json:"var"`
	CVaR         float64 `json:"cvar"`
	Confidence   float64 `json:"confidence"`
	Observations int     `json:"observations"`
}

// Service computes portfolio risk metrics from return series.
type Service struct {
	provider SeriesProvider
	log      zerolog.Logger
}

// NewService creates a new risk service.
func NewService(provider SeriesProvider, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		log:      log.With().Str("service", "risk").Logger(),
	}
}

// FromReturns computes VaR and CVaR directly from a return series.
func (s *Service) FromReturns(rets []float64, confidence float64) (*Metrics, error) {
	if confidence == 0 {
		confidence = DefaultConfidence
	}

	varValue, cvar, err := formulas.VaRCVaR(rets, confidence)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		VaR:          varValue,
		CVaR:         cvar,
		Confidence:   confidence,
		Observations: len(rets),
	}, nil
}

// FromPortfolio builds weighted portfolio returns from price history and
// computes VaR and CVaR on them.
func (s *Service) FromPortfolio(tickers []string, weights []float64, confidence float64, lookbackDays int) (*Metrics, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers provided")
	}
	if len(tickers) != len(weights) {
		return nil, fmt.Errorf("tickers/weights length mismatch: %d vs %d", len(tickers), len(weights))
	}
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}

	endDate := time.Now().Format("2006-01-02")
	startDate := time.Now().AddDate(0, 0, -lookbackDays).Format("2006-01-02")

	series, err := s.provider.GetAlignedSeries(tickers, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}

	stats, err := returns.Calculate(series)
	if err != nil {
		return nil, fmt.Errorf("failed to compute returns: %w", err)
	}

	portfolioReturns, err := stats.PortfolioReturns(weights)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Int("tickers", len(tickers)).
		Int("observations", len(portfolioReturns)).
		Msg("Computed portfolio returns for risk metrics")

	return s.FromReturns(portfolioReturns, confidence)
}
