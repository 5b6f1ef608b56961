package optimization

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfolio/quantfolio/internal/database"
	"github.com/quantfolio/quantfolio/internal/marketdata"
	"github.com/quantfolio/quantfolio/internal/modules/calculations"
)

// countingProvider records how many times price history is requested.
type countingProvider struct {
	series []marketdata.PriceSeries
	calls  int
}

func (p *countingProvider) GetAlignedSeries(tickers []string, startDate, endDate string) ([]marketdata.PriceSeries, error) {
	p.calls++
	return p.series, nil
}

func serviceTestSeries() []marketdata.PriceSeries {
	build := func(ticker string, rets []float64) marketdata.PriceSeries {
		price := 100.0
		points := []marketdata.PricePoint{{Date: "2024-01-01", AdjClose: price}}
		for i, r := range rets {
			price *= 1 + r
			points = append(points, marketdata.PricePoint{
				Date:     fmt.Sprintf("2024-01-%02d", i+2),
				AdjClose: price,
			})
		}
		return marketdata.PriceSeries{Ticker: ticker, Points: points}
	}
	return []marketdata.PriceSeries{
		build("AAA", []float64{0.02, -0.01, 0.03, 0.01, -0.02, 0.02, 0.01, -0.01}),
		build("BBB", []float64{-0.01, 0.02, -0.01, 0.01, 0.02, -0.01, 0.00, 0.02}),
	}
}

func newServiceTestCache(t *testing.T) *calculations.Cache {
	t.Helper()
	db, err := database.New(database.Config{
		Path:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return calculations.NewCache(db.Conn())
}

func TestService_Optimize(t *testing.T) {
	provider := &countingProvider{series: serviceTestSeries()}
	service := NewService(provider, nil, NewOptimizer(zerolog.Nop()), zerolog.Nop())

	result, err := service.Optimize([]string{"AAA", "BBB"}, 0.005, 0)
	require.NoError(t, err)

	sum := 0.0
	for _, w := range result.Weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestService_StatisticsCached(t *testing.T) {
	provider := &countingProvider{series: serviceTestSeries()}
	cache := newServiceTestCache(t)
	service := NewService(provider, cache, NewOptimizer(zerolog.Nop()), zerolog.Nop())

	_, err := service.Optimize([]string{"AAA", "BBB"}, 0.005, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)

	// Second request with the same tickers and lookback hits the cache.
	_, err = service.Optimize([]string{"AAA", "BBB"}, 0.006, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)

	// A different lookback is a different cache key.
	_, err = service.Optimize([]string{"AAA", "BBB"}, 0.005, 60)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}

func TestService_NoTickers(t *testing.T) {
	service := NewService(&countingProvider{}, nil, NewOptimizer(zerolog.Nop()), zerolog.Nop())

	_, err := service.Optimize(nil, 0.01, 0)
	assert.Error(t, err)
}

func TestService_StreamFrontier(t *testing.T) {
	provider := &countingProvider{series: serviceTestSeries()}
	service := NewService(provider, nil, NewOptimizer(zerolog.Nop()), zerolog.Nop())

	var points []FrontierPoint
	skipped := 0
	err := service.StreamFrontier([]string{"AAA", "BBB"}, 5, 0,
		func(p FrontierPoint) { points = append(points, p) },
		func(float64, error) { skipped++ })
	require.NoError(t, err)

	assert.NotEmpty(t, points)
	assert.Equal(t, 5, len(points)+skipped)
}
