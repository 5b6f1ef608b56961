package returns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfolio/quantfolio/internal/marketdata"
)

func seriesFrom(ticker string, closes ...float64) marketdata.PriceSeries {
	s := marketdata.PriceSeries{Ticker: ticker}
	dates := []string{"2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-08"}
	for i, c := range closes {
		s.Points = append(s.Points, marketdata.PricePoint{Date: dates[i], AdjClose: c})
	}
	return s
}

func TestCalculate_ReturnsMatrixShape(t *testing.T) {
	stats, err := Calculate([]marketdata.PriceSeries{
		seriesFrom("A", 100, 110, 99, 108.9),
		seriesFrom("B", 50, 50, 55, 55),
	})
	require.NoError(t, err)

	// First period dropped: 4 prices -> 3 return periods.
	require.Len(t, stats.Returns, 3)
	require.Len(t, stats.Returns[0], 2)
	assert.Equal(t, []string{"A", "B"}, stats.Tickers)

	assert.InDelta(t, 0.10, stats.Returns[0][0], 1e-12)
	assert.InDelta(t, -0.10, stats.Returns[1][0], 1e-12)
	assert.InDelta(t, 0.0, stats.Returns[0][1], 1e-12)
	assert.InDelta(t, 0.10, stats.Returns[1][1], 1e-12)
}

func TestCalculate_MeanVector(t *testing.T) {
	stats, err := Calculate([]marketdata.PriceSeries{
		seriesFrom("A", 100, 110, 121, 133.1),
	})
	require.NoError(t, err)

	require.Len(t, stats.MeanReturns, 1)
	assert.InDelta(t, 0.10, stats.MeanReturns[0], 1e-9)
}

func TestCalculate_CovarianceSymmetric(t *testing.T) {
	stats, err := Calculate([]marketdata.PriceSeries{
		seriesFrom("A", 100, 102, 99, 104, 101),
		seriesFrom("B", 40, 41, 39, 42, 40),
		seriesFrom("C", 10, 10.5, 10.1, 10.8, 10.2),
	})
	require.NoError(t, err)

	cov := stats.Covariance
	require.Len(t, cov, 3)
	for i := range cov {
		require.Len(t, cov[i], 3)
		assert.GreaterOrEqual(t, cov[i][i], 0.0, "variance must be non-negative")
		for j := range cov {
			assert.InDelta(t, cov[i][j], cov[j][i], 1e-15, "covariance must be symmetric")
		}
	}
}

func TestCalculate_RejectsMisaligned(t *testing.T) {
	_, err := Calculate([]marketdata.PriceSeries{
		seriesFrom("A", 100, 110, 99),
		seriesFrom("B", 50, 50),
	})
	assert.Error(t, err)
}

func TestCalculate_RejectsShortHistory(t *testing.T) {
	_, err := Calculate([]marketdata.PriceSeries{
		seriesFrom("A", 100, 110),
	})
	assert.Error(t, err)
}

func TestPortfolioReturns(t *testing.T) {
	stats, err := Calculate([]marketdata.PriceSeries{
		seriesFrom("A", 100, 110, 99, 108.9),
		seriesFrom("B", 50, 50, 55, 55),
	})
	require.NoError(t, err)

	pr, err := stats.PortfolioReturns([]float64{0.5, 0.5})
	require.NoError(t, err)
	require.Len(t, pr, 3)
	assert.InDelta(t, 0.05, pr[0], 1e-12)
	assert.InDelta(t, 0.0, pr[1], 1e-12)

	_, err = stats.PortfolioReturns([]float64{1.0})
	assert.Error(t, err)
}
