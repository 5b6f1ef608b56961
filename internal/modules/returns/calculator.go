// Package returns derives returns statistics from aligned price series:
// the returns matrix, the mean-returns vector and the sample covariance
// matrix.
package returns

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/quantfolio/quantfolio/internal/marketdata"
	"github.com/quantfolio/quantfolio/pkg/formulas"
)

// Statistics holds the derived statistics for a set of assets. Rows of the
// returns matrix are time periods, columns are assets in Tickers order.
type Statistics struct {
	Tickers     []string
	Returns     [][]float64
	MeanReturns []float64
	Covariance  [][]float64
}

// Calculate derives returns statistics from aligned price series. The
// series must share identical dates; the first period is dropped (its
// return is undefined). At least three observations per asset are required
// for a meaningful covariance.
func Calculate(series []marketdata.PriceSeries) (*Statistics, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no price series provided")
	}

	n := len(series[0].Points)
	for _, s := range series {
		if len(s.Points) != n {
			return nil, fmt.Errorf("series are not aligned: %s has %d points, expected %d", s.Ticker, len(s.Points), n)
		}
	}
	if n < 3 {
		return nil, fmt.Errorf("insufficient history: %d observations (need at least 3)", n)
	}

	numAssets := len(series)
	numPeriods := n - 1

	tickers := make([]string, numAssets)
	columns := make([][]float64, numAssets)
	for j, s := range series {
		tickers[j] = s.Ticker
		columns[j] = formulas.CalculateReturns(s.Closes())
	}

	// Row-major returns matrix: periods x assets.
	returnsMatrix := make([][]float64, numPeriods)
	for i := 0; i < numPeriods; i++ {
		row := make([]float64, numAssets)
		for j := 0; j < numAssets; j++ {
			row[j] = columns[j][i]
		}
		returnsMatrix[i] = row
	}

	means := make([]float64, numAssets)
	for j := 0; j < numAssets; j++ {
		means[j] = formulas.Mean(columns[j])
	}

	cov := covarianceMatrix(returnsMatrix, numAssets)

	return &Statistics{
		Tickers:     tickers,
		Returns:     returnsMatrix,
		MeanReturns: means,
		Covariance:  cov,
	}, nil
}

// PortfolioReturns projects the returns matrix onto a weights vector,
// producing the per-period portfolio return series.
func (s *Statistics) PortfolioReturns(weights []float64) ([]float64, error) {
	if len(weights) != len(s.Tickers) {
		return nil, fmt.Errorf("weights length %d does not match %d assets", len(weights), len(s.Tickers))
	}

	out := make([]float64, len(s.Returns))
	for i, row := range s.Returns {
		var r float64
		for j, w := range weights {
			r += w * row[j]
		}
		out[i] = r
	}
	return out, nil
}

// covarianceMatrix computes the sample covariance of the returns matrix
// using gonum, returned as a plain [][]float64.
func covarianceMatrix(returnsMatrix [][]float64, numAssets int) [][]float64 {
	numPeriods := len(returnsMatrix)
	flat := make([]float64, 0, numPeriods*numAssets)
	for _, row := range returnsMatrix {
		flat = append(flat, row...)
	}
	data := mat.NewDense(numPeriods, numAssets, flat)

	var sym mat.SymDense
	stat.CovarianceMatrix(&sym, data, nil)

	cov := make([][]float64, numAssets)
	for i := 0; i < numAssets; i++ {
		cov[i] = make([]float64, numAssets)
		for j := 0; j < numAssets; j++ {
			cov[i][j] = sym.At(i, j)
		}
	}
	return cov
}
