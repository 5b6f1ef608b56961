package formulas

import "fmt"

// SharpeRatio calculates the Sharpe ratio for a portfolio:
//
//	(portfolioReturn - riskFreeRate) / portfolioStdDev
//
// Returns an error when the standard deviation is zero, which would make
// the ratio undefined.
func SharpeRatio(portfolioReturn, portfolioStdDev, riskFreeRate float64) (float64, error) {
	if portfolioStdDev == 0 {
		return 0, fmt.Errorf("portfolio standard deviation is zero")
	}
	return (portfolioReturn - riskFreeRate) / portfolioStdDev, nil
}
