package formulas

import (
	"fmt"
	"sort"
)

// VaRCVaR calculates Value at Risk and Conditional Value at Risk from a set
// of realized or simulated returns at the given confidence level.
//
// Returns are sorted ascending; VaR is the return at rank
// floor((1-confidence)*N) and CVaR is the mean of the returns below that
// rank. When the rank is 0 the tail is widened to the single worst return so
// CVaR stays defined for small samples.
//
// Both values are negative for losses. CVaR <= VaR always holds.
func VaRCVaR(returns []float64, confidence float64) (varValue, cvar float64, err error) {
	if len(returns) == 0 {
		return 0, 0, fmt.Errorf("no returns provided")
	}
	if confidence <= 0 || confidence >= 1 {
		return 0, 0, fmt.Errorf("confidence must be in (0, 1), got %v", confidence)
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	index := int((1 - confidence) * float64(len(sorted)))
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	varValue = sorted[index]

	tailCount := index
	if tailCount == 0 {
		tailCount = 1
	}
	sum := 0.0
	for _, r := range sorted[:tailCount] {
		sum += r
	}
	cvar = sum / float64(tailCount)

	return varValue, cvar, nil
}

// CVaR calculates Conditional Value at Risk at the specified confidence
// level, discarding the VaR threshold.
func CVaR(returns []float64, confidence float64) (float64, error) {
	_, cvar, err := VaRCVaR(returns, confidence)
	return cvar, err
}
