// Package rebalancing applies tolerance-band rebalancing and
// transaction-cost adjustments to weight vectors.
package rebalancing

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// Defaults for the rebalancing operations.
const (
	DefaultTolerance       = 0.05
	DefaultTransactionCost = 0.005
)

// Service performs rebalancing calculations.
type Service struct {
	log zerolog.Logger
}

// NewService creates a new rebalancing service.
func NewService(log zerolog.Logger) *Service {
	return &Service{log: log.With().Str("service", "rebalancing").Logger()}
}

// Rebalance applies tolerance-band rebalancing: when any per-asset absolute
// deviation from target exceeds tolerance, the entire vector is replaced by
// the target; otherwise the current weights are returned unchanged. The
// decision is all-or-nothing, not per-asset.
func (s *Service) Rebalance(current, target []float64, tolerance float64) ([]float64, bool, error) {
	if len(current) != len(target) {
		return nil, false, fmt.Errorf("weight vectors differ in length: %d vs %d", len(current), len(target))
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	for i := range current {
		if math.Abs(current[i]-target[i]) > tolerance {
			s.log.Debug().
				Int("asset", i).
				Float64("deviation", math.Abs(current[i]-target[i])).
				Float64("tolerance", tolerance).
				Msg("Deviation exceeds tolerance, rebalancing to target")

			out := make([]float64, len(target))
			copy(out, target)
			return out, true, nil
		}
	}

	out := make([]float64, len(current))
	copy(out, current)
	return out, false, nil
}

// AdjustForCosts scales every weight by (1+signal)*(1-cost).
//
// The result is NOT renormalized: after adjustment the weights are no
// longer guaranteed to sum to 1. Callers that need full investment must
// renormalize themselves; the post-adjustment sum is returned so they can.
func (s *Service) AdjustForCosts(weights []float64, marketSignal, transactionCost float64) (adjusted []float64, postSum float64) {
	factor := (1 + marketSignal) * (1 - transactionCost)

	adjusted = make([]float64, len(weights))
	for i, w := range weights {
		adjusted[i] = w * factor
		postSum += adjusted[i]
	}
	return adjusted, postSum
}
