package formulas

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultDCFSimulations is the Monte Carlo simulation count used when the
// caller does not specify one.
const DefaultDCFSimulations = 1000

// NPV calculates the closed-form net present value of a cash-flow series,
// discounting flow t by (1+rate)^(t+1).
func NPV(cashFlows []float64, discountRate float64) float64 {
	npv := 0.0
	for t, cf := range cashFlows {
		npv += cf / math.Pow(1+discountRate, float64(t+1))
	}
	return npv
}

// MonteCarloDCF estimates the expected present value of a cash-flow series
// under uncertainty. Each simulation perturbs every cash flow with
// independent Gaussian noise (sigma = 5% of the flow's magnitude), discounts
// the perturbed flows by (1+rate)^(t+1) and sums them; the estimate is the
// mean across simulations.
//
// src may be nil, in which case the global random source is used. As the
// simulation count grows the estimate converges to NPV(cashFlows, rate).
func MonteCarloDCF(cashFlows []float64, discountRate float64, numSimulations int, src rand.Source) (float64, error) {
	if len(cashFlows) == 0 {
		return 0, fmt.Errorf("no cash flows provided")
	}
	if numSimulations <= 0 {
		numSimulations = DefaultDCFSimulations
	}

	// One distribution per flow; sigma scales with the flow's magnitude.
	dists := make([]distuv.Normal, len(cashFlows))
	for t, cf := range cashFlows {
		dists[t] = distuv.Normal{
			Mu:    cf,
			Sigma: 0.05 * math.Abs(cf),
			Src:   src,
		}
	}

	discounts := make([]float64, len(cashFlows))
	for t := range cashFlows {
		discounts[t] = math.Pow(1+discountRate, float64(t+1))
	}

	total := 0.0
	for i := 0; i < numSimulations; i++ {
		pv := 0.0
		for t := range cashFlows {
			pv += dists[t].Rand() / discounts[t]
		}
		total += pv
	}

	return total / float64(numSimulations), nil
}
