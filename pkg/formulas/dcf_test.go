package formulas

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNPV_ClosedForm(t *testing.T) {
	// 100/(1.1) + 100/(1.1)^2 + 100/(1.1)^3 = 248.685...
	npv := NPV([]float64{100, 100, 100}, 0.10)
	assert.InDelta(t, 248.685, npv, 0.01)
}

func TestMonteCarloDCF_ConvergesToNPV(t *testing.T) {
	cashFlows := []float64{100, 100, 100}
	rate := 0.10

	estimate, err := MonteCarloDCF(cashFlows, rate, 10000, rand.NewPCG(42, 0))
	require.NoError(t, err)

	// The noise is zero-mean, so the 10k-simulation estimate should lie
	// within 2% of the closed-form value.
	npv := NPV(cashFlows, rate)
	assert.InDelta(t, npv, estimate, 0.02*npv)
}

func TestMonteCarloDCF_DefaultSimulations(t *testing.T) {
	estimate, err := MonteCarloDCF([]float64{50}, 0.05, 0, rand.NewPCG(1, 2))
	require.NoError(t, err)
	assert.InDelta(t, NPV([]float64{50}, 0.05), estimate, 1.0)
}

func TestMonteCarloDCF_EmptyCashFlows(t *testing.T) {
	_, err := MonteCarloDCF(nil, 0.10, 1000, nil)
	assert.Error(t, err)
}

func TestMonteCarloDCF_NegativeFlows(t *testing.T) {
	// Sigma scales with the flow's magnitude, so negative flows must not
	// produce a negative sigma.
	estimate, err := MonteCarloDCF([]float64{-100, 200}, 0.08, 5000, rand.NewPCG(3, 4))
	require.NoError(t, err)

	npv := NPV([]float64{-100, 200}, 0.08)
	assert.InDelta(t, npv, estimate, 2.0)
}
