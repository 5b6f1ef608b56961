package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharpeRatio(t *testing.T) {
	ratio, err := SharpeRatio(0.10, 0.15, 0.01)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, ratio, 1e-12)
}

func TestSharpeRatio_ZeroStdDev(t *testing.T) {
	_, err := SharpeRatio(0.10, 0, 0.01)
	assert.Error(t, err)
}

func TestSharpeRatio_ScaleInvariantWithZeroRiskFree(t *testing.T) {
	// With a zero risk-free rate, scaling both return and stddev by the
	// same positive constant leaves the ratio unchanged.
	base, err := SharpeRatio(0.08, 0.20, 0)
	require.NoError(t, err)

	for _, k := range []float64{0.5, 2, 10} {
		scaled, err := SharpeRatio(0.08*k, 0.20*k, 0)
		require.NoError(t, err)
		assert.InDelta(t, base, scaled, 1e-12)
	}
}
