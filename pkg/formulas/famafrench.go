package formulas

// Fixed factor loadings for the three-factor estimate. These are example
// loadings, not coefficients estimated from data.
const (
	MarketLoading = 0.5
	SMBLoading    = 0.3
	HMLLoading    = 0.2
)

// FamaFrenchExpectedReturn calculates an expected return using the
// Fama-French three-factor model with fixed loadings:
//
//	r_f + 0.5*(market - r_f) + 0.3*SMB + 0.2*HML
//
// SMB and HML are the size and value factor returns respectively.
func FamaFrenchExpectedReturn(marketReturn, smb, hml, riskFreeRate float64) float64 {
	marketPremium := marketReturn - riskFreeRate
	return riskFreeRate + MarketLoading*marketPremium + SMBLoading*smb + HMLLoading*hml
}
