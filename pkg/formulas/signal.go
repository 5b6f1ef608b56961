package formulas

import (
	"github.com/markcheno/go-talib"
)

// MomentumSignal derives a market signal from a price series as the relative
// spread between a short and a long simple moving average:
//
//	signal = SMA(short)/SMA(long) - 1
//
// Positive when the short average is above the long one (upward momentum),
// negative on downward momentum. Returns 0 when there is not enough data
// for the long average.
func MomentumSignal(closes []float64, shortPeriod, longPeriod int) float64 {
	if shortPeriod <= 0 || longPeriod <= shortPeriod || len(closes) < longPeriod {
		return 0
	}

	shortSMA := talib.Sma(closes, shortPeriod)
	longSMA := talib.Sma(closes, longPeriod)
	if len(shortSMA) == 0 || len(longSMA) == 0 {
		return 0
	}

	s := shortSMA[len(shortSMA)-1]
	l := longSMA[len(longSMA)-1]
	if l == 0 || isNaN(s) || isNaN(l) {
		return 0
	}

	return s/l - 1
}

func isNaN(v float64) bool {
	return v != v
}
