// Package marketdata fetches and stores historical adjusted-close price
// series. Yahoo Finance is the upstream provider; history.db is the local
// store.
package marketdata

// PricePoint is one (date, adjusted close) observation. Dates use the
// YYYY-MM-DD format throughout.
type PricePoint struct {
	Date     string  `json:"date"`
	AdjClose float64 `json:"adj_close"`
}

// PriceSeries is an ordered (ascending by date) series for one ticker.
type PriceSeries struct {
	Ticker string       `json:"ticker"`
	Points []PricePoint `json:"points"`
}

// Closes returns just the adjusted-close values, in date order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.AdjClose
	}
	return closes
}

// HistoryClient fetches adjusted-close history for a ticker between two
// dates (inclusive, YYYY-MM-DD).
type HistoryClient interface {
	FetchAdjustedCloses(ticker, startDate, endDate string) ([]PricePoint, error)
}
