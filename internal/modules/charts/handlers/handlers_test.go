package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/quantfolio/quantfolio/internal/marketdata"
	"github.com/quantfolio/quantfolio/internal/modules/charts"
	"github.com/quantfolio/quantfolio/internal/modules/optimization"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	series []marketdata.PriceSeries
}

func (f *fakeProvider) GetAlignedSeries(tickers []string, startDate, endDate string) ([]marketdata.PriceSeries, error) {
	return f.series, nil
}

func testSeries() []marketdata.PriceSeries {
	build := func(ticker string, rets []float64) marketdata.PriceSeries {
		price := 100.0
		points := []marketdata.PricePoint{{Date: "2024-01-01", AdjClose: price}}
		for i, r := range rets {
			price *= 1 + r
			points = append(points, marketdata.PricePoint{
				Date:     fmt.Sprintf("2024-01-%02d", i+2),
				AdjClose: price,
			})
		}
		return marketdata.PriceSeries{Ticker: ticker, Points: points}
	}
	return []marketdata.PriceSeries{
		build("AAA", []float64{0.02, -0.01, 0.03, 0.01, -0.02, 0.02, 0.01, -0.01}),
		build("BBB", []float64{-0.01, 0.02, -0.01, 0.01, 0.02, -0.01, 0.00, 0.02}),
	}
}

func newTestRouter() *chi.Mux {
	logger := zerolog.Nop()
	optService := optimization.NewService(&fakeProvider{series: testSeries()}, nil, optimization.NewOptimizer(logger), logger)
	handler := NewHandler(charts.NewService(logger), optService, logger)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return router
}

func TestHandleFrontierChart(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/optimize/frontier/chart?tickers=AAA,BBB&points=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0x89, 'P', 'N', 'G'}))
}

func TestHandleFrontierChart_MissingTickers(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/optimize/frontier/chart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
