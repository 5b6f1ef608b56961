package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/quantfolio/quantfolio/internal/marketdata"
	"github.com/quantfolio/quantfolio/internal/modules/rebalancing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePrices returns a fixed single-ticker history.
type fakePrices struct {
	series marketdata.PriceSeries
	err    error
}

func (f *fakePrices) GetSeries(ticker, startDate, endDate string) (marketdata.PriceSeries, error) {
	return f.series, f.err
}

func newTestRouter(prices PriceProvider) *chi.Mux {
	logger := zerolog.Nop()
	handler := NewHandler(rebalancing.NewService(logger), prices, logger)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return router
}

func TestHandleRebalance_WithinTolerance(t *testing.T) {
	router := newTestRouter(nil)

	body := []byte(`{"current": [0.52, 0.48], "target": [0.50, 0.50], "tolerance": 0.05}`)
	req := httptest.NewRequest(http.MethodPost, "/api/rebalance", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Weights    []float64 `json:"weights"`
			Rebalanced bool      `json:"rebalanced"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Rebalanced)
	assert.Equal(t, []float64{0.52, 0.48}, resp.Data.Weights)
}

func TestHandleRebalance_ExceedsTolerance(t *testing.T) {
	router := newTestRouter(nil)

	body := []byte(`{"current": [0.60, 0.40], "target": [0.50, 0.50], "tolerance": 0.05}`)
	req := httptest.NewRequest(http.MethodPost, "/api/rebalance", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Weights    []float64 `json:"weights"`
			Rebalanced bool      `json:"rebalanced"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Rebalanced)
	assert.Equal(t, []float64{0.50, 0.50}, resp.Data.Weights)
}

func TestHandleRebalance_LengthMismatch(t *testing.T) {
	router := newTestRouter(nil)

	body := []byte(`{"current": [1.0], "target": [0.5, 0.5]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/rebalance", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAdjust_ExplicitSignal(t *testing.T) {
	router := newTestRouter(nil)

	body := []byte(`{"weights": [0.6, 0.4], "signal": 0.01, "transaction_cost": 0.005}`)
	req := httptest.NewRequest(http.MethodPost, "/api/rebalance/adjust", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Weights    []float64 `json:"weights"`
			WeightsSum float64   `json:"weights_sum"`
			Signal     float64   `json:"signal"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	factor := 1.01 * 0.995
	assert.InDelta(t, 0.6*factor, resp.Data.Weights[0], 1e-12)
	assert.InDelta(t, 0.4*factor, resp.Data.Weights[1], 1e-12)
	assert.InDelta(t, factor, resp.Data.WeightsSum, 1e-12)
}

func TestHandleAdjust_DerivedSignal(t *testing.T) {
	// Rising closes give a positive momentum signal.
	points := make([]marketdata.PricePoint, 80)
	for i := range points {
		points[i] = marketdata.PricePoint{
			Date:     fmt.Sprintf("2024-%02d-%02d", i/28+1, i%28+1),
			AdjClose: 100 + float64(i),
		}
	}
	router := newTestRouter(&fakePrices{series: marketdata.PriceSeries{Ticker: "SPY", Points: points}})

	body := []byte(`{"weights": [0.5, 0.5], "signal_ticker": "SPY"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/rebalance/adjust", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Signal float64 `json:"signal"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Greater(t, resp.Data.Signal, 0.0)
}

func TestHandleAdjust_MissingSignal(t *testing.T) {
	router := newTestRouter(nil)

	body := []byte(`{"weights": [0.5, 0.5]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/rebalance/adjust", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
