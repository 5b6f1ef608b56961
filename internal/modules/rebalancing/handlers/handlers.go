// Package handlers provides HTTP handlers for rebalancing operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/quantfolio/quantfolio/internal/marketdata"
	"github.com/quantfolio/quantfolio/internal/modules/rebalancing"
	"github.com/quantfolio/quantfolio/pkg/formulas"
	"github.com/rs/zerolog"
)

// Signal periods for the momentum fallback on the adjust endpoint.
const (
	signalShortPeriod = 20
	signalLongPeriod  = 60
)

// PriceProvider supplies price history for the momentum signal fallback.
type PriceProvider interface {
	GetSeries(ticker, startDate, endDate string) (marketdata.PriceSeries, error)
}

// Handler handles rebalancing HTTP requests
type Handler struct {
	service *rebalancing.Service
	prices  PriceProvider
	log     zerolog.Logger
}

// NewHandler creates a new rebalancing handler. prices may be nil, in which
// case the adjust endpoint requires an explicit signal.
func NewHandler(service *rebalancing.Service, prices PriceProvider, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		prices:  prices,
		log:     log.With().Str("handler", "rebalancing").Logger(),
	}
}

type rebalanceRequest struct {
	Current   []float64 `json:"current"`
	Target    []float64 `json:"target"`
	Tolerance float64   `json:"tolerance"`
}

// HandleRebalance handles POST /api/rebalance
func (h *Handler) HandleRebalance(w http.ResponseWriter, r *http.Request) {
	var req rebalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	weights, rebalanced, err := h.service.Rebalance(req.Current, req.Target, req.Tolerance)
	if err != nil {
		h.log.Error().Err(err).Msg("Rebalance check failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tolerance := req.Tolerance
	if tolerance <= 0 {
		tolerance = rebalancing.DefaultTolerance
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"weights":    weights,
			"rebalanced": rebalanced,
			"tolerance":  tolerance,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

type adjustRequest struct {
	Weights         []float64 `json:"weights"`
	Signal          *float64  `json:"signal"`
	SignalTicker    string    `json:"signal_ticker"`
	TransactionCost *float64  `json:"transaction_cost"`
}

// HandleAdjust handles POST /api/rebalance/adjust. The market signal is
// taken from the request when present, otherwise derived from the
// signal_ticker's price momentum.
func (h *Handler) HandleAdjust(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Weights) == 0 {
		http.Error(w, "weights are required", http.StatusBadRequest)
		return
	}

	cost := rebalancing.DefaultTransactionCost
	if req.TransactionCost != nil {
		cost = *req.TransactionCost
	}

	var signal float64
	switch {
	case req.Signal != nil:
		signal = *req.Signal
	case req.SignalTicker != "" && h.prices != nil:
		derived, err := h.momentumSignal(req.SignalTicker)
		if err != nil {
			h.log.Error().Err(err).Str("ticker", req.SignalTicker).Msg("Failed to derive market signal")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		signal = derived
	default:
		http.Error(w, "signal or signal_ticker is required", http.StatusBadRequest)
		return
	}

	adjusted, postSum := h.service.AdjustForCosts(req.Weights, signal, cost)

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"weights":          adjusted,
			"weights_sum":      postSum,
			"signal":           signal,
			"transaction_cost": cost,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// momentumSignal derives a market signal from the ticker's SMA crossover
// over the past year of closes.
func (h *Handler) momentumSignal(ticker string) (float64, error) {
	endDate := time.Now().Format("2006-01-02")
	startDate := time.Now().AddDate(-1, 0, 0).Format("2006-01-02")

	series, err := h.prices.GetSeries(ticker, startDate, endDate)
	if err != nil {
		return 0, err
	}

	return formulas.MomentumSignal(series.Closes(), signalShortPeriod, signalLongPeriod), nil
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
