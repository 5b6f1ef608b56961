// Package handlers provides HTTP handlers for risk metric operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/quantfolio/quantfolio/internal/modules/risk"
	"github.com/quantfolio/quantfolio/pkg/formulas"
	"github.com/rs/zerolog"
)

// Handler handles risk metric HTTP requests
type Handler struct {
	service *risk.Service
	log     zerolog.Logger
}

// NewHandler creates a new risk handler
func NewHandler(service *risk.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "risk").Logger(),
	}
}

type varRequest struct {
	Returns      []float64 `json:"returns"`
	Tickers      []string  `json:"tickers"`
	Weights      []float64 `json:"weights"`
	Confidence   float64   `json:"confidence"`
	LookbackDays int       `json:"lookback_days"`
}

// HandleVaR handles POST /api/risk/var
func (h *Handler) HandleVaR(w http.ResponseWriter, r *http.Request) {
	var req varRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var metrics *risk.Metrics
	var err error
	if len(req.Returns) > 0 {
		metrics, err = h.service.FromReturns(req.Returns, req.Confidence)
	} else {
		metrics, err = h.service.FromPortfolio(req.Tickers, req.Weights, req.Confidence, req.LookbackDays)
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute VaR")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := map[string]interface{}{
		"data": metrics,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

type sharpeRequest struct {
	PortfolioReturn float64  `json:"portfolio_return"`
	StdDev          float64  `json:"stddev"`
	RiskFreeRate    *float64 `json:"risk_free_rate"`
}

// HandleSharpe handles POST /api/risk/sharpe
func (h *Handler) HandleSharpe(w http.ResponseWriter, r *http.Request) {
	var req sharpeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	riskFree := 0.0
	if req.RiskFreeRate != nil {
		riskFree = *req.RiskFreeRate
	}

	sharpe, err := formulas.SharpeRatio(req.PortfolioReturn, req.StdDev, riskFree)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute Sharpe ratio")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"sharpe_ratio":   sharpe,
			"return":         req.PortfolioReturn,
			"stddev":         req.StdDev,
			"risk_free_rate": riskFree,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
