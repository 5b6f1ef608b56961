// Package handlers provides HTTP handlers for valuation analytics.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/quantfolio/quantfolio/pkg/formulas"
	"github.com/rs/zerolog"
)

// Handler handles valuation analytics HTTP requests
type Handler struct {
	riskFreeRate float64
	log          zerolog.Logger
}

// NewHandler creates a new analytics handler. riskFreeRate is the default
// rate applied when a request omits one.
func NewHandler(riskFreeRate float64, log zerolog.Logger) *Handler {
	return &Handler{
		riskFreeRate: riskFreeRate,
		log:          log.With().Str("handler", "analytics").Logger(),
	}
}

type dcfRequest struct {
	CashFlows    []float64 `json:"cash_flows"`
	DiscountRate float64   `json:"discount_rate"`
	Simulations  int       `json:"simulations"`
}

// HandleDCF handles POST /api/analytics/dcf
func (h *Handler) HandleDCF(w http.ResponseWriter, r *http.Request) {
	var req dcfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.DiscountRate <= 0 {
		http.Error(w, "discount_rate must be positive", http.StatusBadRequest)
		return
	}

	simulations := req.Simulations
	if simulations <= 0 {
		simulations = formulas.DefaultDCFSimulations
	}

	value, err := formulas.MonteCarloDCF(req.CashFlows, req.DiscountRate, simulations, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to run DCF simulation")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"intrinsic_value": value,
			"npv":             formulas.NPV(req.CashFlows, req.DiscountRate),
			"discount_rate":   req.DiscountRate,
			"simulations":     simulations,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

type factorModelRequest struct {
	MarketReturn float64  `json:"market_return"`
	SMB          float64  `json:"smb"`
	HML          float64  `json:"hml"`
	RiskFreeRate *float64 `json:"risk_free_rate"`
}

// HandleFactorModel handles POST /api/analytics/factor-model
func (h *Handler) HandleFactorModel(w http.ResponseWriter, r *http.Request) {
	var req factorModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	riskFree := h.riskFreeRate
	if req.RiskFreeRate != nil {
		riskFree = *req.RiskFreeRate
	}

	expected := formulas.FamaFrenchExpectedReturn(req.MarketReturn, req.SMB, req.HML, riskFree)

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"expected_return": expected,
			"risk_free_rate":  riskFree,
			"loadings": map[string]float64{
				"market": formulas.MarketLoading,
				"smb":    formulas.SMBLoading,
				"hml":    formulas.HMLLoading,
			},
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
