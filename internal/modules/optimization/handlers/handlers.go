// Package handlers provides HTTP handlers for portfolio optimization.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/quantfolio/quantfolio/internal/modules/optimization"
	"github.com/rs/zerolog"
)

// Handler handles optimization HTTP requests
type Handler struct {
	service *optimization.Service
	log     zerolog.Logger
}

// NewHandler creates a new optimization handler
func NewHandler(service *optimization.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "optimization").Logger(),
	}
}

type optimizeRequest struct {
	Tickers      []string `json:"tickers"`
	TargetReturn float64  `json:"target_return"`
	LookbackDays int      `json:"lookback_days"`
}

// HandleOptimize handles POST /api/optimize
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Optimize(req.Tickers, req.TargetReturn, req.LookbackDays)
	if err != nil {
		h.log.Error().Err(err).Strs("tickers", req.Tickers).Msg("Optimization failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"tickers": req.Tickers,
			"weights": result.Weights,
			"return":  result.Return,
			"risk":    result.Risk,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleFrontier handles GET /api/optimize/frontier
func (h *Handler) HandleFrontier(w http.ResponseWriter, r *http.Request) {
	tickers, numPoints, lookbackDays, ok := h.frontierParams(w, r)
	if !ok {
		return
	}

	frontier, err := h.service.Frontier(tickers, numPoints, lookbackDays)
	if err != nil {
		h.log.Error().Err(err).Strs("tickers", tickers).Msg("Frontier sweep failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := map[string]interface{}{
		"data": frontier,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// frontierParams parses the query parameters shared by the frontier
// endpoints. Writes an error response and returns ok=false on bad input.
func (h *Handler) frontierParams(w http.ResponseWriter, r *http.Request) (tickers []string, numPoints, lookbackDays int, ok bool) {
	rawTickers := r.URL.Query().Get("tickers")
	if rawTickers == "" {
		http.Error(w, "tickers query parameter is required", http.StatusBadRequest)
		return nil, 0, 0, false
	}
	for _, t := range strings.Split(rawTickers, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) == 0 {
		http.Error(w, "tickers query parameter is required", http.StatusBadRequest)
		return nil, 0, 0, false
	}

	numPoints = optimization.FrontierPoints
	if raw := r.URL.Query().Get("points"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "points must be a positive integer", http.StatusBadRequest)
			return nil, 0, 0, false
		}
		numPoints = n
	}

	if raw := r.URL.Query().Get("lookback_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "lookback_days must be a positive integer", http.StatusBadRequest)
			return nil, 0, 0, false
		}
		lookbackDays = n
	}

	return tickers, numPoints, lookbackDays, true
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
