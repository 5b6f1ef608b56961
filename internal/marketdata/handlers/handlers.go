// Package handlers provides HTTP handlers for price history operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/quantfolio/quantfolio/internal/marketdata"
	"github.com/rs/zerolog"
)

// Handler handles price history HTTP requests
type Handler struct {
	service *marketdata.Service
	tickers []string
	log     zerolog.Logger
}

// NewHandler creates a new prices handler. tickers is the configured
// universe refreshed by POST /api/prices/refresh when the request does not
// name its own.
func NewHandler(service *marketdata.Service, tickers []string, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		tickers: tickers,
		log:     log.With().Str("handler", "prices").Logger(),
	}
}

// HandleGetPrices handles GET /api/prices/{ticker}
func (h *Handler) HandleGetPrices(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	endDate := r.URL.Query().Get("end")
	if endDate == "" {
		endDate = time.Now().Format("2006-01-02")
	}
	startDate := r.URL.Query().Get("start")
	if startDate == "" {
		startDate = time.Now().AddDate(-1, 0, 0).Format("2006-01-02")
	}
	for _, d := range []string{startDate, endDate} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			http.Error(w, "dates must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	series, err := h.service.GetSeries(ticker, startDate, endDate)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to get price series")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": series,
		"metadata": map[string]interface{}{
			"start":     startDate,
			"end":       endDate,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

type refreshRequest struct {
	Tickers      []string `json:"tickers"`
	LookbackDays int      `json:"lookback_days"`
}

// HandleRefresh handles POST /api/prices/refresh
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	tickers := req.Tickers
	if len(tickers) == 0 {
		tickers = h.tickers
	}
	if len(tickers) == 0 {
		http.Error(w, "no tickers configured or provided", http.StatusBadRequest)
		return
	}

	if err := h.service.Refresh(tickers, req.LookbackDays); err != nil {
		h.log.Error().Err(err).Strs("tickers", tickers).Msg("Price refresh failed")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"tickers":   tickers,
			"refreshed": true,
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
