// Package handlers provides HTTP handlers for chart rendering.
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/quantfolio/quantfolio/internal/modules/charts"
	"github.com/quantfolio/quantfolio/internal/modules/optimization"
	"github.com/rs/zerolog"
)

// Handler handles chart rendering HTTP requests
type Handler struct {
	charts       *charts.Service
	optimization *optimization.Service
	log          zerolog.Logger
}

// NewHandler creates a new charts handler
func NewHandler(chartService *charts.Service, optimizationService *optimization.Service, log zerolog.Logger) *Handler {
	return &Handler{
		charts:       chartService,
		optimization: optimizationService,
		log:          log.With().Str("handler", "charts").Logger(),
	}
}

// HandleFrontierChart handles GET /api/optimize/frontier/chart
func (h *Handler) HandleFrontierChart(w http.ResponseWriter, r *http.Request) {
	rawTickers := r.URL.Query().Get("tickers")
	if rawTickers == "" {
		http.Error(w, "tickers query parameter is required", http.StatusBadRequest)
		return
	}
	var tickers []string
	for _, t := range strings.Split(rawTickers, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tickers = append(tickers, t)
		}
	}

	numPoints := optimization.FrontierPoints
	if raw := r.URL.Query().Get("points"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "points must be a positive integer", http.StatusBadRequest)
			return
		}
		numPoints = n
	}

	frontier, err := h.optimization.Frontier(tickers, numPoints, 0)
	if err != nil {
		h.log.Error().Err(err).Strs("tickers", tickers).Msg("Frontier sweep failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	img, err := h.charts.RenderFrontier(frontier)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to render frontier chart")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img); err != nil {
		h.log.Error().Err(err).Msg("Failed to write chart response")
	}
}
