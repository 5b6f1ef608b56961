package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all chart rendering routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/optimize/frontier/chart", h.HandleFrontierChart)
}
