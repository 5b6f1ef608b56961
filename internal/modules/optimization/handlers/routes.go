package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all optimization routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/optimize", h.HandleOptimize)
	r.Get("/optimize/frontier", h.HandleFrontier)
	r.Get("/optimize/frontier/stream", h.HandleFrontierStream)
}
