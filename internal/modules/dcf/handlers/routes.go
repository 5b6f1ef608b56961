package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all valuation analytics routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Post("/dcf", h.HandleDCF)
		r.Post("/factor-model", h.HandleFactorModel)
	})
}
