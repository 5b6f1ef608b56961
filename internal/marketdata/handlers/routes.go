package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all price history routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/prices", func(r chi.Router) {
		r.Post("/refresh", h.HandleRefresh)
		r.Get("/{ticker}", h.HandleGetPrices)
	})
}
