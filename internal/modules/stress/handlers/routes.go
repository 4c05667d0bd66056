package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the stress-test routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/assess/stress", h.HandleAssessStress)
}
