package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the regulatory assessment routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/assess/regulatory", h.HandleAssessRegulatory)
}
