// Package handlers provides HTTP handlers for regulatory capital assessment.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/prudentia/risk-engine/internal/domain"
	"github.com/prudentia/risk-engine/internal/modules/portfolio"
)

// Handler handles portfolio assessment HTTP requests
type Handler struct {
	portfolioService *portfolio.Service
	log              zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(portfolioService *portfolio.Service, log zerolog.Logger) *Handler {
	return &Handler{
		portfolioService: portfolioService,
		log:              log.With().Str("handler", "portfolio").Logger(),
	}
}

// HandleAssessRegulatory handles POST /api/assess/regulatory
func (h *Handler) HandleAssessRegulatory(w http.ResponseWriter, r *http.Request) {
	var payload portfolio.PortfolioPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(payload.Exposures) == 0 {
		http.Error(w, "at least one exposure is required", http.StatusBadRequest)
		return
	}

	p, err := payload.ToDomain()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	assessment, results, err := h.portfolioService.Assess(p)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"assessment": assessment,
			"exposures":  results,
		},
		"metadata": map[string]interface{}{
			"timestamp":      time.Now().Format(time.RFC3339),
			"exposure_count": len(results),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeDomainError maps the engine's typed errors onto HTTP statuses.
// Invalid inputs are the caller's fault (422), everything else is ours (500).
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var invalidParam *domain.InvalidRiskParameterError
	var unknownClass *domain.UnknownExposureClassError

	status := http.StatusInternalServerError
	if errors.As(err, &invalidParam) || errors.As(err, &unknownClass) {
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("Assessment failed")
	} else {
		h.log.Warn().Err(err).Msg("Rejected assessment request")
	}

	h.writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": err.Error(),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
