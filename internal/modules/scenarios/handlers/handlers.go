// Package handlers provides HTTP handlers for the scenario catalog.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prudentia/risk-engine/internal/domain"
	"github.com/prudentia/risk-engine/internal/modules/scenarios"
)

// Handler handles scenario catalog HTTP requests
type Handler struct {
	repo *scenarios.Repository
	log  zerolog.Logger
}

// NewHandler creates a new scenario handler
func NewHandler(repo *scenarios.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "scenarios").Logger(),
	}
}

// HandleList handles GET /api/scenarios
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.GetAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list scenarios")
		http.Error(w, "Failed to list scenarios", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"scenarios": all,
			"count":     len(all),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGet handles GET /api/scenarios/{name}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	scenario, err := h.repo.Get(name)
	if errors.Is(err, scenarios.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("scenario", name).Msg("Failed to load scenario")
		http.Error(w, "Failed to load scenario", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"scenario": scenario,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// SaveScenarioRequest is the body of PUT /api/scenarios/{name}.
type SaveScenarioRequest struct {
	Description      string             `json:"description"`
	GDPGrowth        float64            `json:"gdp_growth"`
	UnemploymentRate float64            `json:"unemployment_rate"`
	Z                float64            `json:"z"`
	Sensitivities    map[string]float64 `json:"sensitivities"`
}

// HandleSave handles PUT /api/scenarios/{name}
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		http.Error(w, "scenario name is required", http.StatusBadRequest)
		return
	}

	var req SaveScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sensitivities := make(map[domain.ExposureClass]float64, len(req.Sensitivities))
	for raw, sensitivity := range req.Sensitivities {
		class, err := domain.ParseExposureClass(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		sensitivities[class] = sensitivity
	}

	scenario := domain.Scenario{
		Name:             name,
		Description:      req.Description,
		GDPGrowth:        req.GDPGrowth,
		UnemploymentRate: req.UnemploymentRate,
		Z:                req.Z,
		Sensitivities:    sensitivities,
	}

	if err := h.repo.Save(scenario); err != nil {
		h.log.Error().Err(err).Str("scenario", name).Msg("Failed to save scenario")
		http.Error(w, "Failed to save scenario", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"scenario": scenario,
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
