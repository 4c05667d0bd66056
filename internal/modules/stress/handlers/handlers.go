// Package handlers provides HTTP handlers for stress-test execution.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/prudentia/risk-engine/internal/domain"
	"github.com/prudentia/risk-engine/internal/modules/portfolio"
	"github.com/prudentia/risk-engine/internal/modules/runs"
	"github.com/prudentia/risk-engine/internal/modules/scenarios"
	"github.com/prudentia/risk-engine/internal/modules/stress"
)

// ScenarioStore resolves scenario names against the stored catalog.
type ScenarioStore interface {
	Get(name string) (domain.Scenario, error)
}

// RunRecorder appends completed runs to the audit trail.
type RunRecorder interface {
	Record(result stress.RunResult) (runs.Run, error)
}

// Handler handles stress-test HTTP requests
type Handler struct {
	stressService *stress.Service
	scenarioStore ScenarioStore
	runRecorder   RunRecorder
	log           zerolog.Logger
}

// NewHandler creates a new stress handler
func NewHandler(stressService *stress.Service, scenarioStore ScenarioStore, runRecorder RunRecorder, log zerolog.Logger) *Handler {
	return &Handler{
		stressService: stressService,
		scenarioStore: scenarioStore,
		runRecorder:   runRecorder,
		log:           log.With().Str("handler", "stress").Logger(),
	}
}

// ScenarioPayload is an inline scenario definition for ad-hoc what-if runs.
// Sensitivities omitted from the map default to 1.0 per class.
type ScenarioPayload struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Z             float64            `json:"z"`
	Sensitivities map[string]float64 `json:"sensitivities"`
}

// ToDomain validates and converts the payload.
func (p ScenarioPayload) ToDomain() (domain.Scenario, error) {
	name := p.Name
	if name == "" {
		name = "ad-hoc"
	}

	sensitivities := make(map[domain.ExposureClass]float64, len(domain.AllExposureClasses))
	for _, class := range domain.AllExposureClasses {
		sensitivities[class] = 1.0
	}
	for raw, sensitivity := range p.Sensitivities {
		class, err := domain.ParseExposureClass(raw)
		if err != nil {
			return domain.Scenario{}, err
		}
		sensitivities[class] = sensitivity
	}

	return domain.Scenario{
		Name:          name,
		Description:   p.Description,
		Z:             p.Z,
		Sensitivities: sensitivities,
	}, nil
}

// StressRequest is the body of POST /api/assess/stress. Exactly one of
// Scenario (a catalog name) or CustomScenario must be given.
type StressRequest struct {
	Scenario       string                     `json:"scenario"`
	CustomScenario *ScenarioPayload           `json:"custom_scenario,omitempty"`
	Portfolio      portfolio.PortfolioPayload `json:"portfolio"`
}

// HandleAssessStress handles POST /api/assess/stress
func (h *Handler) HandleAssessStress(w http.ResponseWriter, r *http.Request) {
	var req StressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if (req.Scenario == "") == (req.CustomScenario == nil) {
		http.Error(w, "exactly one of scenario or custom_scenario is required", http.StatusBadRequest)
		return
	}
	if len(req.Portfolio.Exposures) == 0 {
		http.Error(w, "at least one exposure is required", http.StatusBadRequest)
		return
	}

	var scenario domain.Scenario
	var err error
	if req.Scenario != "" {
		scenario, err = h.scenarioStore.Get(req.Scenario)
		if errors.Is(err, scenarios.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			h.log.Error().Err(err).Str("scenario", req.Scenario).Msg("Failed to load scenario")
			http.Error(w, "Failed to load scenario", http.StatusInternalServerError)
			return
		}
	} else {
		scenario, err = req.CustomScenario.ToDomain()
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
	}

	p, err := req.Portfolio.ToDomain()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	result, err := h.stressService.Run(p, scenario)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	// Every completed run lands in the audit trail. A recording failure is
	// reported as a failure: an unrecorded capital number is not reportable.
	recorded, err := h.runRecorder.Record(result)
	if err != nil {
		h.log.Error().Err(err).Str("scenario", scenario.Name).Msg("Failed to record stress run")
		http.Error(w, "Failed to record stress run", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"run_id": recorded.ID,
			"result": result,
		},
		"metadata": map[string]interface{}{
			"timestamp":      time.Now().Format(time.RFC3339),
			"exposure_count": len(result.Exposures),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeDomainError maps the engine's typed errors onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var invalidParam *domain.InvalidRiskParameterError
	var unknownClass *domain.UnknownExposureClassError
	var missingSensitivity *domain.MissingScenarioSensitivityError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &invalidParam), errors.As(err, &unknownClass), errors.As(err, &missingSensitivity):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("Stress run failed")
	} else {
		h.log.Warn().Err(err).Msg("Rejected stress request")
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
