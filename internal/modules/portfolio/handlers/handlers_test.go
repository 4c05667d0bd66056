package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prudentia/risk-engine/internal/modules/portfolio"
)

func newTestHandler() *Handler {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	return NewHandler(portfolio.NewService(logger), logger)
}

func assessBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"exposures": []map[string]interface{}{
			{"id": "C001", "pd": 0.01, "lgd": 0.45, "ead": 1_000_000, "maturity": 2.5, "exposure_class": "CORPORATE"},
			{"id": "R001", "pd": 0.02, "lgd": 0.50, "ead": 250_000, "maturity": 1.0, "exposure_class": "RETAIL"},
		},
	})
	require.NoError(t, err)
	return body
}

func TestHandleAssessRegulatory(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest("POST", "/api/assess/regulatory", bytes.NewReader(assessBody(t)))
	w := httptest.NewRecorder()

	handler.HandleAssessRegulatory(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)

	require.Contains(t, response, "data")
	data := response["data"].(map[string]interface{})
	assert.Contains(t, data, "assessment")
	assert.Contains(t, data, "exposures")

	assessment := data["assessment"].(map[string]interface{})
	assert.Equal(t, 1_250_000.0, assessment["total_exposure"])
	assert.Greater(t, assessment["total_rwa"].(float64), 0.0)
}

func TestHandleAssessRegulatoryRejectsEmptyPortfolio(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest("POST", "/api/assess/regulatory", strings.NewReader(`{"exposures": []}`))
	w := httptest.NewRecorder()

	handler.HandleAssessRegulatory(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAssessRegulatoryRejectsInvalidParameters(t *testing.T) {
	handler := newTestHandler()

	body := `{"exposures": [{"id": "BAD", "pd": 0.0, "lgd": 0.45, "ead": 1000, "exposure_class": "CORPORATE"}]}`
	req := httptest.NewRequest("POST", "/api/assess/regulatory", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleAssessRegulatory(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	require.Contains(t, response, "error")
	message := response["error"].(map[string]interface{})["message"].(string)
	assert.Contains(t, message, "BAD")
}

func TestHandleAssessRegulatoryRejectsMalformedJSON(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest("POST", "/api/assess/regulatory", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.HandleAssessRegulatory(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
