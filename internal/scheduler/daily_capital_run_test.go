package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prudentia/risk-engine/internal/domain"
	"github.com/prudentia/risk-engine/internal/modules/runs"
	"github.com/prudentia/risk-engine/internal/modules/scenarios"
	"github.com/prudentia/risk-engine/internal/modules/stress"
)

type fakeScenarioSource struct {
	scenarios []domain.Scenario
	err       error
}

func (f *fakeScenarioSource) GetAll() ([]domain.Scenario, error) {
	return f.scenarios, f.err
}

type fakeRecorder struct {
	recorded []stress.RunResult
	err      error
}

func (f *fakeRecorder) Record(result stress.RunResult) (runs.Run, error) {
	if f.err != nil {
		return runs.Run{}, f.err
	}
	f.recorded = append(f.recorded, result)
	return runs.Run{ID: fmt.Sprintf("run-%d", len(f.recorded)), Scenario: result.Scenario}, nil
}

func writeReferencePortfolio(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validPortfolio = `{"exposures": [
	{"id": "C001", "pd": 0.01, "lgd": 0.45, "ead": 1000000, "maturity": 2.5, "exposure_class": "CORPORATE"},
	{"id": "R001", "pd": 0.02, "lgd": 0.50, "ead": 250000, "maturity": 1.0, "exposure_class": "RETAIL"}
]}`

func newTestJob(t *testing.T, portfolioJSON string, source ScenarioSource, recorder RunRecorder) *DailyCapitalRunJob {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	return NewDailyCapitalRunJob(
		writeReferencePortfolio(t, portfolioJSON),
		source,
		stress.NewService(stress.Config{}, logger),
		recorder,
		logger,
	)
}

func TestDailyCapitalRunRecordsEveryScenario(t *testing.T) {
	recorder := &fakeRecorder{}
	job := newTestJob(t, validPortfolio,
		&fakeScenarioSource{scenarios: scenarios.DefaultScenarios()}, recorder)

	require.NoError(t, job.Run())
	require.Len(t, recorder.recorded, 3)

	names := make([]string, len(recorder.recorded))
	for i, r := range recorder.recorded {
		names[i] = r.Scenario
	}
	assert.Equal(t, []string{"baseline", "adverse", "severely_adverse"}, names)
}

func TestDailyCapitalRunMissingPortfolioFile(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	job := NewDailyCapitalRunJob(
		filepath.Join(t.TempDir(), "does-not-exist.json"),
		&fakeScenarioSource{scenarios: scenarios.DefaultScenarios()},
		stress.NewService(stress.Config{}, logger),
		&fakeRecorder{},
		logger,
	)

	assert.Error(t, job.Run())
}

func TestDailyCapitalRunInvalidPortfolio(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", "{not json"},
		{"no exposures", `{"exposures": []}`},
		{"invalid pd", `{"exposures": [{"id": "X", "pd": 0, "lgd": 0.4, "ead": 1, "exposure_class": "CORPORATE"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := newTestJob(t, tt.content,
				&fakeScenarioSource{scenarios: scenarios.DefaultScenarios()}, &fakeRecorder{})
			assert.Error(t, job.Run())
		})
	}
}

func TestDailyCapitalRunContinuesPastScenarioFailure(t *testing.T) {
	// A scenario missing the RETAIL sensitivity fails against a portfolio
	// holding a retail exposure; the remaining scenarios must still run.
	broken := domain.Scenario{
		Name:          "broken",
		Z:             1.0,
		Sensitivities: map[domain.ExposureClass]float64{domain.ClassCorporate: 1.0},
	}
	catalog := append([]domain.Scenario{broken}, scenarios.DefaultScenarios()...)

	recorder := &fakeRecorder{}
	job := newTestJob(t, validPortfolio, &fakeScenarioSource{scenarios: catalog}, recorder)

	err := job.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 4")
	assert.Len(t, recorder.recorded, 3, "healthy scenarios still recorded")
}

func TestDailyCapitalRunEmptyCatalog(t *testing.T) {
	recorder := &fakeRecorder{}
	job := newTestJob(t, validPortfolio, &fakeScenarioSource{}, recorder)

	require.NoError(t, job.Run())
	assert.Empty(t, recorder.recorded)
}

func TestDailyCapitalRunRecordingFailure(t *testing.T) {
	recorder := &fakeRecorder{err: fmt.Errorf("disk full")}
	job := newTestJob(t, validPortfolio,
		&fakeScenarioSource{scenarios: scenarios.DefaultScenarios()}, recorder)

	assert.Error(t, job.Run())
}
