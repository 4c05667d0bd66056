package scheduler

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/prudentia/risk-engine/internal/domain"
	"github.com/prudentia/risk-engine/internal/modules/portfolio"
	"github.com/prudentia/risk-engine/internal/modules/runs"
	"github.com/prudentia/risk-engine/internal/modules/stress"
)

// ScenarioSource lists the scenarios the daily run executes.
type ScenarioSource interface {
	GetAll() ([]domain.Scenario, error)
}

// RunRecorder appends completed runs to the audit trail.
type RunRecorder interface {
	Record(result stress.RunResult) (runs.Run, error)
}

// DailyCapitalRunJob re-runs every stored scenario against the reference
// portfolio file and records the results, producing a daily capital series
// in the audit trail.
type DailyCapitalRunJob struct {
	portfolioPath string
	scenarios     ScenarioSource
	stressService *stress.Service
	recorder      RunRecorder
	log           zerolog.Logger
}

// NewDailyCapitalRunJob creates the daily capital run job.
func NewDailyCapitalRunJob(
	portfolioPath string,
	scenarios ScenarioSource,
	stressService *stress.Service,
	recorder RunRecorder,
	log zerolog.Logger,
) *DailyCapitalRunJob {
	return &DailyCapitalRunJob{
		portfolioPath: portfolioPath,
		scenarios:     scenarios,
		stressService: stressService,
		recorder:      recorder,
		log:           log.With().Str("job", "daily_capital_run").Logger(),
	}
}

// Name implements Job.
func (j *DailyCapitalRunJob) Name() string {
	return "daily_capital_run"
}

// Run loads the reference portfolio, runs every stored scenario against it
// and records each result. The portfolio file is re-read on every run so an
// updated file takes effect without a restart. Scenarios are independent:
// one failing does not stop the others, but any failure fails the job.
func (j *DailyCapitalRunJob) Run() error {
	p, err := j.loadPortfolio()
	if err != nil {
		return err
	}

	scenarios, err := j.scenarios.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load scenario catalog: %w", err)
	}
	if len(scenarios) == 0 {
		j.log.Warn().Msg("No scenarios stored, nothing to run")
		return nil
	}

	var failures int
	for _, scenario := range scenarios {
		result, err := j.stressService.Run(p, scenario)
		if err != nil {
			j.log.Error().Err(err).Str("scenario", scenario.Name).Msg("Scenario run failed")
			failures++
			continue
		}

		recorded, err := j.recorder.Record(result)
		if err != nil {
			j.log.Error().Err(err).Str("scenario", scenario.Name).Msg("Failed to record run")
			failures++
			continue
		}

		j.log.Info().
			Str("scenario", scenario.Name).
			Str("run_id", recorded.ID).
			Float64("stressed_rwa", result.Stressed.TotalRWA).
			Msg("Recorded daily capital run")
	}

	if failures > 0 {
		return fmt.Errorf("daily capital run: %d of %d scenarios failed", failures, len(scenarios))
	}
	return nil
}

func (j *DailyCapitalRunJob) loadPortfolio() (domain.Portfolio, error) {
	data, err := os.ReadFile(j.portfolioPath)
	if err != nil {
		return domain.Portfolio{}, fmt.Errorf("failed to read reference portfolio %q: %w", j.portfolioPath, err)
	}

	var payload portfolio.PortfolioPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.Portfolio{}, fmt.Errorf("failed to parse reference portfolio %q: %w", j.portfolioPath, err)
	}
	if len(payload.Exposures) == 0 {
		return domain.Portfolio{}, fmt.Errorf("reference portfolio %q contains no exposures", j.portfolioPath)
	}

	return payload.ToDomain()
}
