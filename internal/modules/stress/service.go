package stress

import (
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/prudentia/risk-engine/internal/domain"
	"github.com/prudentia/risk-engine/internal/modules/basel"
	"github.com/prudentia/risk-engine/internal/modules/portfolio"
)

// Config holds stress engine tuning.
type Config struct {
	Workers   int     // worker goroutines for per-exposure evaluation; <=0 means GOMAXPROCS
	PDEpsilon float64 // clamp distance from the (0,1) PD bounds; <=0 means DefaultPDEpsilon
}

// Service runs stress scenarios. It is stateless across invocations: each
// (portfolio, scenario) pair is computed independently and the same inputs
// always produce the same outputs.
type Service struct {
	workers   int
	pdEpsilon float64
	log       zerolog.Logger
}

// NewService creates a stress engine.
func NewService(cfg Config, log zerolog.Logger) *Service {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	epsilon := cfg.PDEpsilon
	if epsilon <= 0 {
		epsilon = DefaultPDEpsilon
	}
	return &Service{
		workers:   workers,
		pdEpsilon: epsilon,
		log:       log.With().Str("component", "stress").Logger(),
	}
}

// PDEpsilon exposes the configured clamp so callers and tests can assert on
// the policy in effect.
func (s *Service) PDEpsilon() float64 {
	return s.pdEpsilon
}

// Run applies the scenario to every exposure and reports baseline, stressed
// and delta results per exposure plus portfolio totals of each.
//
// The scenario's sensitivities are validated against the portfolio's classes
// before any math runs; any per-exposure failure aborts the whole run with
// no partial results, so a caller can never mistake an incomplete capital
// number for a complete one.
//
// Exposures are independent, so evaluation fans out across a bounded worker
// pool. Each worker writes its result by index; aggregation afterwards is a
// deterministic sum in portfolio order.
func (s *Service) Run(p domain.Portfolio, scenario domain.Scenario) (RunResult, error) {
	if err := scenario.ValidateFor(p); err != nil {
		return RunResult{}, err
	}

	exposures := make([]ExposureStress, p.Len())
	errs := make([]error, p.Len())

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				exposures[i], errs[i] = s.stressExposure(p.Exposures[i], scenario)
			}
		}()
	}
	for i := range p.Exposures {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			s.log.Error().Err(err).
				Str("scenario", scenario.Name).
				Str("exposure_id", p.Exposures[i].ID).
				Msg("Stress run aborted")
			return RunResult{}, err
		}
	}

	baselineResults := make([]basel.ExposureResult, len(exposures))
	stressedResults := make([]basel.ExposureResult, len(exposures))
	for i, es := range exposures {
		baselineResults[i] = es.Baseline
		stressedResults[i] = es.Stressed
	}

	baseline := portfolio.Aggregate(baselineResults)
	stressed := portfolio.Aggregate(stressedResults)

	kDelta := 0.0
	for _, es := range exposures {
		kDelta += es.Delta.K
	}

	result := RunResult{
		Scenario:  scenario.Name,
		Z:         scenario.Z,
		Exposures: exposures,
		Baseline:  baseline,
		Stressed:  stressed,
		Delta: Delta{
			K:             kDelta,
			CapitalAmount: stressed.CapitalRequirement - baseline.CapitalRequirement,
			RWA:           stressed.TotalRWA - baseline.TotalRWA,
			EL:            stressed.TotalExpectedLoss - baseline.TotalExpectedLoss,
		},
	}

	s.log.Info().
		Str("scenario", scenario.Name).
		Float64("z", scenario.Z).
		Int("exposures", p.Len()).
		Float64("baseline_rwa", baseline.TotalRWA).
		Float64("stressed_rwa", stressed.TotalRWA).
		Float64("rwa_delta", result.Delta.RWA).
		Msg("Completed stress run")

	return result, nil
}

// stressExposure evaluates one exposure under the baseline and the scenario.
func (s *Service) stressExposure(exp domain.Exposure, scenario domain.Scenario) (ExposureStress, error) {
	baseline, err := basel.Evaluate(exp)
	if err != nil {
		return ExposureStress{}, err
	}

	sensitivity, ok := scenario.SensitivityFor(exp.Class)
	if !ok {
		// ValidateFor runs first, so this is unreachable unless the scenario
		// was mutated mid-run.
		return ExposureStress{}, &domain.MissingScenarioSensitivityError{Scenario: scenario.Name, Class: exp.Class}
	}

	stressedExp := exp
	stressedExp.PD = ProbitShift(exp.PD, sensitivity, scenario.Z, s.pdEpsilon)

	stressed, err := basel.Evaluate(stressedExp)
	if err != nil {
		return ExposureStress{}, err
	}

	return ExposureStress{
		ExposureID: exp.ID,
		Baseline:   baseline,
		Stressed:   stressed,
		Delta: Delta{
			K:             stressed.K - baseline.K,
			CapitalAmount: stressed.CapitalAmount - baseline.CapitalAmount,
			RWA:           stressed.RWA - baseline.RWA,
			EL:            stressed.EL - baseline.EL,
		},
	}, nil
}
