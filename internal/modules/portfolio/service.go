package portfolio

import (
	"github.com/rs/zerolog"

	"github.com/prudentia/risk-engine/internal/domain"
	"github.com/prudentia/risk-engine/internal/modules/basel"
	"github.com/prudentia/risk-engine/pkg/formulas"
)

// Service computes baseline regulatory assessments.
type Service struct {
	log zerolog.Logger
}

// NewService creates a new portfolio assessment service.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("component", "portfolio").Logger(),
	}
}

// Assess runs the Basel kernel over every exposure and aggregates the
// portfolio totals. An empty portfolio yields a zero assessment, not an
// error. Any kernel failure aborts the whole assessment.
func (s *Service) Assess(p domain.Portfolio) (Assessment, []basel.ExposureResult, error) {
	results := make([]basel.ExposureResult, 0, p.Len())
	for _, exp := range p.Exposures {
		result, err := basel.Evaluate(exp)
		if err != nil {
			return Assessment{}, nil, err
		}
		results = append(results, result)
	}

	assessment := Aggregate(results)
	s.log.Debug().
		Int("exposures", p.Len()).
		Float64("total_rwa", assessment.TotalRWA).
		Float64("capital_requirement", assessment.CapitalRequirement).
		Msg("Assessed portfolio")

	return assessment, results, nil
}

// Aggregate sums per-exposure results into a portfolio assessment. It is a
// pure reduction: summation only, order-independent up to float rounding.
func Aggregate(results []basel.ExposureResult) Assessment {
	var assessment Assessment
	pds := make([]float64, 0, len(results))
	for _, r := range results {
		assessment.TotalExposure += r.EAD
		assessment.TotalExpectedLoss += r.EL
		assessment.TotalRWA += r.RWA
		assessment.CapitalRequirement += r.CapitalAmount
		pds = append(pds, r.PDUsed)
	}
	assessment.AveragePD = formulas.Mean(pds)
	return assessment
}
