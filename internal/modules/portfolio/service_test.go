package portfolio

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prudentia/risk-engine/internal/domain"
	"github.com/prudentia/risk-engine/internal/modules/basel"
)

func TestAssessSumsIndividualResults(t *testing.T) {
	svc := NewService(zerolog.Nop())

	a, err := domain.NewExposure("A", 0.01, 0.45, 1_000_000, 2.5, domain.ClassCorporate, nil)
	require.NoError(t, err)
	b, err := domain.NewExposure("B", 0.05, 0.40, 500_000, 4.0, domain.ClassCorporate, nil)
	require.NoError(t, err)

	resultA, err := basel.Evaluate(a)
	require.NoError(t, err)
	resultB, err := basel.Evaluate(b)
	require.NoError(t, err)

	assessment, results, err := svc.Assess(domain.Portfolio{Exposures: []domain.Exposure{a, b}})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Portfolio totals are exactly the sum of the individually computed
	// results: no cross-term, no normalization.
	assert.InDelta(t, resultA.RWA+resultB.RWA, assessment.TotalRWA, 1e-9)
	assert.InDelta(t, resultA.EL+resultB.EL, assessment.TotalExpectedLoss, 1e-9)
	assert.InDelta(t, resultA.CapitalAmount+resultB.CapitalAmount, assessment.CapitalRequirement, 1e-9)
	assert.InDelta(t, 1_500_000, assessment.TotalExposure, 1e-9)
	assert.InDelta(t, 0.03, assessment.AveragePD, 1e-12)
}

func TestAssessEmptyPortfolio(t *testing.T) {
	svc := NewService(zerolog.Nop())

	assessment, results, err := svc.Assess(domain.Portfolio{})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, assessment.TotalExposure)
	assert.Zero(t, assessment.TotalRWA)
	assert.Zero(t, assessment.AveragePD)
}

// Capital requirement equals 8% of total RWA by construction of the 12.5
// multiplier; the aggregate must preserve that identity.
func TestCapitalRequirementIsEightPercentOfRWA(t *testing.T) {
	svc := NewService(zerolog.Nop())

	a, err := domain.NewExposure("A", 0.02, 0.45, 750_000, 3.0, domain.ClassCorporate, nil)
	require.NoError(t, err)

	assessment, _, err := svc.Assess(domain.Portfolio{Exposures: []domain.Exposure{a}})
	require.NoError(t, err)
	assert.InEpsilon(t, assessment.TotalRWA*0.08, assessment.CapitalRequirement, 1e-12)
}

func TestExposurePayloadToDomain(t *testing.T) {
	payload := ExposurePayload{
		ID: "C001", PD: 0.01, LGD: 0.45, EAD: 1000, Maturity: 0, ExposureClass: "CORPORATE",
	}

	exp, err := payload.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, 2.5, exp.Maturity, "unspecified maturity defaults to the Basel standard 2.5y")

	payload.ExposureClass = "HEDGE_FUND"
	_, err = payload.ToDomain()
	var unknown *domain.UnknownExposureClassError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "C001", unknown.ExposureID)
}

func TestPortfolioPayloadFailsFast(t *testing.T) {
	payload := PortfolioPayload{Exposures: []ExposurePayload{
		{ID: "OK", PD: 0.01, LGD: 0.45, EAD: 1000, Maturity: 2.5, ExposureClass: "CORPORATE"},
		{ID: "BAD", PD: 0.0, LGD: 0.45, EAD: 1000, Maturity: 2.5, ExposureClass: "CORPORATE"},
	}}

	_, err := payload.ToDomain()
	var invalid *domain.InvalidRiskParameterError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "BAD", invalid.ExposureID)
}
