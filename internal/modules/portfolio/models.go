// Package portfolio computes baseline regulatory assessments over a credit
// portfolio and owns the wire representation of portfolios and exposures.
package portfolio

import (
	"github.com/prudentia/risk-engine/internal/domain"
)

// Assessment is the portfolio-level regulatory summary. Every total is a
// plain sum over per-exposure results; RWA and EL are additive by
// construction (fractions of each exposure's own EAD), so there is no
// normalization or cross-term anywhere.
type Assessment struct {
	TotalExposure      float64 `json:"total_exposure" msgpack:"total_exposure"`
	TotalExpectedLoss  float64 `json:"total_expected_loss" msgpack:"total_expected_loss"`
	TotalRWA           float64 `json:"total_rwa" msgpack:"total_rwa"`
	CapitalRequirement float64 `json:"capital_requirement" msgpack:"capital_requirement"` // sum of K·EAD (= 8% of total RWA)
	AveragePD          float64 `json:"average_pd" msgpack:"average_pd"`
}

// ExposurePayload is the wire form of one exposure.
type ExposurePayload struct {
	ID            string   `json:"id"`
	PD            float64  `json:"pd"`
	LGD           float64  `json:"lgd"`
	EAD           float64  `json:"ead"`
	Maturity      float64  `json:"maturity"`
	ExposureClass string   `json:"exposure_class"`
	Turnover      *float64 `json:"turnover,omitempty"`
}

// ToDomain validates the payload into a domain exposure.
func (p ExposurePayload) ToDomain() (domain.Exposure, error) {
	class, err := domain.ParseExposureClass(p.ExposureClass)
	if err != nil {
		return domain.Exposure{}, &domain.UnknownExposureClassError{ExposureID: p.ID, Class: p.ExposureClass}
	}
	maturity := p.Maturity
	if maturity == 0 {
		maturity = 2.5 // Basel standard residual maturity when unspecified
	}
	return domain.NewExposure(p.ID, p.PD, p.LGD, p.EAD, maturity, class, p.Turnover)
}

// PortfolioPayload is the wire form of a portfolio.
type PortfolioPayload struct {
	Exposures []ExposurePayload `json:"exposures"`
}

// ToDomain validates every exposure; the first invalid one fails the whole
// portfolio so no partially validated portfolio ever reaches the kernel.
func (p PortfolioPayload) ToDomain() (domain.Portfolio, error) {
	exposures := make([]domain.Exposure, 0, len(p.Exposures))
	for _, payload := range p.Exposures {
		exp, err := payload.ToDomain()
		if err != nil {
			return domain.Portfolio{}, err
		}
		exposures = append(exposures, exp)
	}
	return domain.Portfolio{Exposures: exposures}, nil
}
