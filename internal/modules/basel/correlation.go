// Package basel implements the Basel IRB (ASRF) regulatory capital kernel:
// asset correlation, maturity adjustment and the Vasicek unexpected-loss
// capital requirement, plus the RWA and EL quantities derived from them.
//
// Every function is pure and stateless. Inputs arrive pre-validated through
// domain.NewExposure; the only error a kernel function can return is a
// defensive domain.NumericDomainError, which signals a formula defect rather
// than bad input.
package basel

import (
	"math"

	"github.com/prudentia/risk-engine/internal/domain"
)

// Regulatory constants for the corporate asset correlation interpolation and
// the BCBS firm-size adjustment. The SME turnover bounds mirror the
// regulatory text (annual turnover between EUR 5M and EUR 50M); they live
// here, in one place, so they can be revalidated against the regulation.
const (
	corrHighPD = 0.12 // correlation floor, reached as PD -> 1
	corrLowPD  = 0.24 // correlation cap, reached as PD -> 0
	pdDecay    = 50.0 // exponential decay rate of the PD weighting

	smeMaxAdjustment = 0.04 // maximum downward correlation correction
	smeTurnoverFloor = 5e6  // EUR, turnover floored here
	smeTurnoverCap   = 50e6 // EUR, turnover capped here
)

// AssetCorrelation computes R, the asset correlation of an exposure under
// the Basel corporate formula:
//
//	w = (1 - e^(-50·PD)) / (1 - e^(-50))
//	R = 0.12·w + 0.24·(1 - w)
//
// SME exposures with a known turnover receive the firm-size deduction
// 0.04·(1 - (S - 5M)/45M), with S capped into [5M, 50M]; SMEs without a
// turnover fall back to the corporate formula.
//
// R is bounded inside (0, 1) by construction. The range assert defends
// against future edits to the formula, not against inputs.
func AssetCorrelation(exp domain.Exposure) (float64, error) {
	w := (1 - math.Exp(-pdDecay*exp.PD)) / (1 - math.Exp(-pdDecay))
	r := corrHighPD*w + corrLowPD*(1-w)

	if exp.Class == domain.ClassSME && exp.Turnover != nil {
		turnover := math.Min(math.Max(*exp.Turnover, smeTurnoverFloor), smeTurnoverCap)
		r -= smeMaxAdjustment * (1 - (turnover-smeTurnoverFloor)/(smeTurnoverCap-smeTurnoverFloor))
	}

	if r <= 0 || r >= 1 {
		return 0, &domain.NumericDomainError{ExposureID: exp.ID, Quantity: "correlation", Value: r}
	}
	return r, nil
}
