package basel

import (
	"math"

	"github.com/prudentia/risk-engine/internal/domain"
)

// Basel treats the one- and five-year maturity bounds as regulatory floor
// and cap, not input-validity errors: out-of-band maturities are clamped,
// never rejected.
const (
	maturityFloorYears = 1.0
	maturityCapYears   = 5.0
)

// MaturityAdjustment computes MF, the maturity adjustment factor:
//
//	b  = (0.11852 - 0.05478·ln(PD))²
//	MF = (1 + (M - 2.5)·b) / (1 - 1.5·b)
//
// with M clamped to [1, 5] before the computation. Retail exposures carry no
// maturity adjustment under the rule book, so the retail branch returns 1
// regardless of the maturity input.
func MaturityAdjustment(exp domain.Exposure) float64 {
	if exp.Class == domain.ClassRetail {
		return 1.0
	}

	m := math.Min(math.Max(exp.Maturity, maturityFloorYears), maturityCapYears)
	b := math.Pow(0.11852-0.05478*math.Log(exp.PD), 2)
	return (1 + (m-2.5)*b) / (1 - 1.5*b)
}
