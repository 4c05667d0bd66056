package basel

import (
	"math"

	"github.com/prudentia/risk-engine/internal/domain"
	"github.com/prudentia/risk-engine/pkg/formulas"
)

// ConfidenceLevelIRB is the Basel IRB confidence level for the systemic
// shock quantile.
const ConfidenceLevelIRB = 0.999

// RWAMultiplier converts a capital requirement into risk-weighted assets:
// 12.5 = 1 / 8% minimum capital ratio.
const RWAMultiplier = 12.5

// systemicShock is Φ⁻¹(0.999) ≈ 3.0902, the 99.9% systemic factor quantile.
var systemicShock = formulas.NormInvCDF(ConfidenceLevelIRB)

// ExposureResult holds the regulatory outputs for one exposure under one PD.
// A result is computed on demand and never mutated; stressing an exposure
// produces a new result alongside the baseline one, so deltas can always be
// reported from coexisting values.
type ExposureResult struct {
	ExposureID     string  `json:"exposure_id" msgpack:"exposure_id"`
	PDUsed         float64 `json:"pd_used" msgpack:"pd_used"`
	EAD            float64 `json:"ead" msgpack:"ead"`
	Correlation    float64 `json:"correlation" msgpack:"correlation"`
	MaturityFactor float64 `json:"maturity_factor" msgpack:"maturity_factor"`
	K              float64 `json:"k" msgpack:"k"`                           // capital requirement, fraction of EAD
	CapitalAmount  float64 `json:"capital_amount" msgpack:"capital_amount"` // K · EAD
	RWA            float64 `json:"rwa" msgpack:"rwa"`
	EL             float64 `json:"el" msgpack:"el"`
}

// Evaluate runs the full kernel over one exposure:
//
//	K   = max(0, [LGD·Φ((Φ⁻¹(PD) + √R·Φ⁻¹(0.999)) / √(1-R)) - LGD·PD] · MF)
//	RWA = K · 12.5 · EAD
//	EL  = PD · LGD · EAD
//
// All derived quantities reuse the same R, MF and K intermediates; none is
// recomputed independently. The K floor at zero absorbs floating-point noise
// near the correlation boundary, where the conditional term can dip a hair
// below the unconditional expected loss.
func Evaluate(exp domain.Exposure) (ExposureResult, error) {
	r, err := AssetCorrelation(exp)
	if err != nil {
		return ExposureResult{}, err
	}

	mf := MaturityAdjustment(exp)

	conditional := formulas.NormCDF((formulas.NormInvCDF(exp.PD) + math.Sqrt(r)*systemicShock) / math.Sqrt(1-r))
	k := (exp.LGD*conditional - exp.LGD*exp.PD) * mf
	if k < 0 {
		k = 0
	}
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return ExposureResult{}, &domain.NumericDomainError{ExposureID: exp.ID, Quantity: "capital requirement", Value: k}
	}

	return ExposureResult{
		ExposureID:     exp.ID,
		PDUsed:         exp.PD,
		EAD:            exp.EAD,
		Correlation:    r,
		MaturityFactor: mf,
		K:              k,
		CapitalAmount:  k * exp.EAD,
		RWA:            k * RWAMultiplier * exp.EAD,
		EL:             exp.PD * exp.LGD * exp.EAD,
	}, nil
}
