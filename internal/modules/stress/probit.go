// Package stress applies macroeconomic scenarios to credit portfolios: it
// shifts every exposure's PD in Normal-inverse-CDF space (the Probit-Shift
// methodology), re-runs the Basel kernel, and aggregates the deltas against
// the baseline.
package stress

import (
	"github.com/prudentia/risk-engine/pkg/formulas"
)

// DefaultPDEpsilon is the default clamp distance from the (0, 1) PD bounds.
// Large shocks can push the raw Probit-Shift output arbitrarily close to 0
// or 1, where the Basel formulas are undefined; clamping to
// [ε, 1-ε] is a documented policy choice, overridable via configuration so
// tests and auditors can assert on it.
const DefaultPDEpsilon = 1e-6

// ProbitShift transforms a base PD under a macro shock:
//
//	PD_stressed = Φ(Φ⁻¹(PD_base) + sensitivity·Z)
//
// clamped into [epsilon, 1-epsilon]. A zero shift (Z = 0 or zero
// sensitivity) returns the base PD untouched, so the baseline scenario is an
// exact identity rather than a CDF round-trip.
func ProbitShift(pd, sensitivity, z, epsilon float64) float64 {
	shift := sensitivity * z
	if shift == 0 {
		return pd
	}

	stressed := formulas.NormCDF(formulas.NormInvCDF(pd) + shift)
	return clampPD(stressed, epsilon)
}

func clampPD(pd, epsilon float64) float64 {
	if pd < epsilon {
		return epsilon
	}
	if pd > 1-epsilon {
		return 1 - epsilon
	}
	return pd
}
