// Package formulas provides pure numeric routines shared by the capital
// engine: the standard normal distribution primitives every Basel formula is
// built on, plus small summary statistics helpers.
package formulas

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// stdNormal is the standard normal distribution N(0, 1).
var stdNormal = distuv.UnitNormal

// NormCDF returns Φ(x), the standard normal cumulative distribution function.
func NormCDF(x float64) float64 {
	return stdNormal.CDF(x)
}

// NormInvCDF returns Φ⁻¹(p), the standard normal quantile function.
//
// gonum implements the quantile with Wichura's AS241 rational approximation,
// whose absolute error is on the order of 1e-15 across (0, 1). Regulatory
// capital is sensitive to tail errors, so the accuracy of this routine is
// asserted against reference values in normal_test.go, independently of the
// Basel formulas that consume it.
//
// p must lie strictly inside (0, 1); the function diverges at the bounds.
func NormInvCDF(p float64) float64 {
	return stdNormal.Quantile(p)
}
