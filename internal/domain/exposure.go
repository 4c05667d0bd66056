// Package domain contains the pure value objects of the capital engine:
// exposures, portfolios, scenarios and the error taxonomy. It has no
// infrastructure dependencies.
package domain

import "fmt"

// ExposureClass is the Basel regulatory category of an exposure. The set is
// closed: the rule book defines which correlation and maturity treatment each
// class receives, so dispatch is over this enumerated tag rather than open
// interfaces.
type ExposureClass string

const (
	ClassCorporate            ExposureClass = "CORPORATE"
	ClassSME                  ExposureClass = "SME"
	ClassRetail               ExposureClass = "RETAIL"
	ClassFinancialInstitution ExposureClass = "FINANCIAL_INSTITUTION"
)

// AllExposureClasses lists every class the engine recognizes.
var AllExposureClasses = []ExposureClass{
	ClassCorporate,
	ClassSME,
	ClassRetail,
	ClassFinancialInstitution,
}

// ParseExposureClass validates a wire-level class string.
func ParseExposureClass(s string) (ExposureClass, error) {
	class := ExposureClass(s)
	for _, known := range AllExposureClasses {
		if class == known {
			return class, nil
		}
	}
	return "", &UnknownExposureClassError{Class: s}
}

// Exposure is an immutable record of one credit exposure's risk parameters.
// Instances are built through NewExposure, which guarantees every field is
// inside its regulatory domain before any formula sees it.
type Exposure struct {
	ID       string
	PD       float64 // probability of default over one year, strictly inside (0, 1)
	LGD      float64 // loss given default, [0, 1]
	EAD      float64 // exposure at default, currency units, >= 0
	Maturity float64 // residual maturity in years; clamped to [1, 5] by the kernel, not here
	Class    ExposureClass
	Turnover *float64 // annual turnover in EUR, SME size-adjustment input (optional)
}

// NewExposure validates and constructs an exposure. PD must be strictly
// inside (0, 1): both ln(PD) and Φ⁻¹(PD) diverge at the bounds, so 0 and 1
// are rejected rather than special-cased downstream.
func NewExposure(id string, pd, lgd, ead, maturity float64, class ExposureClass, turnover *float64) (Exposure, error) {
	if pd <= 0 || pd >= 1 {
		return Exposure{}, &InvalidRiskParameterError{ExposureID: id, Field: "pd", Value: pd, Constraint: "must be strictly inside (0, 1)"}
	}
	if lgd < 0 || lgd > 1 {
		return Exposure{}, &InvalidRiskParameterError{ExposureID: id, Field: "lgd", Value: lgd, Constraint: "must be within [0, 1]"}
	}
	if ead < 0 {
		return Exposure{}, &InvalidRiskParameterError{ExposureID: id, Field: "ead", Value: ead, Constraint: "must be non-negative"}
	}
	if maturity < 0 {
		return Exposure{}, &InvalidRiskParameterError{ExposureID: id, Field: "maturity", Value: maturity, Constraint: "must be non-negative"}
	}
	if _, err := ParseExposureClass(string(class)); err != nil {
		return Exposure{}, &UnknownExposureClassError{ExposureID: id, Class: string(class)}
	}
	if turnover != nil && *turnover < 0 {
		return Exposure{}, &InvalidRiskParameterError{ExposureID: id, Field: "turnover", Value: *turnover, Constraint: "must be non-negative"}
	}

	return Exposure{
		ID:       id,
		PD:       pd,
		LGD:      lgd,
		EAD:      ead,
		Maturity: maturity,
		Class:    class,
		Turnover: turnover,
	}, nil
}

// String implements fmt.Stringer for log output.
func (e Exposure) String() string {
	return fmt.Sprintf("%s[%s pd=%.4f lgd=%.2f ead=%.2f m=%.2f]", e.ID, e.Class, e.PD, e.LGD, e.EAD, e.Maturity)
}
