package domain

import "fmt"

// InvalidRiskParameterError reports an exposure field outside its regulatory
// domain. It is raised at construction time only; the formula kernel never
// observes an invalid parameter.
type InvalidRiskParameterError struct {
	ExposureID string
	Field      string
	Value      float64
	Constraint string
}

func (e *InvalidRiskParameterError) Error() string {
	return fmt.Sprintf("invalid risk parameter %q on exposure %q: value %v %s", e.Field, e.ExposureID, e.Value, e.Constraint)
}

// UnknownExposureClassError reports an exposure class with no mapped
// correlation or maturity rule.
type UnknownExposureClassError struct {
	ExposureID string
	Class      string
}

func (e *UnknownExposureClassError) Error() string {
	if e.ExposureID == "" {
		return fmt.Sprintf("unknown exposure class %q", e.Class)
	}
	return fmt.Sprintf("unknown exposure class %q on exposure %q", e.Class, e.ExposureID)
}

// MissingScenarioSensitivityError reports a scenario that lacks a sensitivity
// coefficient for an exposure class present in the portfolio. Surfaced before
// any computation runs so a scenario never produces a partial capital number.
type MissingScenarioSensitivityError struct {
	Scenario string
	Class    ExposureClass
}

func (e *MissingScenarioSensitivityError) Error() string {
	return fmt.Sprintf("scenario %q has no sensitivity for exposure class %q", e.Scenario, e.Class)
}

// NumericDomainError reports an intermediate quantity leaving its
// mathematically guaranteed range. This can only happen through a formula
// implementation defect, so callers should treat it as a programming error,
// not a recoverable condition.
type NumericDomainError struct {
	ExposureID string
	Quantity   string
	Value      float64
}

func (e *NumericDomainError) Error() string {
	return fmt.Sprintf("numeric domain violation: %s = %v on exposure %q is outside its guaranteed range", e.Quantity, e.Value, e.ExposureID)
}
