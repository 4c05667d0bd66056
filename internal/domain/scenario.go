package domain

// Scenario is a named macroeconomic shock. Z is the shock magnitude in
// standard normal space (positive = worsening); Sensitivities maps each
// exposure class to the coefficient scaling Z into the Probit shift of that
// class's PDs. GDPGrowth and UnemploymentRate are descriptive metadata
// carried for reporting, not inputs to the math.
type Scenario struct {
	Name             string                    `json:"name"`
	Description      string                    `json:"description"`
	GDPGrowth        float64                   `json:"gdp_growth"`
	UnemploymentRate float64                   `json:"unemployment_rate"`
	Z                float64                   `json:"z"`
	Sensitivities    map[ExposureClass]float64 `json:"sensitivities"`
}

// IsBaseline reports whether the scenario applies no shock, in which case
// the Probit shift is the identity.
func (s Scenario) IsBaseline() bool {
	return s.Z == 0
}

// SensitivityFor looks up the shift coefficient for an exposure class.
func (s Scenario) SensitivityFor(class ExposureClass) (float64, bool) {
	sens, ok := s.Sensitivities[class]
	return sens, ok
}

// ValidateFor checks the scenario covers every exposure class present in the
// portfolio. Run before any computation so a missing coefficient fails the
// whole run up front rather than mid-aggregation.
func (s Scenario) ValidateFor(p Portfolio) error {
	for _, class := range p.Classes() {
		if _, ok := s.Sensitivities[class]; !ok {
			return &MissingScenarioSensitivityError{Scenario: s.Name, Class: class}
		}
	}
	return nil
}
