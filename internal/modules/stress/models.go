package stress

import (
	"github.com/prudentia/risk-engine/internal/modules/basel"
	"github.com/prudentia/risk-engine/internal/modules/portfolio"
)

// Delta holds the signed change of the regulatory quantities between the
// baseline and stressed evaluation of the same exposure (or portfolio).
type Delta struct {
	K             float64 `json:"k" msgpack:"k"`
	CapitalAmount float64 `json:"capital_amount" msgpack:"capital_amount"`
	RWA           float64 `json:"rwa" msgpack:"rwa"`
	EL            float64 `json:"el" msgpack:"el"`
}

// ExposureStress pairs the baseline and stressed results for one exposure.
// Both results coexist; stressing never overwrites the baseline.
type ExposureStress struct {
	ExposureID string               `json:"exposure_id" msgpack:"exposure_id"`
	Baseline   basel.ExposureResult `json:"baseline" msgpack:"baseline"`
	Stressed   basel.ExposureResult `json:"stressed" msgpack:"stressed"`
	Delta      Delta                `json:"delta" msgpack:"delta"`
}

// RunResult is the full outcome of one (portfolio, scenario) stress run.
type RunResult struct {
	Scenario  string               `json:"scenario" msgpack:"scenario"`
	Z         float64              `json:"z" msgpack:"z"`
	Exposures []ExposureStress     `json:"exposures" msgpack:"exposures"`
	Baseline  portfolio.Assessment `json:"baseline" msgpack:"baseline"`
	Stressed  portfolio.Assessment `json:"stressed" msgpack:"stressed"`
	Delta     Delta                `json:"delta" msgpack:"delta"`
}
