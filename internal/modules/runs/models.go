package runs

import (
	"time"

	"github.com/prudentia/risk-engine/internal/modules/stress"
)

// Run is one recorded stress-test execution. The summary fields are stored
// as queryable columns; the full per-exposure breakdown travels as a msgpack
// blob and is only decoded on Get.
type Run struct {
	ID            string    `json:"id"`
	Scenario      string    `json:"scenario"`
	Z             float64   `json:"z"`
	CreatedAt     time.Time `json:"created_at"`
	ExposureCount int       `json:"exposure_count"`
	TotalExposure float64   `json:"total_exposure"`

	BaselineRWA     float64 `json:"baseline_rwa"`
	StressedRWA     float64 `json:"stressed_rwa"`
	BaselineCapital float64 `json:"baseline_capital"`
	StressedCapital float64 `json:"stressed_capital"`
	BaselineEL      float64 `json:"baseline_el"`
	StressedEL      float64 `json:"stressed_el"`

	// Result carries the complete run outcome. Populated by Get, nil in
	// List responses.
	Result *stress.RunResult `json:"result,omitempty"`
}
