// Package runs is the append-only audit trail of stress-test executions.
// Every run is recorded with its full per-exposure breakdown so a reported
// capital figure can be reproduced and examined after the fact.
package runs

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/prudentia/risk-engine/internal/database"
	"github.com/prudentia/risk-engine/internal/modules/stress"
)

const schema = `
CREATE TABLE IF NOT EXISTS stress_runs (
	id               TEXT PRIMARY KEY,
	scenario         TEXT NOT NULL,
	z                REAL NOT NULL,
	created_at       INTEGER NOT NULL,
	exposure_count   INTEGER NOT NULL,
	total_exposure   REAL NOT NULL,
	baseline_rwa     REAL NOT NULL,
	stressed_rwa     REAL NOT NULL,
	baseline_capital REAL NOT NULL,
	stressed_capital REAL NOT NULL,
	baseline_el      REAL NOT NULL,
	stressed_el      REAL NOT NULL,
	detail           BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stress_runs_created_at ON stress_runs(created_at);
CREATE INDEX IF NOT EXISTS idx_stress_runs_scenario ON stress_runs(scenario);
`

// ErrNotFound is returned when a run ID has no stored record.
var ErrNotFound = fmt.Errorf("run not found")

// DefaultListLimit caps List responses when the caller gives no limit.
const DefaultListLimit = 50

// Repository persists runs in the audit database.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a run repository.
func NewRepository(db *database.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "run_repository").Logger(),
	}
}

// EnsureSchema creates the run tables when missing.
func (r *Repository) EnsureSchema() error {
	if _, err := r.db.Conn().Exec(schema); err != nil {
		return fmt.Errorf("failed to create run schema: %w", err)
	}
	return nil
}

// Record stores one completed stress run and returns its assigned ID.
// The full result is msgpack-encoded so the blob round-trips every field
// of every exposure, not just the summary columns.
func (r *Repository) Record(result stress.RunResult) (Run, error) {
	detail, err := msgpack.Marshal(&result)
	if err != nil {
		return Run{}, fmt.Errorf("failed to encode run detail: %w", err)
	}

	run := Run{
		ID:              uuid.New().String(),
		Scenario:        result.Scenario,
		Z:               result.Z,
		CreatedAt:       time.Now().UTC(),
		ExposureCount:   len(result.Exposures),
		TotalExposure:   result.Baseline.TotalExposure,
		BaselineRWA:     result.Baseline.TotalRWA,
		StressedRWA:     result.Stressed.TotalRWA,
		BaselineCapital: result.Baseline.CapitalRequirement,
		StressedCapital: result.Stressed.CapitalRequirement,
		BaselineEL:      result.Baseline.TotalExpectedLoss,
		StressedEL:      result.Stressed.TotalExpectedLoss,
	}

	_, err = r.db.Conn().Exec(`
		INSERT INTO stress_runs (
			id, scenario, z, created_at, exposure_count, total_exposure,
			baseline_rwa, stressed_rwa, baseline_capital, stressed_capital,
			baseline_el, stressed_el, detail
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Scenario, run.Z, run.CreatedAt.UnixNano(),
		run.ExposureCount, run.TotalExposure,
		run.BaselineRWA, run.StressedRWA,
		run.BaselineCapital, run.StressedCapital,
		run.BaselineEL, run.StressedEL,
		detail)
	if err != nil {
		return Run{}, fmt.Errorf("failed to record run: %w", err)
	}

	r.log.Info().
		Str("run_id", run.ID).
		Str("scenario", run.Scenario).
		Int("exposures", run.ExposureCount).
		Float64("stressed_rwa", run.StressedRWA).
		Msg("Recorded stress run")

	run.Result = &result
	return run, nil
}

// Get loads one run with its full decoded detail.
func (r *Repository) Get(id string) (Run, error) {
	row := r.db.Conn().QueryRow(`
		SELECT id, scenario, z, created_at, exposure_count, total_exposure,
		       baseline_rwa, stressed_rwa, baseline_capital, stressed_capital,
		       baseline_el, stressed_el, detail
		FROM stress_runs WHERE id = ?`, id)

	var run Run
	var createdAt int64
	var detail []byte
	err := row.Scan(
		&run.ID, &run.Scenario, &run.Z, &createdAt, &run.ExposureCount, &run.TotalExposure,
		&run.BaselineRWA, &run.StressedRWA, &run.BaselineCapital, &run.StressedCapital,
		&run.BaselineEL, &run.StressedEL, &detail)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("failed to load run %q: %w", id, err)
	}
	run.CreatedAt = time.Unix(0, createdAt).UTC()

	var result stress.RunResult
	if err := msgpack.Unmarshal(detail, &result); err != nil {
		return Run{}, fmt.Errorf("failed to decode run detail for %q: %w", id, err)
	}
	run.Result = &result

	return run, nil
}

// List returns run summaries, newest first, without the decoded detail.
func (r *Repository) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.Conn().Query(`
		SELECT id, scenario, z, created_at, exposure_count, total_exposure,
		       baseline_rwa, stressed_rwa, baseline_capital, stressed_capital,
		       baseline_el, stressed_el
		FROM stress_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var result []Run
	for rows.Next() {
		var run Run
		var createdAt int64
		err := rows.Scan(
			&run.ID, &run.Scenario, &run.Z, &createdAt, &run.ExposureCount, &run.TotalExposure,
			&run.BaselineRWA, &run.StressedRWA, &run.BaselineCapital, &run.StressedCapital,
			&run.BaselineEL, &run.StressedEL)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.CreatedAt = time.Unix(0, createdAt).UTC()
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return result, nil
}

// Count returns the total number of recorded runs.
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.Conn().QueryRow("SELECT COUNT(*) FROM stress_runs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}
