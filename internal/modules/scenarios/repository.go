// Package scenarios stores the macroeconomic scenario catalog: named shocks
// with per-exposure-class sensitivity coefficients, seeded with the standard
// regulatory set and editable thereafter.
package scenarios

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prudentia/risk-engine/internal/database"
	"github.com/prudentia/risk-engine/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS scenarios (
	name              TEXT PRIMARY KEY,
	description       TEXT NOT NULL DEFAULT '',
	gdp_growth        REAL NOT NULL DEFAULT 0,
	unemployment_rate REAL NOT NULL DEFAULT 0,
	z                 REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS scenario_sensitivities (
	scenario_name  TEXT NOT NULL REFERENCES scenarios(name) ON DELETE CASCADE,
	exposure_class TEXT NOT NULL,
	sensitivity    REAL NOT NULL,
	PRIMARY KEY (scenario_name, exposure_class)
);
`

// ErrNotFound is returned when a scenario name has no stored definition.
var ErrNotFound = fmt.Errorf("scenario not found")

// Repository persists scenarios in the scenarios database.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a scenario repository.
func NewRepository(db *database.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "scenario_repository").Logger(),
	}
}

// EnsureSchema creates the scenario tables when missing.
func (r *Repository) EnsureSchema() error {
	if _, err := r.db.Conn().Exec(schema); err != nil {
		return fmt.Errorf("failed to create scenario schema: %w", err)
	}
	return nil
}

// Seed inserts the standard regulatory scenario set when the catalog is
// empty: baseline (no shock), adverse (Z=1.5) and severely adverse (Z=3.0),
// each with unit sensitivity for every exposure class.
func (r *Repository) Seed() error {
	var count int
	if err := r.db.Conn().QueryRow("SELECT COUNT(*) FROM scenarios").Scan(&count); err != nil {
		return fmt.Errorf("failed to count scenarios: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, s := range DefaultScenarios() {
		if err := r.Save(s); err != nil {
			return fmt.Errorf("failed to seed scenario %q: %w", s.Name, err)
		}
	}

	r.log.Info().Int("scenarios", len(DefaultScenarios())).Msg("Seeded default scenario catalog")
	return nil
}

// Save upserts a scenario and its full sensitivity map atomically.
func (r *Repository) Save(s domain.Scenario) error {
	return database.WithTransaction(r.db.Conn(), func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO scenarios (name, description, gdp_growth, unemployment_rate, z)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				description = excluded.description,
				gdp_growth = excluded.gdp_growth,
				unemployment_rate = excluded.unemployment_rate,
				z = excluded.z`,
			s.Name, s.Description, s.GDPGrowth, s.UnemploymentRate, s.Z)
		if err != nil {
			return fmt.Errorf("failed to upsert scenario %q: %w", s.Name, err)
		}

		if _, err := tx.Exec("DELETE FROM scenario_sensitivities WHERE scenario_name = ?", s.Name); err != nil {
			return fmt.Errorf("failed to clear sensitivities for %q: %w", s.Name, err)
		}
		for class, sensitivity := range s.Sensitivities {
			_, err := tx.Exec(
				"INSERT INTO scenario_sensitivities (scenario_name, exposure_class, sensitivity) VALUES (?, ?, ?)",
				s.Name, string(class), sensitivity)
			if err != nil {
				return fmt.Errorf("failed to insert sensitivity for %q/%s: %w", s.Name, class, err)
			}
		}
		return nil
	})
}

// Get loads one scenario by name.
func (r *Repository) Get(name string) (domain.Scenario, error) {
	var s domain.Scenario
	err := r.db.Conn().QueryRow(
		"SELECT name, description, gdp_growth, unemployment_rate, z FROM scenarios WHERE name = ?", name).
		Scan(&s.Name, &s.Description, &s.GDPGrowth, &s.UnemploymentRate, &s.Z)
	if err == sql.ErrNoRows {
		return domain.Scenario{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("failed to load scenario %q: %w", name, err)
	}

	s.Sensitivities, err = r.loadSensitivities(name)
	if err != nil {
		return domain.Scenario{}, err
	}
	return s, nil
}

// GetAll loads the full catalog ordered by shock magnitude.
func (r *Repository) GetAll() ([]domain.Scenario, error) {
	rows, err := r.db.Conn().Query(
		"SELECT name, description, gdp_growth, unemployment_rate, z FROM scenarios ORDER BY z, name")
	if err != nil {
		return nil, fmt.Errorf("failed to query scenarios: %w", err)
	}
	defer rows.Close()

	var result []domain.Scenario
	for rows.Next() {
		var s domain.Scenario
		if err := rows.Scan(&s.Name, &s.Description, &s.GDPGrowth, &s.UnemploymentRate, &s.Z); err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scenarios: %w", err)
	}

	for i := range result {
		result[i].Sensitivities, err = r.loadSensitivities(result[i].Name)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *Repository) loadSensitivities(name string) (map[domain.ExposureClass]float64, error) {
	rows, err := r.db.Conn().Query(
		"SELECT exposure_class, sensitivity FROM scenario_sensitivities WHERE scenario_name = ?", name)
	if err != nil {
		return nil, fmt.Errorf("failed to query sensitivities for %q: %w", name, err)
	}
	defer rows.Close()

	sensitivities := make(map[domain.ExposureClass]float64)
	for rows.Next() {
		var class string
		var sensitivity float64
		if err := rows.Scan(&class, &sensitivity); err != nil {
			return nil, fmt.Errorf("failed to scan sensitivity: %w", err)
		}
		sensitivities[domain.ExposureClass(class)] = sensitivity
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sensitivities for %q: %w", name, err)
	}
	return sensitivities, nil
}

// DefaultScenarios returns the regulatory scenario set the catalog is
// seeded with. The shock factors and macro narrative follow the standard
// supervisory severity ladder.
func DefaultScenarios() []domain.Scenario {
	uniform := func() map[domain.ExposureClass]float64 {
		m := make(map[domain.ExposureClass]float64, len(domain.AllExposureClasses))
		for _, class := range domain.AllExposureClasses {
			m[class] = 1.0
		}
		return m
	}

	return []domain.Scenario{
		{
			Name:             "baseline",
			Description:      "Central macroeconomic projection, no shock",
			GDPGrowth:        0.015,
			UnemploymentRate: 0.07,
			Z:                0.0,
			Sensitivities:    uniform(),
		},
		{
			Name:             "adverse",
			Description:      "Mild recession",
			GDPGrowth:        -0.01,
			UnemploymentRate: 0.09,
			Z:                1.5,
			Sensitivities:    uniform(),
		},
		{
			Name:             "severely_adverse",
			Description:      "Severe recession with credit market dislocation",
			GDPGrowth:        -0.05,
			UnemploymentRate: 0.12,
			Z:                3.0,
			Sensitivities:    uniform(),
		},
	}
}
