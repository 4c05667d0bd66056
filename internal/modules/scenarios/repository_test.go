package scenarios

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prudentia/risk-engine/internal/database"
	"github.com/prudentia/risk-engine/internal/domain"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "scenarios.db"),
		Profile: database.ProfileStandard,
		Name:    "scenarios",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewRepository(db, zerolog.Nop())
	require.NoError(t, repo.EnsureSchema())
	return repo
}

func TestSeedInsertsDefaultCatalog(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Seed())

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Ordered by shock magnitude.
	assert.Equal(t, "baseline", all[0].Name)
	assert.Equal(t, "adverse", all[1].Name)
	assert.Equal(t, "severely_adverse", all[2].Name)

	assert.Equal(t, 0.0, all[0].Z)
	assert.Equal(t, 1.5, all[1].Z)
	assert.Equal(t, 3.0, all[2].Z)

	for _, s := range all {
		require.Len(t, s.Sensitivities, len(domain.AllExposureClasses))
		for _, class := range domain.AllExposureClasses {
			assert.Equal(t, 1.0, s.Sensitivities[class])
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Seed())

	// Mutate one scenario, then reseed: the edit must survive.
	adverse, err := repo.Get("adverse")
	require.NoError(t, err)
	adverse.Z = 2.0
	require.NoError(t, repo.Save(adverse))

	require.NoError(t, repo.Seed())

	reloaded, err := repo.Get("adverse")
	require.NoError(t, err)
	assert.Equal(t, 2.0, reloaded.Z)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetUnknownScenario(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Seed())

	_, err := repo.Get("apocalypse")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveReplacesSensitivities(t *testing.T) {
	repo := newTestRepository(t)

	s := domain.Scenario{
		Name:        "custom",
		Description: "Retail-led downturn",
		Z:           2.2,
		Sensitivities: map[domain.ExposureClass]float64{
			domain.ClassCorporate: 0.8,
			domain.ClassRetail:    1.4,
		},
	}
	require.NoError(t, repo.Save(s))

	s.Sensitivities = map[domain.ExposureClass]float64{
		domain.ClassRetail: 1.6,
	}
	require.NoError(t, repo.Save(s))

	reloaded, err := repo.Get("custom")
	require.NoError(t, err)
	require.Len(t, reloaded.Sensitivities, 1, "stale sensitivity rows must not survive an upsert")
	assert.Equal(t, 1.6, reloaded.Sensitivities[domain.ClassRetail])
}

func TestSavedScenarioRoundTrips(t *testing.T) {
	repo := newTestRepository(t)

	s := domain.Scenario{
		Name:             "regional",
		Description:      "Regional housing correction",
		GDPGrowth:        -0.02,
		UnemploymentRate: 0.10,
		Z:                1.8,
		Sensitivities: map[domain.ExposureClass]float64{
			domain.ClassCorporate:            0.9,
			domain.ClassSME:                  1.1,
			domain.ClassRetail:               1.3,
			domain.ClassFinancialInstitution: 0.7,
		},
	}
	require.NoError(t, repo.Save(s))

	reloaded, err := repo.Get("regional")
	require.NoError(t, err)
	assert.Equal(t, s, reloaded)
}
