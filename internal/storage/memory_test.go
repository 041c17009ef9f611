package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionRepositoryMemGetUpsert(t *testing.T) {
	repo := NewRegionRepositoryMem()

	mapping, err := repo.Get("Химки", "Московская область")
	require.NoError(t, err)
	assert.Nil(t, mapping)

	today := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert("Химки", "Московская область", 11, today))

	mapping, err = repo.Get("Химки", "Московская область")
	require.NoError(t, err)
	require.NotNil(t, mapping)
	assert.Equal(t, int64(11), mapping.YandexID)
}

func TestRegionMappingStale(t *testing.T) {
	today := time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC)
	fresh := RegionMapping{Updated: time.Date(2026, 9, 1, 1, 0, 0, 0, time.UTC)}
	old := RegionMapping{Updated: time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC)}

	assert.False(t, fresh.Stale(today))
	assert.True(t, old.Stale(today))
}

func TestCostOverrideRepositoryMem(t *testing.T) {
	repo := NewCostOverrideRepositoryMem()
	repo.ByCity["Химки"] = 99
	repo.ByRegion["Московская область"] = 150

	cost, ok, err := repo.GetByCity("Химки")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 99, cost)

	_, ok, err = repo.GetByCity("Казань")
	require.NoError(t, err)
	assert.False(t, ok)

	cost, ok, err = repo.GetByRegion("Московская область")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 150, cost)
}
