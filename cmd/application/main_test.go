package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"gopointsync_api/internal/storage"
	"gopointsync_api/pkg/logger"
)

func TestRepositoriesForFallsBackWhenPostgresUnavailable(t *testing.T) {
	regions, costs, writer := repositoriesFor(nil, errors.New("dial tcp: connection refused"), logger.NewNop())

	assert.IsType(t, &storage.RegionRepositoryMem{}, regions)
	assert.IsType(t, &storage.CostOverrideRepositoryMem{}, costs)
	assert.NotNil(t, writer)
}

func TestRepositoriesForWithoutDatabase(t *testing.T) {
	regions, costs, writer := repositoriesFor(nil, nil, logger.NewNop())

	assert.IsType(t, &storage.RegionRepositoryMem{}, regions)
	assert.IsType(t, &storage.CostOverrideRepositoryMem{}, costs)
	assert.NotNil(t, writer)
}
