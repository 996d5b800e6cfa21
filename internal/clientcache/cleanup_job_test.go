package clientcache

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupJobRun(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	log := zerolog.New(nil).Level(zerolog.Disabled)

	require.NoError(t, repo.Store(TableConnectorRows, "fresh", map[string]int{"n": 1}, time.Hour))
	require.NoError(t, repo.Store(TableConnectorRows, "stale", map[string]int{"n": 2}, -time.Hour))
	require.NoError(t, repo.Store(TableInsightPayloads, "stale", map[string]int{"n": 3}, -time.Hour))

	job := NewCleanupJob(repo, log)
	assert.Equal(t, "cache_cleanup", job.Name())

	require.NoError(t, job.Run())

	data, err := repo.Get(TableConnectorRows, "stale")
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = repo.Get(TableInsightPayloads, "stale")
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = repo.Get(TableConnectorRows, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, data)
}

func TestCleanupJobEmptyTables(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	log := zerolog.New(nil).Level(zerolog.Disabled)

	job := NewCleanupJob(repo, log)
	require.NoError(t, job.Run())
}
