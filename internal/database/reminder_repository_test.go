package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IGCrystal-NEO/ewords/pkg/models"
)

func TestUpsertReplacesExistingJob(t *testing.T) {
	repo := NewReminderRepository(setupTestDB(t))

	require.NoError(t, repo.Upsert(&models.ReminderJob{
		UserID:          "u1",
		Kind:            models.RecurringInterval,
		IntervalSeconds: 86400,
		NextFireAt:      time.Now().UTC().Add(24 * time.Hour),
		Active:          true,
	}))
	require.NoError(t, repo.Upsert(&models.ReminderJob{
		UserID:          "u1",
		Kind:            models.RecurringInterval,
		IntervalSeconds: 300,
		NextFireAt:      time.Now().UTC().Add(5 * time.Minute),
		Active:          true,
	}))

	job, err := repo.Get("u1")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, int64(300), job.IntervalSeconds)

	jobs, err := repo.Active()
	require.NoError(t, err)
	assert.Len(t, jobs, 1, "at most one job per user")
}

func TestGetMissingJob(t *testing.T) {
	repo := NewReminderRepository(setupTestDB(t))
	job, err := repo.Get("nobody")
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestDeleteMissingJobIsNoOp(t *testing.T) {
	repo := NewReminderRepository(setupTestDB(t))
	assert.NoError(t, repo.Delete("nobody"))
}

func TestActiveFiltersConsumedJobs(t *testing.T) {
	repo := NewReminderRepository(setupTestDB(t))

	require.NoError(t, repo.Upsert(&models.ReminderJob{
		UserID:     "done",
		Kind:       models.OneShotDelay,
		NextFireAt: time.Now().UTC(),
		Active:     false,
	}))
	require.NoError(t, repo.Upsert(&models.ReminderJob{
		UserID:          "pending",
		Kind:            models.RecurringInterval,
		IntervalSeconds: 60,
		NextFireAt:      time.Now().UTC().Add(time.Minute),
		Active:          true,
	}))

	jobs, err := repo.Active()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "pending", jobs[0].UserID)
}

func TestMarkFired(t *testing.T) {
	repo := NewReminderRepository(setupTestDB(t))

	require.NoError(t, repo.Upsert(&models.ReminderJob{
		UserID:     "u1",
		Kind:       models.OneShotDelay,
		NextFireAt: time.Now().UTC(),
		Active:     true,
	}))
	require.NoError(t, repo.MarkFired("u1", time.Now().UTC(), false))

	job, err := repo.Get("u1")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.False(t, job.Active, "consumed one-shot stays recorded but inactive")
}
