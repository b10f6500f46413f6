package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/IGCrystal-NEO/ewords/pkg/models"
)

// ReminderRepository handles database operations for reminder jobs. One row
// per user; rows survive restarts so pending reminders can be recovered.
type ReminderRepository struct {
	db *sqlx.DB
}

// NewReminderRepository creates a new repository instance
func NewReminderRepository(db *sqlx.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Upsert stores the job, replacing any existing row for the same user.
func (r *ReminderRepository) Upsert(job *models.ReminderJob) error {
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO reminder_jobs (user_id, kind, interval_seconds, next_fire_at, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			kind = excluded.kind,
			interval_seconds = excluded.interval_seconds,
			next_fire_at = excluded.next_fire_at,
			active = excluded.active,
			updated_at = excluded.updated_at
	`)
	err := withRetry(func() error {
		_, err := r.db.Exec(query,
			job.UserID, job.Kind, job.IntervalSeconds, job.NextFireAt,
			job.Active, job.CreatedAt, job.UpdatedAt)
		return err
	})
	if err != nil {
		return storageErr("upsert reminder", err)
	}
	return nil
}

// Get returns the user's job, or nil if none is recorded.
func (r *ReminderRepository) Get(userID string) (*models.ReminderJob, error) {
	job := &models.ReminderJob{}
	query := r.db.Rebind("SELECT * FROM reminder_jobs WHERE user_id = ?")
	err := r.db.Get(job, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get reminder", err)
	}
	return job, nil
}

// Delete removes the user's job. Deleting a missing job is not an error.
func (r *ReminderRepository) Delete(userID string) error {
	query := r.db.Rebind("DELETE FROM reminder_jobs WHERE user_id = ?")
	err := withRetry(func() error {
		_, err := r.db.Exec(query, userID)
		return err
	})
	if err != nil {
		return storageErr("delete reminder", err)
	}
	return nil
}

// Active returns every job that is still scheduled to fire. Used by the
// startup recovery pass.
func (r *ReminderRepository) Active() ([]models.ReminderJob, error) {
	var jobs []models.ReminderJob
	query := "SELECT * FROM reminder_jobs WHERE active ORDER BY user_id"
	if err := r.db.Select(&jobs, query); err != nil {
		return nil, storageErr("active reminders", err)
	}
	return jobs, nil
}

// MarkFired records the outcome of a firing: the recomputed next instant for
// recurring jobs, or active=false for consumed one-shots.
func (r *ReminderRepository) MarkFired(userID string, next time.Time, active bool) error {
	query := r.db.Rebind(`
		UPDATE reminder_jobs
		SET next_fire_at = ?, active = ?, updated_at = ?
		WHERE user_id = ?
	`)
	err := withRetry(func() error {
		_, err := r.db.Exec(query, next, active, time.Now().UTC(), userID)
		return err
	})
	if err != nil {
		return storageErr("mark reminder fired", err)
	}
	return nil
}
