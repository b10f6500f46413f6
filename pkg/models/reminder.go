package models

import "time"

// ReminderKind distinguishes recurring reminders from one-shot ones.
type ReminderKind string

const (
	// RecurringInterval fires every interval until cancelled.
	RecurringInterval ReminderKind = "recurring_interval"
	// OneShotDelay fires once, a relative delay after it was set.
	OneShotDelay ReminderKind = "one_shot_delay"
	// OneShotAbsolute fires once at an absolute instant.
	OneShotAbsolute ReminderKind = "one_shot_absolute"
)

// ReminderJob is the persisted schedule of one user's reminder. At most one
// job exists per user; setting a new one replaces it. One-shot jobs stay
// recorded with Active=false after firing until overwritten or cancelled.
type ReminderJob struct {
	UserID          string       `db:"user_id"`
	Kind            ReminderKind `db:"kind"`
	IntervalSeconds int64        `db:"interval_seconds"`
	NextFireAt      time.Time    `db:"next_fire_at"`
	Active          bool         `db:"active"`
	CreatedAt       time.Time    `db:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at"`
}

// Interval returns the job's recurrence interval.
func (j *ReminderJob) Interval() time.Duration {
	return time.Duration(j.IntervalSeconds) * time.Second
}

// ReminderSpec is the parsed form of a user-supplied reminder request.
// Free-form text is parsed into this at the boundary; the core never sees
// raw strings.
type ReminderSpec struct {
	Kind     ReminderKind
	Interval time.Duration // for RecurringInterval and OneShotDelay
	At       time.Time     // for OneShotAbsolute
	Cancel   bool          // cancellation token
}
