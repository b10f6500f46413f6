// Package scheduler manages at most one reminder job per user. Jobs run on
// a gocron scheduler tagged by user ID and are mirrored to durable storage
// so pending reminders survive a process restart.
package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/IGCrystal-NEO/ewords/pkg/models"
)

// Notifier interface for delivering reminders
type Notifier interface {
	SendReminder(userID string) error
}

// JobStore is the persistence surface the scheduler needs.
type JobStore interface {
	Upsert(job *models.ReminderJob) error
	Get(userID string) (*models.ReminderJob, error)
	Delete(userID string) error
	Active() ([]models.ReminderJob, error)
	MarkFired(userID string, next time.Time, active bool) error
}

// Scheduler manages scheduled reminder jobs for the application
type Scheduler struct {
	cron     *gocron.Scheduler
	store    JobStore
	notifier Notifier
	mu       sync.Mutex
}

// New creates a new scheduler instance
func New(store JobStore, notifier Notifier) *Scheduler {
	cron := gocron.NewScheduler(time.UTC)
	cron.TagsUnique()
	return &Scheduler{
		cron:     cron,
		store:    store,
		notifier: notifier,
	}
}

// Start begins running scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.StartAsync()
}

// Stop terminates all scheduled jobs
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Set schedules a reminder for the user, atomically replacing any existing
// job, and returns the next fire time. Cancellation tokens are not accepted
// here; use Cancel.
func (s *Scheduler) Set(userID string, spec models.ReminderSpec) (time.Time, error) {
	if spec.Cancel {
		return time.Time{}, fmt.Errorf("%w: cancellation is not a schedule", ErrInvalidSpec)
	}

	now := time.Now().UTC()
	job := &models.ReminderJob{
		UserID: userID,
		Kind:   spec.Kind,
		Active: true,
	}
	switch spec.Kind {
	case models.RecurringInterval, models.OneShotDelay:
		if spec.Interval <= 0 {
			return time.Time{}, fmt.Errorf("%w: interval must be positive", ErrInvalidSpec)
		}
		job.IntervalSeconds = int64(spec.Interval / time.Second)
		job.NextFireAt = now.Add(spec.Interval)
	case models.OneShotAbsolute:
		if !spec.At.After(time.Now()) {
			return time.Time{}, fmt.Errorf("%w: instant %s is in the past", ErrInvalidSpec, spec.At.Format(absoluteLayout))
		}
		job.NextFireAt = spec.At.UTC()
	default:
		return time.Time{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidSpec, spec.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeTag(userID)
	if err := s.store.Upsert(job); err != nil {
		return time.Time{}, err
	}
	if err := s.schedule(job); err != nil {
		return time.Time{}, fmt.Errorf("schedule reminder: %v", err)
	}
	return job.NextFireAt, nil
}

// Cancel removes the user's reminder. Cancelling when none exists is a no-op.
func (s *Scheduler) Cancel(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeTag(userID)
	return s.store.Delete(userID)
}

// Recover reconciles persisted jobs after a restart. Jobs whose fire time
// passed while the process was down fire exactly once immediately and are
// rescheduled relative to the recovery time; future jobs keep their instant.
func (s *Scheduler) Recover() error {
	jobs, err := s.store.Active()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for i := range jobs {
		job := jobs[i]
		s.mu.Lock()
		if job.NextFireAt.After(now) {
			if err := s.schedule(&job); err != nil {
				log.Printf("Error rescheduling reminder for user %s: %v", job.UserID, err)
			}
			s.mu.Unlock()
			continue
		}

		// Missed while down: at-least-once delivery, no backlog replay.
		s.deliver(job.UserID)
		if job.Kind == models.RecurringInterval {
			job.NextFireAt = now.Add(job.Interval())
			if err := s.store.MarkFired(job.UserID, job.NextFireAt, true); err != nil {
				log.Printf("Error persisting recovered reminder for user %s: %v", job.UserID, err)
			}
			if err := s.schedule(&job); err != nil {
				log.Printf("Error rescheduling reminder for user %s: %v", job.UserID, err)
			}
		} else {
			if err := s.store.MarkFired(job.UserID, job.NextFireAt, false); err != nil {
				log.Printf("Error persisting recovered reminder for user %s: %v", job.UserID, err)
			}
		}
		s.mu.Unlock()
	}
	return nil
}

// schedule registers the job with gocron. Callers hold s.mu.
func (s *Scheduler) schedule(job *models.ReminderJob) error {
	interval := job.Interval()
	if interval <= 0 {
		// One-shot jobs without a recurrence still need a positive interval
		// for gocron; the run limit keeps it from mattering.
		interval = 24 * time.Hour
	}

	def := s.cron.Every(interval).StartAt(job.NextFireAt).Tag(job.UserID)
	if job.Kind != models.RecurringInterval {
		def = def.LimitRunsTo(1)
	}
	_, err := def.Do(s.fire, job.UserID)
	return err
}

// fire runs in a gocron worker goroutine, so delivery never blocks the
// scheduler loop.
func (s *Scheduler) fire(userID string) {
	job, err := s.store.Get(userID)
	if err != nil {
		log.Printf("Error loading reminder job for user %s: %v", userID, err)
		return
	}
	if job == nil || !job.Active {
		// Cancelled or already consumed after this firing was dispatched.
		return
	}

	s.deliver(userID)

	if job.Kind == models.RecurringInterval {
		err = s.store.MarkFired(userID, time.Now().UTC().Add(job.Interval()), true)
	} else {
		err = s.store.MarkFired(userID, job.NextFireAt, false)
	}
	if err != nil {
		log.Printf("Error persisting reminder state for user %s: %v", userID, err)
	}
}

// deliver sends one reminder. Delivery failures are logged and isolated;
// they never cancel the job or affect other users.
func (s *Scheduler) deliver(userID string) {
	if err := s.notifier.SendReminder(userID); err != nil {
		log.Printf("Error sending reminder to user %s: %v", userID, err)
	}
}

func (s *Scheduler) removeTag(userID string) {
	// gocron reports a missing tag as an error; absence is fine here.
	_ = s.cron.RemoveByTag(userID)
}
