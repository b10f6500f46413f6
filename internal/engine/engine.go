// Package engine composes the vocabulary source, history store, session
// engine and reminder scheduler into the user-facing operations. Results are
// structured so the chat adapter only has to render them.
package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/IGCrystal-NEO/ewords/internal/session"
	"github.com/IGCrystal-NEO/ewords/internal/vocabulary"
	"github.com/IGCrystal-NEO/ewords/pkg/models"
)

// ErrVocabularyExhausted reports that every word of the active source is
// already in the user's history.
var ErrVocabularyExhausted = errors.New("vocabulary exhausted, nothing left to memorize")

// defaultBatchSize is the floor applied to memorize counts. Requests below
// it, or with no usable count at all, are normalized up to it.
const defaultBatchSize = 10

// HistoryStore is the persistence surface the engine needs for history.
type HistoryStore interface {
	RecordBatch(userID string, words []string) (*models.MemorizationBatch, error)
	LatestBatch(userID string) (*models.MemorizationBatch, error)
	AllMemorizedWords(userID string) ([]string, error)
	Batches(userID string) ([]models.MemorizationBatch, error)
	Clear(userID string) error
}

// Reminders is the scheduling surface the engine needs.
type Reminders interface {
	Set(userID string, spec models.ReminderSpec) (time.Time, error)
	Cancel(userID string) error
}

// Engine is the facade over the review & reminder core.
type Engine struct {
	vocab     *vocabulary.Manager
	history   HistoryStore
	sessions  *session.Engine
	reminders Reminders

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// New creates the engine facade.
func New(vocab *vocabulary.Manager, history HistoryStore, sessions *session.Engine, reminders Reminders) *Engine {
	return &Engine{
		vocab:     vocab,
		history:   history,
		sessions:  sessions,
		reminders: reminders,
		userLocks: make(map[string]*sync.Mutex),
	}
}

// MemorizeResult is the outcome of one memorize call.
type MemorizeResult struct {
	Batch      *models.MemorizationBatch
	SourceName string
	// DefaultSourceNotice is set when no source was ever selected and the
	// default (or the built-in fallback) was activated implicitly.
	DefaultSourceNotice bool
}

// Memorize samples count unseen words from the active source and records
// them as a new batch. Counts below the floor (or invalid ones, normalized
// by the caller to values below the floor) sample the floor instead.
func (e *Engine) Memorize(userID string, count int) (*MemorizeResult, error) {
	unlock := e.lockUser(userID)
	defer unlock()

	if count < defaultBatchSize {
		count = defaultBatchSize
	}

	src, defaulted := e.vocab.Snapshot()
	memorized, err := e.history.AllMemorizedWords(userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(memorized))
	for _, w := range memorized {
		seen[w] = true
	}

	candidates := make([]string, 0, src.Len())
	for _, w := range src.Words() {
		if !seen[w] {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: source %q", ErrVocabularyExhausted, src.Name())
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > count {
		candidates = candidates[:count]
	}

	batch, err := e.history.RecordBatch(userID, candidates)
	if err != nil {
		return nil, err
	}
	return &MemorizeResult{
		Batch:               batch,
		SourceName:          src.Name(),
		DefaultSourceNotice: defaulted,
	}, nil
}

// ReviewResult is the issued prompt list of a pending review.
type ReviewResult struct {
	Mode    models.ReviewMode
	Type    models.ReviewType
	Items   []models.ReviewItem
	Prompts []string
	// DefaultSourceNotice mirrors MemorizeResult's side-channel notice.
	DefaultSourceNotice bool
}

// Review builds a pending review for the user, replacing any prior one.
func (e *Engine) Review(userID string, mode models.ReviewMode, reviewType models.ReviewType) (*ReviewResult, error) {
	unlock := e.lockUser(userID)
	defer unlock()

	src, defaulted := e.vocab.Snapshot()
	items, err := e.sessions.StartReview(userID, mode, reviewType, src)
	if err != nil {
		return nil, err
	}

	prompts := make([]string, len(items))
	for i, item := range items {
		prompts[i] = item.Prompt
	}
	return &ReviewResult{
		Mode:                mode,
		Type:                reviewType,
		Items:               items,
		Prompts:             prompts,
		DefaultSourceNotice: defaulted,
	}, nil
}

// Verify grades the submitted answers against the user's pending review and
// clears it.
func (e *Engine) Verify(userID string, answers []string) (*models.VerifyResult, error) {
	unlock := e.lockUser(userID)
	defer unlock()
	return e.sessions.Verify(userID, answers)
}

// SwitchSource activates the named vocabulary source. On failure the
// previous source stays active and keeps answering lookups.
func (e *Engine) SwitchSource(name string) (string, error) {
	if err := e.vocab.Activate(name); err != nil {
		return "", err
	}
	return name, nil
}

// ListSources returns the names of all selectable sources.
func (e *Engine) ListSources() []string {
	return e.vocab.ListAvailable()
}

// ClearHistory irreversibly removes the user's batches and memorized words.
// A pending review built from the removed history is dropped with it.
func (e *Engine) ClearHistory(userID string) error {
	unlock := e.lockUser(userID)
	defer unlock()

	if err := e.history.Clear(userID); err != nil {
		return err
	}
	e.sessions.ClearPending(userID)
	return nil
}

// SetReminder schedules (or, for a cancellation spec, cancels) the user's
// reminder and returns the next fire time when one was scheduled.
func (e *Engine) SetReminder(userID string, spec models.ReminderSpec) (time.Time, error) {
	if spec.Cancel {
		return time.Time{}, e.reminders.Cancel(userID)
	}
	return e.reminders.Set(userID, spec)
}

// CancelReminder removes the user's reminder; no-op when none exists.
func (e *Engine) CancelReminder(userID string) error {
	return e.reminders.Cancel(userID)
}

// StatsResult summarizes a user's accumulated history.
type StatsResult struct {
	BatchCount  int
	WordCount   int
	LastBatchAt time.Time
}

// Stats reports how much the user has memorized so far.
func (e *Engine) Stats(userID string) (*StatsResult, error) {
	unlock := e.lockUser(userID)
	defer unlock()

	batches, err := e.history.Batches(userID)
	if err != nil {
		return nil, err
	}
	words, err := e.history.AllMemorizedWords(userID)
	if err != nil {
		return nil, err
	}

	stats := &StatsResult{BatchCount: len(batches), WordCount: len(words)}
	if len(batches) > 0 {
		stats.LastBatchAt = batches[len(batches)-1].CreatedAt
	}
	return stats, nil
}

// lockUser serializes operations of a single user without blocking other
// users. The returned func releases the lock.
func (e *Engine) lockUser(userID string) func() {
	e.mu.Lock()
	l, ok := e.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		e.userLocks[userID] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}
