// Package session builds pending reviews from a user's memorization history
// and grades verification attempts against them. Each user moves through a
// small state machine: Idle -> PendingReview -> Idle. A verify always
// returns the user to Idle, and a new review overwrites the pending one.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/IGCrystal-NEO/ewords/pkg/models"
)

var (
	// ErrNoHistory reports a review request against an empty history.
	ErrNoHistory = errors.New("no memorization history to review")
	// ErrNoPendingReview reports a verify with nothing pending.
	ErrNoPendingReview = errors.New("no pending review to verify")
)

// randomReviewSize caps how many words a random review draws.
const randomReviewSize = 10

// HistoryProvider is the slice of the history store the session engine needs.
type HistoryProvider interface {
	LatestBatch(userID string) (*models.MemorizationBatch, error)
	AllMemorizedWords(userID string) ([]string, error)
}

// Vocabulary is a snapshot of the source active when the review is issued.
// Grading stays bound to this snapshot even if the source is switched later.
type Vocabulary interface {
	TranslationsFor(word string) ([]string, bool)
}

// SentenceGenerator produces an example sentence that wraps the target word
// in ** markers, for the sentence review mode.
type SentenceGenerator interface {
	Generate(word, translation string) (string, error)
}

// Engine holds each user's pending review and grades verify calls.
type Engine struct {
	history   HistoryProvider
	sentences SentenceGenerator

	mu      sync.Mutex
	pending map[string]*models.PendingReview
}

// New creates a session engine. sentences may be nil when the sentence
// review mode is not offered.
func New(history HistoryProvider, sentences SentenceGenerator) *Engine {
	return &Engine{
		history:   history,
		sentences: sentences,
		pending:   make(map[string]*models.PendingReview),
	}
}

// StartReview builds a pending review for the user and returns its prompts.
// Any previously pending review for the user is overwritten.
func (e *Engine) StartReview(userID string, mode models.ReviewMode, reviewType models.ReviewType, vocab Vocabulary) ([]models.ReviewItem, error) {
	words, err := e.selectWords(userID, reviewType)
	if err != nil {
		return nil, err
	}

	items := make([]models.ReviewItem, 0, len(words))
	for _, word := range words {
		translations, ok := vocab.TranslationsFor(word)
		if !ok || len(translations) == 0 {
			// Memorized under a source that no longer knows the word.
			continue
		}
		item, err := e.buildItem(word, translations, mode)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no reviewable words in the active source", ErrNoHistory)
	}

	review := &models.PendingReview{
		UserID:   userID,
		Mode:     mode,
		Items:    items,
		IssuedAt: time.Now().UTC(),
	}

	e.mu.Lock()
	e.pending[userID] = review
	e.mu.Unlock()

	out := make([]models.ReviewItem, len(items))
	copy(out, items)
	return out, nil
}

// Verify grades the submitted answers against the user's pending review.
// The pending review is cleared whatever the verdicts are, so a second
// verify in a row fails with ErrNoPendingReview.
func (e *Engine) Verify(userID string, answers []string) (*models.VerifyResult, error) {
	e.mu.Lock()
	review, ok := e.pending[userID]
	delete(e.pending, userID)
	e.mu.Unlock()
	if !ok {
		return nil, ErrNoPendingReview
	}

	result := &models.VerifyResult{Total: len(review.Items)}
	for i, item := range review.Items {
		submitted := ""
		if i < len(answers) {
			submitted = answers[i]
		}
		verdict := models.Verdict{
			Word:      item.Word,
			Prompt:    item.Prompt,
			Submitted: submitted,
			Expected:  item.Answer,
			Correct:   matches(review.Mode, submitted, item),
		}
		if verdict.Correct {
			result.CorrectCount++
		}
		result.Verdicts = append(result.Verdicts, verdict)
	}
	return result, nil
}

// ClearPending drops the user's pending review, if any. Used when the
// history backing the review is cleared.
func (e *Engine) ClearPending(userID string) {
	e.mu.Lock()
	delete(e.pending, userID)
	e.mu.Unlock()
}

// HasPending reports whether the user currently has an unverified review.
func (e *Engine) HasPending(userID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.pending[userID]
	return ok
}

func (e *Engine) selectWords(userID string, reviewType models.ReviewType) ([]string, error) {
	switch reviewType {
	case models.ReviewByGroup:
		batch, err := e.history.LatestBatch(userID)
		if err != nil {
			return nil, err
		}
		if batch == nil || len(batch.Words) == 0 {
			return nil, fmt.Errorf("%w: no batch recorded yet", ErrNoHistory)
		}
		return batch.Words, nil

	case models.ReviewRandom:
		all, err := e.history.AllMemorizedWords(userID)
		if err != nil {
			return nil, err
		}
		if len(all) == 0 {
			return nil, fmt.Errorf("%w: nothing memorized yet", ErrNoHistory)
		}
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		rnd.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
		if len(all) > randomReviewSize {
			all = all[:randomReviewSize]
		}
		return all, nil

	default:
		return nil, fmt.Errorf("unknown review type %q", reviewType)
	}
}

func (e *Engine) buildItem(word string, translations []string, mode models.ReviewMode) (models.ReviewItem, error) {
	switch mode {
	case models.WordToTranslation:
		return models.ReviewItem{
			Word:     word,
			Prompt:   word,
			Answer:   translations[0],
			Accepted: translations,
		}, nil

	case models.TranslationToWord:
		return models.ReviewItem{
			Word:     word,
			Prompt:   translations[0],
			Answer:   word,
			Accepted: []string{word},
		}, nil

	case models.SentenceToTranslation:
		if e.sentences == nil {
			return models.ReviewItem{}, fmt.Errorf("sentence review mode is not available")
		}
		sentence, err := e.sentences.Generate(word, translations[0])
		if err != nil {
			return models.ReviewItem{}, fmt.Errorf("generate sentence for %q: %w", word, err)
		}
		return models.ReviewItem{
			Word:     word,
			Prompt:   sentence,
			Answer:   translations[0],
			Accepted: translations,
		}, nil

	default:
		return models.ReviewItem{}, fmt.Errorf("unknown review mode %q", mode)
	}
}

// matches applies the answer-acceptance rule of the review mode.
// Translation answers accept equality or case-insensitive containment in a
// known translation; word answers accept equality only.
func matches(mode models.ReviewMode, submitted string, item models.ReviewItem) bool {
	sub := normalize(submitted)
	if sub == "" {
		return false
	}
	for _, accepted := range item.Accepted {
		acc := normalize(accepted)
		if sub == acc {
			return true
		}
		if mode != models.TranslationToWord && strings.Contains(acc, sub) {
			return true
		}
	}
	return false
}

// normalize lowercases, trims surrounding whitespace and drops trailing
// punctuation so that " Apple. " grades the same as "apple".
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimRight(s, ".,!?;:。，！？；：…")
}
