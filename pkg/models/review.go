package models

import "time"

// ReviewMode selects how a review prompts and what it expects back.
type ReviewMode string

const (
	// WordToTranslation prompts with the word and expects any known translation.
	WordToTranslation ReviewMode = "word_to_translation"
	// TranslationToWord prompts with a translation and expects the exact word.
	TranslationToWord ReviewMode = "translation_to_word"
	// SentenceToTranslation prompts with an example sentence wrapping the word
	// in ** markers and expects any known translation.
	SentenceToTranslation ReviewMode = "sentence_to_translation"
)

// ReviewType selects which words a review draws from.
type ReviewType string

const (
	// ReviewByGroup reviews the user's latest memorization batch.
	ReviewByGroup ReviewType = "by_group"
	// ReviewRandom reviews up to 10 words drawn at random from full history.
	ReviewRandom ReviewType = "random"
)

// ReviewItem is one prompt of a pending review together with its answer key.
type ReviewItem struct {
	Word     string   `json:"word"`
	Prompt   string   `json:"prompt"`
	Answer   string   `json:"answer"`   // canonical expected answer, shown as feedback
	Accepted []string `json:"accepted"` // all answers that count as correct
}

// PendingReview is the most recently issued, not yet verified review for a
// user. At most one exists per user; a new review overwrites it and a verify
// consumes it.
type PendingReview struct {
	UserID   string       `json:"user_id"`
	Mode     ReviewMode   `json:"mode"`
	Items    []ReviewItem `json:"items"`
	IssuedAt time.Time    `json:"issued_at"`
}

// Verdict is the graded outcome for a single review item.
type Verdict struct {
	Word      string `json:"word"`
	Prompt    string `json:"prompt"`
	Submitted string `json:"submitted"`
	Expected  string `json:"expected"`
	Correct   bool   `json:"correct"`
}

// VerifyResult summarizes a graded review.
type VerifyResult struct {
	Verdicts     []Verdict `json:"verdicts"`
	CorrectCount int       `json:"correct_count"`
	Total        int       `json:"total"`
}
