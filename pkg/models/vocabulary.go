package models

// VocabularyEntry is a single word with its known translations.
// Entries are immutable once their source file is loaded.
type VocabularyEntry struct {
	Word         string   `json:"word"`
	Translations []string `json:"translations"` // at least one
}
