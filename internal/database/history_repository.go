package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/IGCrystal-NEO/ewords/pkg/models"
)

// HistoryRepository handles database operations for memorization history.
// Batches are append-only per user; the latest batch is the one a
// "review by group" draws from.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new repository instance
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// RecordBatch appends a new batch with the given words for the user.
// Duplicate words within the slice are collapsed before writing.
func (r *HistoryRepository) RecordBatch(userID string, words []string) (*models.MemorizationBatch, error) {
	unique := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			unique = append(unique, w)
		}
	}

	batch := &models.MemorizationBatch{
		ID:        uuid.NewString(),
		UserID:    userID,
		Words:     unique,
		CreatedAt: time.Now().UTC(),
	}

	err := withRetry(func() error {
		tx, err := r.db.Beginx()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		insertBatch := r.db.Rebind("INSERT INTO batches (id, user_id, created_at) VALUES (?, ?, ?)")
		if _, err := tx.Exec(insertBatch, batch.ID, batch.UserID, batch.CreatedAt); err != nil {
			return err
		}
		insertWord := r.db.Rebind("INSERT INTO batch_words (batch_id, word) VALUES (?, ?)")
		for _, w := range batch.Words {
			if _, err := tx.Exec(insertWord, batch.ID, w); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, storageErr("record batch", err)
	}
	return batch, nil
}

// LatestBatch returns the most recently recorded batch for the user, or nil
// if the user has no history.
func (r *HistoryRepository) LatestBatch(userID string) (*models.MemorizationBatch, error) {
	batch := &models.MemorizationBatch{}
	query := r.db.Rebind("SELECT id, user_id, created_at FROM batches WHERE user_id = ? ORDER BY created_at DESC LIMIT 1")
	err := r.db.Get(batch, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("latest batch", err)
	}

	words, err := r.batchWords(batch.ID)
	if err != nil {
		return nil, err
	}
	batch.Words = words
	return batch, nil
}

// Batches returns all batches for the user in chronological order.
func (r *HistoryRepository) Batches(userID string) ([]models.MemorizationBatch, error) {
	var batches []models.MemorizationBatch
	query := r.db.Rebind("SELECT id, user_id, created_at FROM batches WHERE user_id = ? ORDER BY created_at ASC")
	if err := r.db.Select(&batches, query, userID); err != nil {
		return nil, storageErr("list batches", err)
	}
	for i := range batches {
		words, err := r.batchWords(batches[i].ID)
		if err != nil {
			return nil, err
		}
		batches[i].Words = words
	}
	return batches, nil
}

// AllMemorizedWords returns the union of all batch words for the user.
func (r *HistoryRepository) AllMemorizedWords(userID string) ([]string, error) {
	var words []string
	query := r.db.Rebind(`
		SELECT DISTINCT bw.word
		FROM batch_words bw
		JOIN batches b ON b.id = bw.batch_id
		WHERE b.user_id = ?
		ORDER BY bw.word
	`)
	if err := r.db.Select(&words, query, userID); err != nil {
		return nil, storageErr("all memorized words", err)
	}
	return words, nil
}

// Clear removes the user's entire history. Irreversible.
func (r *HistoryRepository) Clear(userID string) error {
	err := withRetry(func() error {
		tx, err := r.db.Beginx()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		deleteWords := r.db.Rebind(`
			DELETE FROM batch_words
			WHERE batch_id IN (SELECT id FROM batches WHERE user_id = ?)
		`)
		if _, err := tx.Exec(deleteWords, userID); err != nil {
			return err
		}
		deleteBatches := r.db.Rebind("DELETE FROM batches WHERE user_id = ?")
		if _, err := tx.Exec(deleteBatches, userID); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return storageErr("clear history", err)
	}
	return nil
}

func (r *HistoryRepository) batchWords(batchID string) ([]string, error) {
	var words []string
	query := r.db.Rebind("SELECT word FROM batch_words WHERE batch_id = ? ORDER BY word")
	if err := r.db.Select(&words, query, batchID); err != nil {
		return nil, storageErr("batch words", err)
	}
	return words, nil
}
