// Package database holds the persistent state of the bot: each user's
// memorization history and their reminder job. SQLite is the default
// backend; setting DATABASE_URL switches to PostgreSQL.
package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ErrStorage wraps persistence failures that survived the local retry.
var ErrStorage = errors.New("storage failure")

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database
func Connect() error {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
		DB = db
		return InitSchema(db)
	}

	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		dataDir := "data"
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}
		path = filepath.Join(dataDir, "ewords.db")
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db
	return InitSchema(db)
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// InitSchema creates necessary tables if they don't exist
func InitSchema(db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS batches (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_batches_user ON batches(user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS batch_words (
			batch_id TEXT NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
			word TEXT NOT NULL,
			UNIQUE(batch_id, word)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_batch_words_batch ON batch_words(batch_id)`,
		`CREATE TABLE IF NOT EXISTS reminder_jobs (
			user_id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			interval_seconds INTEGER NOT NULL DEFAULT 0,
			next_fire_at TIMESTAMP NOT NULL,
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %v", err)
		}
	}
	return nil
}

// withRetry runs fn and retries exactly once on failure. Transient I/O
// hiccups get a second chance; a second failure is the caller's problem.
func withRetry(fn func() error) error {
	if err := fn(); err == nil {
		return nil
	}
	return fn()
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
