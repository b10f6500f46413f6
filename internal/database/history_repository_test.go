package database

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	require.NoError(t, InitSchema(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordBatchAndLatest(t *testing.T) {
	repo := NewHistoryRepository(setupTestDB(t))

	first, err := repo.RecordBatch("u1", []string{"apple", "banana"})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	assert.ElementsMatch(t, []string{"apple", "banana"}, first.Words)

	second, err := repo.RecordBatch("u1", []string{"cherry"})
	require.NoError(t, err)

	latest, err := repo.LatestBatch("u1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, []string{"cherry"}, latest.Words)
}

func TestRecordBatchCollapsesDuplicates(t *testing.T) {
	repo := NewHistoryRepository(setupTestDB(t))

	batch, err := repo.RecordBatch("u1", []string{"apple", "apple", "banana"})
	require.NoError(t, err)
	assert.Len(t, batch.Words, 2)
}

func TestLatestBatchWithoutHistory(t *testing.T) {
	repo := NewHistoryRepository(setupTestDB(t))

	latest, err := repo.LatestBatch("nobody")
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestAllMemorizedWordsIsUnionOfBatches(t *testing.T) {
	repo := NewHistoryRepository(setupTestDB(t))

	_, err := repo.RecordBatch("u1", []string{"apple", "banana"})
	require.NoError(t, err)
	_, err = repo.RecordBatch("u1", []string{"cherry"})
	require.NoError(t, err)
	_, err = repo.RecordBatch("other", []string{"lemon"})
	require.NoError(t, err)

	words, err := repo.AllMemorizedWords("u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"apple", "banana", "cherry"}, words)
}

func TestBatchesChronological(t *testing.T) {
	repo := NewHistoryRepository(setupTestDB(t))

	first, err := repo.RecordBatch("u1", []string{"apple"})
	require.NoError(t, err)
	second, err := repo.RecordBatch("u1", []string{"banana"})
	require.NoError(t, err)

	batches, err := repo.Batches("u1")
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, first.ID, batches[0].ID)
	assert.Equal(t, second.ID, batches[1].ID)
}

func TestClearRemovesEverything(t *testing.T) {
	repo := NewHistoryRepository(setupTestDB(t))

	_, err := repo.RecordBatch("u1", []string{"apple", "banana"})
	require.NoError(t, err)
	require.NoError(t, repo.Clear("u1"))

	words, err := repo.AllMemorizedWords("u1")
	require.NoError(t, err)
	assert.Empty(t, words)

	latest, err := repo.LatestBatch("u1")
	require.NoError(t, err)
	assert.Nil(t, latest)
}
