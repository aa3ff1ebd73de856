package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apexbot/internal/domain/model"
)

func TestTermRepo_UpsertAndLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTermRepo(db)
	ctx := context.Background()

	err := repo.Upsert(ctx, "apple", "a fruit", "u1", model.VisibilityPublic)
	require.NoError(t, err)

	// Public entries are visible to anyone.
	entry, err := repo.Lookup(ctx, "apple", "u2")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "apple", entry.Term)
	assert.Equal(t, "a fruit", entry.Content)
	assert.Equal(t, "u1", entry.Owner)
	assert.Equal(t, model.VisibilityPublic, entry.Visibility)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestTermRepo_UpsertReplacesExistingRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTermRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "apple", "a fruit", "u1", model.VisibilityPublic))
	// A different user overwrites, changing content, owner and visibility.
	require.NoError(t, repo.Upsert(ctx, "apple", "a company", "u2", model.VisibilityPrivate))

	entry, err := repo.Lookup(ctx, "apple", "u2")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "a company", entry.Content)
	assert.Equal(t, "u2", entry.Owner)
	assert.Equal(t, model.VisibilityPrivate, entry.Visibility)

	// Exactly one live row for the term.
	var count int
	err = db.Reader.QueryRowContext(ctx, `SELECT COUNT(*) FROM dictionary WHERE term = ?`, "apple").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTermRepo_UpsertRejectsEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTermRepo(db)
	ctx := context.Background()

	assert.Error(t, repo.Upsert(ctx, "", "content", "u1", model.VisibilityPublic))
	assert.Error(t, repo.Upsert(ctx, "term", "", "u1", model.VisibilityPublic))
}

func TestTermRepo_LookupIsCaseSensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTermRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "Apple", "capitalized", "u1", model.VisibilityPublic))

	entry, err := repo.Lookup(ctx, "apple", "u1")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestTermRepo_PrivateEntryHiddenFromOthers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTermRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "secret", "shh", "u1", model.VisibilityPrivate))

	// Non-owner: not found, indistinguishable from a missing term.
	entry, err := repo.Lookup(ctx, "secret", "u2")
	require.NoError(t, err)
	assert.Nil(t, entry)

	// Owner sees it.
	entry, err = repo.Lookup(ctx, "secret", "u1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "shh", entry.Content)
}

func TestTermRepo_DeleteOwnerGated(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTermRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "x", "1", "u1", model.VisibilityPublic))

	// Wrong requester: false, row untouched.
	ok, err := repo.Delete(ctx, "x", "u2")
	require.NoError(t, err)
	assert.False(t, ok)

	entry, err := repo.Lookup(ctx, "x", "u2")
	require.NoError(t, err)
	require.NotNil(t, entry)

	// Owner: true, row gone.
	ok, err = repo.Delete(ctx, "x", "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	entry, err = repo.Lookup(ctx, "x", "u1")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestTermRepo_DeleteMissingTerm(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTermRepo(db)
	ctx := context.Background()

	ok, err := repo.Delete(ctx, "nothing", "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTermRepo_ListOrderingAndVisibility(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTermRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "cherry", "c", "u1", model.VisibilityPublic))
	require.NoError(t, repo.Upsert(ctx, "apple", "a", "u1", model.VisibilityPublic))
	require.NoError(t, repo.Upsert(ctx, "banana", "b", "u1", model.VisibilityPrivate))

	// Owner sees all three, ordered by term ascending.
	entries, err := repo.List(ctx, "", "u1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "apple", entries[0].Term)
	assert.Equal(t, "banana", entries[1].Term)
	assert.Equal(t, "cherry", entries[2].Term)

	// Non-owner never sees the private entry.
	entries, err = repo.List(ctx, "", "u2")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "apple", entries[0].Term)
	assert.Equal(t, "cherry", entries[1].Term)
}

func TestTermRepo_ListPrefixFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTermRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "apple", "a", "u1", model.VisibilityPublic))
	require.NoError(t, repo.Upsert(ctx, "apricot", "a", "u1", model.VisibilityPublic))
	require.NoError(t, repo.Upsert(ctx, "banana", "b", "u1", model.VisibilityPublic))

	entries, err := repo.List(ctx, "ap", "u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "apple", entries[0].Term)
	assert.Equal(t, "apricot", entries[1].Term)

	// Prefix matching is case-sensitive.
	entries, err = repo.List(ctx, "AP", "u1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTermRepo_ListPrefixFilterMultibyte(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTermRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "猫", "ねこです", "u1", model.VisibilityPublic))
	require.NoError(t, repo.Upsert(ctx, "猫パンチ", "攻撃", "u1", model.VisibilityPublic))
	require.NoError(t, repo.Upsert(ctx, "犬", "いぬです", "u1", model.VisibilityPublic))

	entries, err := repo.List(ctx, "猫", "u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "猫", entries[0].Term)
	assert.Equal(t, "猫パンチ", entries[1].Term)
}

func TestTermRepo_ListFullSequenceStable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTermRepo(db)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		term := fmt.Sprintf("term-%02d", i)
		require.NoError(t, repo.Upsert(ctx, term, "v", "u1", model.VisibilityPublic))
	}

	entries, err := repo.List(ctx, "", "u2")
	require.NoError(t, err)
	require.Len(t, entries, 25)
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("term-%02d", i), e.Term)
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTermRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "kept", "still here", "u1", model.VisibilityPublic))

	// setupTestDB already migrated once; a second run must be a no-op that
	// leaves existing rows in place.
	require.NoError(t, RunMigrations(db.Writer))

	entry, err := repo.Lookup(ctx, "kept", "u1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "still here", entry.Content)
}

func TestMigrations_CreateDormantDeleteVotesTable(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	var count int
	err := db.Reader.QueryRowContext(ctx, `SELECT COUNT(*) FROM delete_votes`).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}
