package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchRepository_CreateIfAbsent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	a := createTestProfile(t, db, "Ana")
	b := createTestProfile(t, db, "Bea")

	t.Run("First creation materializes the match", func(t *testing.T) {
		match, created, err := repo.CreateIfAbsent(ctx, a.ID, b.ID)
		assert.NoError(t, err)
		assert.True(t, created)
		assert.NotZero(t, match.ID)
		assert.Equal(t, a.ID, match.UserAID)
		assert.Equal(t, b.ID, match.UserBID)
	})

	t.Run("Second call for a live pair reports not created", func(t *testing.T) {
		match, created, err := repo.CreateIfAbsent(ctx, b.ID, a.ID)
		assert.NoError(t, err)
		assert.False(t, created, "a live match must never be created twice")
		assert.NotZero(t, match.ID)
	})

	t.Run("Pair order does not matter", func(t *testing.T) {
		m1, _, err := repo.CreateIfAbsent(ctx, a.ID, b.ID)
		assert.NoError(t, err)
		m2, _, err := repo.CreateIfAbsent(ctx, b.ID, a.ID)
		assert.NoError(t, err)
		assert.Equal(t, m1.ID, m2.ID)
	})

	t.Run("Revival of an unmatched pair counts as created", func(t *testing.T) {
		existing, err := repo.GetLiveByUsers(ctx, a.ID, b.ID)
		assert.NoError(t, err)
		assert.NotNil(t, existing)
		assert.NoError(t, repo.SoftDelete(ctx, existing.ID))

		gone, err := repo.GetLiveByUsers(ctx, a.ID, b.ID)
		assert.NoError(t, err)
		assert.Nil(t, gone, "soft-deleted match must be invisible to live lookups")

		revived, created, err := repo.CreateIfAbsent(ctx, a.ID, b.ID)
		assert.NoError(t, err)
		assert.True(t, created, "reviving a deleted pair fires match semantics again")
		assert.Equal(t, existing.ID, revived.ID, "revival reuses the original row")
	})
}

func TestMatchRepository_UnscopedLookups(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	a := createTestProfile(t, db, "Ana")
	b := createTestProfile(t, db, "Bea")
	c := createTestProfile(t, db, "Cam")

	mAB, _, err := repo.CreateIfAbsent(ctx, a.ID, b.ID)
	assert.NoError(t, err)
	_, _, err = repo.CreateIfAbsent(ctx, a.ID, c.ID)
	assert.NoError(t, err)

	assert.NoError(t, repo.SoftDelete(ctx, mAB.ID))

	t.Run("Live listing hides the unmatched pair", func(t *testing.T) {
		live, err := repo.ListLiveForUser(ctx, a.ID)
		assert.NoError(t, err)
		assert.Len(t, live, 1)
	})

	t.Run("Unscoped listing includes the unmatched pair", func(t *testing.T) {
		all, err := repo.ListForUserUnscoped(ctx, a.ID)
		assert.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("Unscoped pair lookup finds the deleted match", func(t *testing.T) {
		match, err := repo.GetByUsersUnscoped(ctx, a.ID, b.ID)
		assert.NoError(t, err)
		assert.NotNil(t, match)
		assert.Equal(t, mAB.ID, match.ID)
	})
}
