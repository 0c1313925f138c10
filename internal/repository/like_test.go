package repository

import (
	"context"
	"testing"
	"time"

	"kindling/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestLikeRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	a := createTestProfile(t, db, "Ana")
	b := createTestProfile(t, db, "Bea")

	t.Run("Create inserts a directed edge", func(t *testing.T) {
		created, err := repo.Create(ctx, &models.Like{FromUserID: a.ID, ToUserID: b.ID})
		assert.NoError(t, err)
		assert.True(t, created)

		exists, err := repo.Exists(ctx, a.ID, b.ID)
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Duplicate like is a silent no-op", func(t *testing.T) {
		created, err := repo.Create(ctx, &models.Like{FromUserID: a.ID, ToUserID: b.ID})
		assert.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("Edges are directional", func(t *testing.T) {
		exists, err := repo.Exists(ctx, b.ID, a.ID)
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("CountSince only counts recent likes", func(t *testing.T) {
		count, err := repo.CountSince(ctx, a.ID, time.Now().Add(-time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = repo.CountSince(ctx, a.ID, time.Now().Add(time.Hour))
		assert.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("DeletePair removes both directions", func(t *testing.T) {
		_, err := repo.Create(ctx, &models.Like{FromUserID: b.ID, ToUserID: a.ID})
		assert.NoError(t, err)

		assert.NoError(t, repo.DeletePair(ctx, a.ID, b.ID))

		existsAB, _ := repo.Exists(ctx, a.ID, b.ID)
		existsBA, _ := repo.Exists(ctx, b.ID, a.ID)
		assert.False(t, existsAB)
		assert.False(t, existsBA)
	})
}
