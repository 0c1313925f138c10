package service

import (
	"context"
	"testing"

	"kindling/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBlockService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ana := env.createProfile(t, "Ana", models.GenderFemale, models.PreferenceBoth, 30, -97, 50)
	ben := env.createProfile(t, "Ben", models.GenderMale, models.PreferenceBoth, 30, -97, 50)
	cam := env.createProfile(t, "Cam", models.GenderMale, models.PreferenceBoth, 30, -97, 50)

	t.Run("Self-ghost is rejected", func(t *testing.T) {
		err := env.blocks.Ghost(ctx, ana.ID, ana.ID)
		assert.Error(t, err)
	})

	t.Run("Ghosting an unknown profile is not found", func(t *testing.T) {
		err := env.blocks.Ghost(ctx, ana.ID, 9999)
		assert.Error(t, err)
		appErr, ok := err.(*models.AppError)
		assert.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("Ghost and repeat ghost both succeed", func(t *testing.T) {
		assert.NoError(t, env.blocks.Ghost(ctx, ana.ID, ben.ID))
		assert.NoError(t, env.blocks.Ghost(ctx, ana.ID, ben.ID))

		var count int64
		assert.NoError(t, env.db.Model(&models.Block{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("ListGhosted reports edges with timestamps", func(t *testing.T) {
		assert.NoError(t, env.blocks.Ghost(ctx, ana.ID, cam.ID))

		entries, err := env.blocks.ListGhosted(ctx, ana.ID)
		assert.NoError(t, err)
		assert.Len(t, entries, 2)
		for _, e := range entries {
			assert.False(t, e.Since.IsZero())
		}
	})

	t.Run("Ghosts are one-directional in listing", func(t *testing.T) {
		entries, err := env.blocks.ListGhosted(ctx, ben.ID)
		assert.NoError(t, err)
		assert.Empty(t, entries, "being ghosted is invisible to the target")
	})

	t.Run("Unghost removes the edge and tolerates repeats", func(t *testing.T) {
		assert.NoError(t, env.blocks.Unghost(ctx, ana.ID, ben.ID))
		assert.NoError(t, env.blocks.Unghost(ctx, ana.ID, ben.ID))

		entries, err := env.blocks.ListGhosted(ctx, ana.ID)
		assert.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
