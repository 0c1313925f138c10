package service

import (
	"context"
	"testing"

	"kindling/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestLikeService_SendLike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ana := env.createProfile(t, "Ana", models.GenderFemale, models.PreferenceBoth, 30, -97, 50)
	ben := env.createProfile(t, "Ben", models.GenderMale, models.PreferenceBoth, 30, -97, 50)

	t.Run("Self-like is rejected", func(t *testing.T) {
		_, err := env.likes.SendLike(ctx, ana.ID, ana.ID)
		assert.Error(t, err)
		appErr, ok := err.(*models.AppError)
		assert.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})

	t.Run("Like toward unknown profile is rejected", func(t *testing.T) {
		_, err := env.likes.SendLike(ctx, ana.ID, 9999)
		assert.Error(t, err)
		appErr, ok := err.(*models.AppError)
		assert.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("One-sided like is accepted without a match", func(t *testing.T) {
		result, err := env.likes.SendLike(ctx, ana.ID, ben.ID)
		assert.NoError(t, err)
		assert.True(t, result.Accepted)
		assert.False(t, result.IsMatch)
		assert.Zero(t, result.MatchID)
		assert.Len(t, result.Enqueued, 1, "created notification rides the result for fan-out")

		// The recipient gets a like notification.
		notifs, err := env.notification.ListNotifications(ctx, ben.ID, false, 0, 0)
		assert.NoError(t, err)
		assert.Len(t, notifs, 1)
		assert.Equal(t, models.NotificationLike, notifs[0].Kind)
	})

	t.Run("Repeated like is a no-op", func(t *testing.T) {
		result, err := env.likes.SendLike(ctx, ana.ID, ben.ID)
		assert.NoError(t, err)
		assert.False(t, result.Accepted)
		assert.False(t, result.IsMatch)

		// No second notification.
		notifs, err := env.notification.ListNotifications(ctx, ben.ID, false, 0, 0)
		assert.NoError(t, err)
		assert.Len(t, notifs, 1)
	})

	t.Run("Reciprocal like creates the match exactly once", func(t *testing.T) {
		result, err := env.likes.SendLike(ctx, ben.ID, ana.ID)
		assert.NoError(t, err)
		assert.True(t, result.Accepted)
		assert.True(t, result.IsMatch)
		assert.NotZero(t, result.MatchID)
		assert.Len(t, result.Enqueued, 2)

		// Exactly one match notification per participant.
		var matchNotifs []models.Notification
		assert.NoError(t, env.db.Where("kind = ?", models.NotificationMatch).Find(&matchNotifs).Error)
		assert.Len(t, matchNotifs, 2)
		recipients := map[uint]bool{}
		for _, n := range matchNotifs {
			recipients[n.RecipientID] = true
		}
		assert.True(t, recipients[ana.ID])
		assert.True(t, recipients[ben.ID])
	})

	t.Run("Like after match stays a no-op", func(t *testing.T) {
		result, err := env.likes.SendLike(ctx, ben.ID, ana.ID)
		assert.NoError(t, err)
		assert.False(t, result.Accepted)

		var count int64
		assert.NoError(t, env.db.Model(&models.Match{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestLikeService_Unmatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ana := env.createProfile(t, "Ana", models.GenderFemale, models.PreferenceBoth, 30, -97, 50)
	ben := env.createProfile(t, "Ben", models.GenderMale, models.PreferenceBoth, 30, -97, 50)

	_, err := env.likes.SendLike(ctx, ana.ID, ben.ID)
	assert.NoError(t, err)
	result, err := env.likes.SendLike(ctx, ben.ID, ana.ID)
	assert.NoError(t, err)
	assert.True(t, result.IsMatch)

	msg, err := env.conversation.SendMessage(ctx, SendMessageInput{
		MatchID:  result.MatchID,
		SenderID: ana.ID,
		Kind:     models.MessageKindText,
		Content:  "hi!",
	})
	assert.NoError(t, err)

	t.Run("Unmatch removes the match and both like edges", func(t *testing.T) {
		assert.NoError(t, env.likes.UnmatchUser(ctx, ana.ID, ben.ID))

		var likeCount int64
		assert.NoError(t, env.db.Model(&models.Like{}).Count(&likeCount).Error)
		assert.Zero(t, likeCount)

		var liveMatches int64
		assert.NoError(t, env.db.Model(&models.Match{}).Count(&liveMatches).Error)
		assert.Zero(t, liveMatches, "soft delete must hide the match from default queries")
	})

	t.Run("Message history survives the unmatch", func(t *testing.T) {
		messages, err := env.conversation.FetchConversation(ctx, ana.ID, ben.ID)
		assert.NoError(t, err)
		assert.Len(t, messages, 1)
		assert.Equal(t, msg.ID, messages[0].ID)
	})

	t.Run("Unmatch without a live match is not found", func(t *testing.T) {
		err := env.likes.UnmatchUser(ctx, ana.ID, ben.ID)
		assert.Error(t, err)
		appErr, ok := err.(*models.AppError)
		assert.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("Fresh reciprocal likes revive the pair", func(t *testing.T) {
		_, err := env.likes.SendLike(ctx, ana.ID, ben.ID)
		assert.NoError(t, err)
		result, err := env.likes.SendLike(ctx, ben.ID, ana.ID)
		assert.NoError(t, err)
		assert.True(t, result.IsMatch, "a re-match after unmatch fires match semantics again")
	})
}

func TestLikeService_Dismiss(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ana := env.createProfile(t, "Ana", models.GenderFemale, models.PreferenceBoth, 30, -97, 50)
	ben := env.createProfile(t, "Ben", models.GenderMale, models.PreferenceBoth, 30, -97, 50)

	t.Run("Self-dismiss is rejected", func(t *testing.T) {
		err := env.likes.RecordDismiss(ctx, ana.ID, ana.ID)
		assert.Error(t, err)
	})

	t.Run("Dismiss and repeat dismiss both succeed", func(t *testing.T) {
		assert.NoError(t, env.likes.RecordDismiss(ctx, ana.ID, ben.ID))
		assert.NoError(t, env.likes.RecordDismiss(ctx, ana.ID, ben.ID))

		var count int64
		assert.NoError(t, env.db.Model(&models.Dismissal{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestLikeService_DailyLikeCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ana := env.createProfile(t, "Ana", models.GenderFemale, models.PreferenceBoth, 30, -97, 50)
	ben := env.createProfile(t, "Ben", models.GenderMale, models.PreferenceBoth, 30, -97, 50)
	cam := env.createProfile(t, "Cam", models.GenderMale, models.PreferenceBoth, 30, -97, 50)

	count, err := env.likes.DailyLikeCount(ctx, ana.ID)
	assert.NoError(t, err)
	assert.Zero(t, count)

	_, err = env.likes.SendLike(ctx, ana.ID, ben.ID)
	assert.NoError(t, err)
	_, err = env.likes.SendLike(ctx, ana.ID, cam.ID)
	assert.NoError(t, err)
	// A duplicate like must not inflate the count.
	_, err = env.likes.SendLike(ctx, ana.ID, ben.ID)
	assert.NoError(t, err)

	count, err = env.likes.DailyLikeCount(ctx, ana.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
