package repository

import (
	"context"
	"testing"
	"time"

	"kindling/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestMessageRepository_ClientKeyIdempotency(t *testing.T) {
	db := setupTestDB(t)
	matchRepo := NewMatchRepository(db)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	a := createTestProfile(t, db, "Ana")
	b := createTestProfile(t, db, "Bea")
	match, _, err := matchRepo.CreateIfAbsent(ctx, a.ID, b.ID)
	assert.NoError(t, err)

	key := "client-key-1"

	t.Run("First send stores a new row", func(t *testing.T) {
		msg := &models.Message{
			MatchID:   match.ID,
			SenderID:  a.ID,
			Kind:      models.MessageKindText,
			Content:   "hey!",
			ClientKey: &key,
		}
		created, err := repo.Create(ctx, msg)
		assert.NoError(t, err)
		assert.True(t, created)
		assert.NotZero(t, msg.ID)
	})

	t.Run("Resend with the same key returns the original row", func(t *testing.T) {
		retry := &models.Message{
			MatchID:   match.ID,
			SenderID:  a.ID,
			Kind:      models.MessageKindText,
			Content:   "hey!",
			ClientKey: &key,
		}
		created, err := repo.Create(ctx, retry)
		assert.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "hey!", retry.Content)

		messages, err := repo.ListByMatch(ctx, match.ID)
		assert.NoError(t, err)
		assert.Len(t, messages, 1, "a blind retry must not duplicate the message")
	})

	t.Run("Same key on a different match is independent", func(t *testing.T) {
		c := createTestProfile(t, db, "Cam")
		other, _, err := matchRepo.CreateIfAbsent(ctx, a.ID, c.ID)
		assert.NoError(t, err)

		msg := &models.Message{
			MatchID:   other.ID,
			SenderID:  a.ID,
			Kind:      models.MessageKindText,
			Content:   "different room",
			ClientKey: &key,
		}
		created, err := repo.Create(ctx, msg)
		assert.NoError(t, err)
		assert.True(t, created, "client keys are scoped per match")
	})

	t.Run("Messages without a key always insert", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			msg := &models.Message{
				MatchID:  match.ID,
				SenderID: b.ID,
				Kind:     models.MessageKindText,
				Content:  "no key",
			}
			created, err := repo.Create(ctx, msg)
			assert.NoError(t, err)
			assert.True(t, created)
		}
	})
}

func TestMessageRepository_ReadState(t *testing.T) {
	db := setupTestDB(t)
	matchRepo := NewMatchRepository(db)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	a := createTestProfile(t, db, "Ana")
	b := createTestProfile(t, db, "Bea")
	match, _, err := matchRepo.CreateIfAbsent(ctx, a.ID, b.ID)
	assert.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &models.Message{
			MatchID:  match.ID,
			SenderID: b.ID,
			Kind:     models.MessageKindText,
			Content:  "unread",
		})
		assert.NoError(t, err)
	}
	// One message from the reader themselves must stay untouched.
	_, err = repo.Create(ctx, &models.Message{
		MatchID:  match.ID,
		SenderID: a.ID,
		Kind:     models.MessageKindText,
		Content:  "mine",
	})
	assert.NoError(t, err)

	t.Run("CountUnread sees partner messages only", func(t *testing.T) {
		count, err := repo.CountUnread(ctx, match.ID, b.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("MarkRead stamps everything unread in one pass", func(t *testing.T) {
		marked, err := repo.MarkRead(ctx, match.ID, b.ID, time.Now().UTC())
		assert.NoError(t, err)
		assert.Equal(t, int64(3), marked)

		count, err := repo.CountUnread(ctx, match.ID, b.ID)
		assert.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("MarkRead again is a no-op", func(t *testing.T) {
		marked, err := repo.MarkRead(ctx, match.ID, b.ID, time.Now().UTC())
		assert.NoError(t, err)
		assert.Zero(t, marked)
	})

	t.Run("CountUnreadConversations counts matches not messages", func(t *testing.T) {
		c := createTestProfile(t, db, "Cam")
		other, _, err := matchRepo.CreateIfAbsent(ctx, a.ID, c.ID)
		assert.NoError(t, err)
		for i := 0; i < 2; i++ {
			_, err := repo.Create(ctx, &models.Message{
				MatchID:  other.ID,
				SenderID: c.ID,
				Kind:     models.MessageKindText,
				Content:  "ping",
			})
			assert.NoError(t, err)
		}

		count, err := repo.CountUnreadConversations(ctx, a.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count, "two unread messages in one match is one conversation")
	})
}
