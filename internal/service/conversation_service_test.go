package service

import (
	"context"
	"testing"

	"kindling/internal/models"

	"github.com/stretchr/testify/assert"
)

// matchPair drives two profiles through the reciprocal-like flow and
// returns the resulting match ID.
func matchPair(t *testing.T, env *testEnv, a, b *models.Profile) uint {
	t.Helper()
	ctx := context.Background()
	_, err := env.likes.SendLike(ctx, a.ID, b.ID)
	assert.NoError(t, err)
	result, err := env.likes.SendLike(ctx, b.ID, a.ID)
	assert.NoError(t, err)
	assert.True(t, result.IsMatch)
	return result.MatchID
}

func TestConversationService_ListConversations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ana := env.createProfile(t, "Ana", models.GenderFemale, models.PreferenceBoth, 30, -97, 50)
	ben := env.createProfile(t, "Ben", models.GenderMale, models.PreferenceBoth, 30, -97, 50)
	cam := env.createProfile(t, "Cam", models.GenderMale, models.PreferenceBoth, 30, -97, 50)

	benMatch := matchPair(t, env, ana, ben)
	matchPair(t, env, ana, cam)

	t.Run("Fresh matches appear with no last message", func(t *testing.T) {
		summaries, err := env.conversation.ListConversations(ctx, ana.ID)
		assert.NoError(t, err)
		assert.Len(t, summaries, 2)
		for _, s := range summaries {
			assert.Nil(t, s.LastMessage)
			assert.Zero(t, s.UnreadCount)
			assert.Equal(t, models.RelationshipActive, s.RelationshipStatus)
		}
	})

	t.Run("Summary carries partner identity and unread count", func(t *testing.T) {
		_, err := env.conversation.SendMessage(ctx, SendMessageInput{
			MatchID:  benMatch,
			SenderID: ben.ID,
			Kind:     models.MessageKindText,
			Content:  "hello Ana",
		})
		assert.NoError(t, err)

		summaries, err := env.conversation.ListConversations(ctx, ana.ID)
		assert.NoError(t, err)

		var benSummary *models.ConversationSummary
		for i := range summaries {
			if summaries[i].MatchID == benMatch {
				benSummary = &summaries[i]
			}
		}
		assert.NotNil(t, benSummary)
		assert.Equal(t, ben.ID, benSummary.PartnerID)
		assert.Equal(t, "Ben", benSummary.PartnerName)
		assert.NotNil(t, benSummary.LastMessage)
		assert.Equal(t, "hello Ana", benSummary.LastMessage.Content)
		assert.Equal(t, int64(1), benSummary.UnreadCount)
	})

	t.Run("Ghosted pair disappears from the active list both ways", func(t *testing.T) {
		assert.NoError(t, env.blocks.Ghost(ctx, ana.ID, ben.ID))

		forAna, err := env.conversation.ListConversations(ctx, ana.ID)
		assert.NoError(t, err)
		assert.Len(t, forAna, 1)
		assert.Equal(t, cam.ID, forAna[0].PartnerID)

		forBen, err := env.conversation.ListConversations(ctx, ben.ID)
		assert.NoError(t, err)
		assert.Empty(t, forBen, "either direction of a ghost hides the pair")
	})

	t.Run("Unghost restores the conversation", func(t *testing.T) {
		assert.NoError(t, env.blocks.Unghost(ctx, ana.ID, ben.ID))

		forAna, err := env.conversation.ListConversations(ctx, ana.ID)
		assert.NoError(t, err)
		assert.Len(t, forAna, 2)
	})
}

func TestConversationService_ListHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ana := env.createProfile(t, "Ana", models.GenderFemale, models.PreferenceBoth, 30, -97, 50)
	ben := env.createProfile(t, "Ben", models.GenderMale, models.PreferenceBoth, 30, -97, 50)
	cam := env.createProfile(t, "Cam", models.GenderMale, models.PreferenceBoth, 30, -97, 50)
	dee := env.createProfile(t, "Dee", models.GenderFemale, models.PreferenceBoth, 30, -97, 50)

	matchPair(t, env, ana, ben)
	matchPair(t, env, ana, cam)
	matchPair(t, env, ana, dee)

	assert.NoError(t, env.likes.UnmatchUser(ctx, ana.ID, ben.ID))
	assert.NoError(t, env.blocks.Ghost(ctx, ana.ID, cam.ID))

	history, err := env.conversation.ListHistory(ctx, ana.ID)
	assert.NoError(t, err)
	assert.Len(t, history, 3, "the journal keeps unmatched and ghosted pairs")

	statusByPartner := map[uint]models.RelationshipStatus{}
	for _, s := range history {
		statusByPartner[s.PartnerID] = s.RelationshipStatus
	}
	assert.Equal(t, models.RelationshipDeleted, statusByPartner[ben.ID])
	assert.Equal(t, models.RelationshipGhosted, statusByPartner[cam.ID])
	assert.Equal(t, models.RelationshipActive, statusByPartner[dee.ID])
}

func TestConversationService_SendMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ana := env.createProfile(t, "Ana", models.GenderFemale, models.PreferenceBoth, 30, -97, 50)
	ben := env.createProfile(t, "Ben", models.GenderMale, models.PreferenceBoth, 30, -97, 50)
	cam := env.createProfile(t, "Cam", models.GenderMale, models.PreferenceBoth, 30, -97, 50)

	matchID := matchPair(t, env, ana, ben)

	t.Run("Unsupported kind is rejected", func(t *testing.T) {
		_, err := env.conversation.SendMessage(ctx, SendMessageInput{
			MatchID: matchID, SenderID: ana.ID, Kind: "video", Content: "x",
		})
		assert.Error(t, err)
	})

	t.Run("Empty text is rejected", func(t *testing.T) {
		_, err := env.conversation.SendMessage(ctx, SendMessageInput{
			MatchID: matchID, SenderID: ana.ID, Kind: models.MessageKindText,
		})
		assert.Error(t, err)
	})

	t.Run("Media kinds require a media reference", func(t *testing.T) {
		_, err := env.conversation.SendMessage(ctx, SendMessageInput{
			MatchID: matchID, SenderID: ana.ID, Kind: models.MessageKindImage,
		})
		assert.Error(t, err)

		msg, err := env.conversation.SendMessage(ctx, SendMessageInput{
			MatchID: matchID, SenderID: ana.ID, Kind: models.MessageKindImage,
			MediaRef: "uploads/abc123",
		})
		assert.NoError(t, err)
		assert.Equal(t, "uploads/abc123", msg.MediaRef)
	})

	t.Run("Non-participant cannot send", func(t *testing.T) {
		_, err := env.conversation.SendMessage(ctx, SendMessageInput{
			MatchID: matchID, SenderID: cam.ID, Kind: models.MessageKindText, Content: "hi",
		})
		assert.Error(t, err)
	})

	t.Run("Unknown match is not found", func(t *testing.T) {
		_, err := env.conversation.SendMessage(ctx, SendMessageInput{
			MatchID: 9999, SenderID: ana.ID, Kind: models.MessageKindText, Content: "hi",
		})
		assert.Error(t, err)
		appErr, ok := err.(*models.AppError)
		assert.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("Client key makes blind retries safe", func(t *testing.T) {
		key := "retry-key"
		first, err := env.conversation.SendMessage(ctx, SendMessageInput{
			MatchID: matchID, SenderID: ana.ID, Kind: models.MessageKindText,
			Content: "did this send?", ClientKey: &key,
		})
		assert.NoError(t, err)

		second, err := env.conversation.SendMessage(ctx, SendMessageInput{
			MatchID: matchID, SenderID: ana.ID, Kind: models.MessageKindText,
			Content: "did this send?", ClientKey: &key,
		})
		assert.NoError(t, err)
		assert.Equal(t, first.ID, second.ID, "a retry returns the original row")
	})

	t.Run("Ghosted pair cannot exchange messages", func(t *testing.T) {
		assert.NoError(t, env.blocks.Ghost(ctx, ben.ID, ana.ID))

		_, err := env.conversation.SendMessage(ctx, SendMessageInput{
			MatchID: matchID, SenderID: ana.ID, Kind: models.MessageKindText, Content: "hello?",
		})
		assert.Error(t, err)
		appErr, ok := err.(*models.AppError)
		assert.True(t, ok)
		assert.Equal(t, "FORBIDDEN", appErr.Code)

		// The ghoster is silenced too.
		_, err = env.conversation.SendMessage(ctx, SendMessageInput{
			MatchID: matchID, SenderID: ben.ID, Kind: models.MessageKindText, Content: "nope",
		})
		assert.Error(t, err)
	})
}

func TestConversationService_MarkConversationRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ana := env.createProfile(t, "Ana", models.GenderFemale, models.PreferenceBoth, 30, -97, 50)
	ben := env.createProfile(t, "Ben", models.GenderMale, models.PreferenceBoth, 30, -97, 50)

	matchID := matchPair(t, env, ana, ben)

	for i := 0; i < 2; i++ {
		_, err := env.conversation.SendMessage(ctx, SendMessageInput{
			MatchID: matchID, SenderID: ben.ID, Kind: models.MessageKindText, Content: "ping",
		})
		assert.NoError(t, err)
	}

	t.Run("Marks all partner messages in one pass", func(t *testing.T) {
		count, err := env.conversation.MarkConversationRead(ctx, ana.ID, ben.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Second pass is a no-op", func(t *testing.T) {
		count, err := env.conversation.MarkConversationRead(ctx, ana.ID, ben.ID)
		assert.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("Unknown pair is not found", func(t *testing.T) {
		_, err := env.conversation.MarkConversationRead(ctx, ana.ID, 9999)
		assert.Error(t, err)
	})
}
