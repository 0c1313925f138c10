package server

import (
	"encoding/json"

	"kindling/internal/cache"
	"kindling/internal/models"
	"kindling/internal/notifications"
	"kindling/internal/observability"
	"kindling/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetConversations returns the caller's active conversation list: every
// live, unghosted match with partner identity, last message preview, and
// unread count. The list is served read-through from Redis; writes to
// any conversation invalidate it.
func (s *Server) GetConversations(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	cacheKey := cache.ConversationsKey(userID)
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached []models.ConversationSummary
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return c.JSON(fiber.Map{"conversations": cached, "cached": true})
			}
		}
	}

	summaries, err := s.conversationService.ListConversations(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	if s.redis != nil {
		if raw, err := json.Marshal(summaries); err == nil {
			s.redis.Set(ctx, cacheKey, raw, cache.ConversationsTTL)
		}
	}

	return c.JSON(fiber.Map{"conversations": summaries})
}

// GetConversationHistory returns the caller's full conversation
// journal, including ghosted and unmatched pairs, each tagged with its
// relationship status.
func (s *Server) GetConversationHistory(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	summaries, err := s.conversationService.ListHistory(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"conversations": summaries})
}

// GetMessages returns the full message history with a partner in
// ascending creation order. History stays readable after a ghost or an
// unmatch. Served read-through from Redis keyed by match.
func (s *Server) GetMessages(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	partnerID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	match, err := s.matchRepo.GetByUsersUnscoped(ctx, userID, partnerID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if match == nil {
		nfErr := models.NewNotFoundError("Match", partnerID)
		return models.RespondWithError(c, models.StatusForError(nfErr), nfErr)
	}

	cacheKey := cache.MessageHistoryKey(match.ID)
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached []models.Message
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return c.JSON(fiber.Map{"messages": cached, "cached": true})
			}
		}
	}

	messages, err := s.conversationService.FetchConversation(ctx, userID, partnerID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	if s.redis != nil {
		if raw, err := json.Marshal(messages); err == nil {
			s.redis.Set(ctx, cacheKey, raw, cache.MessageHistoryTTL)
		}
	}

	return c.JSON(fiber.Map{"messages": messages})
}

// SendMessageRequest is the request body for sending a message.
type SendMessageRequest struct {
	Kind      string  `json:"kind"`
	Content   string  `json:"content"`
	MediaRef  string  `json:"media_ref"`
	ClientKey *string `json:"client_key"`
}

// SendMessage stores one message in a live match and returns the
// canonical row. A resend with an already-used client key returns the
// original row instead of duplicating. The stored message fans out to
// match viewers and to the partner's notification stream.
func (s *Server) SendMessage(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	matchID, err := s.parseID(c, "matchId")
	if err != nil {
		return nil
	}

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	kind := models.MessageKind(req.Kind)
	if req.Kind == "" {
		kind = models.MessageKindText
	}

	msg, err := s.conversationService.SendMessage(ctx, service.SendMessageInput{
		MatchID:   matchID,
		SenderID:  userID,
		Kind:      kind,
		Content:   req.Content,
		MediaRef:  req.MediaRef,
		ClientKey: req.ClientKey,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	observability.RecordMessage(string(msg.Kind))

	if match, merr := s.matchRepo.GetLiveByID(ctx, matchID); merr == nil {
		partnerID := match.PartnerOf(userID)
		s.publishMatchEvent(ctx, matchID, &notifications.MessageEvent{Message: *msg})
		s.publishUserEvent(ctx, partnerID, &notifications.MessageEvent{Message: *msg})
		cache.InvalidateConversation(ctx, matchID, match.UserAID, match.UserBID)
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}

// MarkConversationRead stamps read on every currently-unread message
// from the partner in one atomic update and tells the partner how many
// were read.
func (s *Server) MarkConversationRead(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	partnerID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	count, err := s.conversationService.MarkConversationRead(ctx, userID, partnerID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	if count > 0 {
		if match, merr := s.matchRepo.GetByUsersUnscoped(ctx, userID, partnerID); merr == nil && match != nil {
			s.publishMatchEvent(ctx, match.ID, &notifications.ReadEvent{
				MatchID:  match.ID,
				ReaderID: userID,
				Count:    count,
			})
			cache.InvalidateConversation(ctx, match.ID, match.UserAID, match.UserBID)
		}
	}

	return c.JSON(fiber.Map{"marked_read": count})
}
