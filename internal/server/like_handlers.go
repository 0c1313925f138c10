package server

import (
	"kindling/internal/cache"
	"kindling/internal/models"
	"kindling/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// SendLike records a directed like. When the reciprocal like already
// exists the response carries the fresh match, and both participants
// get a realtime match event; otherwise the recipient gets a like
// event. A repeated like is accepted: false with no side effects.
func (s *Server) SendLike(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	result, err := s.likeService.SendLike(ctx, userID, targetID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	if result.IsMatch {
		s.publishUserEvent(ctx, userID, &notifications.MatchEvent{
			MatchID:   result.MatchID,
			PartnerID: targetID,
		})
		s.publishUserEvent(ctx, targetID, &notifications.MatchEvent{
			MatchID:   result.MatchID,
			PartnerID: userID,
		})
		// A new match shows up in both conversation lists and both
		// unread badges.
		cache.Invalidate(ctx, cache.ConversationsKey(userID))
		cache.Invalidate(ctx, cache.ConversationsKey(targetID))
		cache.Invalidate(ctx, cache.UnreadSummaryKey(userID))
		cache.Invalidate(ctx, cache.UnreadSummaryKey(targetID))
	} else if result.Accepted {
		s.publishUserEvent(ctx, targetID, &notifications.LikeEvent{FromUserID: userID})
		cache.Invalidate(ctx, cache.UnreadSummaryKey(targetID))
	}

	// Persistent notification rows ride the user stream too, so open
	// clients can append to their notification list without a refetch.
	for i := range result.Enqueued {
		n := result.Enqueued[i]
		s.publishUserEvent(ctx, n.RecipientID, &notifications.NotificationEvent{Notification: n})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetDailyLikeCount reports likes sent since the caller's local
// midnight. Quota enforcement lives with the billing tier, not here.
func (s *Server) GetDailyLikeCount(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	count, err := s.likeService.DailyLikeCount(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"count": count})
}

// Unmatch dissolves the live match with the partner and removes both
// like edges. History survives; the pair can only re-match through a
// fresh exchange of likes.
func (s *Server) Unmatch(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	partnerID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.likeService.UnmatchUser(ctx, userID, partnerID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	cache.Invalidate(ctx, cache.ConversationsKey(userID))
	cache.Invalidate(ctx, cache.ConversationsKey(partnerID))

	return c.JSON(fiber.Map{"unmatched": true})
}
