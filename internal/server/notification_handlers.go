package server

import (
	"encoding/json"

	"kindling/internal/cache"
	"kindling/internal/models"

	"github.com/gofiber/fiber/v2"
)

// unreadSummary is the cached shape of the app-badge counts.
type unreadSummary struct {
	Notifications int64 `json:"unread_notifications"`
	Conversations int64 `json:"unread_conversations"`
}

// GetNotifications lists the caller's notifications, newest first.
// Pass ?unread=true to restrict to unread rows.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	unreadOnly := c.Query("unread") == "true"
	p := parsePagination(c, 50)

	items, err := s.notificationService.ListNotifications(ctx, userID, unreadOnly, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"notifications": items,
		"count":         len(items),
	})
}

// GetUnreadCounts returns the two app-badge numbers: unread
// notifications and conversations holding at least one unread message.
func (s *Server) GetUnreadCounts(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	cacheKey := cache.UnreadSummaryKey(userID)
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached unreadSummary
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return c.JSON(cached)
			}
		}
	}

	notifCount, err := s.notificationService.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	convCount, err := s.notificationService.CountUnreadConversations(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	summary := unreadSummary{Notifications: notifCount, Conversations: convCount}
	if s.redis != nil {
		if raw, err := json.Marshal(summary); err == nil {
			s.redis.Set(ctx, cacheKey, raw, cache.UnreadSummaryTTL)
		}
	}

	return c.JSON(summary)
}

// MarkNotificationRead marks one of the caller's notifications read.
// Marking an already-read notification is a no-op.
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	notificationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationService.MarkNotificationRead(ctx, userID, notificationID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	cache.Invalidate(ctx, cache.UnreadSummaryKey(userID))

	return c.JSON(fiber.Map{"read": true})
}

// MarkAllNotificationsRead marks every unread notification read and
// reports how many changed.
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	count, err := s.notificationService.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	cache.Invalidate(ctx, cache.UnreadSummaryKey(userID))

	return c.JSON(fiber.Map{"marked_read": count})
}
