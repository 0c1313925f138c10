package server

import (
	"kindling/internal/cache"
	"kindling/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetGhosted lists the users the caller has ghosted, most recent first.
func (s *Server) GetGhosted(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	entries, err := s.blockService.ListGhosted(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"ghosted": entries})
}

// GhostUser suppresses the target everywhere for the caller: discovery,
// conversation list, and notifications. The target is never told. Any
// live match survives untouched underneath.
func (s *Server) GhostUser(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.blockService.Ghost(ctx, userID, targetID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	// The pair's conversation visibility changed for both sides.
	cache.Invalidate(ctx, cache.ConversationsKey(userID))
	cache.Invalidate(ctx, cache.ConversationsKey(targetID))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ghosted": true})
}

// UnghostUser lifts the caller's ghost on the target. Anything still
// suppressed by the other direction stays suppressed.
func (s *Server) UnghostUser(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.blockService.Unghost(ctx, userID, targetID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	cache.Invalidate(ctx, cache.ConversationsKey(userID))
	cache.Invalidate(ctx, cache.ConversationsKey(targetID))

	return c.JSON(fiber.Map{"ghosted": false})
}
