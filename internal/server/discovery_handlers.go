package server

import (
	"strconv"

	"kindling/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCandidates returns the caller's discovery feed: profiles matching
// both sides' gender preferences within both sides' radii, minus
// everyone already interacted with.
func (s *Server) GetCandidates(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid limit"))
	}

	candidates, err := s.discoveryService.SelectCandidates(ctx, userID, limit)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

// DismissCandidate hides a profile from the caller's feed until local
// midnight. Dismissing the same profile twice is a silent no-op.
func (s *Server) DismissCandidate(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.likeService.RecordDismiss(ctx, userID, targetID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"dismissed": true})
}
