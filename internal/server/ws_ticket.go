package server

import (
	"fmt"
	"time"

	"kindling/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// wsTicketTTL bounds the window between ticket issuance and the
// websocket upgrade that consumes it.
const wsTicketTTL = 45 * time.Second

// IssueWSTicket mints a short-lived single-use ticket the client
// presents as a query param on the websocket upgrade. Browsers cannot
// set an Authorization header on the upgrade request, so the JWT is
// exchanged for an opaque ticket here instead of leaking into URLs.
func (s *Server) IssueWSTicket(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if s.redis == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fmt.Errorf("ticket store unavailable")))
	}

	ticket := uuid.NewString()
	key := fmt.Sprintf("ws_ticket:%s", ticket)
	if err := s.redis.Set(c.Context(), key, fmt.Sprintf("%d", userID), wsTicketTTL).Err(); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ticket":     ticket,
		"expires_in": int(wsTicketTTL.Seconds()),
	})
}
