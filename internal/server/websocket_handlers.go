package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"kindling/internal/middleware"
	"kindling/internal/models"
	"kindling/internal/notifications"
	"kindling/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// typingTTLMS is how long a typing indicator stays valid client-side.
const typingTTLMS = 4000

// chatInbound is the wire shape of client-to-server chat frames.
type chatInbound struct {
	Type     string `json:"type"`
	MatchID  uint   `json:"match_id"`
	IsTyping bool   `json:"is_typing"`
}

// WebsocketHandler upgrades the connection and registers it with the
// user hub for likes, matches, and notification events.
func (s *Server) WebsocketHandler() fiber.Handler {
	wsLogger := observability.NewWSLogger("user hub")

	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userID").(uint)
		if !ok || userID == 0 {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Unauthorized"))
			_ = conn.Close()
			return
		}

		ctx := observability.WithCorrelationID(context.Background(),
			observability.GenerateCorrelationID())
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		if s.hub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			wsLogger.LogError(ctx, userID, err, "register")
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "Connection limit reached"))
			_ = conn.Close()
			return
		}
		wsLogger.LogConnect(ctx, userID)

		// Welcome frame so the client knows the stream is live.
		welcome := fmt.Sprintf(`{"type":"connected","payload":{"user_id":%d}}`, userID)
		client.TrySend([]byte(welcome))

		go client.WritePump()
		client.ReadPump()

		wsLogger.LogDisconnect(ctx, userID, "read loop ended")
	})
}

// WebSocketChatHandler upgrades the connection and registers it with
// the match hub. The client joins the matches it is viewing and gets
// message, typing, and read events for those matches only.
func (s *Server) WebSocketChatHandler() fiber.Handler {
	wsLogger := observability.NewWSLogger("match hub")

	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userID").(uint)
		if !ok || userID == 0 {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Unauthorized"))
			_ = conn.Close()
			return
		}

		ctx := observability.WithCorrelationID(context.Background(),
			observability.GenerateCorrelationID())
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		if s.matchHub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.matchHub.Register(userID, conn)
		if err != nil {
			wsLogger.LogError(ctx, userID, err, "register")
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "Connection limit reached"))
			_ = conn.Close()
			return
		}
		wsLogger.LogConnect(ctx, userID)

		client.IncomingHandler = func(c *notifications.Client, raw []byte) {
			s.handleChatInbound(ctx, c, raw, wsLogger)
		}

		welcome := fmt.Sprintf(`{"type":"connected","payload":{"user_id":%d}}`, userID)
		client.TrySend([]byte(welcome))

		go client.WritePump()
		client.ReadPump()

		wsLogger.LogDisconnect(ctx, userID, "read loop ended")
	})
}

// handleChatInbound dispatches one client frame on the chat socket.
// Every match-scoped action verifies participation first; the hub
// itself never checks.
func (s *Server) handleChatInbound(ctx context.Context, c *notifications.Client, raw []byte, wsLogger *observability.WSLogger) {
	var in chatInbound
	if err := json.Unmarshal(raw, &in); err != nil {
		wsLogger.LogError(ctx, c.UserID, err, "parse")
		return
	}
	wsLogger.LogMessage(ctx, c.UserID, in.Type)

	switch in.Type {
	case "join":
		if !s.verifyParticipant(ctx, c.UserID, in.MatchID) {
			c.TrySend([]byte(`{"type":"error","payload":{"reason":"not a participant"}}`))
			return
		}
		s.matchHub.JoinMatch(c.UserID, in.MatchID)

	case "leave":
		s.matchHub.LeaveMatch(c.UserID, in.MatchID)

	case "typing":
		if !s.featureFlags.Enabled("typing_indicators", c.UserID) {
			return
		}
		if !s.matchHub.IsViewing(c.UserID, in.MatchID) {
			return
		}
		allowed, err := middleware.CheckRateLimit(ctx, s.redis, "typing",
			fmt.Sprintf("%d", c.UserID), 10, 10*time.Second)
		if err != nil || !allowed {
			return
		}
		s.publishTypingEvent(ctx, notifications.TypingEvent{
			MatchID:     in.MatchID,
			UserID:      c.UserID,
			IsTyping:    in.IsTyping,
			ExpiresInMS: typingTTLMS,
		})

	case "read":
		match, err := s.matchRepo.GetLiveByID(ctx, in.MatchID)
		if err != nil || !match.HasParticipant(c.UserID) {
			return
		}
		partnerID := match.PartnerOf(c.UserID)
		count, err := s.conversationService.MarkConversationRead(ctx, c.UserID, partnerID)
		if err != nil {
			wsLogger.LogError(ctx, c.UserID, err, "read")
			return
		}
		if count > 0 {
			s.publishMatchEvent(ctx, in.MatchID, &notifications.ReadEvent{
				MatchID:  in.MatchID,
				ReaderID: c.UserID,
				Count:    count,
			})
		}

	default:
		log.Printf("chat socket: unknown frame type %q from user %d", in.Type, c.UserID)
	}
}

// verifyParticipant reports whether the user belongs to a live match.
func (s *Server) verifyParticipant(ctx context.Context, userID, matchID uint) bool {
	match, err := s.matchRepo.GetLiveByID(ctx, matchID)
	if err != nil {
		if _, ok := err.(*models.AppError); !ok {
			log.Printf("verifyParticipant: lookup failed for match %d: %v", matchID, err)
		}
		return false
	}
	return match.HasParticipant(userID)
}
