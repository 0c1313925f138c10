package server

import (
	"context"
	"log/slog"

	"kindling/internal/middleware"
	"kindling/internal/notifications"
	"kindling/internal/observability"
)

// publishUserEvent encodes a typed event and fans it out to a user,
// both locally and through Redis for other instances. Delivery is
// best-effort: the database write is the authoritative fact and is
// never rolled back for a failed publish.
func (s *Server) publishUserEvent(ctx context.Context, userID uint, ev notifications.Event) {
	payload, err := notifications.EncodeEvent(ev)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to encode realtime event",
			slog.String("event_type", string(ev.Type())),
			slog.String("error", err.Error()))
		return
	}
	observability.RecordWebSocketEvent(string(ev.Type()))

	if s.hub != nil {
		s.hub.Broadcast(userID, payload)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishUser(ctx, userID, payload); err != nil {
			observability.RecordErrorInContext(ctx, err)
			middleware.Logger.WarnContext(ctx, "failed to publish user event",
				slog.Uint64("user_id", uint64(userID)),
				slog.String("event_type", string(ev.Type())),
				slog.String("error", err.Error()))
		}
	}
}

// publishMatchEvent fans a typed event out to a match's conversation
// channel. Local delivery goes straight to the hub; cross-instance
// delivery rides Redis. The hub dedups stored messages by ID, so the
// double path cannot double-deliver.
func (s *Server) publishMatchEvent(ctx context.Context, matchID uint, ev notifications.Event) {
	payload, err := notifications.EncodeEvent(ev)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to encode realtime event",
			slog.String("event_type", string(ev.Type())),
			slog.String("error", err.Error()))
		return
	}
	observability.RecordWebSocketEvent(string(ev.Type()))

	if s.notifier != nil {
		if err := s.notifier.PublishMatch(ctx, matchID, payload); err != nil {
			observability.RecordErrorInContext(ctx, err)
			middleware.Logger.WarnContext(ctx, "failed to publish match event",
				slog.Uint64("match_id", uint64(matchID)),
				slog.String("event_type", string(ev.Type())),
				slog.String("error", err.Error()))
		}
	} else if s.matchHub != nil {
		// No Redis: deliver directly to local subscribers.
		s.matchHub.BroadcastToMatch(matchID, payload)
	}
}

// publishTypingEvent publishes a transient typing indicator on the
// match's typing channel. Typing state is never persisted.
func (s *Server) publishTypingEvent(ctx context.Context, ev notifications.TypingEvent) {
	payload, err := notifications.EncodeEvent(ev)
	if err != nil {
		return
	}
	observability.RecordWebSocketEvent(string(ev.Type()))

	if s.notifier != nil {
		if err := s.notifier.PublishTyping(ctx, ev.MatchID, payload); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to publish typing event",
				slog.Uint64("match_id", uint64(ev.MatchID)),
				slog.String("error", err.Error()))
		}
	} else if s.matchHub != nil {
		s.matchHub.BroadcastToMatch(ev.MatchID, payload)
	}
}
