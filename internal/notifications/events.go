package notifications

import (
	"encoding/json"
	"fmt"

	"kindling/internal/models"
)

// EventType tags one of the closed set of realtime event variants.
type EventType string

const (
	EventLike         EventType = "like"
	EventMatch        EventType = "match"
	EventMessage      EventType = "message"
	EventNotification EventType = "notification"
	EventRead         EventType = "read"
	EventTyping       EventType = "typing"
)

// Event is one realtime event. The set of variants is closed:
// consumers switch over the concrete types returned by DecodeEvent
// instead of probing payload shapes.
type Event interface {
	Type() EventType
}

// LikeEvent tells the recipient someone liked them.
type LikeEvent struct {
	FromUserID uint `json:"from_user_id"`
}

// MatchEvent tells a participant a mutual match was created.
type MatchEvent struct {
	MatchID   uint `json:"match_id"`
	PartnerID uint `json:"partner_id"`
}

// MessageEvent carries a newly stored message on its match channel.
// The sender receives its own echo; consumers dedup by message ID.
type MessageEvent struct {
	Message models.Message `json:"message"`
}

// NotificationEvent carries a freshly created notification row.
type NotificationEvent struct {
	Notification models.Notification `json:"notification"`
}

// ReadEvent tells the partner their messages were marked read.
type ReadEvent struct {
	MatchID  uint `json:"match_id"`
	ReaderID uint `json:"reader_id"`
	Count    int64 `json:"count"`
}

// TypingEvent is a transient typing indicator on a match channel.
type TypingEvent struct {
	MatchID     uint `json:"match_id"`
	UserID      uint `json:"user_id"`
	IsTyping    bool `json:"is_typing"`
	ExpiresInMS int  `json:"expires_in_ms"`
}

func (LikeEvent) Type() EventType         { return EventLike }
func (MatchEvent) Type() EventType        { return EventMatch }
func (MessageEvent) Type() EventType      { return EventMessage }
func (NotificationEvent) Type() EventType { return EventNotification }
func (ReadEvent) Type() EventType         { return EventRead }
func (TypingEvent) Type() EventType       { return EventTyping }

type envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeEvent wraps the event in a tagged envelope for the wire.
func EncodeEvent(ev Event) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event payload: %w", err)
	}
	return json.Marshal(envelope{Type: ev.Type(), Payload: payload})
}

// DecodeEvent parses a wire envelope into its concrete variant. An
// unknown tag is an error; the variant set only grows here.
func DecodeEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal event envelope: %w", err)
	}

	var ev Event
	switch env.Type {
	case EventLike:
		ev = &LikeEvent{}
	case EventMatch:
		ev = &MatchEvent{}
	case EventMessage:
		ev = &MessageEvent{}
	case EventNotification:
		ev = &NotificationEvent{}
	case EventRead:
		ev = &ReadEvent{}
	case EventTyping:
		ev = &TypingEvent{}
	default:
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}
	if err := json.Unmarshal(env.Payload, ev); err != nil {
		return nil, fmt.Errorf("unmarshal %s event: %w", env.Type, err)
	}
	return ev, nil
}
