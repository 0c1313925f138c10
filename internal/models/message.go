package models

import "time"

// MessageKind is the payload type of a message.
type MessageKind string

const (
	MessageKindText  MessageKind = "text"
	MessageKindImage MessageKind = "image"
	MessageKindAudio MessageKind = "audio"
)

// Valid reports whether the kind is one of the supported values.
func (k MessageKind) Valid() bool {
	switch k {
	case MessageKindText, MessageKindImage, MessageKindAudio:
		return true
	}
	return false
}

// Message belongs to exactly one match. MediaRef is an opaque handle
// issued by the external media store; this core never interprets it.
// ClientKey is an optional client-generated idempotency key so a
// network-level resend collapses onto the original row instead of
// creating a duplicate.
type Message struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	MatchID   uint        `gorm:"not null;index;uniqueIndex:idx_message_client_key" json:"match_id"`
	SenderID  uint        `gorm:"not null;index" json:"sender_id"`
	Kind      MessageKind `gorm:"type:varchar(10);not null;default:'text'" json:"kind"`
	Content   string      `gorm:"type:text" json:"content"`
	MediaRef  string      `json:"media_ref,omitempty"`
	ClientKey *string     `gorm:"uniqueIndex:idx_message_client_key" json:"client_key,omitempty"`
	ReadAt    *time.Time  `json:"read_at,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// ConversationSummary is one row of the active conversation list.
type ConversationSummary struct {
	MatchID            uint               `json:"match_id"`
	PartnerID          uint               `json:"partner_id"`
	PartnerName        string             `json:"partner_name"`
	PartnerAvatar      string             `json:"partner_avatar"`
	MatchedAt          time.Time          `json:"matched_at"`
	LastMessage        *Message           `json:"last_message,omitempty"`
	UnreadCount        int64              `json:"unread_count"`
	RelationshipStatus RelationshipStatus `json:"relationship_status"`
}
