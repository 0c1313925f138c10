package models

import "time"

// NotificationKind classifies a notification row.
type NotificationKind string

const (
	NotificationLike      NotificationKind = "like"
	NotificationMatch     NotificationKind = "match"
	NotificationMessage   NotificationKind = "message"
	NotificationProximity NotificationKind = "proximity"
	NotificationRival     NotificationKind = "rival"
)

// Notification is a per-recipient alert row. Creation is best-effort:
// the like/match write it announces is authoritative and is never
// rolled back when the enqueue fails. Read state only moves one way.
type Notification struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	RecipientID   uint             `gorm:"not null;index" json:"recipient_id"`
	Kind          NotificationKind `gorm:"type:varchar(20);not null" json:"kind"`
	RelatedUserID *uint            `json:"related_user_id,omitempty"`
	ReadAt        *time.Time       `json:"read_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}
