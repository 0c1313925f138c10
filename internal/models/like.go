package models

import "time"

// Like is a directed interest edge from one user to another.
// The (from, to) pair is unique; a repeated like is a no-op, never an
// error. Likes are removed only by an explicit unmatch.
type Like struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID uint      `gorm:"not null;uniqueIndex:idx_like_pair" json:"from_user_id"`
	ToUserID   uint      `gorm:"not null;uniqueIndex:idx_like_pair;index" json:"to_user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Like) TableName() string {
	return "likes"
}

// LikeResult is the outcome of a SendLike call.
type LikeResult struct {
	Accepted bool `json:"accepted"`
	IsMatch  bool `json:"is_match"`
	// MatchID is set when IsMatch is true.
	MatchID uint `json:"match_id,omitempty"`
	// Enqueued carries the notification rows this call created, for
	// realtime fan-out. Not part of the HTTP response.
	Enqueued []Notification `json:"-"`
}
