package models

import (
	"time"

	"gorm.io/gorm"
)

// RelationshipStatus labels a match in history/journal views.
type RelationshipStatus string

const (
	// RelationshipActive is a live match with no suppression.
	RelationshipActive RelationshipStatus = "active"
	// RelationshipGhosted is a live match where one side has blocked the other.
	RelationshipGhosted RelationshipStatus = "ghosted"
	// RelationshipDeleted is a match removed by an explicit unmatch.
	RelationshipDeleted RelationshipStatus = "deleted"
)

// Match is the mutual-interest pairing between two users. The pair is
// stored normalized (UserAID < UserBID) so exactly one row can exist
// per unordered pair. Unmatching soft-deletes the row; message history
// keeps referencing it.
type Match struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserAID   uint           `gorm:"not null;uniqueIndex:idx_match_pair" json:"user_a_id"`
	UserBID   uint           `gorm:"not null;uniqueIndex:idx_match_pair;index" json:"user_b_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (Match) TableName() string {
	return "matches"
}

// BeforeCreate normalizes the pair so UserAID < UserBID. Required for
// the unique index to hold regardless of which side liked last.
func (m *Match) BeforeCreate(_ *gorm.DB) error {
	if m.UserAID > m.UserBID {
		m.UserAID, m.UserBID = m.UserBID, m.UserAID
	}
	return nil
}

// HasParticipant reports whether userID is one of the pair.
func (m *Match) HasParticipant(userID uint) bool {
	return m.UserAID == userID || m.UserBID == userID
}

// PartnerOf returns the other participant of the pair.
func (m *Match) PartnerOf(userID uint) uint {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// NormalizePair returns the unordered pair in storage order.
func NormalizePair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}
