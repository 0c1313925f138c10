package models

import "time"

// Block is a one-directional, reversible visibility suppression
// ("ghosting"). It is fully independent of Like/Match/Message state:
// ghosting hides the pair from each other's discovery and active
// conversation lists but never deletes the match or its history.
type Block struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BlockerID uint      `gorm:"not null;uniqueIndex:idx_block_pair" json:"blocker_id"`
	BlockedID uint      `gorm:"not null;uniqueIndex:idx_block_pair;index" json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Block) TableName() string {
	return "blocks"
}

// GhostEntry is one row of a user's ghosted list.
type GhostEntry struct {
	BlockedID uint      `json:"blocked_id"`
	Since     time.Time `json:"since"`
}
