package repository

import (
	"context"

	"kindling/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlockRepository defines the interface for block (ghost) data operations
type BlockRepository interface {
	// Create inserts the directed edge; a duplicate is a silent no-op.
	Create(ctx context.Context, block *models.Block) error
	// Delete removes the edge; deleting a non-existent edge succeeds.
	Delete(ctx context.Context, blockerID, blockedID uint) error
	// PairBlocked reports whether a block exists in either direction.
	PairBlocked(ctx context.Context, userID1, userID2 uint) (bool, error)
	// ListByBlocker returns the user's ghosted list, newest first.
	ListByBlocker(ctx context.Context, blockerID uint) ([]models.Block, error)
	// ListInvolving returns all edges where the user is on either side.
	ListInvolving(ctx context.Context, userID uint) ([]models.Block, error)
}

// blockRepository implements BlockRepository
type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new block repository
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) Create(ctx context.Context, block *models.Block) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "blocker_id"}, {Name: "blocked_id"}},
			DoNothing: true,
		}).
		Create(block).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blockRepository) Delete(ctx context.Context, blockerID, blockedID uint) error {
	if err := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blockRepository) PairBlocked(ctx context.Context, userID1, userID2 uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			userID1, userID2, userID2, userID1).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *blockRepository) ListByBlocker(ctx context.Context, blockerID uint) ([]models.Block, error) {
	var blocks []models.Block
	if err := r.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Order("created_at DESC").
		Find(&blocks).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return blocks, nil
}

func (r *blockRepository) ListInvolving(ctx context.Context, userID uint) ([]models.Block, error) {
	var blocks []models.Block
	if err := r.db.WithContext(ctx).
		Where("blocker_id = ? OR blocked_id = ?", userID, userID).
		Find(&blocks).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return blocks, nil
}
