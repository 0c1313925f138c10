package repository

import (
	"context"
	"time"

	"kindling/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like-edge data operations
type LikeRepository interface {
	// Create inserts the directed edge. Returns false with no error
	// when the edge already exists (idempotent no-op).
	Create(ctx context.Context, like *models.Like) (bool, error)
	Exists(ctx context.Context, fromUserID, toUserID uint) (bool, error)
	// DeletePair removes both directions between two users.
	DeletePair(ctx context.Context, userID1, userID2 uint) error
	// CountSince counts likes sent by the user at or after the cutoff.
	CountSince(ctx context.Context, fromUserID uint, since time.Time) (int64, error)
}

// likeRepository implements LikeRepository
type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}},
			DoNothing: true,
		}).
		Create(like)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *likeRepository) Exists(ctx context.Context, fromUserID, toUserID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *likeRepository) DeletePair(ctx context.Context, userID1, userID2 uint) error {
	if err := r.db.WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userID1, userID2, userID2, userID1).
		Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *likeRepository) CountSince(ctx context.Context, fromUserID uint, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("from_user_id = ? AND created_at >= ?", fromUserID, since).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
