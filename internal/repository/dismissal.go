package repository

import (
	"context"

	"kindling/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DismissalRepository defines the interface for day-scoped dismissal edges
type DismissalRepository interface {
	// Create inserts today's edge; a duplicate is a silent no-op.
	Create(ctx context.Context, dismissal *models.Dismissal) error
	// ListTargets returns the IDs the user dismissed on the given day.
	ListTargets(ctx context.Context, fromUserID uint, day string) ([]uint, error)
}

// dismissalRepository implements DismissalRepository
type dismissalRepository struct {
	db *gorm.DB
}

// NewDismissalRepository creates a new dismissal repository
func NewDismissalRepository(db *gorm.DB) DismissalRepository {
	return &dismissalRepository{db: db}
}

func (r *dismissalRepository) Create(ctx context.Context, dismissal *models.Dismissal) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}, {Name: "day"}},
			DoNothing: true,
		}).
		Create(dismissal).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *dismissalRepository) ListTargets(ctx context.Context, fromUserID uint, day string) ([]uint, error) {
	var targets []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Dismissal{}).
		Where("from_user_id = ? AND day = ?", fromUserID, day).
		Pluck("to_user_id", &targets).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return targets, nil
}
