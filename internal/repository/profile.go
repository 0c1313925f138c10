// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"kindling/internal/models"
	"kindling/internal/observability"

	"gorm.io/gorm"
)

// ProfileRepository defines read-only access to the profile store.
// Profile writes happen in the external onboarding/profile service.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Profile, error)
	// GetByIDUnscoped also returns soft-deleted profiles, for history
	// views that must still name a departed partner.
	GetByIDUnscoped(ctx context.Context, id uint) (*models.Profile, error)
	// ListCandidates returns non-deleted profiles excluding the given
	// IDs, optionally restricted to one gender, in stable ID order.
	ListCandidates(ctx context.Context, excludeIDs []uint, gender *models.Gender) ([]models.Profile, error)
}

// profileRepository implements ProfileRepository
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByIDUnscoped(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Unscoped().First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) ListCandidates(ctx context.Context, excludeIDs []uint, gender *models.Gender) ([]models.Profile, error) {
	defer observability.TrackQuery("select", "profiles")()

	var profiles []models.Profile

	query := r.db.WithContext(ctx).Model(&models.Profile{})
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	if gender != nil {
		query = query.Where("gender = ?", *gender)
	}

	// Stable order for a given snapshot; ranking is out of scope.
	if err := query.Order("id ASC").Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}
