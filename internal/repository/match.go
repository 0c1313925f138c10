package repository

import (
	"context"
	"errors"

	"kindling/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchRepository defines the interface for match data operations
type MatchRepository interface {
	// CreateIfAbsent atomically creates the match for an unordered pair,
	// or revives a soft-deleted one. The boolean is true only for the
	// caller whose statement actually materialized the live row, so two
	// racing mutual likes observe exactly one true.
	CreateIfAbsent(ctx context.Context, userID1, userID2 uint) (*models.Match, bool, error)
	GetLiveByID(ctx context.Context, id uint) (*models.Match, error)
	// GetLiveByUsers returns nil, nil when no live match exists.
	GetLiveByUsers(ctx context.Context, userID1, userID2 uint) (*models.Match, error)
	// GetByUsersUnscoped also finds unmatched (soft-deleted) pairs.
	GetByUsersUnscoped(ctx context.Context, userID1, userID2 uint) (*models.Match, error)
	ListLiveForUser(ctx context.Context, userID uint) ([]models.Match, error)
	// ListForUserUnscoped returns every match the user was ever part
	// of, including unmatched ones, for history/journal views.
	ListForUserUnscoped(ctx context.Context, userID uint) ([]models.Match, error)
	SoftDelete(ctx context.Context, id uint) error
}

// matchRepository implements MatchRepository
type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) CreateIfAbsent(ctx context.Context, userID1, userID2 uint) (*models.Match, bool, error) {
	a, b := models.NormalizePair(userID1, userID2)
	match := &models.Match{UserAID: a, UserBID: b}

	// Single upsert so the mutual-like race cannot produce two rows or
	// double-fire: a fresh insert and a revival of an unmatched pair
	// both report one affected row, a conflict with a live row reports
	// zero because the WHERE suppresses the update.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_a_id"}, {Name: "user_b_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"deleted_at": nil,
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "matches.deleted_at IS NOT NULL"},
			}},
		}).
		Create(match)
	if result.Error != nil {
		return nil, false, models.NewInternalError(result.Error)
	}
	created := result.RowsAffected > 0

	live, err := r.GetLiveByUsers(ctx, a, b)
	if err != nil {
		return nil, false, err
	}
	if live == nil {
		return nil, false, models.NewInternalError(errors.New("match row missing after upsert"))
	}
	return live, created, nil
}

func (r *matchRepository) GetLiveByID(ctx context.Context, id uint) (*models.Match, error) {
	var match models.Match
	if err := r.db.WithContext(ctx).First(&match, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Match", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &match, nil
}

func (r *matchRepository) GetLiveByUsers(ctx context.Context, userID1, userID2 uint) (*models.Match, error) {
	a, b := models.NormalizePair(userID1, userID2)
	var match models.Match
	if err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		First(&match).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // No live match exists
		}
		return nil, models.NewInternalError(err)
	}
	return &match, nil
}

func (r *matchRepository) GetByUsersUnscoped(ctx context.Context, userID1, userID2 uint) (*models.Match, error) {
	a, b := models.NormalizePair(userID1, userID2)
	var match models.Match
	if err := r.db.WithContext(ctx).Unscoped().
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		First(&match).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &match, nil
}

func (r *matchRepository) ListLiveForUser(ctx context.Context, userID uint) ([]models.Match, error) {
	var matches []models.Match
	if err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return matches, nil
}

func (r *matchRepository) ListForUserUnscoped(ctx context.Context, userID uint) ([]models.Match, error) {
	var matches []models.Match
	if err := r.db.WithContext(ctx).Unscoped().
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return matches, nil
}

func (r *matchRepository) SoftDelete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Match{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
