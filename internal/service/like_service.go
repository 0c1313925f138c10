package service

import (
	"context"
	"log/slog"
	"time"

	"kindling/internal/models"
	"kindling/internal/repository"

	"gorm.io/gorm"
)

// LikeService runs the like → mutual-match state machine plus the
// dismiss and unmatch transitions.
type LikeService struct {
	db               *gorm.DB
	likeRepo         repository.LikeRepository
	matchRepo        repository.MatchRepository
	dismissalRepo    repository.DismissalRepository
	profileRepo      repository.ProfileRepository
	notificationRepo repository.NotificationRepository
}

// NewLikeService returns a new LikeService. The db handle is used for
// the multi-table unmatch transaction.
func NewLikeService(
	db *gorm.DB,
	likeRepo repository.LikeRepository,
	matchRepo repository.MatchRepository,
	dismissalRepo repository.DismissalRepository,
	profileRepo repository.ProfileRepository,
	notificationRepo repository.NotificationRepository,
) *LikeService {
	return &LikeService{
		db:               db,
		likeRepo:         likeRepo,
		matchRepo:        matchRepo,
		dismissalRepo:    dismissalRepo,
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
	}
}

// SendLike records a directed like and detects mutual interest. A
// duplicate like is a no-op, not an error. When the reciprocal like
// exists, the match is materialized through an atomic conditional
// insert, so two racing calls for the same pair produce one match and
// the match notifications fire exactly once. Notification enqueue is
// best-effort: the like/match write is the authoritative fact and is
// never rolled back when the enqueue fails.
func (s *LikeService) SendLike(ctx context.Context, fromID, toID uint) (*models.LikeResult, error) {
	if fromID == toID {
		return nil, models.NewValidationError("Cannot like yourself")
	}
	if _, err := s.profileRepo.GetByID(ctx, toID); err != nil {
		return nil, err
	}

	created, err := s.likeRepo.Create(ctx, &models.Like{FromUserID: fromID, ToUserID: toID})
	if err != nil {
		return nil, err
	}
	if !created {
		return &models.LikeResult{Accepted: false, IsMatch: false}, nil
	}

	reciprocal, err := s.likeRepo.Exists(ctx, toID, fromID)
	if err != nil {
		return nil, err
	}
	if !reciprocal {
		result := &models.LikeResult{Accepted: true, IsMatch: false}
		if n := s.enqueueNotification(ctx, &models.Notification{
			RecipientID:   toID,
			Kind:          models.NotificationLike,
			RelatedUserID: &fromID,
		}); n != nil {
			result.Enqueued = append(result.Enqueued, *n)
		}
		return result, nil
	}

	match, matchCreated, err := s.matchRepo.CreateIfAbsent(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	result := &models.LikeResult{Accepted: true, IsMatch: true, MatchID: match.ID}
	if matchCreated {
		for _, pair := range [][2]uint{{fromID, toID}, {toID, fromID}} {
			recipient, related := pair[0], pair[1]
			if n := s.enqueueNotification(ctx, &models.Notification{
				RecipientID:   recipient,
				Kind:          models.NotificationMatch,
				RelatedUserID: &related,
			}); n != nil {
				result.Enqueued = append(result.Enqueued, *n)
			}
		}
	}
	return result, nil
}

// RecordDismiss hides the target from the caller's feed for the rest
// of the caller's local day. Repeated dismissals are silent no-ops.
func (s *LikeService) RecordDismiss(ctx context.Context, fromID, toID uint) error {
	if fromID == toID {
		return models.NewValidationError("Cannot dismiss yourself")
	}
	return s.dismissalRepo.Create(ctx, &models.Dismissal{
		FromUserID: fromID,
		ToUserID:   toID,
		Day:        models.DayBucket(time.Now()),
	})
}

// UnmatchUser removes the live match with the partner and both like
// edges in one transaction. Message history is left untouched; the
// pair reappears in journal views with a deleted status.
func (s *LikeService) UnmatchUser(ctx context.Context, userID, partnerID uint) error {
	match, err := s.matchRepo.GetLiveByUsers(ctx, userID, partnerID)
	if err != nil {
		return err
	}
	if match == nil {
		return models.NewNotFoundError("Match", partnerID)
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewMatchRepository(tx).SoftDelete(ctx, match.ID); err != nil {
			return err
		}
		return repository.NewLikeRepository(tx).DeletePair(ctx, userID, partnerID)
	})
	if txErr != nil {
		if _, ok := txErr.(*models.AppError); ok {
			return txErr
		}
		return models.NewInternalError(txErr)
	}
	return nil
}

// DailyLikeCount reports how many likes the user has sent since local
// midnight. The external billing tier decides what to do with it; no
// cap is enforced here.
func (s *LikeService) DailyLikeCount(ctx context.Context, userID uint) (int64, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.likeRepo.CountSince(ctx, userID, dayStart)
}

func (s *LikeService) enqueueNotification(ctx context.Context, notification *models.Notification) *models.Notification {
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		slog.WarnContext(ctx, "failed to enqueue notification",
			"recipient_id", notification.RecipientID, "kind", notification.Kind, "err", err)
		return nil
	}
	return notification
}
