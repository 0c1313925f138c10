package repository

import (
	"context"
	"errors"
	"time"

	"kindling/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	// ListForRecipient returns newest-first notifications. A limit of 0
	// means no limit.
	ListForRecipient(ctx context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	// MarkRead stamps read_at on a single notification. Marking an
	// already-read notification is a no-op that keeps the original
	// timestamp.
	MarkRead(ctx context.Context, id uint, readAt time.Time) error
	// MarkAllRead stamps every unread notification for the recipient and
	// returns the number of rows updated.
	MarkAllRead(ctx context.Context, recipientID uint, readAt time.Time) (int64, error)
}

// notificationRepository implements NotificationRepository
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Notification", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &notification, nil
}

func (r *notificationRepository) ListForRecipient(ctx context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	query := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC, id DESC").Find(&notifications).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uint, readAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", readAt)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing row from one already read.
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.Notification{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count == 0 {
			return models.NewNotFoundError("Notification", id)
		}
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uint, readAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Update("read_at", readAt)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}
