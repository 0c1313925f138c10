package service

import (
	"context"
	"time"

	"kindling/internal/models"
	"kindling/internal/repository"
)

// NotificationService derives unread counts from the underlying tables
// on demand. Counts are recomputed per call, never cached here.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	messageRepo      repository.MessageRepository
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository, messageRepo repository.MessageRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		messageRepo:      messageRepo,
	}
}

// ListNotifications returns the user's notifications, newest first.
// A limit of 0 means no limit.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	return s.notificationRepo.ListForRecipient(ctx, userID, unreadOnly, limit, offset)
}

// CountUnreadNotifications counts notification rows not yet read.
func (s *NotificationService) CountUnreadNotifications(ctx context.Context, userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// CountUnreadConversations counts live matches where the partner has
// at least one unread message.
func (s *NotificationService) CountUnreadConversations(ctx context.Context, userID uint) (int64, error) {
	return s.messageRepo.CountUnreadConversations(ctx, userID)
}

// MarkNotificationRead marks one notification read. The transition is
// one-way: marking an already-read notification keeps its original
// timestamp and succeeds.
func (s *NotificationService) MarkNotificationRead(ctx context.Context, userID, notificationID uint) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.RecipientID != userID {
		return models.NewForbiddenError("You can only mark your own notifications read")
	}
	return s.notificationRepo.MarkRead(ctx, notificationID, time.Now().UTC())
}

// MarkAllNotificationsRead marks every unread notification for the
// user and returns how many were marked.
func (s *NotificationService) MarkAllNotificationsRead(ctx context.Context, userID uint) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, userID, time.Now().UTC())
}
