package repository

import (
	"context"
	"errors"
	"time"

	"kindling/internal/models"
	"kindling/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	// Create inserts the message and reports whether a new row was
	// written. When the message carries a client idempotency key that
	// was already used for the match, the original row is loaded into
	// msg and false is returned.
	Create(ctx context.Context, msg *models.Message) (bool, error)
	// ListByMatch returns the full history in ascending creation order.
	ListByMatch(ctx context.Context, matchID uint) ([]models.Message, error)
	// LastByMatch returns the newest message, or nil for an empty
	// conversation.
	LastByMatch(ctx context.Context, matchID uint) (*models.Message, error)
	// CountUnread counts messages in the match sent by senderID that
	// have not been read.
	CountUnread(ctx context.Context, matchID, senderID uint) (int64, error)
	// MarkRead stamps read_at on every unread message in the match sent
	// by senderID, in one statement against current storage state, and
	// returns the number of rows updated.
	MarkRead(ctx context.Context, matchID, senderID uint, readAt time.Time) (int64, error)
	// CountUnreadConversations counts distinct live matches where the
	// partner has at least one unread message for the user.
	CountUnreadConversations(ctx context.Context, userID uint) (int64, error)
}

// messageRepository implements MessageRepository
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) (bool, error) {
	if msg.ClientKey == nil {
		if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
			return false, models.NewInternalError(err)
		}
		return true, nil
	}

	// Retried send with the same idempotency key collapses onto the
	// original row instead of duplicating it.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "match_id"}, {Name: "client_key"}},
			DoNothing: true,
		}).
		Create(msg)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	var existing models.Message
	if err := r.db.WithContext(ctx).
		Where("match_id = ? AND client_key = ?", msg.MatchID, *msg.ClientKey).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, models.NewNotFoundError("Message", *msg.ClientKey)
		}
		return false, models.NewInternalError(err)
	}
	*msg = existing
	return false, nil
}

func (r *messageRepository) ListByMatch(ctx context.Context, matchID uint) ([]models.Message, error) {
	defer observability.TrackQuery("select", "messages")()

	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) LastByMatch(ctx context.Context, matchID uint) (*models.Message, error) {
	var msg models.Message
	if err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at DESC, id DESC").
		First(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Empty conversation is a valid pending state
		}
		return nil, models.NewInternalError(err)
	}
	return &msg, nil
}

func (r *messageRepository) CountUnread(ctx context.Context, matchID, senderID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("match_id = ? AND sender_id = ? AND read_at IS NULL", matchID, senderID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, matchID, senderID uint, readAt time.Time) (int64, error) {
	defer observability.TrackQuery("update", "messages")()

	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("match_id = ? AND sender_id = ? AND read_at IS NULL", matchID, senderID).
		Update("read_at", readAt)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *messageRepository) CountUnreadConversations(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Joins("JOIN matches m ON m.id = messages.match_id AND m.deleted_at IS NULL").
		Where("m.user_a_id = ? OR m.user_b_id = ?", userID, userID).
		Where("messages.sender_id <> ? AND messages.read_at IS NULL", userID).
		Distinct("messages.match_id").
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
