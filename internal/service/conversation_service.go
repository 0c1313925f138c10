package service

import (
	"context"
	"time"

	"kindling/internal/models"
	"kindling/internal/repository"
)

// SendMessageInput carries one message send. ClientKey is an optional
// client-generated idempotency key for blind retries.
type SendMessageInput struct {
	MatchID   uint
	SenderID  uint
	Kind      models.MessageKind
	Content   string
	MediaRef  string
	ClientKey *string
}

// ConversationService persists messages per match and exposes the
// conversation list, journal, and read-state transitions.
type ConversationService struct {
	matchRepo   repository.MatchRepository
	messageRepo repository.MessageRepository
	profileRepo repository.ProfileRepository
	blockRepo   repository.BlockRepository
}

// NewConversationService returns a new ConversationService.
func NewConversationService(
	matchRepo repository.MatchRepository,
	messageRepo repository.MessageRepository,
	profileRepo repository.ProfileRepository,
	blockRepo repository.BlockRepository,
) *ConversationService {
	return &ConversationService{
		matchRepo:   matchRepo,
		messageRepo: messageRepo,
		profileRepo: profileRepo,
		blockRepo:   blockRepo,
	}
}

// ListConversations returns the user's active conversation list:
// every live match whose pair is not ghosted in either direction, with
// partner identity, last message preview, and unread count. Empty
// conversations are included; a fresh match is a valid pending state.
func (s *ConversationService) ListConversations(ctx context.Context, userID uint) ([]models.ConversationSummary, error) {
	matches, err := s.matchRepo.ListLiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	blocked, err := s.blockedPartners(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(matches))
	for _, match := range matches {
		partnerID := match.PartnerOf(userID)
		if _, ok := blocked[partnerID]; ok {
			continue
		}
		summary, err := s.buildSummary(ctx, &match, userID, models.RelationshipActive)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// ListHistory returns the journal view: every match the user was ever
// part of, including unmatched and ghosted pairs, each tagged with its
// relationship status so the caller can render all three states.
func (s *ConversationService) ListHistory(ctx context.Context, userID uint) ([]models.ConversationSummary, error) {
	matches, err := s.matchRepo.ListForUserUnscoped(ctx, userID)
	if err != nil {
		return nil, err
	}
	blocked, err := s.blockedPartners(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(matches))
	for _, match := range matches {
		status := models.RelationshipActive
		if match.DeletedAt.Valid {
			status = models.RelationshipDeleted
		} else if _, ok := blocked[match.PartnerOf(userID)]; ok {
			status = models.RelationshipGhosted
		}
		summary, err := s.buildSummary(ctx, &match, userID, status)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// FetchConversation returns the full message history with the partner
// in ascending creation order. History stays readable for ghosted and
// unmatched pairs.
func (s *ConversationService) FetchConversation(ctx context.Context, userID, partnerID uint) ([]models.Message, error) {
	match, err := s.matchRepo.GetByUsersUnscoped(ctx, userID, partnerID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, models.NewNotFoundError("Match", partnerID)
	}
	return s.messageRepo.ListByMatch(ctx, match.ID)
}

// SendMessage validates and persists one message, returning the
// canonical stored row for the caller's optimistic local copy. A
// resend carrying an already-used client key returns the original row.
func (s *ConversationService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	if !in.Kind.Valid() {
		return nil, models.NewValidationError("Unsupported message kind")
	}
	if in.Kind != models.MessageKindText && in.MediaRef == "" {
		return nil, models.NewValidationError("Media reference is required for non-text messages")
	}
	if in.Kind == models.MessageKindText && in.Content == "" {
		return nil, models.NewValidationError("Message content cannot be empty")
	}

	match, err := s.matchRepo.GetLiveByID(ctx, in.MatchID)
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(in.SenderID) {
		return nil, models.NewValidationError("Sender is not a participant of this match")
	}
	pairBlocked, err := s.blockRepo.PairBlocked(ctx, match.UserAID, match.UserBID)
	if err != nil {
		return nil, err
	}
	if pairBlocked {
		return nil, models.NewForbiddenError("This conversation is unavailable")
	}

	msg := &models.Message{
		MatchID:   in.MatchID,
		SenderID:  in.SenderID,
		Kind:      in.Kind,
		Content:   in.Content,
		MediaRef:  in.MediaRef,
		ClientKey: in.ClientKey,
	}
	if _, err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// MarkConversationRead stamps read on every message from the partner
// that is unread at the moment of the update. The update runs as one
// statement against current storage state, so a message inserted
// before it lands is marked read and one racing in after it stays
// unread. Returns the number of messages marked.
func (s *ConversationService) MarkConversationRead(ctx context.Context, userID, partnerID uint) (int64, error) {
	match, err := s.matchRepo.GetByUsersUnscoped(ctx, userID, partnerID)
	if err != nil {
		return 0, err
	}
	if match == nil {
		return 0, models.NewNotFoundError("Match", partnerID)
	}
	return s.messageRepo.MarkRead(ctx, match.ID, partnerID, time.Now().UTC())
}

func (s *ConversationService) blockedPartners(ctx context.Context, userID uint) (map[uint]struct{}, error) {
	blocks, err := s.blockRepo.ListInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}
	blocked := make(map[uint]struct{}, len(blocks))
	for _, block := range blocks {
		if block.BlockerID == userID {
			blocked[block.BlockedID] = struct{}{}
		} else {
			blocked[block.BlockerID] = struct{}{}
		}
	}
	return blocked, nil
}

func (s *ConversationService) buildSummary(ctx context.Context, match *models.Match, userID uint, status models.RelationshipStatus) (*models.ConversationSummary, error) {
	partnerID := match.PartnerOf(userID)

	// Unscoped so journal rows still name a departed partner.
	partner, err := s.profileRepo.GetByIDUnscoped(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	last, err := s.messageRepo.LastByMatch(ctx, match.ID)
	if err != nil {
		return nil, err
	}
	unread, err := s.messageRepo.CountUnread(ctx, match.ID, partnerID)
	if err != nil {
		return nil, err
	}

	return &models.ConversationSummary{
		MatchID:            match.ID,
		PartnerID:          partnerID,
		PartnerName:        partner.DisplayName,
		PartnerAvatar:      partner.Avatar,
		MatchedAt:          match.CreatedAt,
		LastMessage:        last,
		UnreadCount:        unread,
		RelationshipStatus: status,
	}, nil
}
