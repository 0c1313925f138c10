package service

import (
	"context"

	"kindling/internal/models"
	"kindling/internal/repository"
)

// BlockService manages the one-directional, reversible ghost edges.
// Ghosting only changes visibility; likes, matches, and messages are
// never touched.
type BlockService struct {
	blockRepo   repository.BlockRepository
	profileRepo repository.ProfileRepository
}

// NewBlockService returns a new BlockService.
func NewBlockService(blockRepo repository.BlockRepository, profileRepo repository.ProfileRepository) *BlockService {
	return &BlockService{
		blockRepo:   blockRepo,
		profileRepo: profileRepo,
	}
}

// Ghost hides the target from the caller's discovery feed and active
// conversation list. Ghosting twice is a silent no-op.
func (s *BlockService) Ghost(ctx context.Context, blockerID, blockedID uint) error {
	if blockerID == blockedID {
		return models.NewValidationError("Cannot ghost yourself")
	}
	if _, err := s.profileRepo.GetByIDUnscoped(ctx, blockedID); err != nil {
		return err
	}
	return s.blockRepo.Create(ctx, &models.Block{BlockerID: blockerID, BlockedID: blockedID})
}

// Unghost reverses a ghost. Removing a non-existent edge succeeds.
func (s *BlockService) Unghost(ctx context.Context, blockerID, blockedID uint) error {
	return s.blockRepo.Delete(ctx, blockerID, blockedID)
}

// ListGhosted returns who the user has ghosted and since when, newest
// first.
func (s *BlockService) ListGhosted(ctx context.Context, userID uint) ([]models.GhostEntry, error) {
	blocks, err := s.blockRepo.ListByBlocker(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]models.GhostEntry, 0, len(blocks))
	for _, block := range blocks {
		entries = append(entries, models.GhostEntry{
			BlockedID: block.BlockedID,
			Since:     block.CreatedAt,
		})
	}
	return entries, nil
}
