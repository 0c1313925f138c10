// Package service implements the business logic of the match and
// conversation engine on top of the repository layer.
package service

import (
	"context"
	"math"
	"time"

	"kindling/internal/models"
	"kindling/internal/observability"
	"kindling/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const earthRadiusKm = 6371.0

// DiscoveryService produces the candidate feed for a viewer. It holds
// no state between calls; exclusion sets are recomputed per request.
type DiscoveryService struct {
	db          *gorm.DB
	profileRepo repository.ProfileRepository
}

// NewDiscoveryService returns a new DiscoveryService. The db handle is
// used to take a consistent read snapshot across the exclusion tables.
func NewDiscoveryService(db *gorm.DB, profileRepo repository.ProfileRepository) *DiscoveryService {
	return &DiscoveryService{
		db:          db,
		profileRepo: profileRepo,
	}
}

// ComputeExclusions returns the set of user IDs hidden from the
// viewer's feed: the viewer, active match partners, users blocked in
// either direction, and users dismissed today. All four reads run in
// one transaction so a single call never mixes partial state.
func (s *DiscoveryService) ComputeExclusions(ctx context.Context, viewerID uint) (map[uint]struct{}, error) {
	exclusions := map[uint]struct{}{viewerID: {}}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		matchRepo := repository.NewMatchRepository(tx)
		blockRepo := repository.NewBlockRepository(tx)
		dismissalRepo := repository.NewDismissalRepository(tx)

		matches, err := matchRepo.ListLiveForUser(ctx, viewerID)
		if err != nil {
			return err
		}
		for _, match := range matches {
			exclusions[match.PartnerOf(viewerID)] = struct{}{}
		}

		blocks, err := blockRepo.ListInvolving(ctx, viewerID)
		if err != nil {
			return err
		}
		for _, block := range blocks {
			if block.BlockerID == viewerID {
				exclusions[block.BlockedID] = struct{}{}
			} else {
				exclusions[block.BlockerID] = struct{}{}
			}
		}

		dismissed, err := dismissalRepo.ListTargets(ctx, viewerID, models.DayBucket(time.Now()))
		if err != nil {
			return err
		}
		for _, id := range dismissed {
			exclusions[id] = struct{}{}
		}
		return nil
	})
	if err != nil {
		if _, ok := err.(*models.AppError); ok {
			return nil, err
		}
		return nil, models.NewInternalError(err)
	}
	return exclusions, nil
}

// SelectCandidates returns up to limit discoverable profiles for the
// viewer. The viewer's own preference narrows the bulk query; the
// reciprocal preference and radius checks run in memory because they
// depend on per-candidate fields. Order is stable for a snapshot but
// carries no ranking. An empty feed is a valid result, not an error.
func (s *DiscoveryService) SelectCandidates(ctx context.Context, viewerID uint, limit int) ([]models.Profile, error) {
	if limit <= 0 {
		return nil, models.NewValidationError("Limit must be positive")
	}

	span, ctx := observability.NewSpan(ctx, "discovery.select_candidates")
	defer span.End()
	span.AddAttributes(
		attribute.Int64("viewer_id", int64(viewerID)),
		attribute.Int("limit", limit),
	)

	viewer, err := s.profileRepo.GetByID(ctx, viewerID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	exclusions, err := s.ComputeExclusions(ctx, viewerID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	excludeIDs := make([]uint, 0, len(exclusions))
	for id := range exclusions {
		excludeIDs = append(excludeIDs, id)
	}

	var wantGender *models.Gender
	if viewer.Preference != models.PreferenceBoth {
		g := models.Gender(viewer.Preference)
		wantGender = &g
	}

	profiles, err := s.profileRepo.ListCandidates(ctx, excludeIDs, wantGender)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	candidates := make([]models.Profile, 0, limit)
	for _, candidate := range profiles {
		if !candidate.Preference.Includes(viewer.Gender) {
			continue
		}
		if viewer.RadiusKm > 0 && distanceKm(viewer.Lat, viewer.Lng, candidate.Lat, candidate.Lng) > viewer.RadiusKm {
			continue
		}
		candidates = append(candidates, candidate)
		if len(candidates) == limit {
			break
		}
	}
	span.AddAttributes(attribute.Int("candidates", len(candidates)))
	return candidates, nil
}

// distanceKm computes the haversine great-circle distance between two
// coordinates in kilometers.
func distanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
