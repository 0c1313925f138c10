// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"kindling/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateProfile constructs and persists a sample `models.Profile` placed
// within a few dozen kilometers of the configured city center.
// Optional override functions may modify the generated profile before saving.
func (f *Factory) CreateProfile(overrides ...func(*models.Profile)) (*models.Profile, error) {
	gender := models.GenderFemale
	if f.rng.Intn(2) == 0 {
		gender = models.GenderMale
	}
	prefs := []models.GenderPreference{
		models.PreferenceMale, models.PreferenceFemale, models.PreferenceBoth,
	}

	profile := &models.Profile{
		DisplayName: gofakeit.FirstName(),
		Avatar:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Gender:      gender,
		Preference:  prefs[f.rng.Intn(len(prefs))],
		Lat:         f.opts.CenterLat + (f.rng.Float64()-0.5)*0.5,
		Lng:         f.opts.CenterLng + (f.rng.Float64()-0.5)*0.5,
		RadiusKm:    float64(10 + f.rng.Intn(90)),
	}

	for _, override := range overrides {
		override(profile)
	}

	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CreateLike persists a like from one profile toward another.
func (f *Factory) CreateLike(from, to *models.Profile) error {
	like := &models.Like{
		FromUserID: from.ID,
		ToUserID:   to.ID,
	}
	return f.db.Create(like).Error
}

// CreateMatch persists a live match between two profiles together with
// the reciprocal likes that would have produced it.
func (f *Factory) CreateMatch(a, b *models.Profile) (*models.Match, error) {
	if err := f.CreateLike(a, b); err != nil {
		return nil, err
	}
	if err := f.CreateLike(b, a); err != nil {
		return nil, err
	}
	match := &models.Match{
		UserAID: a.ID,
		UserBID: b.ID,
	}
	if err := f.db.Create(match).Error; err != nil {
		return nil, err
	}
	return match, nil
}

// CreateMessage constructs and persists a sample `models.Message` in the
// provided match from the provided sender.
func (f *Factory) CreateMessage(match *models.Match, sender *models.Profile, overrides ...func(*models.Message)) (*models.Message, error) {
	message := &models.Message{
		MatchID:  match.ID,
		SenderID: sender.ID,
		Kind:     models.MessageKindText,
		Content:  gofakeit.Sentence(10),
	}

	// realistic created_at spread across the past few days
	maxHours := 24 * 5
	hoursBack := f.rng.Intn(maxHours)
	minsBack := f.rng.Intn(60)
	message.CreatedAt = time.Now().Add(-time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(message)
	}

	if err := f.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// CreateDismissal persists a today-bucketed dismissal between profiles.
func (f *Factory) CreateDismissal(from, to *models.Profile) error {
	dismissal := &models.Dismissal{
		FromUserID: from.ID,
		ToUserID:   to.ID,
		Day:        models.DayBucket(time.Now()),
	}
	return f.db.Create(dismissal).Error
}

// CreateBlock persists a block from one profile toward another.
func (f *Factory) CreateBlock(from, to *models.Profile) error {
	block := &models.Block{
		BlockerID: from.ID,
		BlockedID: to.ID,
	}
	return f.db.Create(block).Error
}
