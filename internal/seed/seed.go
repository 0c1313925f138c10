// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"kindling/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumProfiles int
	ShouldClean bool
	// CenterLat/CenterLng anchor generated profiles around one city so
	// radius filtering has something to chew on.
	CenterLat float64
	CenterLng float64
}

// DefaultOptions seeds a small demo population around Austin, TX.
func DefaultOptions() Options {
	return Options{
		NumProfiles: 40,
		CenterLat:   30.2672,
		CenterLng:   -97.7431,
	}
}

// Seed populates the database with demo profiles, likes, matches, and
// conversations.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumProfiles <= 0 {
		opts.NumProfiles = DefaultOptions().NumProfiles
	}
	if opts.CenterLat == 0 && opts.CenterLng == 0 {
		def := DefaultOptions()
		opts.CenterLat, opts.CenterLng = def.CenterLat, def.CenterLng
	}

	log.Printf("🌱 Starting database seeding with %d profiles...", opts.NumProfiles)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	factory := NewFactory(db, opts)

	profiles := make([]*models.Profile, 0, opts.NumProfiles)
	for i := 0; i < opts.NumProfiles; i++ {
		p, err := factory.CreateProfile()
		if err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	log.Printf("✓ %d demo profiles created", len(profiles))

	// Pair off roughly a quarter of the population into matches with a
	// short conversation each. Remaining profiles get one-sided likes so
	// the discovery feed shows pending interest.
	matches := 0
	messages := 0
	for i := 0; i+1 < len(profiles); i += 4 {
		a, b := profiles[i], profiles[i+1]
		match, err := factory.CreateMatch(a, b)
		if err != nil {
			return fmt.Errorf("failed to create match: %w", err)
		}
		matches++

		turns := 2 + factory.rng.Intn(5)
		for t := 0; t < turns; t++ {
			sender := a
			if t%2 == 1 {
				sender = b
			}
			if _, err := factory.CreateMessage(match, sender); err != nil {
				return fmt.Errorf("failed to create message: %w", err)
			}
			messages++
		}
	}
	log.Printf("✓ %d matches created with %d messages", matches, messages)

	likes := 0
	for i := 2; i+1 < len(profiles); i += 4 {
		if err := factory.CreateLike(profiles[i], profiles[i+1]); err != nil {
			return fmt.Errorf("failed to create like: %w", err)
		}
		likes++
	}
	log.Printf("✓ %d one-sided likes created", likes)

	// Sprinkle in a few dismissals and ghosts so discovery exclusions
	// and the ghosted list are non-empty out of the box.
	suppressed := 0
	for i := 3; i+1 < len(profiles); i += 8 {
		if err := factory.CreateDismissal(profiles[i], profiles[i+1]); err != nil {
			return fmt.Errorf("failed to create dismissal: %w", err)
		}
		suppressed++
	}
	for i := 7; i+1 < len(profiles); i += 16 {
		if err := factory.CreateBlock(profiles[i], profiles[i+1]); err != nil {
			return fmt.Errorf("failed to create block: %w", err)
		}
		suppressed++
	}
	log.Printf("✓ %d dismissals and blocks created", suppressed)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE notifications, messages, blocks, dismissals, matches, likes, profiles RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
