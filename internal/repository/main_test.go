package repository

import (
	"testing"

	"kindling/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Profile{},
		&models.Like{},
		&models.Match{},
		&models.Dismissal{},
		&models.Block{},
		&models.Message{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func createTestProfile(t *testing.T, db *gorm.DB, name string) *models.Profile {
	t.Helper()
	p := &models.Profile{
		DisplayName: name,
		Gender:      models.GenderFemale,
		Preference:  models.PreferenceBoth,
		Lat:         30.0,
		Lng:         -97.0,
		RadiusKm:    50,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("Failed to create profile: %v", err)
	}
	return p
}
