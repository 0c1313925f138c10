package service

import (
	"testing"

	"kindling/internal/models"
	"kindling/internal/repository"

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

type testEnv struct {
	db           *gorm.DB
	discovery    *DiscoveryService
	likes        *LikeService
	blocks       *BlockService
	conversation *ConversationService
	notification *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	db := setupTestDB(t)

	profileRepo := repository.NewProfileRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	dismissalRepo := repository.NewDismissalRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	return &testEnv{
		db:           db,
		discovery:    NewDiscoveryService(db, profileRepo),
		likes:        NewLikeService(db, likeRepo, matchRepo, dismissalRepo, profileRepo, notificationRepo),
		blocks:       NewBlockService(blockRepo, profileRepo),
		conversation: NewConversationService(matchRepo, messageRepo, profileRepo, blockRepo),
		notification: NewNotificationService(notificationRepo, messageRepo),
	}
}

func (e *testEnv) createProfile(t *testing.T, name string, gender models.Gender, pref models.GenderPreference, lat, lng, radius float64) *models.Profile {
	t.Helper()
	p := &models.Profile{
		DisplayName: name,
		Gender:      gender,
		Preference:  pref,
		Lat:         lat,
		Lng:         lng,
		RadiusKm:    radius,
	}
	if err := e.db.Create(p).Error; err != nil {
		t.Fatalf("Failed to create profile: %v", err)
	}
	return p
}
