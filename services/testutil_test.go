package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/munchlog-app/munchlog_api/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeClock lets tests move time across day boundaries and cooldowns.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	id, _ := uuid.NewV7()
	user := model.User{
		ID:       id.String(),
		Email:    username + "@example.com",
		Username: username,
		Password: "hashed",
		Role:     "user",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return &user
}

func seedQuest(t *testing.T, db *gorm.DB, quest model.Quest) *model.Quest {
	t.Helper()

	if quest.ID == "" {
		id, _ := uuid.NewV7()
		quest.ID = id.String()
	}
	if err := db.Create(&quest).Error; err != nil {
		t.Fatalf("failed to seed quest: %v", err)
	}
	return &quest
}

func seedItem(t *testing.T, db *gorm.DB, item model.Item) *model.Item {
	t.Helper()

	if item.ID == "" {
		id, _ := uuid.NewV7()
		item.ID = id.String()
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}
	return &item
}
