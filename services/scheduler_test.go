package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/munchlog-app/munchlog_api/model"
	"github.com/munchlog-app/munchlog_api/shared"
)

func seedStreak(t *testing.T, svc *SchedulerService, userID string, current int, lastActivity time.Time) *model.MealStreak {
	t.Helper()

	id, _ := uuid.NewV7()
	streak := model.MealStreak{
		ID:               id.String(),
		UserID:           userID,
		Current:          current,
		Longest:          current,
		LastActivityDate: &lastActivity,
	}
	if err := svc.db.Create(&streak).Error; err != nil {
		t.Fatalf("failed to seed streak: %v", err)
	}
	return &streak
}

func TestSweepResetsBrokenStreaks(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	scoreSvc := NewScoreService(db, clock)
	itemSvc := NewItemService(db, clock, scoreSvc)
	svc := NewSchedulerService(db, clock, itemSvc)

	fresh := seedUser(t, db, "fresh")
	stale := seedUser(t, db, "stale")

	seedStreak(t, svc, fresh.ID, 4, clock.Now().Add(-20*time.Hour))
	seedStreak(t, svc, stale.ID, 9, clock.Now().Add(-72*time.Hour))

	if err := svc.SweepBrokenStreaks(); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	var got model.MealStreak
	if err := db.Where("user_id = ?", fresh.ID).First(&got).Error; err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Current != 4 {
		t.Fatalf("yesterday's streak was reset: %d", got.Current)
	}

	got = model.MealStreak{}
	if err := db.Where("user_id = ?", stale.ID).First(&got).Error; err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Current != 0 {
		t.Fatalf("expected stale streak reset, got %d", got.Current)
	}
	if got.Longest != 9 {
		t.Fatalf("longest streak lost in sweep: %d", got.Longest)
	}
}

func TestSweepSparesShieldedStreaks(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	scoreSvc := NewScoreService(db, clock)
	itemSvc := NewItemService(db, clock, scoreSvc)
	svc := NewSchedulerService(db, clock, itemSvc)

	shielded := seedUser(t, db, "shielded")
	seedStreak(t, svc, shielded.ID, 6, clock.Now().Add(-72*time.Hour))

	effectID, _ := uuid.NewV7()
	effect := model.ActiveEffect{
		ID:         effectID.String(),
		UserID:     shielded.ID,
		EffectKind: shared.EffectKindStreakShield,
		ExpiresAt:  clock.Now().Add(time.Hour),
		CreatedAt:  clock.Now(),
	}
	if err := db.Create(&effect).Error; err != nil {
		t.Fatalf("failed to seed effect: %v", err)
	}

	if err := svc.SweepBrokenStreaks(); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	var got model.MealStreak
	if err := db.Where("user_id = ?", shielded.ID).First(&got).Error; err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Current != 6 {
		t.Fatalf("shielded streak was reset: %d", got.Current)
	}

	// Once the shield lapses the next sweep resets as usual.
	clock.Advance(2 * time.Hour)
	if err := svc.SweepBrokenStreaks(); err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if err := db.Where("user_id = ?", shielded.ID).First(&got).Error; err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Current != 0 {
		t.Fatalf("expected reset after shield expiry, got %d", got.Current)
	}
}

func TestSweepExpiredQuests(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	svc := NewSchedulerService(db, clock, nil)

	past := clock.Now().Add(-time.Hour)
	future := clock.Now().Add(time.Hour)

	expired := seedQuest(t, db, model.Quest{
		Title:       "Over",
		GoalType:    shared.GoalTypeLogMeal,
		Reward:      10,
		Requirement: 1,
		Frequency:   shared.FrequencyOnce,
		IsActive:    true,
		EndDate:     &past,
	})
	open := seedQuest(t, db, model.Quest{
		Title:       "Open",
		GoalType:    shared.GoalTypeLogMeal,
		Reward:      10,
		Requirement: 1,
		Frequency:   shared.FrequencyOnce,
		IsActive:    true,
		EndDate:     &future,
	})

	if err := svc.SweepExpiredQuests(); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	var got model.Quest
	if err := db.First(&got, "id = ?", expired.ID).Error; err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.IsActive {
		t.Fatal("expected expired quest deactivated")
	}

	// A fresh struct, otherwise gorm folds the previous primary key into the
	// query conditions.
	got = model.Quest{}
	if err := db.First(&got, "id = ?", open.ID).Error; err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !got.IsActive {
		t.Fatal("open quest was deactivated")
	}
}
