package services

import (
	"testing"
	"time"

	"github.com/munchlog-app/munchlog_api/dto"
	"github.com/munchlog-app/munchlog_api/model"
	"github.com/munchlog-app/munchlog_api/shared"
)

func newMealFixture(t *testing.T) (*MealService, *QuestService, *fakeClock, *model.User) {
	t.Helper()

	db := newTestDB(t)
	clock := newFakeClock()
	scoreSvc := NewScoreService(db, clock)
	questSvc := NewQuestService(db, clock, scoreSvc)
	mealSvc := NewMealService(db, clock, questSvc)
	user := seedUser(t, db, "eater")
	return mealSvc, questSvc, clock, user
}

func logMeal(t *testing.T, svc *MealService, userID, name string) *dto.LogMealResponse {
	t.Helper()

	resp, err := svc.LogMeal(userID, dto.LogMealRequest{
		Name:     name,
		Kind:     shared.MealKindLunch,
		Calories: 450,
	})
	if err != nil {
		t.Fatalf("log meal failed: %v", err)
	}
	return resp
}

func TestLogMealStartsStreak(t *testing.T) {
	mealSvc, _, _, user := newMealFixture(t)

	resp := logMeal(t, mealSvc, user.ID, "Pho")
	if resp.Streak.Current != 1 || resp.Streak.Longest != 1 {
		t.Fatalf("expected fresh streak of 1, got %+v", resp.Streak)
	}

	// A second meal the same day leaves the streak alone.
	resp = logMeal(t, mealSvc, user.ID, "Banh Mi")
	if resp.Streak.Current != 1 {
		t.Fatalf("same-day meal changed streak: %d", resp.Streak.Current)
	}
}

func TestStreakIncrementsAndResets(t *testing.T) {
	mealSvc, _, clock, user := newMealFixture(t)

	logMeal(t, mealSvc, user.ID, "Day 1")
	clock.Advance(24 * time.Hour)
	resp := logMeal(t, mealSvc, user.ID, "Day 2")
	if resp.Streak.Current != 2 {
		t.Fatalf("expected streak 2, got %d", resp.Streak.Current)
	}
	clock.Advance(24 * time.Hour)
	resp = logMeal(t, mealSvc, user.ID, "Day 3")
	if resp.Streak.Current != 3 || resp.Streak.Longest != 3 {
		t.Fatalf("expected streak 3, got %+v", resp.Streak)
	}

	// Two missed days reset the counter but keep the record.
	clock.Advance(72 * time.Hour)
	resp = logMeal(t, mealSvc, user.ID, "Back Again")
	if resp.Streak.Current != 1 {
		t.Fatalf("expected reset streak, got %d", resp.Streak.Current)
	}
	if resp.Streak.Longest != 3 {
		t.Fatalf("longest streak lost on reset: %d", resp.Streak.Longest)
	}
}

func TestLogMealAdvancesQuests(t *testing.T) {
	mealSvc, questSvc, _, user := newMealFixture(t)
	quest := seedQuest(t, questSvc.db, model.Quest{
		Title:       "Daily Logger",
		GoalType:    shared.GoalTypeLogMeal,
		Reward:      10,
		Requirement: 2,
		Frequency:   shared.FrequencyDaily,
		IsActive:    true,
	})

	resp := logMeal(t, mealSvc, user.ID, "Breakfast")
	if len(resp.QuestProgress) != 1 {
		t.Fatalf("expected 1 quest update, got %d", len(resp.QuestProgress))
	}
	if resp.QuestProgress[0].Progress != 1 || resp.QuestProgress[0].IsCompleted {
		t.Fatalf("unexpected first update: %+v", resp.QuestProgress[0])
	}

	resp = logMeal(t, mealSvc, user.ID, "Lunch")
	if len(resp.QuestProgress) != 1 {
		t.Fatalf("expected 1 quest update, got %d", len(resp.QuestProgress))
	}
	if !resp.QuestProgress[0].IsCompleted || resp.QuestProgress[0].ScoreAwarded != 10 {
		t.Fatalf("expected completion with reward, got %+v", resp.QuestProgress[0])
	}

	// Once the daily cycle settles, further meals skip the quest instead of
	// failing the log.
	resp = logMeal(t, mealSvc, user.ID, "Dinner")
	if len(resp.QuestProgress) != 0 {
		t.Fatalf("expected no quest updates after settlement, got %d", len(resp.QuestProgress))
	}

	var settled model.UserQuest
	if err := questSvc.db.Where("user_id = ? AND quest_id = ?", user.ID, quest.ID).First(&settled).Error; err != nil {
		t.Fatalf("missing cycle row: %v", err)
	}
	if !settled.IsCompleted {
		t.Fatal("expected settled cycle")
	}
}

func TestGetMealsPagedAndFiltered(t *testing.T) {
	mealSvc, _, clock, user := newMealFixture(t)

	for i := 0; i < 5; i++ {
		logMeal(t, mealSvc, user.ID, "Meal")
		clock.Advance(time.Hour)
	}

	resp, err := mealSvc.GetMeals(user.ID, 1, 3, nil, nil)
	if err != nil {
		t.Fatalf("get meals failed: %v", err)
	}
	if resp.Total != 5 || len(resp.Meals) != 3 {
		t.Fatalf("expected total 5 page of 3, got total=%d len=%d", resp.Total, len(resp.Meals))
	}

	from := clock.Now().Add(-2*time.Hour - time.Minute)
	resp, err = mealSvc.GetMeals(user.ID, 1, 10, &from, nil)
	if err != nil {
		t.Fatalf("filtered get meals failed: %v", err)
	}
	if len(resp.Meals) != 2 {
		t.Fatalf("expected 2 meals after %v, got %d", from, len(resp.Meals))
	}
}

func TestDeleteMealScopedToOwner(t *testing.T) {
	mealSvc, _, _, user := newMealFixture(t)
	other := seedUser(t, mealSvc.db, "other")

	resp := logMeal(t, mealSvc, user.ID, "Mine")

	if err := mealSvc.DeleteMeal(other.ID, resp.Meal.ID); err == nil {
		t.Fatal("expected delete by non-owner to fail")
	}
	if err := mealSvc.DeleteMeal(user.ID, resp.Meal.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
}

func TestMealChartBucketsByDay(t *testing.T) {
	mealSvc, _, clock, user := newMealFixture(t)

	logMeal(t, mealSvc, user.ID, "Day 1 A")
	logMeal(t, mealSvc, user.ID, "Day 1 B")
	clock.Advance(24 * time.Hour)
	logMeal(t, mealSvc, user.ID, "Day 2")

	chart, err := mealSvc.GetMealChart(user.ID, 3)
	if err != nil {
		t.Fatalf("chart failed: %v", err)
	}
	if len(chart.Days) != 3 {
		t.Fatalf("expected 3 chart points, got %d", len(chart.Days))
	}

	// Window is the 3 days ending today: empty day, two meals, one meal.
	if chart.Days[0].Meals != 0 {
		t.Fatalf("expected empty first day, got %d", chart.Days[0].Meals)
	}
	if chart.Days[1].Meals != 2 || chart.Days[1].Calories != 900 {
		t.Fatalf("unexpected day 1 bucket: %+v", chart.Days[1])
	}
	if chart.Days[2].Meals != 1 || chart.Days[2].Calories != 450 {
		t.Fatalf("unexpected day 2 bucket: %+v", chart.Days[2])
	}
}

func TestGetStreakWithoutActivity(t *testing.T) {
	mealSvc, _, _, user := newMealFixture(t)

	streak, err := mealSvc.GetStreak(user.ID)
	if err != nil {
		t.Fatalf("get streak failed: %v", err)
	}
	if streak.Current != 0 || streak.Longest != 0 {
		t.Fatalf("expected empty streak, got %+v", streak)
	}
}
