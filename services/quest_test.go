package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/munchlog-app/munchlog_api/model"
	"github.com/munchlog-app/munchlog_api/shared"
)

func newQuestFixture(t *testing.T) (*QuestService, *ScoreService, *fakeClock, *model.User) {
	t.Helper()

	db := newTestDB(t)
	clock := newFakeClock()
	scoreSvc := NewScoreService(db, clock)
	questSvc := NewQuestService(db, clock, scoreSvc)
	user := seedUser(t, db, "quester")
	return questSvc, scoreSvc, clock, user
}

func TestOnceQuestCreditsRewardOnce(t *testing.T) {
	questSvc, scoreSvc, _, user := newQuestFixture(t)
	quest := seedQuest(t, questSvc.db, model.Quest{
		Title:       "First Bite",
		GoalType:    shared.GoalTypeLogMeal,
		Reward:      10,
		Requirement: 3,
		Frequency:   shared.FrequencyOnce,
		IsActive:    true,
	})

	for step := 1; step <= 3; step++ {
		resp, err := questSvc.RecordProgress(user.ID, quest.ID, 1)
		if err != nil {
			t.Fatalf("progress step %d failed: %v", step, err)
		}
		if resp.Progress != step {
			t.Fatalf("expected progress %d, got %d", step, resp.Progress)
		}
		wantCompleted := step == 3
		if resp.IsCompleted != wantCompleted {
			t.Fatalf("step %d: completed = %v", step, resp.IsCompleted)
		}
		if wantCompleted && resp.ScoreAwarded != 10 {
			t.Fatalf("expected reward 10, got %d", resp.ScoreAwarded)
		}
		if !wantCompleted && resp.ScoreAwarded != 0 {
			t.Fatalf("step %d: premature reward %d", step, resp.ScoreAwarded)
		}
	}

	// A settled ONCE quest rejects further progress.
	_, err := questSvc.RecordProgress(user.ID, quest.ID, 1)
	if err == nil {
		t.Fatal("expected progress after completion to fail")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected ineligible error, got %v", err)
	}

	balance, err := scoreSvc.GetBalance(user.ID)
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if balance.Points != 10 {
		t.Fatalf("expected single reward of 10, got %d", balance.Points)
	}
}

func TestDailyQuestResetsNextDay(t *testing.T) {
	questSvc, scoreSvc, clock, user := newQuestFixture(t)
	quest := seedQuest(t, questSvc.db, model.Quest{
		Title:       "Daily Logger",
		GoalType:    shared.GoalTypeLogMeal,
		Reward:      5,
		Requirement: 1,
		Frequency:   shared.FrequencyDaily,
		IsActive:    true,
	})

	resp, err := questSvc.RecordProgress(user.ID, quest.ID, 1)
	if err != nil {
		t.Fatalf("day one progress failed: %v", err)
	}
	if !resp.IsCompleted {
		t.Fatal("expected day one completion")
	}

	// Same day again is rejected.
	_, err = questSvc.RecordProgress(user.ID, quest.ID, 1)
	if err == nil {
		t.Fatal("expected same-day repeat to fail")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected ineligible error, got %v", err)
	}

	// Next day starts a fresh cycle.
	clock.Advance(24 * time.Hour)
	resp, err = questSvc.RecordProgress(user.ID, quest.ID, 1)
	if err != nil {
		t.Fatalf("day two progress failed: %v", err)
	}
	if !resp.IsCompleted || resp.ScoreAwarded != 5 {
		t.Fatalf("expected day two completion with reward, got %+v", resp)
	}

	balance, err := scoreSvc.GetBalance(user.ID)
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if balance.Points != 10 {
		t.Fatalf("expected 10 points over two days, got %d", balance.Points)
	}

	var cycles int64
	if err := questSvc.db.Model(&model.UserQuest{}).
		Where("user_id = ? AND quest_id = ?", user.ID, quest.ID).
		Count(&cycles).Error; err != nil {
		t.Fatalf("count cycles failed: %v", err)
	}
	if cycles != 2 {
		t.Fatalf("expected 2 cycle rows, got %d", cycles)
	}
}

func TestProgressClampsAtRequirement(t *testing.T) {
	questSvc, _, _, user := newQuestFixture(t)
	quest := seedQuest(t, questSvc.db, model.Quest{
		Title:       "Overshoot",
		GoalType:    shared.GoalTypeLogMeal,
		Reward:      10,
		Requirement: 3,
		Frequency:   shared.FrequencyOnce,
		IsActive:    true,
	})

	resp, err := questSvc.RecordProgress(user.ID, quest.ID, 100)
	if err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	if resp.Progress != 3 {
		t.Fatalf("expected progress clamped to 3, got %d", resp.Progress)
	}
	if !resp.IsCompleted {
		t.Fatal("expected completion")
	}
}

func TestProgressRejectsNonPositiveIncrement(t *testing.T) {
	questSvc, _, _, user := newQuestFixture(t)
	quest := seedQuest(t, questSvc.db, model.Quest{
		Title:       "Guarded",
		GoalType:    shared.GoalTypeLogMeal,
		Reward:      10,
		Requirement: 3,
		Frequency:   shared.FrequencyOnce,
		IsActive:    true,
	})

	for _, inc := range []int{0, -1} {
		_, err := questSvc.RecordProgress(user.ID, quest.ID, inc)
		if err == nil {
			t.Fatalf("expected error for increment %d", inc)
		}
		appErr, ok := shared.GetAppError(err)
		if !ok || appErr.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected bad request, got %v", err)
		}
	}
}

func TestInactiveQuestIneligible(t *testing.T) {
	questSvc, _, _, user := newQuestFixture(t)
	quest := seedQuest(t, questSvc.db, model.Quest{
		Title:       "Retired",
		GoalType:    shared.GoalTypeLogMeal,
		Reward:      10,
		Requirement: 1,
		Frequency:   shared.FrequencyOnce,
		IsActive:    false,
	})

	_, err := questSvc.RecordProgress(user.ID, quest.ID, 1)
	if err == nil {
		t.Fatal("expected inactive quest to reject progress")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected ineligible error, got %v", err)
	}
}

func TestQuestWindowGatesProgress(t *testing.T) {
	questSvc, _, clock, user := newQuestFixture(t)

	future := clock.Now().Add(48 * time.Hour)
	past := clock.Now().Add(-48 * time.Hour)

	notStarted := seedQuest(t, questSvc.db, model.Quest{
		Title:       "Not Started",
		GoalType:    shared.GoalTypeLogMeal,
		Reward:      10,
		Requirement: 1,
		Frequency:   shared.FrequencyOnce,
		IsActive:    true,
		StartDate:   &future,
	})
	ended := seedQuest(t, questSvc.db, model.Quest{
		Title:       "Ended",
		GoalType:    shared.GoalTypeLogMeal,
		Reward:      10,
		Requirement: 1,
		Frequency:   shared.FrequencyOnce,
		IsActive:    true,
		EndDate:     &past,
	})

	for _, quest := range []*model.Quest{notStarted, ended} {
		_, err := questSvc.RecordProgress(user.ID, quest.ID, 1)
		if err == nil {
			t.Fatalf("expected quest %q to reject progress", quest.Title)
		}
		appErr, ok := shared.GetAppError(err)
		if !ok || appErr.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("expected ineligible error for %q, got %v", quest.Title, err)
		}
	}
}

func TestUnknownQuestNotFound(t *testing.T) {
	questSvc, _, _, user := newQuestFixture(t)

	_, err := questSvc.RecordProgress(user.ID, "missing-quest", 1)
	if err == nil {
		t.Fatal("expected missing quest to fail")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCompleteQuestSettlesRemaining(t *testing.T) {
	questSvc, scoreSvc, _, user := newQuestFixture(t)
	quest := seedQuest(t, questSvc.db, model.Quest{
		Title:       "Settle Up",
		GoalType:    shared.GoalTypeLogMeal,
		Reward:      20,
		Requirement: 3,
		Frequency:   shared.FrequencyOnce,
		IsActive:    true,
	})

	if _, err := questSvc.RecordProgress(user.ID, quest.ID, 1); err != nil {
		t.Fatalf("initial progress failed: %v", err)
	}

	resp, err := questSvc.CompleteQuest(user.ID, quest.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if resp.Reward != 20 {
		t.Fatalf("expected reward 20, got %d", resp.Reward)
	}
	if !resp.UserQuest.IsCompleted || resp.UserQuest.Progress != 3 {
		t.Fatalf("unexpected settled state: %+v", resp.UserQuest)
	}

	balance, err := scoreSvc.GetBalance(user.ID)
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if balance.Points != 20 {
		t.Fatalf("expected balance 20, got %d", balance.Points)
	}
}

func TestGetQuestsShowsCurrentCycle(t *testing.T) {
	questSvc, _, clock, user := newQuestFixture(t)
	once := seedQuest(t, questSvc.db, model.Quest{
		Title:       "Lifetime",
		GoalType:    shared.GoalTypeLogMeal,
		Reward:      10,
		Requirement: 1,
		Frequency:   shared.FrequencyOnce,
		IsActive:    true,
	})
	daily := seedQuest(t, questSvc.db, model.Quest{
		Title:       "Everyday",
		GoalType:    shared.GoalTypeLogMeal,
		Reward:      5,
		Requirement: 1,
		Frequency:   shared.FrequencyDaily,
		IsActive:    true,
	})

	if _, err := questSvc.RecordProgress(user.ID, once.ID, 1); err != nil {
		t.Fatalf("once progress failed: %v", err)
	}
	if _, err := questSvc.RecordProgress(user.ID, daily.ID, 1); err != nil {
		t.Fatalf("daily progress failed: %v", err)
	}

	clock.Advance(24 * time.Hour)
	resp, err := questSvc.GetQuests(user.ID)
	if err != nil {
		t.Fatalf("get quests failed: %v", err)
	}

	byTitle := make(map[string]bool, len(resp.Quests))
	for _, q := range resp.Quests {
		byTitle[q.Title] = q.IsCompleted
	}

	// The ONCE quest stays completed across days; the DAILY quest shows a
	// fresh cycle.
	if !byTitle["Lifetime"] {
		t.Fatal("expected ONCE quest to remain completed")
	}
	if byTitle["Everyday"] {
		t.Fatal("expected DAILY quest to reset the next day")
	}
}
