package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/munchlog-app/munchlog_api/model"
	"github.com/munchlog-app/munchlog_api/shared"
)

func TestCreditCreatesBalanceAndLedger(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	svc := NewScoreService(db, clock)
	user := seedUser(t, db, "alice")

	amounts := []int64{10, 25, 5}
	var want int64
	for _, amount := range amounts {
		score, err := svc.Credit(user.ID, amount, "test credit", shared.SourceTypeAdmin, "")
		if err != nil {
			t.Fatalf("credit failed: %v", err)
		}
		want += amount
		if score.Points != want {
			t.Fatalf("expected balance %d, got %d", want, score.Points)
		}
	}

	balance, err := svc.GetBalance(user.ID)
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if balance.Points != want {
		t.Fatalf("expected balance %d, got %d", want, balance.Points)
	}

	var count int64
	if err := db.Model(&model.ScoreTransaction{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != int64(len(amounts)) {
		t.Fatalf("expected %d transactions, got %d", len(amounts), count)
	}
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoreService(db, newFakeClock())
	user := seedUser(t, db, "bob")

	for _, amount := range []int64{0, -5} {
		_, err := svc.Credit(user.ID, amount, "bad", shared.SourceTypeAdmin, "")
		if err == nil {
			t.Fatalf("expected error for amount %d", amount)
		}
		appErr, ok := shared.GetAppError(err)
		if !ok || appErr.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected bad request, got %v", err)
		}
	}
}

func TestSpendInsufficientPoints(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoreService(db, newFakeClock())
	user := seedUser(t, db, "carol")

	if _, err := svc.Credit(user.ID, 50, "seed", shared.SourceTypeAdmin, ""); err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	_, err := svc.SpendTx(db, user.ID, 100, "too much", shared.SourceTypePurchase, "")
	if err == nil {
		t.Fatal("expected spend to fail")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected ineligible error, got %v", err)
	}

	balance, err := svc.GetBalance(user.ID)
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if balance.Points != 50 {
		t.Fatalf("balance changed on failed spend: %d", balance.Points)
	}
}

func TestSpendLogsNegativeTransaction(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoreService(db, newFakeClock())
	user := seedUser(t, db, "dave")

	if _, err := svc.Credit(user.ID, 100, "seed", shared.SourceTypeAdmin, ""); err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	score, err := svc.SpendTx(db, user.ID, 30, "spend", shared.SourceTypePurchase, "item-1")
	if err != nil {
		t.Fatalf("spend failed: %v", err)
	}
	if score.Points != 70 {
		t.Fatalf("expected balance 70, got %d", score.Points)
	}

	var record model.ScoreTransaction
	err = db.Where("user_id = ? AND source_type = ?", user.ID, shared.SourceTypePurchase).First(&record).Error
	if err != nil {
		t.Fatalf("missing spend transaction: %v", err)
	}
	if record.Amount != -30 {
		t.Fatalf("expected amount -30, got %d", record.Amount)
	}
}

func TestFirstCreditDuplicateRowConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoreService(db, newFakeClock())
	user := seedUser(t, db, "gail")

	if _, err := svc.Credit(user.ID, 10, "seed", shared.SourceTypeAdmin, ""); err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	// A concurrent first credit loses the insert to the unique index on
	// user_id and surfaces as a conflict, not an internal error.
	_, err := svc.createScore(db, user.ID, 5)
	if err == nil {
		t.Fatal("expected duplicate score row to fail")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLeaderboardRanksAndCallerRank(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	svc := NewScoreService(db, clock)

	users := []struct {
		name   string
		points int64
	}{
		{"heidi", 300},
		{"ivan", 200},
		{"judy", 100},
	}
	var ivanID string
	for _, u := range users {
		user := seedUser(t, db, u.name)
		if u.name == "ivan" {
			ivanID = user.ID
		}
		if _, err := svc.Credit(user.ID, u.points, "seed", shared.SourceTypeAdmin, ""); err != nil {
			t.Fatalf("credit failed: %v", err)
		}
	}

	resp, err := svc.GetLeaderboard("all_time", 10, ivanID)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(resp.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(resp.Entries))
	}
	for i, entry := range resp.Entries {
		if entry.Rank != i+1 {
			t.Fatalf("expected rank %d, got %d", i+1, entry.Rank)
		}
	}
	if resp.UserRank == nil || resp.UserRank.UserID != ivanID || resp.UserRank.Rank != 2 {
		t.Fatalf("expected caller at rank 2, got %+v", resp.UserRank)
	}

	// An unreachable cache backend degrades to the database path; passing an
	// identity must not change the ranking.
	svc.redisSvc = &RedisService{}
	resp, err = svc.GetLeaderboard("all_time", 10, ivanID)
	if err != nil {
		t.Fatalf("leaderboard with cache backend failed: %v", err)
	}
	if len(resp.Entries) != 3 || resp.UserRank == nil || resp.UserRank.Rank != 2 {
		t.Fatalf("expected identical ranking, got %d entries, rank %+v", len(resp.Entries), resp.UserRank)
	}

	resp, err = svc.GetLeaderboard("all_time", 10, "")
	if err != nil {
		t.Fatalf("leaderboard without identity failed: %v", err)
	}
	if resp.UserRank != nil {
		t.Fatalf("expected no caller rank, got %+v", resp.UserRank)
	}
}

func TestBalanceZeroWithoutRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoreService(db, newFakeClock())
	user := seedUser(t, db, "erin")

	balance, err := svc.GetBalance(user.ID)
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if balance.Points != 0 {
		t.Fatalf("expected zero balance, got %d", balance.Points)
	}
}

func TestGetTransactionsPaged(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	svc := NewScoreService(db, clock)
	user := seedUser(t, db, "frank")

	for i := 0; i < 5; i++ {
		if _, err := svc.Credit(user.ID, 10, "credit", shared.SourceTypeAdmin, ""); err != nil {
			t.Fatalf("credit failed: %v", err)
		}
		clock.Advance(time.Second)
	}

	resp, err := svc.GetTransactions(user.ID, 1, 3)
	if err != nil {
		t.Fatalf("get transactions failed: %v", err)
	}
	if resp.Total != 5 {
		t.Fatalf("expected total 5, got %d", resp.Total)
	}
	if len(resp.Transactions) != 3 {
		t.Fatalf("expected 3 entries on first page, got %d", len(resp.Transactions))
	}

	resp, err = svc.GetTransactions(user.ID, 2, 3)
	if err != nil {
		t.Fatalf("get transactions failed: %v", err)
	}
	if len(resp.Transactions) != 2 {
		t.Fatalf("expected 2 entries on second page, got %d", len(resp.Transactions))
	}
}
