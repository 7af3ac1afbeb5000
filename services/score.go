package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/munchlog-app/munchlog_api/dto"
	"github.com/munchlog-app/munchlog_api/model"
	"github.com/munchlog-app/munchlog_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ScoreService is the reward ledger: a lazily created balance row per user
// plus an append-only transaction log. Balance change and log entry always
// land in the same database transaction.
type ScoreService struct {
	appContext.DefaultService

	db       *gorm.DB
	clock    shared.Clock
	redisSvc *RedisService
}

const SCORE_SVC = "score_svc"

const leaderboardCacheTTL = 60 * time.Second

func (svc ScoreService) Id() string {
	return SCORE_SVC
}

// NewScoreService builds a ledger bound to an explicit storage handle, used
// by tests and the seed command.
func NewScoreService(db *gorm.DB, clock shared.Clock) *ScoreService {
	return &ScoreService{db: db, clock: clock}
}

func (svc *ScoreService) Start() error {
	svc.db = svc.Service(POSTGRES_SVC).(*PostgresService).Db()
	svc.clock = shared.SystemClock
	if redisSvc, ok := svc.Service(REDIS_SVC).(*RedisService); ok {
		svc.redisSvc = redisSvc
	}
	return nil
}

// Credit adds points and records the matching transaction, both-or-neither.
func (svc *ScoreService) Credit(userID string, amount int64, reason, sourceType, sourceID string) (*model.Score, error) {
	if amount <= 0 {
		return nil, shared.NewBadRequestError(nil, "Credit amount must be positive")
	}

	var score *model.Score
	err := svc.db.Transaction(func(tx *gorm.DB) error {
		s, err := svc.CreditTx(tx, userID, amount, reason, sourceType, sourceID)
		score = s
		return err
	})
	return score, err
}

// CreditTx is the transactional body of Credit, shared with the quest
// settlement path so reward crediting joins the caller's transaction.
func (svc *ScoreService) CreditTx(tx *gorm.DB, userID string, amount int64, reason, sourceType, sourceID string) (*model.Score, error) {
	var score model.Score
	err := tx.Where("user_id = ?", userID).First(&score).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, err := svc.createScore(tx, userID, amount)
		if err != nil {
			return nil, err
		}
		score = *created
	case err != nil:
		return nil, shared.NewInternalError(err, "Failed to load score")
	default:
		res := tx.Model(&model.Score{}).
			Where("id = ?", score.ID).
			Update("points", gorm.Expr("points + ?", amount))
		if res.Error != nil {
			return nil, shared.NewInternalError(res.Error, "Failed to credit score")
		}
		score.Points += amount
	}

	if err := svc.appendTransaction(tx, &score, amount, reason, sourceType, sourceID); err != nil {
		return nil, err
	}

	return &score, nil
}

// SpendTx debits points with a conditional update so the balance can never
// go negative, then logs a negative-amount transaction.
func (svc *ScoreService) SpendTx(tx *gorm.DB, userID string, amount int64, reason, sourceType, sourceID string) (*model.Score, error) {
	if amount <= 0 {
		return nil, shared.NewBadRequestError(nil, "Spend amount must be positive")
	}

	res := tx.Model(&model.Score{}).
		Where("user_id = ? AND points >= ?", userID, amount).
		Update("points", gorm.Expr("points - ?", amount))
	if res.Error != nil {
		return nil, shared.NewInternalError(res.Error, "Failed to debit score")
	}
	if res.RowsAffected == 0 {
		return nil, shared.NewIneligibleError(nil, "Insufficient points")
	}

	var score model.Score
	if err := tx.Where("user_id = ?", userID).First(&score).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to load score")
	}

	if err := svc.appendTransaction(tx, &score, -amount, reason, sourceType, sourceID); err != nil {
		return nil, err
	}

	return &score, nil
}

func (svc *ScoreService) createScore(tx *gorm.DB, userID string, amount int64) (*model.Score, error) {
	id, _ := uuid.NewV7()
	score := model.Score{
		ID:     id.String(),
		UserID: userID,
		Points: amount,
	}
	if err := tx.Create(&score).Error; err != nil {
		// Unique index on user_id caught a concurrent first credit.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, shared.NewConflictError(err, "Score created concurrently")
		}
		return nil, shared.NewInternalError(err, "Failed to create score")
	}
	return &score, nil
}

func (svc *ScoreService) appendTransaction(tx *gorm.DB, score *model.Score, amount int64, reason, sourceType, sourceID string) error {
	txID, _ := uuid.NewV7()
	record := model.ScoreTransaction{
		ID:         txID.String(),
		ScoreID:    score.ID,
		UserID:     score.UserID,
		Amount:     amount,
		Reason:     reason,
		SourceType: sourceType,
		SourceID:   sourceID,
		CreatedAt:  svc.clock.Now(),
	}
	if err := tx.Create(&record).Error; err != nil {
		return shared.NewInternalError(err, "Failed to record transaction")
	}
	return nil
}

func (svc *ScoreService) GetBalance(userID string) (*dto.BalanceResponse, error) {
	var score model.Score
	err := svc.db.Where("user_id = ?", userID).First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.BalanceResponse{UserID: userID, Points: 0}, nil
	}
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load score")
	}

	return &dto.BalanceResponse{UserID: userID, Points: score.Points}, nil
}

func (svc *ScoreService) GetTransactions(userID string, page, limit int) (*dto.TransactionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := svc.db.Model(&model.ScoreTransaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to count transactions")
	}

	var rows []model.ScoreTransaction
	err := svc.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load transactions")
	}

	resp := &dto.TransactionListResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(rows)),
		Total:        total,
		Page:         page,
		Limit:        limit,
	}
	for _, row := range rows {
		resp.Transactions = append(resp.Transactions, dto.TransactionResponse{
			ID:         row.ID,
			Amount:     row.Amount,
			Reason:     row.Reason,
			SourceType: row.SourceType,
			SourceID:   row.SourceID,
			CreatedAt:  row.CreatedAt,
		})
	}
	return resp, nil
}

// GetLeaderboard ranks by all-time balance or by credited points in the last
// 7 days. The ranked slice is cached briefly in redis keyed by period and
// limit only; the caller's own rank is picked out of that slice afterwards,
// so an authenticated identity never bypasses the cache.
func (svc *ScoreService) GetLeaderboard(period string, limit int, userID string) (*dto.LeaderboardResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%d", period, limit)

	var entries []dto.LeaderboardEntry
	if svc.redisSvc != nil {
		if err := svc.redisSvc.GetJSON(context.Background(), cacheKey, &entries); err != nil {
			entries = nil
		}
	}

	if len(entries) == 0 {
		var err error
		entries, err = svc.queryLeaderboard(period, limit)
		if err != nil {
			return nil, err
		}
		for i := range entries {
			entries[i].Rank = i + 1
		}

		if svc.redisSvc != nil && len(entries) > 0 {
			if err := svc.redisSvc.Set(context.Background(), cacheKey, entries, leaderboardCacheTTL); err != nil {
				log.WithError(err).Warn("Failed to cache leaderboard")
			}
		}
	}

	resp := &dto.LeaderboardResponse{Entries: entries}
	if userID != "" {
		for i := range entries {
			if entries[i].UserID == userID {
				entry := entries[i]
				resp.UserRank = &entry
				break
			}
		}
	}
	return resp, nil
}

func (svc *ScoreService) queryLeaderboard(period string, limit int) ([]dto.LeaderboardEntry, error) {
	var entries []dto.LeaderboardEntry
	var err error
	switch period {
	case "weekly":
		since := svc.clock.Now().AddDate(0, 0, -7)
		err = svc.db.Model(&model.ScoreTransaction{}).
			Select("score_transactions.user_id, users.username, SUM(score_transactions.amount) AS points").
			Joins("JOIN users ON users.id = score_transactions.user_id").
			Where("score_transactions.created_at >= ? AND score_transactions.amount > 0", since).
			Group("score_transactions.user_id, users.username").
			Order("points DESC").
			Limit(limit).
			Scan(&entries).Error
	default:
		err = svc.db.Model(&model.Score{}).
			Select("scores.user_id, users.username, scores.points").
			Joins("JOIN users ON users.id = scores.user_id").
			Order("scores.points DESC").
			Limit(limit).
			Scan(&entries).Error
	}
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load leaderboard")
	}
	return entries, nil
}
