package services

import (
	"errors"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/munchlog-app/munchlog_api/dto"
	"github.com/munchlog-app/munchlog_api/model"
	"github.com/munchlog-app/munchlog_api/shared"
	"gorm.io/gorm"
)

// QuestService is the progress tracker. A UserQuest row is one progress
// cycle: ONCE quests keep a single row for the lifetime of the quest, DAILY
// quests get a fresh row per calendar day. Completion flips the row to its
// terminal state and credits the reward in the same transaction.
type QuestService struct {
	appContext.DefaultService

	db       *gorm.DB
	clock    shared.Clock
	scoreSvc *ScoreService
}

const QUEST_SVC = "quest_svc"

func (svc QuestService) Id() string {
	return QUEST_SVC
}

func NewQuestService(db *gorm.DB, clock shared.Clock, scoreSvc *ScoreService) *QuestService {
	return &QuestService{db: db, clock: clock, scoreSvc: scoreSvc}
}

func (svc *QuestService) Start() error {
	svc.db = svc.Service(POSTGRES_SVC).(*PostgresService).Db()
	svc.clock = shared.SystemClock
	svc.scoreSvc = svc.Service(SCORE_SVC).(*ScoreService)
	return nil
}

// RecordProgress adds increment to the caller's current quest cycle,
// completing it and crediting the reward when the requirement is reached.
func (svc *QuestService) RecordProgress(userID, questID string, increment int) (*dto.QuestProgressResponse, error) {
	if increment <= 0 {
		return nil, shared.NewBadRequestError(nil, "Increment must be positive")
	}

	var resp *dto.QuestProgressResponse
	err := svc.db.Transaction(func(tx *gorm.DB) error {
		r, err := svc.recordProgressTx(tx, userID, questID, increment)
		resp = r
		return err
	})
	return resp, err
}

// CompleteQuest settles the remaining requirement in one step.
func (svc *QuestService) CompleteQuest(userID, questID string) (*dto.CompleteQuestResponse, error) {
	var resp *dto.CompleteQuestResponse
	err := svc.db.Transaction(func(tx *gorm.DB) error {
		quest, err := svc.loadQuest(tx, questID)
		if err != nil {
			return err
		}

		now := svc.clock.Now()
		if err := svc.checkEligibility(tx, quest, userID, now); err != nil {
			return err
		}

		remaining := quest.Requirement
		var current model.UserQuest
		err = tx.Where("user_id = ? AND quest_id = ? AND cycle_date = ?",
			userID, quest.ID, svc.cycleDate(quest, now)).First(&current).Error
		if err == nil {
			remaining = quest.Requirement - current.Progress
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewInternalError(err, "Failed to load quest progress")
		}
		if remaining < 1 {
			remaining = 1
		}

		progress, err := svc.recordProgressTx(tx, userID, questID, remaining)
		if err != nil {
			return err
		}

		var settled model.UserQuest
		if err := tx.Where("user_id = ? AND quest_id = ? AND cycle_date = ?",
			userID, quest.ID, svc.cycleDate(quest, now)).First(&settled).Error; err != nil {
			return shared.NewInternalError(err, "Failed to load quest progress")
		}

		resp = &dto.CompleteQuestResponse{
			Reward:    progress.ScoreAwarded,
			UserQuest: mapUserQuest(&settled, quest.Requirement),
		}
		return nil
	})
	return resp, err
}

func (svc *QuestService) recordProgressTx(tx *gorm.DB, userID, questID string, increment int) (*dto.QuestProgressResponse, error) {
	quest, err := svc.loadQuest(tx, questID)
	if err != nil {
		return nil, err
	}

	now := svc.clock.Now()
	if err := svc.checkEligibility(tx, quest, userID, now); err != nil {
		return nil, err
	}

	cycle := svc.cycleDate(quest, now)
	userQuest, err := svc.loadOrCreateCycle(tx, userID, quest.ID, cycle, now)
	if err != nil {
		return nil, err
	}

	if userQuest.IsCompleted {
		return nil, shared.NewIneligibleError(nil, "Quest already completed")
	}

	newProgress := userQuest.Progress + increment
	if newProgress > quest.Requirement {
		newProgress = quest.Requirement
	}
	completed := newProgress >= quest.Requirement

	updates := map[string]interface{}{
		"progress":   newProgress,
		"updated_at": now,
	}
	if completed {
		updates["is_completed"] = true
		updates["completed_at"] = now
	}

	// Guarded by is_completed so a concurrent settlement of the same cycle
	// cannot credit twice.
	res := tx.Model(&model.UserQuest{}).
		Where("id = ? AND is_completed = ?", userQuest.ID, false).
		Updates(updates)
	if res.Error != nil {
		return nil, shared.NewInternalError(res.Error, "Failed to update quest progress")
	}
	if res.RowsAffected == 0 {
		return nil, shared.NewConflictError(nil, "Quest was completed concurrently")
	}

	awarded := 0
	if completed {
		if _, err := svc.scoreSvc.CreditTx(tx, userID, int64(quest.Reward),
			"Quest reward: "+quest.Title, shared.SourceTypeQuest, quest.ID); err != nil {
			return nil, err
		}
		awarded = quest.Reward
		RecordQuestCompletion(quest.Reward)
	}

	return &dto.QuestProgressResponse{
		Progress:     newProgress,
		IsCompleted:  completed,
		ScoreAwarded: awarded,
	}, nil
}

func (svc *QuestService) loadQuest(tx *gorm.DB, questID string) (*model.Quest, error) {
	var quest model.Quest
	if err := tx.Where("id = ?", questID).First(&quest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Quest not found")
		}
		return nil, shared.NewInternalError(err, "Failed to load quest")
	}
	return &quest, nil
}

// checkEligibility gates progress by quest state, active window, and
// frequency. The same rule backs the progress and complete endpoints.
func (svc *QuestService) checkEligibility(tx *gorm.DB, quest *model.Quest, userID string, now time.Time) error {
	if !quest.IsActive {
		return shared.NewIneligibleError(nil, "Quest is not active")
	}
	if quest.StartDate != nil && now.Before(*quest.StartDate) {
		return shared.NewIneligibleError(nil, "Quest has not started yet")
	}
	if quest.EndDate != nil && now.After(*quest.EndDate) {
		return shared.NewIneligibleError(nil, "Quest has ended")
	}

	switch quest.Frequency {
	case shared.FrequencyOnce:
		var count int64
		err := tx.Model(&model.UserQuest{}).
			Where("user_id = ? AND quest_id = ? AND is_completed = ?", userID, quest.ID, true).
			Count(&count).Error
		if err != nil {
			return shared.NewInternalError(err, "Failed to check quest completion")
		}
		if count > 0 {
			return shared.NewIneligibleError(nil, "Quest already completed")
		}
	case shared.FrequencyDaily:
		var count int64
		err := tx.Model(&model.UserQuest{}).
			Where("user_id = ? AND quest_id = ? AND cycle_date = ? AND is_completed = ?",
				userID, quest.ID, shared.StartOfDay(now), true).
			Count(&count).Error
		if err != nil {
			return shared.NewInternalError(err, "Failed to check quest completion")
		}
		if count > 0 {
			return shared.NewIneligibleError(nil, "Quest already completed today")
		}
	}

	return nil
}

func (svc *QuestService) cycleDate(quest *model.Quest, now time.Time) time.Time {
	if quest.Frequency == shared.FrequencyDaily {
		return shared.StartOfDay(now)
	}
	return time.Time{}
}

func (svc *QuestService) loadOrCreateCycle(tx *gorm.DB, userID, questID string, cycle, now time.Time) (*model.UserQuest, error) {
	var userQuest model.UserQuest
	err := tx.Where("user_id = ? AND quest_id = ? AND cycle_date = ?", userID, questID, cycle).
		First(&userQuest).Error
	if err == nil {
		return &userQuest, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewInternalError(err, "Failed to load quest progress")
	}

	id, _ := uuid.NewV7()
	userQuest = model.UserQuest{
		ID:        id.String(),
		UserID:    userID,
		QuestID:   questID,
		CycleDate: cycle,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Create(&userQuest).Error; err != nil {
		// Unique index on (user, quest, cycle) caught a concurrent insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, shared.NewConflictError(err, "Quest progress updated concurrently")
		}
		return nil, shared.NewInternalError(err, "Failed to create quest progress")
	}
	return &userQuest, nil
}

// GetQuests lists active quests with the caller's current-cycle progress.
func (svc *QuestService) GetQuests(userID string) (*dto.QuestListResponse, error) {
	var quests []model.Quest
	if err := svc.db.Where("is_active = ?", true).Order("created_at").Find(&quests).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to load quests")
	}

	now := svc.clock.Now()
	resp := &dto.QuestListResponse{Quests: make([]dto.QuestWithProgress, 0, len(quests))}
	for i := range quests {
		quest := &quests[i]

		var userQuest model.UserQuest
		progress := 0
		completed := false
		err := svc.db.Where("user_id = ? AND quest_id = ? AND cycle_date = ?",
			userID, quest.ID, svc.cycleDate(quest, now)).First(&userQuest).Error
		if err == nil {
			progress = userQuest.Progress
			completed = userQuest.IsCompleted
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewInternalError(err, "Failed to load quest progress")
		}

		// A ONCE quest completed in any cycle stays completed.
		if !completed && quest.Frequency == shared.FrequencyOnce {
			var count int64
			if err := svc.db.Model(&model.UserQuest{}).
				Where("user_id = ? AND quest_id = ? AND is_completed = ?", userID, quest.ID, true).
				Count(&count).Error; err == nil && count > 0 {
				completed = true
				progress = quest.Requirement
			}
		}

		resp.Quests = append(resp.Quests, dto.QuestWithProgress{
			QuestResponse: mapQuest(quest),
			Progress:      progress,
			IsCompleted:   completed,
		})
	}
	return resp, nil
}

// ActiveQuestsByGoal returns quests currently open for a goal type, used by
// the meal log flow to fan out progress.
func (svc *QuestService) ActiveQuestsByGoal(goalType string) ([]model.Quest, error) {
	var quests []model.Quest
	if err := svc.db.Where("is_active = ? AND goal_type = ?", true, goalType).Find(&quests).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to load quests")
	}
	return quests, nil
}

func mapQuest(quest *model.Quest) dto.QuestResponse {
	return dto.QuestResponse{
		ID:          quest.ID,
		Title:       quest.Title,
		Description: quest.Description,
		GoalType:    quest.GoalType,
		Reward:      quest.Reward,
		Requirement: quest.Requirement,
		Frequency:   quest.Frequency,
		IsActive:    quest.IsActive,
		StartDate:   quest.StartDate,
		EndDate:     quest.EndDate,
	}
}

func mapUserQuest(userQuest *model.UserQuest, requirement int) dto.UserQuestResponse {
	return dto.UserQuestResponse{
		ID:          userQuest.ID,
		QuestID:     userQuest.QuestID,
		Progress:    userQuest.Progress,
		Requirement: requirement,
		IsCompleted: userQuest.IsCompleted,
		CompletedAt: userQuest.CompletedAt,
	}
}

// ==================== ADMIN ====================

func (svc *QuestService) AdminCreateQuest(req dto.CreateQuestRequest) (*dto.QuestResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed").WithData(dto.FormatValidationErrors(err))
	}

	id, _ := uuid.NewV7()
	quest := model.Quest{
		ID:          id.String(),
		Title:       req.Title,
		Description: req.Description,
		GoalType:    req.GoalType,
		Reward:      req.Reward,
		Requirement: req.Requirement,
		Frequency:   req.Frequency,
		IsActive:    true,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := svc.db.Create(&quest).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to create quest")
	}

	resp := mapQuest(&quest)
	return &resp, nil
}

func (svc *QuestService) AdminUpdateQuest(questID string, req dto.UpdateQuestRequest) (*dto.QuestResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed").WithData(dto.FormatValidationErrors(err))
	}

	quest, err := svc.loadQuest(svc.db, questID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		quest.Title = *req.Title
	}
	if req.Description != nil {
		quest.Description = *req.Description
	}
	if req.Reward != nil {
		quest.Reward = *req.Reward
	}
	if req.Requirement != nil {
		quest.Requirement = *req.Requirement
	}
	if req.IsActive != nil {
		quest.IsActive = *req.IsActive
	}
	if req.StartDate != nil {
		quest.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		quest.EndDate = req.EndDate
	}

	if err := svc.db.Save(quest).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to update quest")
	}

	resp := mapQuest(quest)
	return &resp, nil
}

func (svc *QuestService) AdminListQuests() ([]dto.QuestResponse, error) {
	var quests []model.Quest
	if err := svc.db.Order("created_at").Find(&quests).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to load quests")
	}

	resp := make([]dto.QuestResponse, 0, len(quests))
	for i := range quests {
		resp = append(resp, mapQuest(&quests[i]))
	}
	return resp, nil
}
