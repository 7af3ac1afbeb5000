package services

import (
	"errors"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/munchlog-app/munchlog_api/dto"
	"github.com/munchlog-app/munchlog_api/model"
	"github.com/munchlog-app/munchlog_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MealService owns the meal log, the streak counter, and the fan-out of
// logged meals into quest progress.
type MealService struct {
	appContext.DefaultService

	db       *gorm.DB
	clock    shared.Clock
	questSvc *QuestService
	mediaSvc *MediaService
}

const MEAL_SVC = "meal_svc"

func (svc MealService) Id() string {
	return MEAL_SVC
}

func NewMealService(db *gorm.DB, clock shared.Clock, questSvc *QuestService) *MealService {
	return &MealService{db: db, clock: clock, questSvc: questSvc}
}

func (svc *MealService) Start() error {
	svc.db = svc.Service(POSTGRES_SVC).(*PostgresService).Db()
	svc.clock = shared.SystemClock
	svc.questSvc = svc.Service(QUEST_SVC).(*QuestService)
	if mediaSvc, ok := svc.Service(MEDIA_SVC).(*MediaService); ok {
		svc.mediaSvc = mediaSvc
	}
	return nil
}

func (svc *MealService) LogMeal(userID string, req dto.LogMealRequest) (*dto.LogMealResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed").WithData(dto.FormatValidationErrors(err))
	}

	now := svc.clock.Now()
	eatenAt := now
	if req.EatenAt != nil {
		eatenAt = *req.EatenAt
	}

	id, _ := uuid.NewV7()
	meal := model.Meal{
		ID:        id.String(),
		UserID:    userID,
		Name:      req.Name,
		Kind:      req.Kind,
		Calories:  req.Calories,
		Note:      req.Note,
		PhotoKey:  req.PhotoKey,
		EatenAt:   eatenAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var streak *model.MealStreak
	err := svc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&meal).Error; err != nil {
			return shared.NewInternalError(err, "Failed to log meal")
		}

		s, err := svc.touchStreak(tx, userID, now)
		if err != nil {
			return err
		}
		streak = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Quest fan-out is settled per quest after the meal commit; an
	// ineligible quest (already done today, window closed) is skipped, not
	// an error for the meal log.
	var progress []dto.QuestProgressResponse
	quests, err := svc.questSvc.ActiveQuestsByGoal(shared.GoalTypeLogMeal)
	if err == nil {
		for _, quest := range quests {
			result, err := svc.questSvc.RecordProgress(userID, quest.ID, 1)
			if err != nil {
				if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode >= 500 {
					log.WithError(err).WithField("quest_id", quest.ID).Error("Quest progress failed on meal log")
				}
				continue
			}
			progress = append(progress, *result)
		}
	}

	return &dto.LogMealResponse{
		Meal:          svc.mapMeal(&meal),
		Streak:        mapStreak(streak),
		QuestProgress: progress,
	}, nil
}

// touchStreak advances the consecutive-day counter: same day is a no-op,
// the next day increments, a gap resets to 1.
func (svc *MealService) touchStreak(tx *gorm.DB, userID string, now time.Time) (*model.MealStreak, error) {
	var streak model.MealStreak
	err := tx.Where("user_id = ?", userID).First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		id, _ := uuid.NewV7()
		streak = model.MealStreak{
			ID:               id.String(),
			UserID:           userID,
			Current:          1,
			Longest:          1,
			LastActivityDate: &now,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := tx.Create(&streak).Error; err != nil {
			return nil, shared.NewInternalError(err, "Failed to create streak")
		}
		return &streak, nil
	}
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load streak")
	}

	if streak.LastActivityDate == nil {
		streak.Current = 1
	} else {
		switch shared.DaysBetween(*streak.LastActivityDate, now) {
		case 0:
			// Same day, no change.
		case 1:
			streak.Current++
		default:
			streak.Current = 1
		}
	}
	if streak.Current > streak.Longest {
		streak.Longest = streak.Current
	}
	streak.LastActivityDate = &now
	streak.UpdatedAt = now

	if err := tx.Save(&streak).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to update streak")
	}
	return &streak, nil
}

func (svc *MealService) GetMeals(userID string, page, limit int, from, to *time.Time) (*dto.MealListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := svc.db.Model(&model.Meal{}).Where("user_id = ?", userID)
	if from != nil {
		query = query.Where("eaten_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("eaten_at <= ?", *to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to count meals")
	}

	var meals []model.Meal
	err := query.Order("eaten_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&meals).Error
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load meals")
	}

	resp := &dto.MealListResponse{
		Meals: make([]dto.MealResponse, 0, len(meals)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range meals {
		resp.Meals = append(resp.Meals, svc.mapMeal(&meals[i]))
	}
	return resp, nil
}

func (svc *MealService) DeleteMeal(userID, mealID string) error {
	res := svc.db.Where("id = ? AND user_id = ?", mealID, userID).Delete(&model.Meal{})
	if res.Error != nil {
		return shared.NewInternalError(res.Error, "Failed to delete meal")
	}
	if res.RowsAffected == 0 {
		return shared.NewNotFoundError(nil, "Meal not found")
	}
	return nil
}

func (svc *MealService) GetStreak(userID string) (*dto.StreakResponse, error) {
	var streak model.MealStreak
	err := svc.db.Where("user_id = ?", userID).First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.StreakResponse{}, nil
	}
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load streak")
	}

	resp := mapStreak(&streak)
	return &resp, nil
}

// GetMealChart buckets meals and calories per calendar day for the last
// `days` days. An empty userID aggregates all users (admin analytics).
func (svc *MealService) GetMealChart(userID string, days int) (*dto.MealChartResponse, error) {
	if days < 1 || days > 90 {
		days = 14
	}

	now := svc.clock.Now()
	since := shared.StartOfDay(now).AddDate(0, 0, -(days - 1))

	type bucket struct {
		Day      string
		Meals    int
		Calories int
	}
	var rows []bucket
	query := svc.db.Model(&model.Meal{}).
		Select("DATE(eaten_at) AS day, COUNT(*) AS meals, COALESCE(SUM(calories), 0) AS calories").
		Where("eaten_at >= ?", since).
		Group("DATE(eaten_at)").
		Order("day")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to load meal chart")
	}

	byDay := make(map[string]bucket, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row
	}

	// Fill empty days so charts get a continuous series.
	resp := &dto.MealChartResponse{Days: make([]dto.ChartPoint, 0, days)}
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		point := dto.ChartPoint{Day: day}
		if row, ok := byDay[day]; ok {
			point.Meals = row.Meals
			point.Calories = row.Calories
		}
		resp.Days = append(resp.Days, point)
	}
	return resp, nil
}

func (svc *MealService) mapMeal(meal *model.Meal) dto.MealResponse {
	resp := dto.MealResponse{
		ID:       meal.ID,
		Name:     meal.Name,
		Kind:     meal.Kind,
		Calories: meal.Calories,
		Note:     meal.Note,
		PhotoKey: meal.PhotoKey,
		EatenAt:  meal.EatenAt,
	}
	if meal.PhotoKey != "" && svc.mediaSvc != nil {
		if url, err := svc.mediaSvc.GetPhotoURL(meal.PhotoKey); err == nil {
			resp.PhotoURL = url
		}
	}
	return resp
}

func mapStreak(streak *model.MealStreak) dto.StreakResponse {
	if streak == nil {
		return dto.StreakResponse{}
	}
	return dto.StreakResponse{
		Current:      streak.Current,
		Longest:      streak.Longest,
		LastActivity: streak.LastActivityDate,
	}
}
