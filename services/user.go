package services

import (
	"errors"

	appContext "github.com/alphabatem/common/context"
	"github.com/munchlog-app/munchlog_api/dto"
	"github.com/munchlog-app/munchlog_api/model"
	"github.com/munchlog-app/munchlog_api/shared"
	"gorm.io/gorm"
)

type UserService struct {
	appContext.DefaultService

	sqlSvc  *PostgresService
	mealSvc *MealService
}

const USER_SVC = "user_svc"

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.mealSvc = svc.Service(MEAL_SVC).(*MealService)
	return nil
}

func (svc *UserService) GetUserProfile(userID string) (*dto.UserProfileResponse, error) {
	user, err := svc.sqlSvc.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "User not found")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	return mapUserProfile(user), nil
}

func (svc *UserService) UpdateUserProfile(userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed").WithData(dto.FormatValidationErrors(err))
	}

	user, err := svc.sqlSvc.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "User not found")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}

	if err := svc.sqlSvc.UpdateUser(user); err != nil {
		return nil, err
	}

	return mapUserProfile(user), nil
}

func mapUserProfile(user *model.User) *dto.UserProfileResponse {
	return &dto.UserProfileResponse{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Role:      user.Role,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
	}
}

// ==================== ADMIN ====================

func (svc *UserService) AdminGetUsers(page, limit int, search string) (*dto.AdminUserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	db := svc.sqlSvc.Db()
	query := db.Model(&model.User{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to count users")
	}

	var users []model.User
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load users")
	}

	resp := &dto.AdminUserListResponse{
		Users: make([]dto.AdminUserInfo, 0, len(users)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, user := range users {
		resp.Users = append(resp.Users, dto.AdminUserInfo{
			UserID:    user.ID,
			Email:     user.Email,
			Username:  user.Username,
			Role:      user.Role,
			LastLogin: user.LastLogin,
			CreatedAt: user.CreatedAt,
		})
	}
	return resp, nil
}

// AdminDeleteUser removes the account and every row keyed to it.
func (svc *UserService) AdminDeleteUser(userID string) error {
	db := svc.sqlSvc.Db()
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", userID).Delete(&model.User{})
		if res.Error != nil {
			return shared.NewInternalError(res.Error, "Failed to delete user")
		}
		if res.RowsAffected == 0 {
			return shared.NewNotFoundError(nil, "User not found")
		}

		for _, m := range []interface{}{
			&model.Meal{}, &model.MealStreak{}, &model.UserQuest{},
			&model.Score{}, &model.ScoreTransaction{}, &model.UserItem{},
			&model.ActiveEffect{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return shared.NewInternalError(err, "Failed to delete user data")
			}
		}
		return nil
	})
}

func (svc *UserService) AdminGetAnalytics(days int) (*dto.AnalyticsResponse, error) {
	db := svc.sqlSvc.Db()
	resp := &dto.AnalyticsResponse{}

	if err := db.Model(&model.User{}).Count(&resp.TotalUsers).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to count users")
	}
	if err := db.Model(&model.Meal{}).Count(&resp.TotalMeals).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to count meals")
	}
	if err := db.Model(&model.UserQuest{}).Where("is_completed = ?", true).Count(&resp.TotalQuestsDone).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to count quests")
	}
	if err := db.Model(&model.ScoreTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("amount > 0").
		Scan(&resp.PointsIssued).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to sum credits")
	}
	var spent int64
	if err := db.Model(&model.ScoreTransaction{}).
		Select("COALESCE(SUM(-amount), 0)").
		Where("amount < 0").
		Scan(&spent).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to sum debits")
	}
	resp.PointsSpent = spent
	if err := db.Model(&model.ActiveEffect{}).Count(&resp.ActiveEffectCount).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to count effects")
	}

	chart, err := svc.mealSvc.GetMealChart("", days)
	if err != nil {
		return nil, err
	}
	resp.MealsPerDay = chart.Days

	return resp, nil
}
