package handlers

import (
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/munchlog-app/munchlog_api/dto"
	"github.com/munchlog-app/munchlog_api/model"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(req dto.RefreshRequest) (*dto.TokenPair, error)
	RequiredAuth() fiber.Handler
	RequireRole(role string) fiber.Handler
}

type JWTServiceInterface interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(token string) (string, string, error)
}

type UserServiceInterface interface {
	GetUserProfile(userID string) (*dto.UserProfileResponse, error)
	UpdateUserProfile(userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	AdminGetUsers(page, limit int, search string) (*dto.AdminUserListResponse, error)
	AdminDeleteUser(userID string) error
	AdminGetAnalytics(days int) (*dto.AnalyticsResponse, error)
}

type QuestServiceInterface interface {
	GetQuests(userID string) (*dto.QuestListResponse, error)
	RecordProgress(userID, questID string, increment int) (*dto.QuestProgressResponse, error)
	CompleteQuest(userID, questID string) (*dto.CompleteQuestResponse, error)
	ActiveQuestsByGoal(goalType string) ([]model.Quest, error)
	AdminCreateQuest(req dto.CreateQuestRequest) (*dto.QuestResponse, error)
	AdminUpdateQuest(questID string, req dto.UpdateQuestRequest) (*dto.QuestResponse, error)
	AdminListQuests() ([]dto.QuestResponse, error)
}

type ScoreServiceInterface interface {
	GetBalance(userID string) (*dto.BalanceResponse, error)
	GetTransactions(userID string, page, limit int) (*dto.TransactionListResponse, error)
	GetLeaderboard(period string, limit int, userID string) (*dto.LeaderboardResponse, error)
}

type ItemServiceInterface interface {
	GetShopItems() ([]dto.ItemResponse, error)
	PurchaseItem(userID, itemID string, quantity int) (*dto.PurchaseItemResponse, error)
	UseItem(userID, itemID, targetUserID string) (*dto.UseItemResponse, error)
	GetInventory(userID string) (*dto.InventoryResponse, error)
	GetActiveEffects(userID string) (*dto.ActiveEffectListResponse, error)
	AdminCreateItem(req dto.CreateItemRequest) (*dto.ItemResponse, error)
	AdminUpdateItem(itemID string, req dto.UpdateItemRequest) (*dto.ItemResponse, error)
	AdminListItems() ([]dto.ItemResponse, error)
	AdminDeleteEffect(effectID string) error
}

type MealServiceInterface interface {
	LogMeal(userID string, req dto.LogMealRequest) (*dto.LogMealResponse, error)
	GetMeals(userID string, page, limit int, from, to *time.Time) (*dto.MealListResponse, error)
	DeleteMeal(userID, mealID string) error
	GetStreak(userID string) (*dto.StreakResponse, error)
	GetMealChart(userID string, days int) (*dto.MealChartResponse, error)
}

type MediaServiceInterface interface {
	UploadMealPhoto(userID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error)
}
