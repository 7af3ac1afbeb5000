package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	_ "github.com/munchlog-app/munchlog_api/docs"
	"github.com/munchlog-app/munchlog_api/services/handlers"
	"github.com/munchlog-app/munchlog_api/shared"
)

type HttpService struct {
	appContext.DefaultService

	authSvc  *AuthService
	userSvc  *UserService
	questSvc *QuestService
	scoreSvc *ScoreService
	itemSvc  *ItemService
	mealSvc  *MealService
	mediaSvc *MediaService

	monitoringSvc *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *appContext.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.userSvc = svc.Service(USER_SVC).(*UserService)
	svc.questSvc = svc.Service(QUEST_SVC).(*QuestService)
	svc.scoreSvc = svc.Service(SCORE_SVC).(*ScoreService)
	svc.itemSvc = svc.Service(ITEM_SVC).(*ItemService)
	svc.mealSvc = svc.Service(MEAL_SVC).(*MealService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	if monitoringSvc, ok := svc.Service(MONITORING_SVC).(*MonitoringService); ok {
		svc.monitoringSvc = monitoringSvc
	}

	app := fiber.New(fiber.Config{
		AppName:      SERVICE_NAME,
		JSONEncoder:  shared.JSONMarshal,
		JSONDecoder:  shared.JSONUnmarshal,
		ErrorHandler: svc.handleError,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	if svc.monitoringSvc != nil {
		app.Use(MonitoringMiddleware(svc.monitoringSvc))
	}

	svc.registerRoutes(app)

	svc.server = app
	log.Printf("HTTP server listening on :%v", svc.port)
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	authHandler := handlers.NewAuthHandler(svc.authSvc, svc.userSvc)
	mealHandler := handlers.NewMealHandler(svc.mealSvc, svc.mediaSvc)
	questHandler := handlers.NewQuestHandler(svc.questSvc)
	itemHandler := handlers.NewItemHandler(svc.itemSvc)
	leaderboardHandler := handlers.NewLeaderboardHandler(svc.scoreSvc)
	adminHandler := handlers.NewAdminHandler(svc.questSvc, svc.itemSvc, svc.userSvc)

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	v1.Post("/register", authHandler.Register)
	v1.Post("/login", authHandler.Login)
	v1.Post("/refresh", authHandler.Refresh)

	authed := v1.Group("", svc.authSvc.RequiredAuth())

	authed.Get("/profile", authHandler.GetProfile)
	authed.Put("/profile", authHandler.UpdateProfile)

	authed.Post("/meals", mealHandler.LogMeal)
	authed.Get("/meals", mealHandler.GetMeals)
	authed.Get("/meals/chart", mealHandler.GetMealChart)
	authed.Post("/meals/photo", mealHandler.UploadPhoto)
	authed.Delete("/meals/:mealId", mealHandler.DeleteMeal)
	authed.Get("/streak", mealHandler.GetStreak)

	authed.Get("/quests", questHandler.GetQuests)
	authed.Post("/quests/:questId/progress", questHandler.RecordProgress)
	authed.Post("/quests/:questId/complete", questHandler.CompleteQuest)

	authed.Get("/score", leaderboardHandler.GetBalance)
	authed.Get("/score/transactions", leaderboardHandler.GetTransactions)
	authed.Get("/leaderboard", leaderboardHandler.GetLeaderboard)

	authed.Get("/shop/items", itemHandler.GetShopItems)
	authed.Post("/shop/items/:itemId/purchase", itemHandler.PurchaseItem)
	authed.Get("/inventory", itemHandler.GetInventory)
	authed.Post("/inventory/:itemId/use", itemHandler.UseItem)
	authed.Get("/effects", itemHandler.GetActiveEffects)

	admin := authed.Group("/admin", svc.authSvc.RequireRole(shared.RoleAdmin))
	admin.Get("/quests", adminHandler.ListQuests)
	admin.Post("/quests", adminHandler.CreateQuest)
	admin.Put("/quests/:questId", adminHandler.UpdateQuest)
	admin.Get("/items", adminHandler.ListItems)
	admin.Post("/items", adminHandler.CreateItem)
	admin.Put("/items/:itemId", adminHandler.UpdateItem)
	admin.Delete("/effects/:effectId", adminHandler.DeleteEffect)
	admin.Get("/users", adminHandler.GetUsers)
	admin.Get("/users/:userId/effects", adminHandler.GetUserEffects)
	admin.Delete("/users/:userId", adminHandler.DeleteUser)
	admin.Get("/analytics", adminHandler.GetAnalytics)
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= 500 {
			log.WithError(appErr.Err).Error(appErr.Message)
		}
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ResponseNotFound(c)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("Unhandled error")
	return shared.ResponseInternalError(c)
}
