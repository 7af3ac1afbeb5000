package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/munchlog-app/munchlog_api/dto"
	"github.com/munchlog-app/munchlog_api/shared"
)

type MealHandler struct {
	mealSvc  MealServiceInterface
	mediaSvc MediaServiceInterface
}

func NewMealHandler(mealSvc MealServiceInterface, mediaSvc MediaServiceInterface) *MealHandler {
	return &MealHandler{
		mealSvc:  mealSvc,
		mediaSvc: mediaSvc,
	}
}

// @Summary Log a meal
// @Description Record a meal, advance the streak, and settle any open quests
// @Tags meals
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param mealRequest body dto.LogMealRequest true "Meal details"
// @Success 201 {object} shared.Response{data=dto.LogMealResponse}
// @Router /api/v1/meals [post]
func (h *MealHandler) LogMeal(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.LogMealRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	resp, err := h.mealSvc.LogMeal(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Meal logged successfully", resp)
}

// @Summary List meals
// @Description Paged meal history for the authenticated user
// @Tags meals
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param from query string false "RFC3339 lower bound on eaten_at"
// @Param to query string false "RFC3339 upper bound on eaten_at"
// @Success 200 {object} shared.Response{data=dto.MealListResponse}
// @Router /api/v1/meals [get]
func (h *MealHandler) GetMeals(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return shared.NewBadRequestError(err, "Invalid from date")
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return shared.NewBadRequestError(err, "Invalid to date")
		}
		to = &t
	}

	resp, err := h.mealSvc.GetMeals(userID, page, limit, from, to)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Delete a meal
// @Description Remove one of the authenticated user's meals
// @Tags meals
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param mealId path string true "Meal ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/meals/{mealId} [delete]
func (h *MealHandler) DeleteMeal(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	mealID := c.Params("mealId")

	if err := h.mealSvc.DeleteMeal(userID, mealID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Meal deleted successfully", nil)
}

// @Summary Get streak
// @Description Current and longest consecutive-day logging streak
// @Tags meals
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.StreakResponse}
// @Router /api/v1/streak [get]
func (h *MealHandler) GetStreak(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.mealSvc.GetStreak(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Meal chart
// @Description Meals and calories per day over a rolling window
// @Tags meals
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param days query int false "Window length in days" default(14)
// @Success 200 {object} shared.Response{data=dto.MealChartResponse}
// @Router /api/v1/meals/chart [get]
func (h *MealHandler) GetMealChart(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	days := c.QueryInt("days", 14)

	resp, err := h.mealSvc.GetMealChart(userID, days)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Upload a meal photo
// @Description Store a photo and return its object key for meal logging
// @Tags meals
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param photo formData file true "Photo file (jpeg, png, webp)"
// @Success 201 {object} shared.Response{data=dto.MediaUploadResponse}
// @Router /api/v1/meals/photo [post]
func (h *MealHandler) UploadPhoto(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	file, err := c.FormFile("photo")
	if err != nil {
		return shared.NewBadRequestError(err, "Photo file is required")
	}

	resp, err := h.mediaSvc.UploadMealPhoto(userID, file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Photo uploaded successfully", resp)
}
