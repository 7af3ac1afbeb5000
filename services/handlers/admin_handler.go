package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/munchlog-app/munchlog_api/dto"
	"github.com/munchlog-app/munchlog_api/shared"
)

type AdminHandler struct {
	questSvc QuestServiceInterface
	itemSvc  ItemServiceInterface
	userSvc  UserServiceInterface
}

func NewAdminHandler(questSvc QuestServiceInterface, itemSvc ItemServiceInterface, userSvc UserServiceInterface) *AdminHandler {
	return &AdminHandler{
		questSvc: questSvc,
		itemSvc:  itemSvc,
		userSvc:  userSvc,
	}
}

// @Summary Create a quest
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param questRequest body dto.CreateQuestRequest true "Quest definition"
// @Success 201 {object} shared.Response{data=dto.QuestResponse}
// @Router /api/v1/admin/quests [post]
func (h *AdminHandler) CreateQuest(c *fiber.Ctx) error {
	var req dto.CreateQuestRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	resp, err := h.questSvc.AdminCreateQuest(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Quest created", resp)
}

// @Summary Update a quest
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param questId path string true "Quest ID"
// @Param questRequest body dto.UpdateQuestRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.QuestResponse}
// @Router /api/v1/admin/quests/{questId} [put]
func (h *AdminHandler) UpdateQuest(c *fiber.Ctx) error {
	questID := c.Params("questId")

	var req dto.UpdateQuestRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	resp, err := h.questSvc.AdminUpdateQuest(questID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Quest updated", resp)
}

// @Summary List all quests
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Success 200 {object} shared.Response{data=[]dto.QuestResponse}
// @Router /api/v1/admin/quests [get]
func (h *AdminHandler) ListQuests(c *fiber.Ctx) error {
	resp, err := h.questSvc.AdminListQuests()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Create an item
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param itemRequest body dto.CreateItemRequest true "Item definition"
// @Success 201 {object} shared.Response{data=dto.ItemResponse}
// @Router /api/v1/admin/items [post]
func (h *AdminHandler) CreateItem(c *fiber.Ctx) error {
	var req dto.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	resp, err := h.itemSvc.AdminCreateItem(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Item created", resp)
}

// @Summary Update an item
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param itemId path string true "Item ID"
// @Param itemRequest body dto.UpdateItemRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.ItemResponse}
// @Router /api/v1/admin/items/{itemId} [put]
func (h *AdminHandler) UpdateItem(c *fiber.Ctx) error {
	itemID := c.Params("itemId")

	var req dto.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	resp, err := h.itemSvc.AdminUpdateItem(itemID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Item updated", resp)
}

// @Summary List all items
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Success 200 {object} shared.Response{data=[]dto.ItemResponse}
// @Router /api/v1/admin/items [get]
func (h *AdminHandler) ListItems(c *fiber.Ctx) error {
	resp, err := h.itemSvc.AdminListItems()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary List a user's effects
// @Description Every effect row for the user, expired rows included
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param userId path string true "User ID"
// @Success 200 {object} shared.Response{data=dto.ActiveEffectListResponse}
// @Router /api/v1/admin/users/{userId}/effects [get]
func (h *AdminHandler) GetUserEffects(c *fiber.Ctx) error {
	userID := c.Params("userId")

	resp, err := h.itemSvc.GetActiveEffects(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Delete an effect
// @Description Remove an effect row, expired or not
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param effectId path string true "Effect ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/effects/{effectId} [delete]
func (h *AdminHandler) DeleteEffect(c *fiber.Ctx) error {
	effectID := c.Params("effectId")

	if err := h.itemSvc.AdminDeleteEffect(effectID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Effect deleted", nil)
}

// @Summary List users
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param search query string false "Match against username or email"
// @Success 200 {object} shared.Response{data=dto.AdminUserListResponse}
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) GetUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	search := c.Query("search")

	resp, err := h.userSvc.AdminGetUsers(page, limit, search)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Delete a user
// @Description Remove the account and every row keyed to it
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param userId path string true "User ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/users/{userId} [delete]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID := c.Params("userId")

	if err := h.userSvc.AdminDeleteUser(userID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "User deleted", nil)
}

// @Summary Platform analytics
// @Description Counts, ledger totals, and meals-per-day series
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param days query int false "Window length in days" default(14)
// @Success 200 {object} shared.Response{data=dto.AnalyticsResponse}
// @Router /api/v1/admin/analytics [get]
func (h *AdminHandler) GetAnalytics(c *fiber.Ctx) error {
	days := c.QueryInt("days", 14)

	resp, err := h.userSvc.AdminGetAnalytics(days)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
