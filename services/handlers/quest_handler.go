package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/munchlog-app/munchlog_api/dto"
	"github.com/munchlog-app/munchlog_api/shared"
)

type QuestHandler struct {
	questSvc QuestServiceInterface
}

func NewQuestHandler(questSvc QuestServiceInterface) *QuestHandler {
	return &QuestHandler{questSvc: questSvc}
}

// @Summary List quests
// @Description Active quests with the caller's current-cycle progress
// @Tags quests
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.QuestListResponse}
// @Router /api/v1/quests [get]
func (h *QuestHandler) GetQuests(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.questSvc.GetQuests(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Record quest progress
// @Description Add progress to the caller's current quest cycle; completion credits the reward
// @Tags quests
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param questId path string true "Quest ID"
// @Param progressRequest body dto.QuestProgressRequest true "Progress increment"
// @Success 200 {object} shared.Response{data=dto.QuestProgressResponse}
// @Router /api/v1/quests/{questId}/progress [post]
func (h *QuestHandler) RecordProgress(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	questID := c.Params("questId")

	var req dto.QuestProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return shared.NewBadRequestError(err, "Validation failed").WithData(dto.FormatValidationErrors(err))
	}

	resp, err := h.questSvc.RecordProgress(userID, questID, req.Increment)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Progress recorded", resp)
}

// @Summary Complete a quest
// @Description Settle the remaining requirement in one step and credit the reward
// @Tags quests
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param questId path string true "Quest ID"
// @Success 200 {object} shared.Response{data=dto.CompleteQuestResponse}
// @Router /api/v1/quests/{questId}/complete [post]
func (h *QuestHandler) CompleteQuest(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	questID := c.Params("questId")

	resp, err := h.questSvc.CompleteQuest(userID, questID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Quest completed", resp)
}
