package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/munchlog-app/munchlog_api/shared"
)

type LeaderboardHandler struct {
	scoreSvc ScoreServiceInterface
}

func NewLeaderboardHandler(scoreSvc ScoreServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{scoreSvc: scoreSvc}
}

// @Summary Get point balance
// @Description Current point balance of the authenticated user
// @Tags score
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.BalanceResponse}
// @Router /api/v1/score [get]
func (h *LeaderboardHandler) GetBalance(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.scoreSvc.GetBalance(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary List point transactions
// @Description Paged ledger history for the authenticated user
// @Tags score
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} shared.Response{data=dto.TransactionListResponse}
// @Router /api/v1/score/transactions [get]
func (h *LeaderboardHandler) GetTransactions(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	resp, err := h.scoreSvc.GetTransactions(userID, page, limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Get leaderboard
// @Description Top users by points, weekly or all-time
// @Tags score
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param period query string false "weekly or all_time" default(all_time)
// @Param limit query int false "Number of entries" default(50)
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	period := c.Query("period", "all_time")
	limit := c.QueryInt("limit", 50)

	resp, err := h.scoreSvc.GetLeaderboard(period, limit, userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
