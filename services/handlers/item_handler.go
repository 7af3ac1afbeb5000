package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/munchlog-app/munchlog_api/dto"
	"github.com/munchlog-app/munchlog_api/shared"
)

type ItemHandler struct {
	itemSvc ItemServiceInterface
}

func NewItemHandler(itemSvc ItemServiceInterface) *ItemHandler {
	return &ItemHandler{itemSvc: itemSvc}
}

// @Summary List shop items
// @Description Items currently for sale
// @Tags items
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=[]dto.ItemResponse}
// @Router /api/v1/shop/items [get]
func (h *ItemHandler) GetShopItems(c *fiber.Ctx) error {
	resp, err := h.itemSvc.GetShopItems()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Purchase an item
// @Description Debit points and add the item to the caller's inventory
// @Tags items
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param itemId path string true "Item ID"
// @Param purchaseRequest body dto.PurchaseItemRequest true "Quantity to buy"
// @Success 200 {object} shared.Response{data=dto.PurchaseItemResponse}
// @Router /api/v1/shop/items/{itemId}/purchase [post]
func (h *ItemHandler) PurchaseItem(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	itemID := c.Params("itemId")

	var req dto.PurchaseItemRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return shared.NewBadRequestError(err, "Validation failed").WithData(dto.FormatValidationErrors(err))
	}

	resp, err := h.itemSvc.PurchaseItem(userID, itemID, req.Quantity)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Item purchased", resp)
}

// @Summary Use an item
// @Description Consume one unit, start the cooldown, and apply the item's effect
// @Tags items
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param itemId path string true "Item ID"
// @Param useRequest body dto.UseItemRequest false "Optional target user"
// @Success 200 {object} shared.Response{data=dto.UseItemResponse}
// @Router /api/v1/inventory/{itemId}/use [post]
func (h *ItemHandler) UseItem(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	itemID := c.Params("itemId")

	var req dto.UseItemRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return shared.NewBadRequestError(err, "Invalid request body")
		}
	}

	resp, err := h.itemSvc.UseItem(userID, itemID, req.TargetUserID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Item used", resp)
}

// @Summary Get inventory
// @Description Items the caller owns, with cooldown state
// @Tags items
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.InventoryResponse}
// @Router /api/v1/inventory [get]
func (h *ItemHandler) GetInventory(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.itemSvc.GetInventory(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary List active effects
// @Description Effects on the caller, live or expired
// @Tags items
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.ActiveEffectListResponse}
// @Router /api/v1/effects [get]
func (h *ItemHandler) GetActiveEffects(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.itemSvc.GetActiveEffects(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
