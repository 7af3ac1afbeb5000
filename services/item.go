package services

import (
	"context"
	"errors"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/munchlog-app/munchlog_api/dto"
	"github.com/munchlog-app/munchlog_api/model"
	"github.com/munchlog-app/munchlog_api/shared"
	"gorm.io/gorm"
)

// ItemService is the marketplace and effect engine: inventory counts,
// per-item cooldowns, and timed effects whose liveness is derived from
// expires_at at read time.
type ItemService struct {
	appContext.DefaultService

	db       *gorm.DB
	clock    shared.Clock
	scoreSvc *ScoreService
	redisSvc *RedisService
}

const ITEM_SVC = "item_svc"

const (
	shopCacheKey = "shop:items"
	shopCacheTTL = 60 * time.Second
)

func (svc ItemService) Id() string {
	return ITEM_SVC
}

func NewItemService(db *gorm.DB, clock shared.Clock, scoreSvc *ScoreService) *ItemService {
	return &ItemService{db: db, clock: clock, scoreSvc: scoreSvc}
}

func (svc *ItemService) Start() error {
	svc.db = svc.Service(POSTGRES_SVC).(*PostgresService).Db()
	svc.clock = shared.SystemClock
	svc.scoreSvc = svc.Service(SCORE_SVC).(*ScoreService)
	if redisSvc, ok := svc.Service(REDIS_SVC).(*RedisService); ok {
		svc.redisSvc = redisSvc
	}
	return nil
}

func (svc *ItemService) GetShopItems() ([]dto.ItemResponse, error) {
	if svc.redisSvc != nil {
		var cached []dto.ItemResponse
		if err := svc.redisSvc.GetJSON(context.Background(), shopCacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	var items []model.Item
	if err := svc.db.Where("is_active = ?", true).Order("price").Find(&items).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to load items")
	}

	resp := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, mapItem(&items[i]))
	}

	if svc.redisSvc != nil {
		_ = svc.redisSvc.Set(context.Background(), shopCacheKey, resp, shopCacheTTL)
	}
	return resp, nil
}

// PurchaseItem debits the price and increments the inventory row in one
// transaction.
func (svc *ItemService) PurchaseItem(userID, itemID string, quantity int) (*dto.PurchaseItemResponse, error) {
	if quantity <= 0 {
		return nil, shared.NewBadRequestError(nil, "Quantity must be positive")
	}

	var resp *dto.PurchaseItemResponse
	err := svc.db.Transaction(func(tx *gorm.DB) error {
		item, err := svc.loadItem(tx, itemID)
		if err != nil {
			return err
		}
		if !item.IsActive {
			return shared.NewIneligibleError(nil, "Item is not for sale")
		}

		totalCost := item.Price * int64(quantity)
		score, err := svc.scoreSvc.SpendTx(tx, userID, totalCost,
			"Purchase: "+item.Name, shared.SourceTypePurchase, item.ID)
		if err != nil {
			return err
		}

		now := svc.clock.Now()
		inv, err := svc.loadOrCreateInventory(tx, userID, item.ID, now)
		if err != nil {
			return err
		}

		res := tx.Model(&model.UserItem{}).
			Where("id = ?", inv.ID).
			Updates(map[string]interface{}{
				"quantity":   gorm.Expr("quantity + ?", quantity),
				"updated_at": now,
			})
		if res.Error != nil {
			return shared.NewInternalError(res.Error, "Failed to update inventory")
		}

		resp = &dto.PurchaseItemResponse{
			ItemID:    item.ID,
			Quantity:  inv.Quantity + quantity,
			TotalCost: totalCost,
			Balance:   score.Points,
		}
		return nil
	})
	return resp, err
}

// UseItem consumes one unit, starts the cooldown, and applies the item's
// effect to the resolved target. The decrement is a conditional update so a
// concurrent second use is rejected rather than double-applied.
func (svc *ItemService) UseItem(userID, itemID, targetUserID string) (*dto.UseItemResponse, error) {
	var resp *dto.UseItemResponse
	err := svc.db.Transaction(func(tx *gorm.DB) error {
		item, err := svc.loadItem(tx, itemID)
		if err != nil {
			return err
		}
		if !item.IsActive {
			return shared.NewIneligibleError(nil, "Item is not available")
		}

		var inv model.UserItem
		err = tx.Where("user_id = ? AND item_id = ?", userID, item.ID).First(&inv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewIneligibleError(nil, "Item not owned")
		}
		if err != nil {
			return shared.NewInternalError(err, "Failed to load inventory")
		}
		if inv.Quantity < 1 {
			return shared.NewIneligibleError(nil, "No items left")
		}

		now := svc.clock.Now()
		if inv.LastUsed != nil && item.Cooldown > 0 {
			ends := inv.LastUsed.Add(time.Duration(item.Cooldown) * time.Second)
			if now.Before(ends) {
				return shared.NewIneligibleError(nil, "Item is on cooldown").
					WithData(dto.UseItemResponse{
						QuantityRemaining: inv.Quantity,
						CooldownEnds:      &ends,
					})
			}
		}

		target := userID
		if targetUserID != "" && targetUserID != userID {
			var targetUser model.User
			if err := tx.Where("id = ?", targetUserID).First(&targetUser).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return shared.NewNotFoundError(err, "Target user not found")
				}
				return shared.NewInternalError(err, "Failed to load target user")
			}
			target = targetUser.ID
		}

		query := tx.Model(&model.UserItem{}).
			Where("id = ? AND quantity >= 1", inv.ID)
		if inv.LastUsed == nil {
			query = query.Where("last_used IS NULL")
		} else {
			query = query.Where("last_used = ?", *inv.LastUsed)
		}
		res := query.Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - 1"),
			"last_used":  now,
			"updated_at": now,
		})
		if res.Error != nil {
			return shared.NewInternalError(res.Error, "Failed to update inventory")
		}
		if res.RowsAffected == 0 {
			return shared.NewConflictError(nil, "Item was used concurrently")
		}

		effectApplied := false
		var effectExpiry *time.Time
		if item.Duration > 0 {
			id, _ := uuid.NewV7()
			expiresAt := now.Add(time.Duration(item.Duration) * time.Second)
			effect := model.ActiveEffect{
				ID:           id.String(),
				UserID:       target,
				ItemID:       item.ID,
				SourceUserID: userID,
				EffectKind:   item.EffectKind,
				ExpiresAt:    expiresAt,
				CreatedAt:    now,
			}
			if err := tx.Create(&effect).Error; err != nil {
				return shared.NewInternalError(err, "Failed to apply effect")
			}
			effectApplied = true
			effectExpiry = &expiresAt
		}

		var cooldownEnds *time.Time
		if item.Cooldown > 0 {
			ends := now.Add(time.Duration(item.Cooldown) * time.Second)
			cooldownEnds = &ends
		}

		RecordItemUse(item.EffectKind)

		resp = &dto.UseItemResponse{
			QuantityRemaining: inv.Quantity - 1,
			CooldownEnds:      cooldownEnds,
			EffectApplied:     effectApplied,
			EffectExpiresAt:   effectExpiry,
		}
		return nil
	})
	return resp, err
}

func (svc *ItemService) GetInventory(userID string) (*dto.InventoryResponse, error) {
	var rows []model.UserItem
	if err := svc.db.Where("user_id = ? AND quantity > 0", userID).Find(&rows).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to load inventory")
	}

	resp := &dto.InventoryResponse{Items: make([]dto.InventoryItemResponse, 0, len(rows))}
	for i := range rows {
		row := &rows[i]
		item, err := svc.loadItem(svc.db, row.ItemID)
		if err != nil {
			continue
		}

		entry := dto.InventoryItemResponse{
			Item:     mapItem(item),
			Quantity: row.Quantity,
			LastUsed: row.LastUsed,
		}
		if row.LastUsed != nil && item.Cooldown > 0 {
			ends := row.LastUsed.Add(time.Duration(item.Cooldown) * time.Second)
			if svc.clock.Now().Before(ends) {
				entry.CooldownEnds = &ends
			}
		}
		resp.Items = append(resp.Items, entry)
	}
	return resp, nil
}

// GetActiveEffects lists effect rows for a user. Liveness is computed from
// expires_at, never trusted from storage; expired rows stay visible until an
// admin clears them.
func (svc *ItemService) GetActiveEffects(userID string) (*dto.ActiveEffectListResponse, error) {
	var effects []model.ActiveEffect
	if err := svc.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&effects).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to load effects")
	}

	now := svc.clock.Now()
	resp := &dto.ActiveEffectListResponse{Effects: make([]dto.ActiveEffectResponse, 0, len(effects))}
	for i := range effects {
		effect := &effects[i]

		itemName := ""
		if item, err := svc.loadItem(svc.db, effect.ItemID); err == nil {
			itemName = item.Name
		}

		resp.Effects = append(resp.Effects, dto.ActiveEffectResponse{
			ID:           effect.ID,
			ItemID:       effect.ItemID,
			ItemName:     itemName,
			EffectKind:   effect.EffectKind,
			SourceUserID: effect.SourceUserID,
			ExpiresAt:    effect.ExpiresAt,
			IsActive:     effect.IsActive(now),
		})
	}
	return resp, nil
}

// HasActiveEffect reports whether the user currently has a live effect of
// the given kind.
func (svc *ItemService) HasActiveEffect(userID, effectKind string) (bool, error) {
	var count int64
	err := svc.db.Model(&model.ActiveEffect{}).
		Where("user_id = ? AND effect_kind = ? AND expires_at > ?", userID, effectKind, svc.clock.Now()).
		Count(&count).Error
	if err != nil {
		return false, shared.NewInternalError(err, "Failed to check effects")
	}
	return count > 0, nil
}

func (svc *ItemService) loadItem(tx *gorm.DB, itemID string) (*model.Item, error) {
	var item model.Item
	if err := tx.Where("id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Item not found")
		}
		return nil, shared.NewInternalError(err, "Failed to load item")
	}
	return &item, nil
}

func (svc *ItemService) loadOrCreateInventory(tx *gorm.DB, userID, itemID string, now time.Time) (*model.UserItem, error) {
	var inv model.UserItem
	err := tx.Where("user_id = ? AND item_id = ?", userID, itemID).First(&inv).Error
	if err == nil {
		return &inv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewInternalError(err, "Failed to load inventory")
	}

	id, _ := uuid.NewV7()
	inv = model.UserItem{
		ID:        id.String(),
		UserID:    userID,
		ItemID:    itemID,
		Quantity:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Create(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, shared.NewConflictError(err, "Inventory updated concurrently")
		}
		return nil, shared.NewInternalError(err, "Failed to create inventory")
	}
	return &inv, nil
}

func mapItem(item *model.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Type:        item.Type,
		EffectKind:  item.EffectKind,
		Duration:    item.Duration,
		Cooldown:    item.Cooldown,
		IsActive:    item.IsActive,
	}
}

// ==================== ADMIN ====================

func (svc *ItemService) AdminCreateItem(req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed").WithData(dto.FormatValidationErrors(err))
	}

	id, _ := uuid.NewV7()
	item := model.Item{
		ID:          id.String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Type:        req.Type,
		EffectKind:  req.EffectKind,
		Duration:    req.Duration,
		Cooldown:    req.Cooldown,
		IsActive:    true,
	}
	if err := svc.db.Create(&item).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to create item")
	}

	svc.invalidateShopCache()
	resp := mapItem(&item)
	return &resp, nil
}

func (svc *ItemService) invalidateShopCache() {
	if svc.redisSvc != nil {
		_ = svc.redisSvc.Delete(context.Background(), shopCacheKey)
	}
}

func (svc *ItemService) AdminUpdateItem(itemID string, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed").WithData(dto.FormatValidationErrors(err))
	}

	item, err := svc.loadItem(svc.db, itemID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.EffectKind != nil {
		item.EffectKind = *req.EffectKind
	}
	if req.Duration != nil {
		item.Duration = *req.Duration
	}
	if req.Cooldown != nil {
		item.Cooldown = *req.Cooldown
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := svc.db.Save(item).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to update item")
	}

	svc.invalidateShopCache()
	resp := mapItem(item)
	return &resp, nil
}

func (svc *ItemService) AdminListItems() ([]dto.ItemResponse, error) {
	var items []model.Item
	if err := svc.db.Order("created_at").Find(&items).Error; err != nil {
		return nil, shared.NewInternalError(err, "Failed to load items")
	}

	resp := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, mapItem(&items[i]))
	}
	return resp, nil
}

// AdminDeleteEffect removes an effect row outright, expired or not.
func (svc *ItemService) AdminDeleteEffect(effectID string) error {
	res := svc.db.Where("id = ?", effectID).Delete(&model.ActiveEffect{})
	if res.Error != nil {
		return shared.NewInternalError(res.Error, "Failed to delete effect")
	}
	if res.RowsAffected == 0 {
		return shared.NewNotFoundError(nil, "Effect not found")
	}
	return nil
}
