package dto

import "time"

type ItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Type        string `json:"type"`
	EffectKind  string `json:"effect_kind,omitempty"`
	Duration    int    `json:"duration"`
	Cooldown    int    `json:"cooldown"`
	IsActive    bool   `json:"is_active"`
}

type PurchaseItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0,lte=100"`
}

func (r PurchaseItemRequest) Validate() error {
	return GetValidator().Struct(r)
}

type PurchaseItemResponse struct {
	ItemID    string `json:"item_id"`
	Quantity  int    `json:"quantity"`
	TotalCost int64  `json:"total_cost"`
	Balance   int64  `json:"balance"`
}

type UseItemRequest struct {
	TargetUserID string `json:"target_user_id,omitempty"`
}

type UseItemResponse struct {
	QuantityRemaining int        `json:"quantity_remaining"`
	CooldownEnds      *time.Time `json:"cooldown_ends,omitempty"`
	EffectApplied     bool       `json:"effect_applied"`
	EffectExpiresAt   *time.Time `json:"effect_expires_at,omitempty"`
}

type InventoryItemResponse struct {
	Item         ItemResponse `json:"item"`
	Quantity     int          `json:"quantity"`
	LastUsed     *time.Time   `json:"last_used,omitempty"`
	CooldownEnds *time.Time   `json:"cooldown_ends,omitempty"`
}

type InventoryResponse struct {
	Items []InventoryItemResponse `json:"items"`
}

type ActiveEffectResponse struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"item_id"`
	ItemName     string    `json:"item_name"`
	EffectKind   string    `json:"effect_kind"`
	SourceUserID string    `json:"source_user_id,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	IsActive     bool      `json:"is_active"`
}

type ActiveEffectListResponse struct {
	Effects []ActiveEffectResponse `json:"effects"`
}
