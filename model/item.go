package model

import "time"

type Item struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	Price       int64  `gorm:"not null"`
	Type        string `gorm:"not null"` // consumable, equipment
	EffectKind  string
	Duration    int  `gorm:"default:0"` // seconds; 0 = instantaneous
	Cooldown    int  `gorm:"default:0"` // seconds between uses
	IsActive    bool `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserItem is the inventory row per (user, item). LastUsed nil means no
// cooldown has ever started.
type UserItem struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"uniqueIndex:idx_user_item;index"`
	ItemID    string `gorm:"uniqueIndex:idx_user_item"`
	Quantity  int    `gorm:"default:0"`
	LastUsed  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActiveEffect rows are only written for timed effects (duration > 0).
// Whether an effect is live is derived from ExpiresAt at read time; expired
// rows stay for history until an admin deletes them.
type ActiveEffect struct {
	ID           string `gorm:"primaryKey"`
	UserID       string `gorm:"index"`
	ItemID       string `gorm:"index"`
	SourceUserID string
	EffectKind   string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

func (e *ActiveEffect) IsActive(now time.Time) bool {
	return e.ExpiresAt.After(now)
}
