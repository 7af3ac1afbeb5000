package model

import "time"

// Score is the point balance, one row per user, created lazily on first
// credit. Points never go negative: debits are guarded by a conditional
// update on the balance.
type Score struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"unique;not null"`
	Points    int64  `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScoreTransaction is the append-only ledger entry paired with every balance
// change. Written in the same transaction as the Score update.
type ScoreTransaction struct {
	ID         string `gorm:"primaryKey"`
	ScoreID    string `gorm:"index"`
	UserID     string `gorm:"index"`
	Amount     int64  `gorm:"not null"`
	Reason     string
	SourceType string // quest, item, purchase, admin
	SourceID   string
	CreatedAt  time.Time
}
