package model

import "time"

type Quest struct {
	ID          string `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	GoalType    string `gorm:"index"` // log_meal, streak, spend_points
	Reward      int    `gorm:"not null"`
	Requirement int    `gorm:"not null"`
	Frequency   string `gorm:"not null"` // ONCE, DAILY
	IsActive    bool   `gorm:"default:true"`
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserQuest is one progress cycle of a quest for a user. ONCE quests have a
// single row with the zero CycleDate; DAILY quests get a fresh row per
// calendar day. The composite unique index is the last line of defense
// against concurrent double completion.
type UserQuest struct {
	ID          string    `gorm:"primaryKey"`
	UserID      string    `gorm:"uniqueIndex:idx_user_quest_cycle;index"`
	QuestID     string    `gorm:"uniqueIndex:idx_user_quest_cycle"`
	CycleDate   time.Time `gorm:"uniqueIndex:idx_user_quest_cycle"`
	Progress    int       `gorm:"default:0"`
	IsCompleted bool      `gorm:"default:false"`
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
