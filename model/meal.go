package model

import "time"

type Meal struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	Name      string `gorm:"not null"`
	Kind      string // breakfast, lunch, dinner, snack
	Calories  int
	Note      string
	PhotoKey  string
	EatenAt   time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MealStreak struct {
	ID               string `gorm:"primaryKey"`
	UserID           string `gorm:"unique;not null"`
	Current          int    `gorm:"default:0"`
	Longest          int    `gorm:"default:0"`
	LastActivityDate *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
