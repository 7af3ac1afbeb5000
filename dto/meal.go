package dto

import "time"

type LogMealRequest struct {
	Name     string     `json:"name" validate:"required,max=120"`
	Kind     string     `json:"kind" validate:"required,oneof=breakfast lunch dinner snack"`
	Calories int        `json:"calories" validate:"gte=0,lte=10000"`
	Note     string     `json:"note" validate:"max=500"`
	PhotoKey string     `json:"photo_key"`
	EatenAt  *time.Time `json:"eaten_at"`
}

func (r LogMealRequest) Validate() error {
	return GetValidator().Struct(r)
}

type MealResponse struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Kind     string    `json:"kind"`
	Calories int       `json:"calories"`
	Note     string    `json:"note,omitempty"`
	PhotoKey string    `json:"photo_key,omitempty"`
	PhotoURL string    `json:"photo_url,omitempty"`
	EatenAt  time.Time `json:"eaten_at"`
}

type LogMealResponse struct {
	Meal          MealResponse            `json:"meal"`
	Streak        StreakResponse          `json:"streak"`
	QuestProgress []QuestProgressResponse `json:"quest_progress,omitempty"`
}

type MealListResponse struct {
	Meals []MealResponse `json:"meals"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type StreakResponse struct {
	Current      int        `json:"current"`
	Longest      int        `json:"longest"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
}

type ChartPoint struct {
	Day      string `json:"day"`
	Meals    int    `json:"meals"`
	Calories int    `json:"calories"`
}

type MealChartResponse struct {
	Days []ChartPoint `json:"days"`
}
