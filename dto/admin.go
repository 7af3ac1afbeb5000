package dto

import "time"

type CreateQuestRequest struct {
	Title       string     `json:"title" validate:"required,max=120"`
	Description string     `json:"description" validate:"max=1000"`
	GoalType    string     `json:"goal_type" validate:"required,oneof=log_meal streak spend_points"`
	Reward      int        `json:"reward" validate:"required,gt=0"`
	Requirement int        `json:"requirement" validate:"required,gt=0"`
	Frequency   string     `json:"frequency" validate:"required,oneof=ONCE DAILY"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (r CreateQuestRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateQuestRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=120"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Reward      *int       `json:"reward" validate:"omitempty,gt=0"`
	Requirement *int       `json:"requirement" validate:"omitempty,gt=0"`
	IsActive    *bool      `json:"is_active"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (r UpdateQuestRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CreateItemRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=1000"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Type        string `json:"type" validate:"required,oneof=consumable equipment"`
	EffectKind  string `json:"effect_kind"`
	Duration    int    `json:"duration" validate:"gte=0"`
	Cooldown    int    `json:"cooldown" validate:"gte=0"`
}

func (r CreateItemRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateItemRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Price       *int64  `json:"price" validate:"omitempty,gt=0"`
	EffectKind  *string `json:"effect_kind"`
	Duration    *int    `json:"duration" validate:"omitempty,gte=0"`
	Cooldown    *int    `json:"cooldown" validate:"omitempty,gte=0"`
	IsActive    *bool   `json:"is_active"`
}

func (r UpdateItemRequest) Validate() error {
	return GetValidator().Struct(r)
}

type AdminUserInfo struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
}

type AdminUserListResponse struct {
	Users []AdminUserInfo `json:"users"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type AnalyticsResponse struct {
	TotalUsers        int64        `json:"total_users"`
	TotalMeals        int64        `json:"total_meals"`
	TotalQuestsDone   int64        `json:"total_quests_done"`
	PointsIssued      int64        `json:"points_issued"`
	PointsSpent       int64        `json:"points_spent"`
	MealsPerDay       []ChartPoint `json:"meals_per_day"`
	ActiveEffectCount int64        `json:"active_effect_count"`
}
