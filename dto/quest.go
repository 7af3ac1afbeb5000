package dto

import "time"

type QuestResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	GoalType    string     `json:"goal_type"`
	Reward      int        `json:"reward"`
	Requirement int        `json:"requirement"`
	Frequency   string     `json:"frequency"`
	IsActive    bool       `json:"is_active"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

type UserQuestResponse struct {
	ID          string     `json:"id"`
	QuestID     string     `json:"quest_id"`
	Progress    int        `json:"progress"`
	Requirement int        `json:"requirement"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type QuestProgressRequest struct {
	Increment int `json:"increment" validate:"required,gt=0"`
}

func (r QuestProgressRequest) Validate() error {
	return GetValidator().Struct(r)
}

type QuestProgressResponse struct {
	Progress     int  `json:"progress"`
	IsCompleted  bool `json:"is_completed"`
	ScoreAwarded int  `json:"score_awarded"`
}

type CompleteQuestResponse struct {
	Reward    int               `json:"reward"`
	UserQuest UserQuestResponse `json:"user_quest"`
}

type QuestListResponse struct {
	Quests []QuestWithProgress `json:"quests"`
}

type QuestWithProgress struct {
	QuestResponse
	Progress    int  `json:"progress"`
	IsCompleted bool `json:"is_completed"`
}
