package seeders

import (
	"log"

	"github.com/google/uuid"
	"github.com/munchlog-app/munchlog_api/model"
	"github.com/munchlog-app/munchlog_api/shared"
	"gorm.io/gorm"
)

// QuestSeeder handles seeding the starter quest set
type QuestSeeder struct {
	db *gorm.DB
}

func NewQuestSeeder(db *gorm.DB) *QuestSeeder {
	return &QuestSeeder{db: db}
}

func (s *QuestSeeder) SeedQuests() error {
	quests := []model.Quest{
		{
			Title:       "First Bite",
			Description: "Log your very first meal",
			GoalType:    shared.GoalTypeLogMeal,
			Reward:      50,
			Requirement: 1,
			Frequency:   shared.FrequencyOnce,
			IsActive:    true,
		},
		{
			Title:       "Three Square Meals",
			Description: "Log three meals today",
			GoalType:    shared.GoalTypeLogMeal,
			Reward:      30,
			Requirement: 3,
			Frequency:   shared.FrequencyDaily,
			IsActive:    true,
		},
		{
			Title:       "Daily Logger",
			Description: "Log at least one meal today",
			GoalType:    shared.GoalTypeLogMeal,
			Reward:      10,
			Requirement: 1,
			Frequency:   shared.FrequencyDaily,
			IsActive:    true,
		},
		{
			Title:       "Week of Consistency",
			Description: "Reach a 7 day logging streak",
			GoalType:    shared.GoalTypeStreak,
			Reward:      200,
			Requirement: 7,
			Frequency:   shared.FrequencyOnce,
			IsActive:    true,
		},
		{
			Title:       "Big Spender",
			Description: "Spend 100 points in the shop",
			GoalType:    shared.GoalTypeSpendPoints,
			Reward:      25,
			Requirement: 100,
			Frequency:   shared.FrequencyOnce,
			IsActive:    true,
		},
	}

	created := 0
	for i := range quests {
		quest := &quests[i]

		var existing model.Quest
		if err := s.db.Where("title = ?", quest.Title).First(&existing).Error; err == nil {
			continue
		}

		id, _ := uuid.NewV7()
		quest.ID = id.String()
		if err := s.db.Create(quest).Error; err != nil {
			log.Printf("Error creating quest %q: %v", quest.Title, err)
			return err
		}
		created++
	}

	log.Printf("Seeded %d quests", created)
	return nil
}
