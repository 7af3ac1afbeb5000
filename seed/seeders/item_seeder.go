package seeders

import (
	"log"

	"github.com/google/uuid"
	"github.com/munchlog-app/munchlog_api/model"
	"github.com/munchlog-app/munchlog_api/shared"
	"gorm.io/gorm"
)

// ItemSeeder handles seeding the starter marketplace
type ItemSeeder struct {
	db *gorm.DB
}

func NewItemSeeder(db *gorm.DB) *ItemSeeder {
	return &ItemSeeder{db: db}
}

func (s *ItemSeeder) SeedItems() error {
	items := []model.Item{
		{
			Name:        "Streak Shield",
			Description: "Protects your streak from one missed day",
			Price:       150,
			Type:        shared.ItemTypeConsumable,
			EffectKind:  shared.EffectKindStreakShield,
			Duration:    48 * 3600,
			Cooldown:    24 * 3600,
			IsActive:    true,
		},
		{
			Name:        "Double Points",
			Description: "Quest rewards count double for an hour",
			Price:       100,
			Type:        shared.ItemTypeConsumable,
			EffectKind:  shared.EffectKindDoublePoints,
			Duration:    3600,
			Cooldown:    4 * 3600,
			IsActive:    true,
		},
		{
			Name:        "Point Siphon",
			Description: "Mark a rival for a point siphon",
			Price:       250,
			Type:        shared.ItemTypeConsumable,
			EffectKind:  shared.EffectKindPointSiphon,
			Duration:    1800,
			Cooldown:    12 * 3600,
			IsActive:    true,
		},
		{
			Name:        "Instant Boost",
			Description: "A one-shot pick-me-up with no lasting effect",
			Price:       40,
			Type:        shared.ItemTypeConsumable,
			EffectKind:  shared.EffectKindInstantBoost,
			Duration:    0,
			Cooldown:    3600,
			IsActive:    true,
		},
	}

	created := 0
	for i := range items {
		item := &items[i]

		var existing model.Item
		if err := s.db.Where("name = ?", item.Name).First(&existing).Error; err == nil {
			continue
		}

		id, _ := uuid.NewV7()
		item.ID = id.String()
		if err := s.db.Create(item).Error; err != nil {
			log.Printf("Error creating item %q: %v", item.Name, err)
			return err
		}
		created++
	}

	log.Printf("Seeded %d items", created)
	return nil
}
