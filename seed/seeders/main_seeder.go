package seeders

import (
	"log"

	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	adminSeeder := NewAdminSeeder(s.db)
	if err := adminSeeder.SeedAdmin(); err != nil {
		log.Printf("Admin seeding failed: %v", err)
		return err
	}

	questSeeder := NewQuestSeeder(s.db)
	if err := questSeeder.SeedQuests(); err != nil {
		log.Printf("Quest seeding failed: %v", err)
		return err
	}

	itemSeeder := NewItemSeeder(s.db)
	if err := itemSeeder.SeedItems(); err != nil {
		log.Printf("Item seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func (s *MainSeeder) SeedAdminOnly() error {
	return NewAdminSeeder(s.db).SeedAdmin()
}

func (s *MainSeeder) SeedQuestsOnly() error {
	return NewQuestSeeder(s.db).SeedQuests()
}

func (s *MainSeeder) SeedItemsOnly() error {
	return NewItemSeeder(s.db).SeedItems()
}
