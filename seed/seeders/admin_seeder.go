package seeders

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/munchlog-app/munchlog_api/model"
	"github.com/munchlog-app/munchlog_api/shared"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminSeeder handles seeding admin users
type AdminSeeder struct {
	db *gorm.DB
}

func NewAdminSeeder(db *gorm.DB) *AdminSeeder {
	return &AdminSeeder{db: db}
}

// SeedAdmin creates a default admin user if none exists. The password comes
// from ADMIN_PASSWORD so production deploys never ship the default.
func (s *AdminSeeder) SeedAdmin() error {
	var existing model.User
	if err := s.db.Where("role = ?", shared.RoleAdmin).First(&existing).Error; err == nil {
		log.Println("Admin user already exists, skipping admin seeding")
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	id, _ := uuid.NewV7()
	now := time.Now()
	admin := model.User{
		ID:        id.String(),
		Email:     "admin@munchlog.app",
		Username:  "admin",
		Password:  string(hashed),
		Role:      shared.RoleAdmin,
		LastLogin: now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.Create(&admin).Error; err != nil {
		log.Printf("Error creating admin user: %v", err)
		return err
	}

	log.Printf("Created admin user: %s", admin.Email)
	return nil
}
