package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/munchlog-app/munchlog_api/seed/seeders"
	"github.com/munchlog-app/munchlog_api/services"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, admin, quests, items")
		dsn      = flag.String("dsn", "", "Database DSN (overrides DATABASE_URL env var)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	database := *dsn
	if database == "" {
		database = os.Getenv("DATABASE_URL")
	}
	if database == "" {
		database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			envOr("DB_HOST", "localhost"),
			envOr("DB_USER", "postgres"),
			envOr("DB_PASSWORD", "postgres"),
			envOr("DB_NAME", "munchlog"),
			envOr("DB_PORT", "5432"))
	}

	db, err := gorm.Open(postgres.Open(database), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(services.Models()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "admin":
		if err := mainSeeder.SeedAdminOnly(); err != nil {
			log.Fatalf("Failed to seed admin: %v", err)
		}
	case "quests":
		if err := mainSeeder.SeedQuestsOnly(); err != nil {
			log.Fatalf("Failed to seed quests: %v", err)
		}
	case "items":
		if err := mainSeeder.SeedItemsOnly(); err != nil {
			log.Fatalf("Failed to seed items: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'admin', 'quests', or 'items'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func showHelp() {
	log.Println(`
Database Seeding Tool

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, admin, quests, items
  -dsn string
        Database DSN (overrides DATABASE_URL environment variable)
  -help
        Show this help message

Environment Variables:
  DATABASE_URL - Full postgres DSN
  DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME - Component fallbacks
`)
}
