package main

import (
	"github.com/munchlog-app/munchlog_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// @title Munchlog API
// @version 1.0
// @description Gamified meal tracking: meal log, streaks, quests, point ledger and marketplace
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file found, using system environment")
	}

	ctx, err := context.NewCtx(
		&services.JWTService{},
		&services.PostgresService{},
		&services.RedisService{},
		&services.MinIOService{},
		&services.MediaService{},

		&services.AuthService{},
		&services.ScoreService{},
		&services.QuestService{},
		&services.ItemService{},
		&services.MealService{},
		&services.UserService{},
		&services.SchedulerService{},

		&services.MonitoringService{},
		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
