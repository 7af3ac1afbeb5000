package services

import (
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/go-co-op/gocron/v2"
	"github.com/munchlog-app/munchlog_api/model"
	"github.com/munchlog-app/munchlog_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SchedulerService runs the background sweeps: streaks broken by a missed
// day and quests that have run past their window.
type SchedulerService struct {
	appContext.DefaultService

	db      *gorm.DB
	clock   shared.Clock
	itemSvc *ItemService

	scheduler gocron.Scheduler
}

const SCHEDULER_SVC = "scheduler_svc"

func (svc SchedulerService) Id() string {
	return SCHEDULER_SVC
}

func NewSchedulerService(db *gorm.DB, clock shared.Clock, itemSvc *ItemService) *SchedulerService {
	return &SchedulerService{db: db, clock: clock, itemSvc: itemSvc}
}

func (svc *SchedulerService) Start() error {
	svc.db = svc.Service(POSTGRES_SVC).(*PostgresService).Db()
	svc.clock = shared.SystemClock
	svc.itemSvc = svc.Service(ITEM_SVC).(*ItemService)

	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	svc.scheduler = sched

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(func() {
			if err := svc.SweepBrokenStreaks(); err != nil {
				log.WithError(err).Error("Streak sweep failed")
			}
		}),
	)
	if err != nil {
		return err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			if err := svc.SweepExpiredQuests(); err != nil {
				log.WithError(err).Error("Quest window sweep failed")
			}
		}),
	)
	if err != nil {
		return err
	}

	sched.Start()
	log.Println("Scheduler started")
	return nil
}

func (svc *SchedulerService) Shutdown() {
	if svc.scheduler != nil {
		_ = svc.scheduler.Shutdown()
	}
}

// SweepBrokenStreaks zeroes the counter for users whose last activity was
// before yesterday. A live streak_shield effect spares the user for one
// sweep.
func (svc *SchedulerService) SweepBrokenStreaks() error {
	now := svc.clock.Now()
	cutoff := shared.StartOfDay(now).AddDate(0, 0, -1)

	var streaks []model.MealStreak
	err := svc.db.Where("current > 0 AND (last_activity_date IS NULL OR last_activity_date < ?)", cutoff).
		Find(&streaks).Error
	if err != nil {
		return err
	}

	reset := 0
	for i := range streaks {
		streak := &streaks[i]

		if svc.itemSvc != nil {
			shielded, err := svc.itemSvc.HasActiveEffect(streak.UserID, shared.EffectKindStreakShield)
			if err == nil && shielded {
				continue
			}
		}

		res := svc.db.Model(&model.MealStreak{}).
			Where("id = ? AND current = ?", streak.ID, streak.Current).
			Updates(map[string]interface{}{"current": 0, "updated_at": now})
		if res.Error != nil {
			log.WithError(res.Error).WithField("user_id", streak.UserID).Error("Failed to reset streak")
			continue
		}
		if res.RowsAffected > 0 {
			reset++
		}
	}

	if reset > 0 {
		log.WithField("count", reset).Info("Reset broken streaks")
	}
	return nil
}

// SweepExpiredQuests soft-disables quests whose end date has passed.
func (svc *SchedulerService) SweepExpiredQuests() error {
	now := svc.clock.Now()
	res := svc.db.Model(&model.Quest{}).
		Where("is_active = ? AND end_date IS NOT NULL AND end_date < ?", true, now).
		Updates(map[string]interface{}{"is_active": false, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.WithField("count", res.RowsAffected).Info("Deactivated expired quests")
	}
	return nil
}
