package jobs

import (
	"housemanagement/config"
	"housemanagement/internal/database"
	"housemanagement/internal/repositories"
	"housemanagement/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	Hourly       = services.Hourly
	DailyMorning = services.DailyMorning
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	db database.DB,
	services services.Service,
	repos repositories.Repository,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, no jobs registered")
		return nil
	}

	digestJob := NewPendingInquiryDigestJob(
		db,
		repos.Inquiry,
		services.Notification,
		services.Mailer,
		DailyMorning,
	)
	if err := schedulerService.AddJob(digestJob); err != nil {
		return log.Err("failed to register pending inquiry digest job", err)
	}
	log.Info("Registered pending inquiry digest job", "schedule", "daily")

	return nil
}
