package services

import (
	"housemanagement/config"
	"housemanagement/internal/contract"
	"housemanagement/internal/database"
	"housemanagement/internal/events"
	"housemanagement/internal/repositories"
)

type Service struct {
	Transaction  *TransactionService
	Scheduler    *SchedulerService
	Auth         *AuthService
	Mailer       Mailer
	Files        FileStore
	Notification *NotificationService
	Privacy      *PrivacyService
	Contract     *contract.Generator
}

// New builds every service and subscribes the notification handlers to bus.
func New(
	db database.DB,
	repos repositories.Repository,
	cfg config.Config,
	bus *events.EventBus,
) (Service, error) {
	files, err := NewFileStore(cfg)
	if err != nil {
		return Service{}, err
	}

	mailer := NewMailer(cfg)
	notification := NewNotificationService(db, repos.User, mailer)
	notification.Register(bus)

	return Service{
		Transaction:  NewTransactionService(db),
		Scheduler:    NewSchedulerService(),
		Auth:         NewAuthService(cfg),
		Mailer:       mailer,
		Files:        files,
		Notification: notification,
		Privacy:      NewPrivacyService(db, repos, mailer),
		Contract:     contract.NewGenerator(cfg),
	}, nil
}
