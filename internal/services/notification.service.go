package services

import (
	"context"
	"fmt"
	"time"

	"housemanagement/internal/database"
	"housemanagement/internal/events"
	"housemanagement/internal/models"
	"housemanagement/internal/repositories"
	"housemanagement/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	designDescriptionLimit = 200
	updateDetailsLimit     = 500
)

// NotificationService emails admins and owners when records are created.
// Handlers run inside EventBus.Publish, so a delivery failure reaches the
// request that caused it.
type NotificationService struct {
	db     database.DB
	users  repositories.UserRepository
	mailer Mailer
	log    logger.Logger
}

func NewNotificationService(
	db database.DB,
	users repositories.UserRepository,
	mailer Mailer,
) *NotificationService {
	return &NotificationService{
		db:     db,
		users:  users,
		mailer: mailer,
		log:    logger.New("NotificationService"),
	}
}

func (s *NotificationService) Register(bus *events.EventBus) {
	bus.Subscribe(events.DESIGN_CREATED, s.onDesignCreated)
	bus.Subscribe(events.QUOTE_CREATED, s.onQuoteCreated)
	bus.Subscribe(events.PROGRESS_UPDATE_CREATED, s.onProgressUpdateCreated)
}

// AdminRecipients falls back to the default sender when no superuser has an address.
func (s *NotificationService) AdminRecipients(ctx context.Context) ([]string, error) {
	emails, err := s.users.AdminEmails(ctx, s.db.SQL)
	if err != nil {
		return nil, err
	}
	if len(emails) == 0 {
		return []string{s.mailer.DefaultFrom()}, nil
	}
	return emails, nil
}

func (s *NotificationService) onDesignCreated(ctx context.Context, event events.Event) error {
	log := s.log.TraceFromContext(ctx).Function("onDesignCreated")

	design, ok := event.Payload.(*models.HouseDesign)
	if !ok {
		return log.Error("unexpected payload", "eventType", event.Type)
	}

	recipients, err := s.AdminRecipients(ctx)
	if err != nil {
		return err
	}

	owner := ""
	if design.Owner != nil {
		owner = design.Owner.Username
	}

	return s.mailer.Send(ctx, Email{
		To:      recipients,
		Subject: "New House Design Submitted",
		Text: fmt.Sprintf(
			"A new house design titled '%s' was created by %s\nDescription: %s",
			design.Title,
			owner,
			utils.Truncate(design.Description, designDescriptionLimit),
		),
	})
}

func (s *NotificationService) onQuoteCreated(ctx context.Context, event events.Event) error {
	log := s.log.TraceFromContext(ctx).Function("onQuoteCreated")

	quote, ok := event.Payload.(*models.Quote)
	if !ok {
		return log.Error("unexpected payload", "eventType", event.Type)
	}

	recipients, err := s.AdminRecipients(ctx)
	if err != nil {
		return err
	}

	requester := ""
	if quote.RequestedBy != nil {
		requester = quote.RequestedBy.Username
	}

	return s.mailer.Send(ctx, Email{
		To:      recipients,
		Subject: "New Quote Requested",
		Text: fmt.Sprintf(
			"A new quote was requested for design '%s'.\nRequested by: %s",
			quote.ReferenceName(),
			requester,
		),
	})
}

func (s *NotificationService) onProgressUpdateCreated(ctx context.Context, event events.Event) error {
	log := s.log.TraceFromContext(ctx).Function("onProgressUpdateCreated")

	payload, ok := event.Payload.(events.ProgressUpdateCreated)
	if !ok || payload.Project == nil || payload.Update == nil {
		return log.Error("unexpected payload", "eventType", event.Type)
	}

	recipients := []string{s.mailer.DefaultFrom()}
	if owner := payload.Project.Owner; owner.HasEmail() {
		recipients = []string{owner.Email}
	}

	update := payload.Update
	return s.mailer.Send(ctx, Email{
		To:      recipients,
		Subject: "Construction Update: " + update.StageName,
		Text: fmt.Sprintf(
			"Your construction project has a new update.\nStage: %s\nDate: %s\nDetails: %s",
			update.StageName,
			time.Time(update.UpdateDate).Format(utils.DateLayout),
			utils.Truncate(update.Description, updateDetailsLimit),
		),
	})
}
