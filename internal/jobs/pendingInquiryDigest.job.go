package jobs

import (
	"context"
	"fmt"
	"strings"

	"housemanagement/internal/database"
	"housemanagement/internal/repositories"
	"housemanagement/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// DigestInquiryLimit is how many of the oldest unhandled inquiries the digest lists.
const DigestInquiryLimit = 5

type PendingInquiryDigestJob struct {
	db           database.DB
	inquiries    repositories.InquiryRepository
	notification *services.NotificationService
	mailer       services.Mailer
	log          logger.Logger
	schedule     services.Schedule
}

func NewPendingInquiryDigestJob(
	db database.DB,
	inquiries repositories.InquiryRepository,
	notification *services.NotificationService,
	mailer services.Mailer,
	schedule services.Schedule,
) *PendingInquiryDigestJob {
	log := logger.New("pendingInquiryDigestJob")
	log.Info("Creating new pending inquiry digest job", "schedule", schedule)

	return &PendingInquiryDigestJob{
		db:           db,
		inquiries:    inquiries,
		notification: notification,
		mailer:       mailer,
		log:          log,
		schedule:     schedule,
	}
}

func (j *PendingInquiryDigestJob) Name() string {
	return "PendingInquiryDigest"
}

// Execute mails admins only when unhandled inquiries exist.
func (j *PendingInquiryDigestJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	count, err := j.inquiries.CountPending(ctx, j.db.SQL)
	if err != nil {
		return log.Err("failed to count pending inquiries", err)
	}
	if count == 0 {
		log.Info("No pending inquiries, digest skipped")
		return nil
	}

	oldest, err := j.inquiries.ListPending(ctx, j.db.SQL, DigestInquiryLimit, true)
	if err != nil {
		return log.Err("failed to list pending inquiries", err)
	}

	recipients, err := j.notification.AdminRecipients(ctx)
	if err != nil {
		return log.Err("failed to load admin recipients", err)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "There are %d estimate inquiries waiting for a reply.\n", count)
	fmt.Fprintf(&body, "Oldest %d:\n", len(oldest))
	for _, inquiry := range oldest {
		fmt.Fprintf(
			&body,
			"- #%d %s (%s, %s) received %s, estimate %s - %s\n",
			inquiry.ID,
			inquiry.Name,
			inquiry.Phone,
			inquiry.Email,
			inquiry.CreatedAt.Format("2006-01-02"),
			inquiry.EstimateMin.StringFixed(2),
			inquiry.EstimateMax.StringFixed(2),
		)
	}

	if err := j.mailer.Send(ctx, services.Email{
		To:      recipients,
		Subject: fmt.Sprintf("%d Pending Estimate Inquiries", count),
		Text:    body.String(),
	}); err != nil {
		return log.Err("failed to send inquiry digest", err, "count", count)
	}

	log.Info("Pending inquiry digest sent", "count", count, "recipients", len(recipients))
	return nil
}

func (j *PendingInquiryDigestJob) Schedule() services.Schedule {
	return j.schedule
}
