package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"housemanagement/config"
	"housemanagement/internal/database"
	"housemanagement/internal/models"
	"housemanagement/internal/repositories"
	"housemanagement/internal/services"
	"housemanagement/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []services.Email
	err  error
}

func (m *recordingMailer) DefaultFrom() string {
	return "office@example.com"
}

func (m *recordingMailer) Send(ctx context.Context, email services.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func newDigestJob(t *testing.T) (*PendingInquiryDigestJob, database.DB, *recordingMailer) {
	t.Helper()

	db := testutil.NewTestDB(t)
	repos := repositories.New(db)
	mailer := &recordingMailer{}
	notification := services.NewNotificationService(db, repos.User, mailer)

	job := NewPendingInquiryDigestJob(db, repos.Inquiry, notification, mailer, DailyMorning)
	return job, db, mailer
}

func createInquiry(t *testing.T, db database.DB, name string, received time.Time, handled bool) {
	t.Helper()

	inquiry := &models.EstimateInquiry{
		BaseModel:     models.BaseModel{CreatedAt: received},
		Name:          name,
		Phone:         "0812345678",
		Email:         "lead@example.com",
		LandSize:      100,
		HouseSize:     150,
		MaterialGrade: models.MaterialGradeStandard,
		Floors:        2,
		EstimateMin:   decimal.NewFromInt(2_000_000),
		EstimateMax:   decimal.NewFromInt(2_500_000),
		IsHandled:     handled,
	}
	require.NoError(t, db.SQL.Create(inquiry).Error)
}

func TestPendingInquiryDigest_NothingPending(t *testing.T) {
	job, db, mailer := newDigestJob(t)
	createInquiry(t, db, "handled", time.Now(), true)

	require.NoError(t, job.Execute(context.Background()))
	assert.Empty(t, mailer.sent)
}

func TestPendingInquiryDigest_ListsOldestFive(t *testing.T) {
	job, db, mailer := newDigestJob(t)
	testutil.CreateUser(t, db.SQL, testutil.Superuser, testutil.WithEmail("boss@example.com"))

	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := range 7 {
		createInquiry(t, db, fmt.Sprintf("lead-%d", i), base.AddDate(0, 0, i), false)
	}
	createInquiry(t, db, "already-handled", base.AddDate(0, 0, -1), true)

	require.NoError(t, job.Execute(context.Background()))
	require.Len(t, mailer.sent, 1)

	email := mailer.sent[0]
	assert.Equal(t, []string{"boss@example.com"}, email.To)
	assert.Equal(t, "7 Pending Estimate Inquiries", email.Subject)
	assert.Contains(t, email.Text, "Oldest 5:")
	assert.Contains(t, email.Text, "lead-0")
	assert.Contains(t, email.Text, "lead-4")
	assert.NotContains(t, email.Text, "lead-5")
	assert.NotContains(t, email.Text, "already-handled")
	assert.Contains(t, email.Text, "2000000.00 - 2500000.00")
}

func TestPendingInquiryDigest_FallsBackToDefaultSender(t *testing.T) {
	job, db, mailer := newDigestJob(t)
	createInquiry(t, db, "lead", time.Now(), false)

	require.NoError(t, job.Execute(context.Background()))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"office@example.com"}, mailer.sent[0].To)
}

func TestPendingInquiryDigest_SendFailure(t *testing.T) {
	job, db, mailer := newDigestJob(t)
	mailer.err = errors.New("smtp down")
	createInquiry(t, db, "lead", time.Now(), false)

	assert.Error(t, job.Execute(context.Background()))
}

func TestRegisterAllJobs(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		scheduler := services.NewSchedulerService()
		t.Cleanup(scheduler.Stop)

		err := RegisterAllJobs(scheduler, configWithScheduler(false), database.DB{}, services.Service{}, repositories.Repository{})
		require.NoError(t, err)
		assert.Equal(t, 0, scheduler.JobCount())
	})

	t.Run("enabled", func(t *testing.T) {
		scheduler := services.NewSchedulerService()
		t.Cleanup(scheduler.Stop)

		err := RegisterAllJobs(scheduler, configWithScheduler(true), database.DB{}, services.Service{}, repositories.Repository{})
		require.NoError(t, err)
		assert.Equal(t, 1, scheduler.JobCount())
	})
}

func configWithScheduler(enabled bool) config.Config {
	return config.Config{SchedulerEnabled: enabled}
}
