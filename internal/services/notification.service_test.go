package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"housemanagement/internal/database"
	"housemanagement/internal/events"
	"housemanagement/internal/models"
	"housemanagement/internal/repositories"
	"housemanagement/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newNotificationFixture(t *testing.T) (*events.EventBus, *fakeMailer, database.DB) {
	t.Helper()

	db := testutil.NewTestDB(t)
	mailer := &fakeMailer{from: "noreply@homemanagement.co.th"}
	bus := events.New(nil)
	t.Cleanup(func() { _ = bus.Close() })

	NewNotificationService(db, repositories.NewUserRepository(nil), mailer).Register(bus)
	return bus, mailer, db
}

func TestNotification_DesignCreated(t *testing.T) {
	ctx := context.Background()
	bus, mailer, db := newNotificationFixture(t)

	testutil.CreateUser(t, db.SQL, testutil.Superuser, testutil.WithEmail("boss@example.com"))
	testutil.CreateUser(t, db.SQL, testutil.Superuser, testutil.WithEmail(""))
	owner := testutil.CreateUser(t, db.SQL)

	design := &models.HouseDesign{
		Title:       "Garden House",
		Description: strings.Repeat("ก", 300),
		OwnerID:     owner.ID,
		Owner:       owner,
	}

	require.NoError(t, bus.Publish(ctx, events.Event{Type: events.DESIGN_CREATED, Payload: design}))

	email := mailer.last()
	assert.Equal(t, []string{"boss@example.com"}, email.To)
	assert.Equal(t, "New House Design Submitted", email.Subject)
	assert.Contains(t, email.Text, "'Garden House' was created by "+owner.Username)
	assert.Contains(t, email.Text, "Description: "+strings.Repeat("ก", 200))
	assert.NotContains(t, email.Text, strings.Repeat("ก", 201))
}

func TestNotification_QuoteCreatedFallsBackToDefaultSender(t *testing.T) {
	ctx := context.Background()
	bus, mailer, db := newNotificationFixture(t)

	requester := testutil.CreateUser(t, db.SQL)
	quote := &models.Quote{
		RequestedBy:   requester,
		CatalogDesign: &models.CatalogDesign{Name: "Modern Villa"},
	}

	require.NoError(t, bus.Publish(ctx, events.Event{Type: events.QUOTE_CREATED, Payload: quote}))

	email := mailer.last()
	assert.Equal(t, []string{"noreply@homemanagement.co.th"}, email.To)
	assert.Equal(t, "New Quote Requested", email.Subject)
	assert.Equal(t, "A new quote was requested for design 'Modern Villa'.\nRequested by: "+requester.Username, email.Text)
}

func TestNotification_ProgressUpdate(t *testing.T) {
	ctx := context.Background()
	bus, mailer, _ := newNotificationFixture(t)

	day := datatypes.Date(time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local))
	payload := events.ProgressUpdateCreated{
		Project: &models.ConstructionProject{Owner: &models.User{Username: "owner", Email: "owner@example.com"}},
		Update: &models.ProgressUpdate{
			StageName:   "Foundation",
			Description: strings.Repeat("x", 600),
			UpdateDate:  day,
		},
	}

	require.NoError(t, bus.Publish(ctx, events.Event{Type: events.PROGRESS_UPDATE_CREATED, Payload: payload}))

	email := mailer.last()
	assert.Equal(t, []string{"owner@example.com"}, email.To)
	assert.Equal(t, "Construction Update: Foundation", email.Subject)
	assert.Contains(t, email.Text, "Stage: Foundation\nDate: 2025-03-14\n")
	assert.Contains(t, email.Text, "Details: "+strings.Repeat("x", 500))
	assert.NotContains(t, email.Text, strings.Repeat("x", 501))

	t.Run("owner without email", func(t *testing.T) {
		payload.Project.Owner.Email = ""
		require.NoError(t, bus.Publish(ctx, events.Event{Type: events.PROGRESS_UPDATE_CREATED, Payload: payload}))
		assert.Equal(t, []string{"noreply@homemanagement.co.th"}, mailer.last().To)
	})
}

func TestNotification_DeliveryFailurePropagates(t *testing.T) {
	ctx := context.Background()
	bus, mailer, _ := newNotificationFixture(t)

	smtpDown := errors.New("connection refused")
	mailer.err = smtpDown

	payload := events.ProgressUpdateCreated{
		Project: &models.ConstructionProject{Owner: &models.User{Email: "owner@example.com"}},
		Update:  &models.ProgressUpdate{StageName: "Roof"},
	}

	err := bus.Publish(ctx, events.Event{Type: events.PROGRESS_UPDATE_CREATED, Payload: payload})
	assert.ErrorIs(t, err, smtpDown)
}
