package userController

import (
	"context"
	"sync"
	"testing"

	"housemanagement/config"
	"housemanagement/internal/database"
	. "housemanagement/internal/models"
	"housemanagement/internal/repositories"
	"housemanagement/internal/services"
	"housemanagement/internal/testutil"
	"housemanagement/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []services.Email
}

func (m *recordingMailer) DefaultFrom() string {
	return "noreply@example.com"
}

func (m *recordingMailer) Send(ctx context.Context, email services.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return nil
}

func newController(t *testing.T) (UserControllerInterface, database.DB, *recordingMailer) {
	t.Helper()

	db := testutil.NewTestDB(t)
	repos := repositories.New(db)
	mailer := &recordingMailer{}
	svc := services.Service{
		Mailer:  mailer,
		Privacy: services.NewPrivacyService(db, repos, mailer),
	}
	return New(repos, svc, config.Config{}, db), db, mailer
}

func TestUserController_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	controller, db, _ := newController(t)

	user := testutil.CreateUser(t, db.SQL)
	first := "Malee"

	response, err := controller.UpdateProfile(ctx, user, &UpdateProfileRequest{
		FirstName: &first,
		Phone:     " 0812345678 ",
		Address:   "99 Sukhumvit Rd",
	})
	require.NoError(t, err)
	assert.Equal(t, "Malee", response.FirstName)
	require.NotNil(t, response.Profile)
	assert.Equal(t, "0812345678", response.Profile.Phone)
	assert.Equal(t, "99 Sukhumvit Rd", response.Profile.Address)

	response, err = controller.UpdateProfile(ctx, user, &UpdateProfileRequest{Phone: "020000000"})
	require.NoError(t, err)
	assert.Equal(t, "Malee", response.FirstName)
	assert.Equal(t, "020000000", response.Profile.Phone)
	assert.Empty(t, response.Profile.Address)
}

func TestUserController_DashboardCustomer(t *testing.T) {
	ctx := context.Background()
	controller, db, _ := newController(t)

	customer := testutil.CreateUser(t, db.SQL)
	other := testutil.CreateUser(t, db.SQL)

	design := testutil.CreateDesign(t, db.SQL, customer)
	testutil.CreateDesign(t, db.SQL, other)
	testutil.CreateQuote(t, db.SQL, design, customer, QuoteStatusPending)
	testutil.CreateProject(t, db.SQL, customer, nil)

	second := testutil.CreateProject(t, db.SQL, customer, nil)
	require.NoError(t, db.SQL.Model(second).Update("total_progress", 50).Error)

	summary, err := controller.Dashboard(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.DesignCount)
	assert.Equal(t, int64(1), summary.QuoteCount)
	assert.Equal(t, int64(1), summary.PendingQuoteCount)
	assert.Equal(t, int64(2), summary.ProjectCount)
	assert.True(t, summary.AverageProgress.Equal(decimal.NewFromFloat(37.5)))
	assert.Nil(t, summary.PendingInquiries)
	assert.Empty(t, summary.RecentInquiries)
}

func TestUserController_DashboardSuperuser(t *testing.T) {
	ctx := context.Background()
	controller, db, _ := newController(t)

	admin := testutil.CreateUser(t, db.SQL, testutil.Superuser)
	customer := testutil.CreateUser(t, db.SQL)
	testutil.CreateDesign(t, db.SQL, customer)

	for i := 0; i < DashboardInquiryLimit+2; i++ {
		require.NoError(t, db.SQL.Create(&EstimateInquiry{
			Name:          "Lead",
			Phone:         "0800000000",
			Email:         "lead@example.com",
			MaterialGrade: MaterialGradeStandard,
		}).Error)
	}

	summary, err := controller.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.DesignCount)
	assert.True(t, summary.AverageProgress.IsZero())
	require.NotNil(t, summary.PendingInquiries)
	assert.Equal(t, int64(DashboardInquiryLimit+2), *summary.PendingInquiries)
	assert.Len(t, summary.RecentInquiries, DashboardInquiryLimit)
}

func TestUserController_EmailMyData(t *testing.T) {
	ctx := context.Background()
	controller, db, mailer := newController(t)

	user := testutil.CreateUser(t, db.SQL, testutil.WithEmail("malee@example.com"))
	require.NoError(t, controller.EmailMyData(ctx, user))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"malee@example.com"}, mailer.sent[0].To)

	noEmail := testutil.CreateUser(t, db.SQL, testutil.WithEmail(""))
	assert.ErrorIs(t, controller.EmailMyData(ctx, noEmail), types.ErrMissingEmail)
	assert.Len(t, mailer.sent, 1)
}
