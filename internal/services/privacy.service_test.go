package services

import (
	"context"
	"testing"

	"housemanagement/internal/models"
	"housemanagement/internal/repositories"
	"housemanagement/internal/testutil"
	"housemanagement/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrivacyService_EmailPersonalData(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	mailer := &fakeMailer{from: "noreply@homemanagement.co.th"}
	service := NewPrivacyService(db, repositories.New(db), mailer)

	admin := testutil.CreateUser(t, db.SQL, testutil.Superuser, testutil.WithEmail("admin@example.com"))
	other := testutil.CreateUser(t, db.SQL)
	testutil.CreateDesign(t, db.SQL, admin)
	testutil.CreateDesign(t, db.SQL, other)
	testutil.CreateDesign(t, db.SQL, other)

	admin.Profile = &models.Profile{
		UserID:     admin.ID,
		Phone:      "081-234-5678",
		NationalID: "1-2345-67890-12-3",
		TaxID:      "ABCDEFGH",
	}

	t.Run("export masks identifiers and counts own records", func(t *testing.T) {
		export, err := service.BuildExport(ctx, admin)
		require.NoError(t, err)

		assert.Equal(t, "1-2345-XXXXX-12-3", export.NationalID)
		assert.Equal(t, "ABCXXXGH", export.TaxID)
		assert.Equal(t, "081-234-5678", export.Phone)
		assert.Equal(t, missingValue, export.Address)
		assert.Equal(t, int64(1), export.DesignCount)
		assert.Equal(t, int64(0), export.QuoteCount)
	})

	t.Run("sends multipart email to the user", func(t *testing.T) {
		require.NoError(t, service.EmailPersonalData(ctx, admin))

		email := mailer.last()
		assert.Equal(t, []string{"admin@example.com"}, email.To)
		assert.Equal(t, personalDataSubject, email.Subject)
		assert.Contains(t, email.Text, "1-2345-XXXXX-12-3")
		assert.NotContains(t, email.Text, "67890")
		assert.Contains(t, email.HTML, "ABCXXXGH")
	})

	t.Run("missing email is reported", func(t *testing.T) {
		noEmail := testutil.CreateUser(t, db.SQL, testutil.WithEmail(""))
		err := service.EmailPersonalData(ctx, noEmail)
		assert.ErrorIs(t, err, types.ErrMissingEmail)
	})

	t.Run("no profile shows placeholders", func(t *testing.T) {
		export, err := service.BuildExport(ctx, other)
		require.NoError(t, err)
		assert.Equal(t, missingValue, export.NationalID)
		assert.Equal(t, int64(2), export.DesignCount)
	})
}
