package constructionController

import (
	"context"
	"testing"
	"time"

	"housemanagement/config"
	"housemanagement/internal/database"
	"housemanagement/internal/events"
	. "housemanagement/internal/models"
	"housemanagement/internal/repositories"
	"housemanagement/internal/services"
	"housemanagement/internal/testutil"
	"housemanagement/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T) (ConstructionControllerInterface, database.DB, *events.EventBus) {
	t.Helper()

	db := testutil.NewTestDB(t)
	bus := events.New(nil)
	t.Cleanup(func() { _ = bus.Close() })

	svc := services.Service{Files: services.NewLocalFileStore(t.TempDir(), "/media")}
	return New(repositories.New(db), svc, bus, config.Config{}, db), db, bus
}

func TestConstructionController_CreateFromApprovedQuote(t *testing.T) {
	ctx := context.Background()
	controller, db, _ := newController(t)

	customer := testutil.CreateUser(t, db.SQL)
	admin := testutil.CreateUser(t, db.SQL, testutil.Superuser)
	quote := testutil.CreateQuote(t, db.SQL, testutil.CreateDesign(t, db.SQL, customer), customer, QuoteStatusApproved)

	request := &ProjectRequest{
		Name:            " Bang Na House ",
		QuoteID:         &quote.ID,
		OwnerID:         customer.ID,
		StartDate:       "2026-01-15",
		ExpectedEndDate: "2026-12-20",
		TotalProgress:   10,
	}

	_, err := controller.Create(ctx, customer, request)
	assert.ErrorIs(t, err, types.ErrForbidden)

	project, err := controller.Create(ctx, admin, request)
	require.NoError(t, err)
	assert.Equal(t, "Bang Na House", project.Name)
	assert.Equal(t, customer.ID, project.OwnerID)
	require.NotNil(t, project.StartDate)
	assert.Equal(t, "2026-01-15", time.Time(*project.StartDate).Format("2006-01-02"))

	_, err = controller.Create(ctx, admin, request)
	validation, ok := types.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, MsgQuoteAlreadyLinked, validation.Fields["quote"])

	_, err = controller.Update(ctx, admin, project.ID, request)
	require.NoError(t, err)
}

func TestConstructionController_Validation(t *testing.T) {
	ctx := context.Background()
	controller, db, _ := newController(t)

	customer := testutil.CreateUser(t, db.SQL)
	other := testutil.CreateUser(t, db.SQL)
	admin := testutil.CreateUser(t, db.SQL, testutil.Superuser)
	pending := testutil.CreateQuote(t, db.SQL, testutil.CreateDesign(t, db.SQL, customer), customer, QuoteStatusPending)

	t.Run("field errors", func(t *testing.T) {
		_, err := controller.Create(ctx, admin, &ProjectRequest{
			StartDate:     "15/01/2026",
			TotalProgress: 120,
		})
		validation, ok := types.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, MsgRequired, validation.Fields["name"])
		assert.Equal(t, MsgRequired, validation.Fields["owner"])
		assert.Equal(t, MsgProgressRange, validation.Fields["total_progress"])
		assert.Equal(t, MsgInvalidDate, validation.Fields["start_date"])
	})

	t.Run("unknown owner", func(t *testing.T) {
		_, err := controller.Create(ctx, admin, &ProjectRequest{Name: "X", OwnerID: 9999})
		validation, ok := types.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, MsgInvalidChoice, validation.Fields["owner"])
	})

	t.Run("quote must be approved and match owner", func(t *testing.T) {
		_, err := controller.Create(ctx, admin, &ProjectRequest{
			Name:    "X",
			QuoteID: &pending.ID,
			OwnerID: other.ID,
		})
		validation, ok := types.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, MsgQuoteNotApproved, validation.Fields["quote"])
		assert.Equal(t, MsgOwnerMismatch, validation.Fields["owner"])
	})
}

func TestConstructionController_Visibility(t *testing.T) {
	ctx := context.Background()
	controller, db, _ := newController(t)

	alice := testutil.CreateUser(t, db.SQL)
	bob := testutil.CreateUser(t, db.SQL)
	admin := testutil.CreateUser(t, db.SQL, testutil.Superuser)

	testutil.CreateProject(t, db.SQL, alice, nil)
	bobProject := testutil.CreateProject(t, db.SQL, bob, nil)

	projects, err := controller.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	projects, err = controller.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	_, err = controller.Get(ctx, alice, bobProject.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.ErrorIs(t, controller.Delete(ctx, bob, bobProject.ID), types.ErrForbidden)
	require.NoError(t, controller.Delete(ctx, admin, bobProject.ID))
}

func TestConstructionController_AddProgressUpdate(t *testing.T) {
	ctx := context.Background()
	controller, db, bus := newController(t)

	var published []events.Event
	bus.Subscribe(events.PROGRESS_UPDATE_CREATED, func(ctx context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	})

	owner := testutil.CreateUser(t, db.SQL)
	admin := testutil.CreateUser(t, db.SQL, testutil.Superuser)
	project := testutil.CreateProject(t, db.SQL, owner, nil)

	_, err := controller.AddProgressUpdate(ctx, owner, project.ID, &ProgressUpdateRequest{StageName: "Roof"})
	assert.ErrorIs(t, err, types.ErrForbidden)

	_, err = controller.AddProgressUpdate(ctx, admin, project.ID, &ProgressUpdateRequest{UpdateDate: "bad"})
	validation, ok := types.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, MsgRequired, validation.Fields["stage_name"])
	assert.Equal(t, MsgInvalidDate, validation.Fields["update_date"])

	update, err := controller.AddProgressUpdate(ctx, admin, project.ID, &ProgressUpdateRequest{
		StageName:   "Foundation poured",
		Description: "Piles and slab complete",
		UpdateDate:  "2026-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, project.ID, update.ProjectID)
	assert.Equal(t, "2026-03-01", time.Time(update.UpdateDate).Format("2006-01-02"))

	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.ProgressUpdateCreated)
	require.True(t, ok)
	assert.Equal(t, update, payload.Update)
	require.NotNil(t, published[0].UserID)
	assert.Equal(t, owner.ID, *published[0].UserID)
}
