package designController

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

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

func newController(t *testing.T) (DesignControllerInterface, database.DB, *events.EventBus, string) {
	t.Helper()

	db := testutil.NewTestDB(t)
	bus := events.New(nil)
	t.Cleanup(func() { _ = bus.Close() })

	media := t.TempDir()
	svc := services.Service{Files: services.NewLocalFileStore(media, "/media")}
	return New(repositories.New(db), svc, bus, config.Config{}, db), db, bus, media
}

func TestDesignController_Create(t *testing.T) {
	ctx := context.Background()
	controller, db, bus, media := newController(t)

	var published []events.Event
	bus.Subscribe(events.DESIGN_CREATED, func(ctx context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	})

	owner := testutil.CreateUser(t, db.SQL)
	content := []byte("png-bytes")

	design, err := controller.Create(ctx, owner, &DesignRequest{
		Title:       "  Courtyard House ",
		Description: "Single storey",
		CoverImage: &types.Upload{
			Filename:    "Cover.PNG",
			Size:        int64(len(content)),
			ContentType: "image/png",
			Body:        bytes.NewReader(content),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Courtyard House", design.Title)
	assert.Equal(t, owner.ID, design.OwnerID)
	assert.True(t, strings.HasPrefix(design.CoverImage, services.CategoryDesignCovers+"/"))
	assert.True(t, strings.HasSuffix(design.CoverImage, ".png"))
	assert.Empty(t, design.FloorPlan)

	stored, err := os.ReadFile(filepath.Join(media, filepath.FromSlash(design.CoverImage)))
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	require.Len(t, published, 1)
	assert.Equal(t, design, published[0].Payload)
	require.NotNil(t, published[0].UserID)
	assert.Equal(t, owner.ID, *published[0].UserID)
}

func TestDesignController_CreateRequiresTitle(t *testing.T) {
	controller, db, _, _ := newController(t)
	owner := testutil.CreateUser(t, db.SQL)

	_, err := controller.Create(context.Background(), owner, &DesignRequest{Title: "   "})
	validation, ok := types.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, MsgRequired, validation.Fields["title"])
}

func TestDesignController_Visibility(t *testing.T) {
	ctx := context.Background()
	controller, db, _, _ := newController(t)

	alice := testutil.CreateUser(t, db.SQL)
	bob := testutil.CreateUser(t, db.SQL)
	admin := testutil.CreateUser(t, db.SQL, testutil.Superuser)

	testutil.CreateDesign(t, db.SQL, alice)
	bobDesign := testutil.CreateDesign(t, db.SQL, bob)

	designs, err := controller.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, designs, 1)

	designs, err = controller.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, designs, 2)

	_, err = controller.Get(ctx, alice, bobDesign.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = controller.Update(ctx, alice, bobDesign.ID, &DesignRequest{Title: "Mine now"})
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.ErrorIs(t, controller.Delete(ctx, alice, bobDesign.ID), types.ErrNotFound)
}

func TestDesignController_UpdateKeepsFiles(t *testing.T) {
	ctx := context.Background()
	controller, db, _, _ := newController(t)

	owner := testutil.CreateUser(t, db.SQL)
	design := testutil.CreateDesign(t, db.SQL, owner)
	require.NoError(t, db.SQL.Model(design).Update("cover_image", "designs/covers/existing.jpg").Error)

	updated, err := controller.Update(ctx, owner, design.ID, &DesignRequest{
		Title:       "Renamed",
		Description: "Updated brief",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "designs/covers/existing.jpg", updated.CoverImage)

	var stored HouseDesign
	require.NoError(t, db.SQL.First(&stored, design.ID).Error)
	assert.Equal(t, "Renamed", stored.Title)
}

func TestDesignController_SuperuserDeletesAny(t *testing.T) {
	ctx := context.Background()
	controller, db, _, _ := newController(t)

	owner := testutil.CreateUser(t, db.SQL)
	admin := testutil.CreateUser(t, db.SQL, testutil.Superuser)
	design := testutil.CreateDesign(t, db.SQL, owner)

	require.NoError(t, controller.Delete(ctx, admin, design.ID))

	_, err := controller.Get(ctx, owner, design.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
