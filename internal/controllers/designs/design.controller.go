package designController

import (
	"context"
	"strings"

	"housemanagement/config"
	"housemanagement/internal/database"
	"housemanagement/internal/events"
	. "housemanagement/internal/models"
	"housemanagement/internal/policy"
	"housemanagement/internal/repositories"
	"housemanagement/internal/services"
	"housemanagement/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

const MsgRequired = "This field is required."

type DesignRequest struct {
	Title       string        `json:"title"       form:"title"`
	Description string        `json:"description" form:"description"`
	CoverImage  *types.Upload `json:"-"           form:"-"`
	FloorPlan   *types.Upload `json:"-"           form:"-"`
}

type DesignControllerInterface interface {
	List(ctx context.Context, user *User) ([]HouseDesign, error)
	Get(ctx context.Context, user *User, id uint) (*HouseDesign, error)
	Create(ctx context.Context, user *User, request *DesignRequest) (*HouseDesign, error)
	Update(ctx context.Context, user *User, id uint, request *DesignRequest) (*HouseDesign, error)
	Delete(ctx context.Context, user *User, id uint) error
}

type DesignController struct {
	designRepo    repositories.DesignRepository
	dashboardRepo repositories.DashboardRepository
	files         services.FileStore
	eventBus      *events.EventBus
	db            database.DB
	Config        config.Config
	log           logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) DesignControllerInterface {
	return &DesignController{
		designRepo:    repos.Design,
		dashboardRepo: repos.Dashboard,
		files:         services.Files,
		eventBus:      eventBus,
		db:            db,
		Config:        config,
		log:           logger.New("designController"),
	}
}

func (c *DesignController) List(ctx context.Context, user *User) ([]HouseDesign, error) {
	log := c.log.Function("List").TraceFromContext(ctx)

	designs, err := c.designRepo.List(ctx, c.db.SQL, policy.For(user, policy.Designs))
	if err != nil {
		return nil, log.Err("failed to list designs", err, "userID", user.ID)
	}
	return designs, nil
}

func (c *DesignController) Get(ctx context.Context, user *User, id uint) (*HouseDesign, error) {
	return c.designRepo.GetByID(ctx, c.db.SQL, policy.For(user, policy.Designs), id)
}

func (c *DesignController) Create(
	ctx context.Context,
	user *User,
	request *DesignRequest,
) (*HouseDesign, error) {
	log := c.log.Function("Create").TraceFromContext(ctx)

	title := strings.TrimSpace(request.Title)
	if title == "" {
		return nil, types.FieldError("title", MsgRequired)
	}

	design := &HouseDesign{
		Title:       title,
		Description: strings.TrimSpace(request.Description),
		OwnerID:     user.ID,
	}
	if err := c.storeFiles(ctx, design, request); err != nil {
		return nil, err
	}

	if err := c.designRepo.Create(ctx, c.db.SQL, design); err != nil {
		return nil, log.Err("failed to create design", err, "userID", user.ID)
	}
	design.Owner = user

	c.dashboardRepo.Invalidate(ctx, user.ID)

	if err := c.eventBus.Publish(ctx, events.Event{
		Type:    events.DESIGN_CREATED,
		UserID:  &user.ID,
		Payload: design,
	}); err != nil {
		return nil, err
	}

	log.Info("Design created", "designID", design.ID, "userID", user.ID)
	return design, nil
}

func (c *DesignController) Update(
	ctx context.Context,
	user *User,
	id uint,
	request *DesignRequest,
) (*HouseDesign, error) {
	log := c.log.Function("Update").TraceFromContext(ctx)

	design, err := c.designRepo.GetByID(ctx, c.db.SQL, policy.For(user, policy.Designs), id)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(request.Title)
	if title == "" {
		return nil, types.FieldError("title", MsgRequired)
	}
	design.Title = title
	design.Description = strings.TrimSpace(request.Description)

	if err := c.storeFiles(ctx, design, request); err != nil {
		return nil, err
	}

	if err := c.designRepo.Update(ctx, c.db.SQL, design); err != nil {
		return nil, log.Err("failed to update design", err, "designID", id)
	}

	c.dashboardRepo.Invalidate(ctx, design.OwnerID)
	return design, nil
}

func (c *DesignController) Delete(ctx context.Context, user *User, id uint) error {
	log := c.log.Function("Delete").TraceFromContext(ctx)

	scope := policy.For(user, policy.Designs)
	design, err := c.designRepo.GetByID(ctx, c.db.SQL, scope, id)
	if err != nil {
		return err
	}

	if err := c.designRepo.Delete(ctx, c.db.SQL, scope, id); err != nil {
		return log.Err("failed to delete design", err, "designID", id)
	}

	c.dashboardRepo.Invalidate(ctx, design.OwnerID)
	return nil
}

// storeFiles replaces the stored images only when new files were sent.
func (c *DesignController) storeFiles(ctx context.Context, design *HouseDesign, request *DesignRequest) error {
	log := c.log.Function("storeFiles").TraceFromContext(ctx)

	cover, err := services.SaveUpload(ctx, c.files, services.CategoryDesignCovers, request.CoverImage)
	if err != nil {
		return log.Err("failed to store cover image", err)
	}
	if cover != "" {
		design.CoverImage = cover
	}

	plan, err := services.SaveUpload(ctx, c.files, services.CategoryDesignFloorPlans, request.FloorPlan)
	if err != nil {
		return log.Err("failed to store floor plan", err)
	}
	if plan != "" {
		design.FloorPlan = plan
	}

	return nil
}
