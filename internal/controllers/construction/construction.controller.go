package constructionController

import (
	"context"
	"errors"
	"strings"
	"time"

	"housemanagement/config"
	"housemanagement/internal/database"
	"housemanagement/internal/events"
	. "housemanagement/internal/models"
	"housemanagement/internal/policy"
	"housemanagement/internal/repositories"
	"housemanagement/internal/services"
	"housemanagement/internal/types"
	"housemanagement/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MsgRequired           = "This field is required."
	MsgInvalidChoice      = "Select a valid choice."
	MsgInvalidDate        = "Enter a valid date."
	MsgQuoteNotApproved   = "Only approved quotes can be linked to a project."
	MsgOwnerMismatch      = "Owner must match the approved quote requester."
	MsgProgressRange      = "Progress must be between 0 and 100."
	MsgQuoteAlreadyLinked = "Construction project with this Quote already exists."
)

type ProjectRequest struct {
	Name            string `json:"name"              form:"name"`
	QuoteID         *uint  `json:"quote"             form:"quote"`
	OwnerID         uint   `json:"owner"             form:"owner"`
	StartDate       string `json:"start_date"        form:"start_date"`
	ExpectedEndDate string `json:"expected_end_date" form:"expected_end_date"`
	TotalProgress   int    `json:"total_progress"    form:"total_progress"`
}

type ProgressUpdateRequest struct {
	StageName   string        `json:"stage_name"  form:"stage_name"`
	Description string        `json:"description" form:"description"`
	UpdateDate  string        `json:"update_date" form:"update_date"`
	SiteImage   *types.Upload `json:"-"           form:"-"`
}

type ConstructionControllerInterface interface {
	List(ctx context.Context, user *User) ([]ConstructionProject, error)
	Get(ctx context.Context, user *User, id uint) (*ConstructionProject, error)
	Create(ctx context.Context, user *User, request *ProjectRequest) (*ConstructionProject, error)
	Update(ctx context.Context, user *User, id uint, request *ProjectRequest) (*ConstructionProject, error)
	Delete(ctx context.Context, user *User, id uint) error
	AddProgressUpdate(
		ctx context.Context,
		user *User,
		projectID uint,
		request *ProgressUpdateRequest,
	) (*ProgressUpdate, error)
}

type ConstructionController struct {
	projectRepo   repositories.ProjectRepository
	quoteRepo     repositories.QuoteRepository
	userRepo      repositories.UserRepository
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
) ConstructionControllerInterface {
	return &ConstructionController{
		projectRepo:   repos.Project,
		quoteRepo:     repos.Quote,
		userRepo:      repos.User,
		dashboardRepo: repos.Dashboard,
		files:         services.Files,
		eventBus:      eventBus,
		db:            db,
		Config:        config,
		log:           logger.New("constructionController"),
	}
}

func (c *ConstructionController) List(ctx context.Context, user *User) ([]ConstructionProject, error) {
	return c.projectRepo.List(ctx, c.db.SQL, policy.For(user, policy.Projects))
}

func (c *ConstructionController) Get(ctx context.Context, user *User, id uint) (*ConstructionProject, error) {
	return c.projectRepo.GetByID(ctx, c.db.SQL, policy.For(user, policy.Projects), id)
}

func (c *ConstructionController) Create(
	ctx context.Context,
	user *User,
	request *ProjectRequest,
) (*ConstructionProject, error) {
	log := c.log.Function("Create").TraceFromContext(ctx)

	if !user.CanSeeEverything() {
		return nil, types.ErrForbidden
	}

	project := &ConstructionProject{}
	if err := c.apply(ctx, project, request); err != nil {
		return nil, err
	}

	if err := c.projectRepo.Create(ctx, c.db.SQL, project); err != nil {
		return nil, c.linkConflict(err, log)
	}

	c.dashboardRepo.Invalidate(ctx, project.OwnerID)
	log.Info("Project created", "projectID", project.ID, "ownerID", project.OwnerID)
	return project, nil
}

func (c *ConstructionController) Update(
	ctx context.Context,
	user *User,
	id uint,
	request *ProjectRequest,
) (*ConstructionProject, error) {
	log := c.log.Function("Update").TraceFromContext(ctx)

	if !user.CanSeeEverything() {
		return nil, types.ErrForbidden
	}

	project, err := c.projectRepo.GetByID(ctx, c.db.SQL, policy.For(user, policy.Projects), id)
	if err != nil {
		return nil, err
	}

	previousOwner := project.OwnerID
	if err := c.apply(ctx, project, request); err != nil {
		return nil, err
	}

	if err := c.projectRepo.Update(ctx, c.db.SQL, project); err != nil {
		return nil, c.linkConflict(err, log)
	}

	c.dashboardRepo.Invalidate(ctx, previousOwner)
	c.dashboardRepo.Invalidate(ctx, project.OwnerID)
	return project, nil
}

func (c *ConstructionController) Delete(ctx context.Context, user *User, id uint) error {
	if !user.CanSeeEverything() {
		return types.ErrForbidden
	}

	scope := policy.For(user, policy.Projects)
	project, err := c.projectRepo.GetByID(ctx, c.db.SQL, scope, id)
	if err != nil {
		return err
	}
	if err := c.projectRepo.Delete(ctx, c.db.SQL, scope, id); err != nil {
		return err
	}

	c.dashboardRepo.Invalidate(ctx, project.OwnerID)
	return nil
}

// AddProgressUpdate records a milestone on one project and notifies its owner.
func (c *ConstructionController) AddProgressUpdate(
	ctx context.Context,
	user *User,
	projectID uint,
	request *ProgressUpdateRequest,
) (*ProgressUpdate, error) {
	log := c.log.Function("AddProgressUpdate").TraceFromContext(ctx)

	if !user.CanSeeEverything() {
		return nil, types.ErrForbidden
	}

	project, err := c.projectRepo.GetByID(ctx, c.db.SQL, policy.For(user, policy.Projects), projectID)
	if err != nil {
		return nil, err
	}

	errs := types.NewValidationError()
	stage := strings.TrimSpace(request.StageName)
	if stage == "" {
		errs.Add("stage_name", MsgRequired)
	}
	date, err := utils.ParseDate(request.UpdateDate)
	if err != nil {
		errs.Add("update_date", MsgInvalidDate)
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	update := &ProgressUpdate{
		ProjectID:   project.ID,
		StageName:   stage,
		Description: strings.TrimSpace(request.Description),
	}
	if date != nil {
		update.UpdateDate = datatypes.Date(*date)
	}

	image, err := services.SaveUpload(ctx, c.files, services.CategorySiteUpdates, request.SiteImage)
	if err != nil {
		return nil, log.Err("failed to store site image", err, "projectID", projectID)
	}
	update.SiteImage = image

	if err := c.projectRepo.AddUpdate(ctx, c.db.SQL, update); err != nil {
		return nil, log.Err("failed to add progress update", err, "projectID", projectID)
	}

	if err := c.eventBus.Publish(ctx, events.Event{
		Type:    events.PROGRESS_UPDATE_CREATED,
		UserID:  &project.OwnerID,
		Payload: events.ProgressUpdateCreated{Project: project, Update: update},
	}); err != nil {
		return nil, err
	}

	log.Info("Progress update added", "projectID", projectID, "updateID", update.ID)
	return update, nil
}

// apply validates the request against the linked quote before any field
// of project changes.
func (c *ConstructionController) apply(
	ctx context.Context,
	project *ConstructionProject,
	request *ProjectRequest,
) error {
	errs := types.NewValidationError()

	name := strings.TrimSpace(request.Name)
	if name == "" {
		errs.Add("name", MsgRequired)
	}

	var owner *User
	if request.OwnerID == 0 {
		errs.Add("owner", MsgRequired)
	} else if found, err := c.userRepo.GetByID(ctx, c.db.SQL, request.OwnerID); err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			return err
		}
		errs.Add("owner", MsgInvalidChoice)
	} else {
		owner = found
	}

	if !ValidProgress(request.TotalProgress) {
		errs.Add("total_progress", MsgProgressRange)
	}

	start, err := utils.ParseDate(request.StartDate)
	if err != nil {
		errs.Add("start_date", MsgInvalidDate)
	}
	end, err := utils.ParseDate(request.ExpectedEndDate)
	if err != nil {
		errs.Add("expected_end_date", MsgInvalidDate)
	}

	if request.QuoteID != nil {
		quote, err := c.quoteRepo.GetByID(ctx, c.db.SQL, policy.System(policy.Quotes), *request.QuoteID)
		if err != nil {
			if !errors.Is(err, types.ErrNotFound) {
				return err
			}
			errs.Add("quote", MsgInvalidChoice)
		} else {
			if quote.Status != QuoteStatusApproved {
				errs.Add("quote", MsgQuoteNotApproved)
			}
			if owner != nil && owner.ID != quote.RequestedByID {
				errs.Add("owner", MsgOwnerMismatch)
			}

			linked, err := c.projectRepo.QuoteLinked(ctx, c.db.SQL, quote.ID, project.ID)
			if err != nil {
				return err
			}
			if linked {
				errs.Add("quote", MsgQuoteAlreadyLinked)
			}
		}
	}

	if err := errs.OrNil(); err != nil {
		return err
	}

	project.Name = name
	project.QuoteID = request.QuoteID
	project.Quote = nil
	project.OwnerID = owner.ID
	project.Owner = owner
	project.TotalProgress = request.TotalProgress
	project.StartDate = toDate(start)
	project.ExpectedEndDate = toDate(end)
	return nil
}

// linkConflict reports a concurrent link of the same quote as a field error.
func (c *ConstructionController) linkConflict(err error, log logger.Logger) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return types.FieldError("quote", MsgQuoteAlreadyLinked)
	}
	return log.Err("failed to save project", err)
}

func toDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	date := datatypes.Date(*t)
	return &date
}
