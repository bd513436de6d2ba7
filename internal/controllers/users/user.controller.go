package userController

import (
	"context"
	"strings"

	"housemanagement/config"
	"housemanagement/internal/database"
	. "housemanagement/internal/models"
	"housemanagement/internal/policy"
	"housemanagement/internal/repositories"
	"housemanagement/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
)

const DashboardInquiryLimit = 5

type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name"  form:"first_name"`
	LastName   *string `json:"last_name"   form:"last_name"`
	Email      *string `json:"email"       form:"email"`
	Phone      string  `json:"phone"       form:"phone"`
	Address    string  `json:"address"     form:"address"`
	NationalID string  `json:"national_id" form:"national_id"`
	TaxID      string  `json:"tax_id"      form:"tax_id"`
}

type UserControllerInterface interface {
	Me(ctx context.Context, user *User) UserResponse
	UpdateProfile(ctx context.Context, user *User, request *UpdateProfileRequest) (*UserResponse, error)
	Dashboard(ctx context.Context, user *User) (*repositories.DashboardSummary, error)
	EmailMyData(ctx context.Context, user *User) error
}

type UserController struct {
	userRepo      repositories.UserRepository
	designRepo    repositories.DesignRepository
	quoteRepo     repositories.QuoteRepository
	projectRepo   repositories.ProjectRepository
	inquiryRepo   repositories.InquiryRepository
	dashboardRepo repositories.DashboardRepository
	privacy       *services.PrivacyService
	db            database.DB
	Config        config.Config
	log           logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) UserControllerInterface {
	return &UserController{
		userRepo:      repos.User,
		designRepo:    repos.Design,
		quoteRepo:     repos.Quote,
		projectRepo:   repos.Project,
		inquiryRepo:   repos.Inquiry,
		dashboardRepo: repos.Dashboard,
		privacy:       services.Privacy,
		db:            db,
		Config:        config,
		log:           logger.New("userController"),
	}
}

func (c *UserController) Me(ctx context.Context, user *User) UserResponse {
	return user.ToResponse()
}

func (c *UserController) UpdateProfile(
	ctx context.Context,
	user *User,
	request *UpdateProfileRequest,
) (*UserResponse, error) {
	log := c.log.Function("UpdateProfile").TraceFromContext(ctx)

	if request.FirstName != nil || request.LastName != nil || request.Email != nil {
		if request.FirstName != nil {
			user.FirstName = strings.TrimSpace(*request.FirstName)
		}
		if request.LastName != nil {
			user.LastName = strings.TrimSpace(*request.LastName)
		}
		if request.Email != nil {
			user.Email = strings.TrimSpace(*request.Email)
		}
		if err := c.userRepo.Update(ctx, c.db.SQL, user); err != nil {
			return nil, log.Err("failed to update user", err, "userID", user.ID)
		}
	}

	profile := &Profile{
		UserID:     user.ID,
		Phone:      strings.TrimSpace(request.Phone),
		Address:    strings.TrimSpace(request.Address),
		NationalID: strings.TrimSpace(request.NationalID),
		TaxID:      strings.TrimSpace(request.TaxID),
	}
	if err := c.userRepo.UpsertProfile(ctx, c.db.SQL, profile); err != nil {
		return nil, log.Err("failed to update profile", err, "userID", user.ID)
	}

	updated, err := c.userRepo.GetByID(ctx, c.db.SQL, user.ID)
	if err != nil {
		return nil, err
	}
	response := updated.ToResponse()
	return &response, nil
}

// Dashboard builds the role-scoped summary. Superuser summaries include
// inquiries and are never cached.
func (c *UserController) Dashboard(
	ctx context.Context,
	user *User,
) (*repositories.DashboardSummary, error) {
	log := c.log.Function("Dashboard").TraceFromContext(ctx)

	cacheable := !user.CanSeeEverything()
	if cacheable {
		if summary, found := c.dashboardRepo.Get(ctx, user.ID); found {
			return summary, nil
		}
	}

	var (
		summary repositories.DashboardSummary
		err     error
	)

	if summary.DesignCount, err = c.designRepo.Count(ctx, c.db.SQL, policy.For(user, policy.Designs)); err != nil {
		return nil, log.Err("failed to count designs", err)
	}

	quotes := policy.For(user, policy.Quotes)
	if summary.QuoteCount, err = c.quoteRepo.Count(ctx, c.db.SQL, quotes, ""); err != nil {
		return nil, log.Err("failed to count quotes", err)
	}
	if summary.PendingQuoteCount, err = c.quoteRepo.Count(ctx, c.db.SQL, quotes, QuoteStatusPending); err != nil {
		return nil, log.Err("failed to count pending quotes", err)
	}

	projects := policy.For(user, policy.Projects)
	if summary.ProjectCount, err = c.projectRepo.Count(ctx, c.db.SQL, projects); err != nil {
		return nil, log.Err("failed to count projects", err)
	}
	average, err := c.projectRepo.AverageProgress(ctx, c.db.SQL, projects)
	if err != nil {
		return nil, log.Err("failed to average progress", err)
	}
	summary.AverageProgress = decimal.NewFromFloat(average).Round(1)

	if user.CanSeeEverything() {
		pending, err := c.inquiryRepo.CountPending(ctx, c.db.SQL)
		if err != nil {
			return nil, err
		}
		summary.PendingInquiries = &pending

		if summary.RecentInquiries, err = c.inquiryRepo.ListPending(
			ctx,
			c.db.SQL,
			DashboardInquiryLimit,
			false,
		); err != nil {
			return nil, err
		}
	}

	if cacheable {
		c.dashboardRepo.Set(ctx, user.ID, &summary)
	}
	return &summary, nil
}

func (c *UserController) EmailMyData(ctx context.Context, user *User) error {
	return c.privacy.EmailPersonalData(ctx, user)
}
