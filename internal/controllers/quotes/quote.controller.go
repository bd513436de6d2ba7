package quoteController

import (
	"context"
	"strconv"
	"strings"

	"housemanagement/config"
	"housemanagement/internal/contract"
	"housemanagement/internal/database"
	"housemanagement/internal/events"
	. "housemanagement/internal/models"
	"housemanagement/internal/policy"
	"housemanagement/internal/repositories"
	"housemanagement/internal/services"
	"housemanagement/internal/types"
	"housemanagement/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
)

const (
	MsgOwnDesignsOnly = "You can only request quotes for your own designs."
	MsgInvalidChoice  = "Select a valid choice."
	MsgInvalidPrice   = "Enter a valid price."
	MsgMissingContact = "กรุณากรอกข้อมูลติดต่อให้ครบถ้วน"
	MsgInquirySaved   = "บันทึกคำขอเรียบร้อยแล้ว ทีมงานจะติดต่อกลับโดยเร็วที่สุด"
	labelLandSize     = "ขนาดที่ดิน"
	labelHouseSize    = "พื้นที่ใช้สอย"
	labelFloors       = "จำนวนชั้น"
	suffixInvalidInt  = " ไม่ถูกต้อง"
	suffixNegativeInt = " ต้องเป็นจำนวนเต็มบวก"
)

type CreateQuoteRequest struct {
	DesignID        *uint `json:"design"         form:"design"`
	CatalogDesignID *uint `json:"catalog_design" form:"catalog_design"`
}

type UpdateQuoteRequest struct {
	Status *string           `json:"status" form:"status"`
	Price  *types.FlexString `json:"price"  form:"price"`
}

// InquiryRequest fields are pointers so a missing value can be told apart
// from an empty one.
type InquiryRequest struct {
	Name          string            `json:"name"           form:"name"`
	Phone         string            `json:"phone"          form:"phone"`
	Email         string            `json:"email"          form:"email"`
	LandSize      *types.FlexString `json:"land_size"      form:"land_size"`
	HouseSize     *types.FlexString `json:"house_size"     form:"house_size"`
	MaterialGrade string            `json:"material_grade" form:"material_grade"`
	Floors        *types.FlexString `json:"floors"         form:"floors"`
	EstimateMin   *types.FlexString `json:"estimate_min"   form:"estimate_min"`
	EstimateMax   *types.FlexString `json:"estimate_max"   form:"estimate_max"`
	Notes         string            `json:"notes"          form:"notes"`
}

type InquiryResult struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	PendingCount int64  `json:"pending_count"`
	InquiryID    uint   `json:"inquiry_id"`
}

// InquiryError is shown to the estimator as a single message.
type InquiryError struct {
	Message string
}

func (e *InquiryError) Error() string {
	return e.Message
}

type ContractGenerator interface {
	Generate(ctx context.Context, quote *Quote) (*contract.Contract, error)
}

type QuoteControllerInterface interface {
	List(ctx context.Context, user *User) ([]Quote, error)
	Get(ctx context.Context, user *User, id uint) (*Quote, error)
	SelectableDesigns(ctx context.Context, user *User) ([]HouseDesign, error)
	Create(ctx context.Context, user *User, request *CreateQuoteRequest) (*Quote, error)
	Update(ctx context.Context, user *User, id uint, request *UpdateQuoteRequest) (*Quote, error)
	Delete(ctx context.Context, user *User, id uint) error
	SubmitInquiry(ctx context.Context, user *User, request *InquiryRequest) (*InquiryResult, error)
	ListInquiries(ctx context.Context, user *User) ([]EstimateInquiry, error)
	MarkInquiryHandled(ctx context.Context, user *User, id uint) error
	Contract(ctx context.Context, user *User, id uint) (*contract.Contract, error)
}

type QuoteController struct {
	quoteRepo     repositories.QuoteRepository
	designRepo    repositories.DesignRepository
	catalogRepo   repositories.CatalogRepository
	inquiryRepo   repositories.InquiryRepository
	dashboardRepo repositories.DashboardRepository
	contracts     ContractGenerator
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
) QuoteControllerInterface {
	return NewWithGenerator(repos, services.Contract, eventBus, config, db)
}

func NewWithGenerator(
	repos repositories.Repository,
	contracts ContractGenerator,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) *QuoteController {
	return &QuoteController{
		quoteRepo:     repos.Quote,
		designRepo:    repos.Design,
		catalogRepo:   repos.Catalog,
		inquiryRepo:   repos.Inquiry,
		dashboardRepo: repos.Dashboard,
		contracts:     contracts,
		eventBus:      eventBus,
		db:            db,
		Config:        config,
		log:           logger.New("quoteController"),
	}
}

func (c *QuoteController) List(ctx context.Context, user *User) ([]Quote, error) {
	return c.quoteRepo.List(ctx, c.db.SQL, policy.For(user, policy.Quotes))
}

func (c *QuoteController) Get(ctx context.Context, user *User, id uint) (*Quote, error) {
	return c.quoteRepo.GetByID(ctx, c.db.SQL, policy.For(user, policy.Quotes), id)
}

func (c *QuoteController) SelectableDesigns(ctx context.Context, user *User) ([]HouseDesign, error) {
	return c.designRepo.Selectable(ctx, c.db.SQL, policy.For(user, policy.Designs), user.ID)
}

func (c *QuoteController) Create(
	ctx context.Context,
	user *User,
	request *CreateQuoteRequest,
) (*Quote, error) {
	log := c.log.Function("Create").TraceFromContext(ctx)

	quote := &Quote{
		DesignID:        request.DesignID,
		CatalogDesignID: request.CatalogDesignID,
		RequestedByID:   user.ID,
		Status:          QuoteStatusPending,
	}
	if err := quote.Validate(); err != nil {
		return nil, err
	}

	if quote.DesignID != nil {
		design, err := c.designRepo.GetByID(
			ctx,
			c.db.SQL,
			policy.System(policy.Designs),
			*quote.DesignID,
		)
		if err != nil {
			return nil, types.FieldError("design", MsgInvalidChoice)
		}
		if !policy.For(user, policy.Designs).Allows(design.OwnerID) {
			return nil, types.FieldError("design", MsgOwnDesignsOnly)
		}
		quote.Design = design
	}

	if quote.CatalogDesignID != nil {
		catalog, err := c.catalogRepo.GetByID(ctx, c.db.SQL, *quote.CatalogDesignID)
		if err != nil {
			return nil, types.FieldError("catalog_design", MsgInvalidChoice)
		}
		price := catalog.BasePrice
		quote.Price = &price
		quote.CatalogDesign = catalog
	}

	design, catalog := quote.Design, quote.CatalogDesign
	quote.Design, quote.CatalogDesign = nil, nil
	if err := c.quoteRepo.Create(ctx, c.db.SQL, quote); err != nil {
		if _, ok := types.AsValidationError(err); ok {
			return nil, err
		}
		return nil, log.Err("failed to create quote", err, "userID", user.ID)
	}
	quote.Design, quote.CatalogDesign, quote.RequestedBy = design, catalog, user

	c.dashboardRepo.Invalidate(ctx, user.ID)

	if err := c.eventBus.Publish(ctx, events.Event{
		Type:    events.QUOTE_CREATED,
		UserID:  &user.ID,
		Payload: quote,
	}); err != nil {
		return nil, err
	}

	log.Info("Quote created", "quoteID", quote.ID, "userID", user.ID)
	return quote, nil
}

// Update is the approval path: superusers change status and price.
func (c *QuoteController) Update(
	ctx context.Context,
	user *User,
	id uint,
	request *UpdateQuoteRequest,
) (*Quote, error) {
	log := c.log.Function("Update").TraceFromContext(ctx)

	if !user.CanSeeEverything() {
		return nil, types.ErrForbidden
	}

	quote, err := c.quoteRepo.GetByID(ctx, c.db.SQL, policy.For(user, policy.Quotes), id)
	if err != nil {
		return nil, err
	}

	errs := types.NewValidationError()
	if request.Status != nil {
		status := QuoteStatus(strings.TrimSpace(*request.Status))
		if status.IsValid() {
			quote.Status = status
		} else {
			errs.Add("status", MsgInvalidChoice)
		}
	}
	if request.Price != nil {
		price, err := utils.ParseDecimal(request.Price.String())
		switch {
		case err != nil:
			errs.Add("price", MsgInvalidPrice)
		case price != nil && price.IsNegative():
			errs.Add("price", "Price cannot be negative.")
		default:
			quote.Price = price
		}
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	if err := c.quoteRepo.Update(ctx, c.db.SQL, quote); err != nil {
		if _, ok := types.AsValidationError(err); ok {
			return nil, err
		}
		return nil, log.Err("failed to update quote", err, "quoteID", id)
	}

	c.dashboardRepo.Invalidate(ctx, quote.RequestedByID)
	log.Info("Quote updated", "quoteID", id, "status", quote.Status)
	return quote, nil
}

func (c *QuoteController) Delete(ctx context.Context, user *User, id uint) error {
	if !user.CanSeeEverything() {
		return types.ErrForbidden
	}

	scope := policy.For(user, policy.Quotes)
	quote, err := c.quoteRepo.GetByID(ctx, c.db.SQL, scope, id)
	if err != nil {
		return err
	}
	if err := c.quoteRepo.Delete(ctx, c.db.SQL, scope, id); err != nil {
		return err
	}

	c.dashboardRepo.Invalidate(ctx, quote.RequestedByID)
	return nil
}

func (c *QuoteController) SubmitInquiry(
	ctx context.Context,
	user *User,
	request *InquiryRequest,
) (*InquiryResult, error) {
	log := c.log.Function("SubmitInquiry").TraceFromContext(ctx)

	name := strings.TrimSpace(request.Name)
	phone := strings.TrimSpace(request.Phone)
	email := strings.TrimSpace(request.Email)
	if name == "" || phone == "" || email == "" {
		return nil, &InquiryError{Message: MsgMissingContact}
	}

	landSize, err := parseNonNegativeInt(request.LandSize, labelLandSize)
	if err != nil {
		return nil, err
	}
	houseSize, err := parseNonNegativeInt(request.HouseSize, labelHouseSize)
	if err != nil {
		return nil, err
	}
	floors, err := parseNonNegativeInt(request.Floors, labelFloors)
	if err != nil {
		return nil, err
	}

	estimateMin, minErr := parseEstimate(request.EstimateMin)
	estimateMax, maxErr := parseEstimate(request.EstimateMax)
	if minErr != nil || maxErr != nil {
		estimateMin, estimateMax = decimal.Zero, decimal.Zero
	}

	inquiry := &EstimateInquiry{
		Name:          name,
		Phone:         phone,
		Email:         email,
		LandSize:      landSize,
		HouseSize:     houseSize,
		MaterialGrade: ParseMaterialGrade(strings.ToLower(strings.TrimSpace(request.MaterialGrade))),
		Floors:        floors,
		EstimateMin:   estimateMin,
		EstimateMax:   estimateMax,
		Notes:         strings.TrimSpace(request.Notes),
	}
	if user != nil {
		inquiry.UserID = &user.ID
	}

	if err := c.inquiryRepo.Create(ctx, c.db.SQL, inquiry); err != nil {
		return nil, log.Err("failed to save inquiry", err)
	}

	pending, err := c.inquiryRepo.CountPending(ctx, c.db.SQL)
	if err != nil {
		return nil, err
	}

	log.Info("Estimate inquiry saved", "inquiryID", inquiry.ID, "pending", pending)
	return &InquiryResult{
		Status:       "ok",
		Message:      MsgInquirySaved,
		PendingCount: pending,
		InquiryID:    inquiry.ID,
	}, nil
}

func (c *QuoteController) ListInquiries(ctx context.Context, user *User) ([]EstimateInquiry, error) {
	if !user.CanSeeEverything() {
		return nil, types.ErrForbidden
	}
	return c.inquiryRepo.List(ctx, c.db.SQL)
}

func (c *QuoteController) MarkInquiryHandled(ctx context.Context, user *User, id uint) error {
	if !user.CanSeeEverything() {
		return types.ErrForbidden
	}
	return c.inquiryRepo.MarkHandled(ctx, c.db.SQL, id)
}

// Contract renders the construction contract for a visible quote.
func (c *QuoteController) Contract(ctx context.Context, user *User, id uint) (*contract.Contract, error) {
	quote, err := c.quoteRepo.GetByID(ctx, c.db.SQL, policy.For(user, policy.Quotes), id)
	if err != nil {
		return nil, err
	}
	return c.contracts.Generate(ctx, quote)
}

// parseNonNegativeInt treats a missing value as 0 but rejects an empty one.
func parseNonNegativeInt(value *types.FlexString, label string) (int, error) {
	if value == nil {
		return 0, nil
	}

	parsed, err := strconv.Atoi(strings.TrimSpace(value.String()))
	if err != nil {
		return 0, &InquiryError{Message: label + suffixInvalidInt}
	}
	if parsed < 0 {
		return 0, &InquiryError{Message: label + suffixNegativeInt}
	}
	return parsed, nil
}

func parseEstimate(value *types.FlexString) (decimal.Decimal, error) {
	if value == nil {
		return decimal.Zero, nil
	}
	parsed, err := utils.ParseDecimal(value.String())
	if err != nil || parsed == nil {
		return decimal.Zero, err
	}
	return *parsed, nil
}
