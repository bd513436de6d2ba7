package catalogController

import (
	"context"
	"strconv"
	"strings"

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
	"github.com/shopspring/decimal"
)

const (
	MsgRequired      = "This field is required."
	MsgInvalidNumber = "Enter a number."
	MsgNegative      = "Ensure this value is greater than or equal to 0."
	MsgInvalidStyle  = "Select a valid choice."
	PrefillSources   = 6
)

// CatalogDesignRequest carries numbers as text so form posts and JSON
// bodies decode the same way.
type CatalogDesignRequest struct {
	Name           string           `json:"name"        form:"name"`
	Concept        string           `json:"concept"     form:"concept"`
	BasePrice      types.FlexString `json:"base_price"  form:"base_price"`
	AreaSqm        types.FlexString `json:"area_sqm"    form:"area_sqm"`
	Bedrooms       types.FlexString `json:"bedrooms"    form:"bedrooms"`
	Bathrooms      types.FlexString `json:"bathrooms"   form:"bathrooms"`
	Dimensions     string           `json:"dimensions"  form:"dimensions"`
	Style          string           `json:"style"       form:"style"`
	IsFeatured     bool             `json:"is_featured" form:"is_featured"`
	CoverImage     *types.Upload    `json:"-"           form:"-"`
	FloorPlanImage *types.Upload    `json:"-"           form:"-"`
}

type AddImageRequest struct {
	Caption   string        `json:"caption"    form:"caption"`
	SortOrder int           `json:"sort_order" form:"sort_order"`
	Image     *types.Upload `json:"-"          form:"-"`
}

type CatalogListResponse struct {
	*repositories.CatalogPage
	Filter repositories.CatalogFilter `json:"filter"`
	Styles []DesignStyle              `json:"styles"`
}

type CatalogDetail struct {
	Design  *CatalogDesign  `json:"design"`
	Related []CatalogDesign `json:"related"`
}

type CatalogPrefill struct {
	Name    string        `json:"name"`
	Concept string        `json:"concept"`
	Sources []HouseDesign `json:"sources"`
}

type QuoteRequestResult struct {
	Quote   *Quote `json:"quote"`
	Created bool   `json:"created"`
}

type CatalogControllerInterface interface {
	List(ctx context.Context, filter repositories.CatalogFilter) (*CatalogListResponse, error)
	Detail(ctx context.Context, slug string) (*CatalogDetail, error)
	Create(ctx context.Context, user *User, request *CatalogDesignRequest) (*CatalogDesign, error)
	Update(ctx context.Context, user *User, id uint, request *CatalogDesignRequest) (*CatalogDesign, error)
	Delete(ctx context.Context, user *User, id uint) error
	AddImage(ctx context.Context, user *User, id uint, request *AddImageRequest) (*CatalogDesignImage, error)
	Prefill(ctx context.Context, user *User, sourceDesignID uint) (*CatalogPrefill, error)
	RequestQuote(ctx context.Context, user *User, slug string) (*QuoteRequestResult, error)
}

type CatalogController struct {
	catalogRepo   repositories.CatalogRepository
	designRepo    repositories.DesignRepository
	quoteRepo     repositories.QuoteRepository
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
) CatalogControllerInterface {
	return &CatalogController{
		catalogRepo:   repos.Catalog,
		designRepo:    repos.Design,
		quoteRepo:     repos.Quote,
		dashboardRepo: repos.Dashboard,
		files:         services.Files,
		eventBus:      eventBus,
		db:            db,
		Config:        config,
		log:           logger.New("catalogController"),
	}
}

// ParseFilter reads the catalog query string. Malformed numbers are dropped.
func ParseFilter(query map[string]string) repositories.CatalogFilter {
	filter := repositories.CatalogFilter{
		Query:  strings.TrimSpace(query["q"]),
		Budget: query["budget"],
		Area:   query["area"],
		Style:  query["style"],
		Sort:   query["sort"],
		Page:   1,
	}

	filter.PriceMin, _ = utils.ParseDecimal(query["price_min"])
	filter.PriceMax, _ = utils.ParseDecimal(query["price_max"])
	filter.AreaMin, _ = utils.ParseDecimal(query["area_min"])
	filter.AreaMax, _ = utils.ParseDecimal(query["area_max"])

	if bedrooms, err := strconv.Atoi(strings.TrimSpace(query["bedrooms"])); err == nil {
		filter.Bedrooms = &bedrooms
	}
	if page, err := strconv.Atoi(query["page"]); err == nil && page > 0 {
		filter.Page = page
	}

	return filter
}

func (c *CatalogController) List(
	ctx context.Context,
	filter repositories.CatalogFilter,
) (*CatalogListResponse, error) {
	page, err := c.catalogRepo.List(ctx, c.db.SQL, filter)
	if err != nil {
		return nil, err
	}

	return &CatalogListResponse{CatalogPage: page, Filter: filter, Styles: DesignStyles}, nil
}

func (c *CatalogController) Detail(ctx context.Context, slug string) (*CatalogDetail, error) {
	log := c.log.Function("Detail").TraceFromContext(ctx)

	design, err := c.catalogRepo.GetBySlug(ctx, c.db.SQL, slug)
	if err != nil {
		return nil, err
	}

	related, err := c.catalogRepo.Related(ctx, c.db.SQL, design)
	if err != nil {
		return nil, log.Err("failed to load related designs", err, "slug", slug)
	}

	return &CatalogDetail{Design: design, Related: related}, nil
}

func (c *CatalogController) Create(
	ctx context.Context,
	user *User,
	request *CatalogDesignRequest,
) (*CatalogDesign, error) {
	log := c.log.Function("Create").TraceFromContext(ctx)

	if !user.CanSeeEverything() {
		return nil, types.ErrForbidden
	}

	design := &CatalogDesign{}
	if err := applyRequest(design, request); err != nil {
		return nil, err
	}
	if err := c.storeFiles(ctx, design, request); err != nil {
		return nil, err
	}

	if err := c.catalogRepo.Create(ctx, c.db.SQL, design); err != nil {
		return nil, log.Err("failed to create catalog design", err, "name", design.Name)
	}

	log.Info("Catalog design created", "designID", design.ID, "slug", design.Slug)
	return design, nil
}

func (c *CatalogController) Update(
	ctx context.Context,
	user *User,
	id uint,
	request *CatalogDesignRequest,
) (*CatalogDesign, error) {
	log := c.log.Function("Update").TraceFromContext(ctx)

	if !user.CanSeeEverything() {
		return nil, types.ErrForbidden
	}

	design, err := c.catalogRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		return nil, err
	}

	previousName := design.Name
	if err := applyRequest(design, request); err != nil {
		return nil, err
	}
	if err := c.storeFiles(ctx, design, request); err != nil {
		return nil, err
	}

	if err := c.catalogRepo.Update(ctx, c.db.SQL, design, design.Name != previousName); err != nil {
		return nil, log.Err("failed to update catalog design", err, "designID", id)
	}
	return design, nil
}

func (c *CatalogController) Delete(ctx context.Context, user *User, id uint) error {
	if !user.CanSeeEverything() {
		return types.ErrForbidden
	}
	return c.catalogRepo.Delete(ctx, c.db.SQL, id)
}

func (c *CatalogController) AddImage(
	ctx context.Context,
	user *User,
	id uint,
	request *AddImageRequest,
) (*CatalogDesignImage, error) {
	log := c.log.Function("AddImage").TraceFromContext(ctx)

	if !user.CanSeeEverything() {
		return nil, types.ErrForbidden
	}
	if request.Image == nil {
		return nil, types.FieldError("image", MsgRequired)
	}

	if _, err := c.catalogRepo.GetByID(ctx, c.db.SQL, id); err != nil {
		return nil, err
	}

	path, err := services.SaveUpload(ctx, c.files, services.CategoryCatalogGallery, request.Image)
	if err != nil {
		return nil, log.Err("failed to store gallery image", err, "designID", id)
	}

	image := &CatalogDesignImage{
		CatalogDesignID: id,
		Image:           path,
		Caption:         strings.TrimSpace(request.Caption),
		SortOrder:       request.SortOrder,
	}
	if err := c.catalogRepo.AddImage(ctx, c.db.SQL, image); err != nil {
		return nil, err
	}
	return image, nil
}

// Prefill seeds a new catalog entry from a submitted house design.
// A zero sourceDesignID returns only the list of recent sources.
func (c *CatalogController) Prefill(
	ctx context.Context,
	user *User,
	sourceDesignID uint,
) (*CatalogPrefill, error) {
	log := c.log.Function("Prefill").TraceFromContext(ctx)

	if !user.CanSeeEverything() {
		return nil, types.ErrForbidden
	}

	sources, err := c.designRepo.Recent(ctx, c.db.SQL, PrefillSources)
	if err != nil {
		return nil, log.Err("failed to load prefill sources", err)
	}

	prefill := &CatalogPrefill{Sources: sources}
	if sourceDesignID == 0 {
		return prefill, nil
	}

	source, err := c.designRepo.GetByID(ctx, c.db.SQL, policy.For(user, policy.Designs), sourceDesignID)
	if err != nil {
		return nil, err
	}
	prefill.Name = source.Title
	prefill.Concept = source.Description
	return prefill, nil
}

// RequestQuote reuses the caller's quote for the design when one exists.
func (c *CatalogController) RequestQuote(
	ctx context.Context,
	user *User,
	slug string,
) (*QuoteRequestResult, error) {
	log := c.log.Function("RequestQuote").TraceFromContext(ctx)

	design, err := c.catalogRepo.GetBySlug(ctx, c.db.SQL, slug)
	if err != nil {
		return nil, err
	}

	quote, created, err := c.quoteRepo.GetOrCreateForCatalog(ctx, c.db.SQL, user.ID, design)
	if err != nil {
		return nil, log.Err("failed to request catalog quote", err, "slug", slug, "userID", user.ID)
	}
	quote.CatalogDesign = design
	quote.RequestedBy = user

	if created {
		c.dashboardRepo.Invalidate(ctx, user.ID)
		if err := c.eventBus.Publish(ctx, events.Event{
			Type:    events.QUOTE_CREATED,
			UserID:  &user.ID,
			Payload: quote,
		}); err != nil {
			return nil, err
		}
	}

	return &QuoteRequestResult{Quote: quote, Created: created}, nil
}

func (c *CatalogController) storeFiles(
	ctx context.Context,
	design *CatalogDesign,
	request *CatalogDesignRequest,
) error {
	log := c.log.Function("storeFiles").TraceFromContext(ctx)

	cover, err := services.SaveUpload(ctx, c.files, services.CategoryCatalogCovers, request.CoverImage)
	if err != nil {
		return log.Err("failed to store cover image", err)
	}
	if cover != "" {
		design.CoverImage = cover
	}

	plan, err := services.SaveUpload(ctx, c.files, services.CategoryCatalogPlans, request.FloorPlanImage)
	if err != nil {
		return log.Err("failed to store floor plan", err)
	}
	if plan != "" {
		design.FloorPlanImage = plan
	}
	return nil
}

// applyRequest validates every field before touching design.
func applyRequest(design *CatalogDesign, request *CatalogDesignRequest) error {
	errs := types.NewValidationError()

	name := strings.TrimSpace(request.Name)
	if name == "" {
		errs.Add("name", MsgRequired)
	}

	basePrice := requiredDecimal(errs, "base_price", request.BasePrice.String())
	area := requiredDecimal(errs, "area_sqm", request.AreaSqm.String())
	bedrooms := optionalCount(errs, "bedrooms", request.Bedrooms.String())
	bathrooms := optionalCount(errs, "bathrooms", request.Bathrooms.String())

	style := DesignStyle(strings.TrimSpace(request.Style))
	if style == "" {
		style = DesignStyleModern
	}
	if !style.IsValid() {
		errs.Add("style", MsgInvalidStyle)
	}

	if err := errs.OrNil(); err != nil {
		return err
	}

	design.Name = name
	design.Concept = strings.TrimSpace(request.Concept)
	design.BasePrice = basePrice
	design.AreaSqm = area
	design.Bedrooms = bedrooms
	design.Bathrooms = bathrooms
	design.Dimensions = strings.TrimSpace(request.Dimensions)
	design.Style = style
	design.IsFeatured = request.IsFeatured
	return nil
}

func requiredDecimal(errs *types.ValidationError, field, value string) decimal.Decimal {
	parsed, err := utils.ParseDecimal(value)
	switch {
	case err != nil:
		errs.Add(field, MsgInvalidNumber)
	case parsed == nil:
		errs.Add(field, MsgRequired)
	case parsed.IsNegative():
		errs.Add(field, MsgNegative)
	default:
		return *parsed
	}
	return decimal.Zero
}

func optionalCount(errs *types.ValidationError, field, value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		errs.Add(field, "Enter a whole number.")
		return 0
	}
	if n < 0 {
		errs.Add(field, MsgNegative)
		return 0
	}
	return n
}
