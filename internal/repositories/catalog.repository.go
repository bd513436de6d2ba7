package repositories

import (
	"context"
	"fmt"
	"strings"

	. "housemanagement/internal/models"
	"housemanagement/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CATALOG_PAGE_SIZE     = 9
	CATALOG_RELATED_LIMIT = 3
)

const (
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortPopularity = "popularity"
)

var (
	threeMillion = decimal.NewFromInt(3_000_000)
	fiveMillion  = decimal.NewFromInt(5_000_000)
	tenMillion   = decimal.NewFromInt(10_000_000)
	smallArea    = decimal.NewFromInt(150)
	largeArea    = decimal.NewFromInt(250)
)

// CatalogFilter mirrors the catalog query string. Unknown bucket or sort
// values are ignored.
type CatalogFilter struct {
	Query    string           `json:"q"`
	Budget   string           `json:"budget"`
	Area     string           `json:"area"`
	Style    string           `json:"style"`
	PriceMin *decimal.Decimal `json:"price_min"`
	PriceMax *decimal.Decimal `json:"price_max"`
	AreaMin  *decimal.Decimal `json:"area_min"`
	AreaMax  *decimal.Decimal `json:"area_max"`
	Bedrooms *int             `json:"bedrooms"`
	Sort     string           `json:"sort"`
	Page     int              `json:"page"`
}

type CatalogPage struct {
	Designs    []CatalogDesign `json:"designs"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

type CatalogRepository interface {
	List(ctx context.Context, tx *gorm.DB, filter CatalogFilter) (*CatalogPage, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*CatalogDesign, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*CatalogDesign, error)
	Related(ctx context.Context, tx *gorm.DB, design *CatalogDesign) ([]CatalogDesign, error)
	Create(ctx context.Context, tx *gorm.DB, design *CatalogDesign) error
	Update(ctx context.Context, tx *gorm.DB, design *CatalogDesign, nameChanged bool) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	AddImage(ctx context.Context, tx *gorm.DB, image *CatalogDesignImage) error
	UniqueSlug(ctx context.Context, tx *gorm.DB, name string, excludeID uint) (string, error)
}

type catalogRepository struct {
	log logger.Logger
}

func NewCatalogRepository() CatalogRepository {
	return &catalogRepository{log: logger.New("catalogRepository")}
}

func quotesCountSelect() string {
	return "catalog_designs.*, (SELECT COUNT(*) FROM quotes WHERE quotes.catalog_design_id = catalog_designs.id) AS quotes_count"
}

func applyCatalogFilter(tx *gorm.DB, filter CatalogFilter) *gorm.DB {
	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("LOWER(catalog_designs.name) LIKE ? OR LOWER(catalog_designs.concept) LIKE ?", like, like)
	}

	switch filter.Budget {
	case "3m":
		tx = tx.Where("catalog_designs.base_price <= ?", threeMillion)
	case "3-5m":
		tx = tx.Where("catalog_designs.base_price > ? AND catalog_designs.base_price <= ?", threeMillion, fiveMillion)
	case "5-10m":
		tx = tx.Where("catalog_designs.base_price > ? AND catalog_designs.base_price <= ?", fiveMillion, tenMillion)
	case "10m+":
		tx = tx.Where("catalog_designs.base_price > ?", tenMillion)
	}

	switch filter.Area {
	case "s":
		tx = tx.Where("catalog_designs.area_sqm < ?", smallArea)
	case "m":
		tx = tx.Where("catalog_designs.area_sqm >= ? AND catalog_designs.area_sqm <= ?", smallArea, largeArea)
	case "l":
		tx = tx.Where("catalog_designs.area_sqm > ?", largeArea)
	}

	if style := DesignStyle(filter.Style); style.IsValid() {
		tx = tx.Where("catalog_designs.style = ?", style)
	}
	if filter.PriceMin != nil {
		tx = tx.Where("catalog_designs.base_price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		tx = tx.Where("catalog_designs.base_price <= ?", *filter.PriceMax)
	}
	if filter.AreaMin != nil {
		tx = tx.Where("catalog_designs.area_sqm >= ?", *filter.AreaMin)
	}
	if filter.AreaMax != nil {
		tx = tx.Where("catalog_designs.area_sqm <= ?", *filter.AreaMax)
	}
	if filter.Bedrooms != nil {
		tx = tx.Where("catalog_designs.bedrooms >= ?", *filter.Bedrooms)
	}

	return tx
}

func catalogOrder(sort string) string {
	switch sort {
	case SortPriceAsc:
		return "catalog_designs.base_price ASC, catalog_designs.name ASC"
	case SortPriceDesc:
		return "catalog_designs.base_price DESC, catalog_designs.name ASC"
	case SortPopularity:
		return "quotes_count DESC, catalog_designs.name ASC"
	}
	return "catalog_designs.is_featured DESC, catalog_designs.name ASC"
}

// List returns one page of filtered designs. A page past the end is not found.
func (r *catalogRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter CatalogFilter,
) (*CatalogPage, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	var total int64
	err := applyCatalogFilter(tx.WithContext(ctx).Model(&CatalogDesign{}), filter).
		Count(&total).Error
	if err != nil {
		return nil, log.Err("failed to count catalog designs", err)
	}

	page := max(filter.Page, 1)
	totalPages := int((total + CATALOG_PAGE_SIZE - 1) / CATALOG_PAGE_SIZE)
	if page > 1 && page > totalPages {
		return nil, notFound(gorm.ErrRecordNotFound)
	}

	designs := []CatalogDesign{}
	err = applyCatalogFilter(tx.WithContext(ctx).Model(&CatalogDesign{}), filter).
		Select(quotesCountSelect()).
		Order(catalogOrder(filter.Sort)).
		Offset((page - 1) * CATALOG_PAGE_SIZE).
		Limit(CATALOG_PAGE_SIZE).
		Find(&designs).Error
	if err != nil {
		return nil, log.Err("failed to list catalog designs", err)
	}

	return &CatalogPage{
		Designs:    designs,
		Total:      total,
		Page:       page,
		PageSize:   CATALOG_PAGE_SIZE,
		TotalPages: totalPages,
	}, nil
}

func (r *catalogRepository) GetBySlug(
	ctx context.Context,
	tx *gorm.DB,
	slug string,
) (*CatalogDesign, error) {
	var design CatalogDesign
	err := tx.WithContext(ctx).
		Select(quotesCountSelect()).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("catalog_designs.slug = ?", slug).
		First(&design).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &design, nil
}

func (r *catalogRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*CatalogDesign, error) {
	design, err := gorm.G[CatalogDesign](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return &design, nil
}

// Related prefers designs of the same style, featured first.
func (r *catalogRepository) Related(
	ctx context.Context,
	tx *gorm.DB,
	design *CatalogDesign,
) ([]CatalogDesign, error) {
	related := []CatalogDesign{}
	err := tx.WithContext(ctx).
		Where("id <> ? AND style = ?", design.ID, design.Style).
		Order("is_featured DESC, name ASC").
		Limit(CATALOG_RELATED_LIMIT).
		Find(&related).Error
	if err != nil {
		return nil, r.log.TraceFromContext(ctx).Function("Related").
			Err("failed to load related designs", err, "designID", design.ID)
	}
	return related, nil
}

func (r *catalogRepository) Create(ctx context.Context, tx *gorm.DB, design *CatalogDesign) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	slug, err := r.UniqueSlug(ctx, tx, design.Name, 0)
	if err != nil {
		return err
	}
	design.Slug = slug

	if err := tx.WithContext(ctx).Omit("Images").Create(design).Error; err != nil {
		return log.Err("failed to create catalog design", err, "slug", design.Slug)
	}
	return nil
}

func (r *catalogRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	design *CatalogDesign,
	nameChanged bool,
) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if nameChanged || design.Slug == "" {
		slug, err := r.UniqueSlug(ctx, tx, design.Name, design.ID)
		if err != nil {
			return err
		}
		design.Slug = slug
	}

	if err := tx.WithContext(ctx).Omit("Images").Save(design).Error; err != nil {
		return log.Err("failed to update catalog design", err, "designID", design.ID)
	}
	return nil
}

func (r *catalogRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	rows, err := gorm.G[CatalogDesign](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return r.log.TraceFromContext(ctx).Function("Delete").
			Err("failed to delete catalog design", err, "designID", id)
	}
	if rows == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *catalogRepository) AddImage(ctx context.Context, tx *gorm.DB, image *CatalogDesignImage) error {
	if err := gorm.G[CatalogDesignImage](tx).Create(ctx, image); err != nil {
		return r.log.TraceFromContext(ctx).Function("AddImage").
			Err("failed to add catalog image", err, "designID", image.CatalogDesignID)
	}
	return nil
}

// UniqueSlug slugifies name and appends -2, -3, ... until no other design
// holds the candidate. Names without ASCII slug text get a random token.
// The check and the later insert are not atomic; a concurrent create with
// the same name surfaces as a duplicate key error from the insert.
func (r *catalogRepository) UniqueSlug(
	ctx context.Context,
	tx *gorm.DB,
	name string,
	excludeID uint,
) (string, error) {
	base := utils.Slugify(name)
	if base == "" {
		base = "design-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}

	candidate := base
	for suffix := 2; ; suffix++ {
		query := tx.WithContext(ctx).Model(&CatalogDesign{}).Where("slug = ?", candidate)
		if excludeID != 0 {
			query = query.Where("id <> ?", excludeID)
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			return "", r.log.TraceFromContext(ctx).Function("UniqueSlug").
				Err("failed to check slug", err, "slug", candidate)
		}
		if count == 0 {
			return candidate, nil
		}

		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}
