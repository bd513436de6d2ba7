package repositories

import (
	"context"
	"errors"

	. "housemanagement/internal/models"
	"housemanagement/internal/policy"
	"housemanagement/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const (
	MsgDuplicateDesignQuote  = "You already have a quote for this design."
	MsgDuplicateCatalogQuote = "You already have a quote for this catalog design."
)

type QuoteRepository interface {
	List(ctx context.Context, tx *gorm.DB, scope policy.Scope) ([]Quote, error)
	GetByID(ctx context.Context, tx *gorm.DB, scope policy.Scope, id uint) (*Quote, error)
	Create(ctx context.Context, tx *gorm.DB, quote *Quote) error
	Update(ctx context.Context, tx *gorm.DB, quote *Quote) error
	Delete(ctx context.Context, tx *gorm.DB, scope policy.Scope, id uint) error
	Count(ctx context.Context, tx *gorm.DB, scope policy.Scope, status QuoteStatus) (int64, error)
	ListApproved(ctx context.Context, tx *gorm.DB) ([]Quote, error)
	GetOrCreateForCatalog(
		ctx context.Context,
		tx *gorm.DB,
		requesterID uint,
		catalog *CatalogDesign,
	) (*Quote, bool, error)
}

type quoteRepository struct {
	log logger.Logger
}

func NewQuoteRepository() QuoteRepository {
	return &quoteRepository{log: logger.New("quoteRepository")}
}

func preloadQuote(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Design.Owner").
		Preload("CatalogDesign").
		Preload("RequestedBy.Profile")
}

func (r *quoteRepository) List(ctx context.Context, tx *gorm.DB, scope policy.Scope) ([]Quote, error) {
	quotes := []Quote{}
	err := tx.WithContext(ctx).
		Scopes(scope.Apply, preloadQuote).
		Order("quotes.created_at DESC").
		Find(&quotes).Error
	if err != nil {
		return nil, r.log.TraceFromContext(ctx).Function("List").Err("failed to list quotes", err)
	}
	return quotes, nil
}

func (r *quoteRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	scope policy.Scope,
	id uint,
) (*Quote, error) {
	var quote Quote
	err := tx.WithContext(ctx).
		Scopes(scope.Apply, preloadQuote).
		Where("quotes.id = ?", id).
		First(&quote).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &quote, nil
}

// Create maps a (design, requester) or (catalog_design, requester) conflict
// onto a field error for the reference that collided.
func (r *quoteRepository) Create(ctx context.Context, tx *gorm.DB, quote *Quote) error {
	err := tx.WithContext(ctx).
		Omit("Design", "CatalogDesign", "RequestedBy").
		Create(quote).Error
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if quote.CatalogDesignID != nil {
			return types.FieldError("catalog_design", MsgDuplicateCatalogQuote)
		}
		return types.FieldError("design", MsgDuplicateDesignQuote)
	}
	if _, ok := types.AsValidationError(err); ok {
		return err
	}
	return r.log.TraceFromContext(ctx).Function("Create").
		Err("failed to create quote", err, "requesterID", quote.RequestedByID)
}

func (r *quoteRepository) Update(ctx context.Context, tx *gorm.DB, quote *Quote) error {
	err := tx.WithContext(ctx).
		Omit("Design", "CatalogDesign", "RequestedBy").
		Save(quote).Error
	if err == nil {
		return nil
	}
	if _, ok := types.AsValidationError(err); ok {
		return err
	}
	return r.log.TraceFromContext(ctx).Function("Update").
		Err("failed to update quote", err, "quoteID", quote.ID)
}

func (r *quoteRepository) Delete(ctx context.Context, tx *gorm.DB, scope policy.Scope, id uint) error {
	result := tx.WithContext(ctx).Scopes(scope.Apply).Where("quotes.id = ?", id).Delete(&Quote{})
	if result.Error != nil {
		return r.log.TraceFromContext(ctx).Function("Delete").
			Err("failed to delete quote", result.Error, "quoteID", id)
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Count counts visible quotes, optionally restricted to one status.
func (r *quoteRepository) Count(
	ctx context.Context,
	tx *gorm.DB,
	scope policy.Scope,
	status QuoteStatus,
) (int64, error) {
	query := tx.WithContext(ctx).Model(&Quote{}).Scopes(scope.Apply)
	if status != "" {
		query = query.Where("quotes.status = ?", status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, r.log.TraceFromContext(ctx).Function("Count").Err("failed to count quotes", err)
	}
	return count, nil
}

// ListApproved feeds the project form's quote choices.
func (r *quoteRepository) ListApproved(ctx context.Context, tx *gorm.DB) ([]Quote, error) {
	quotes := []Quote{}
	err := tx.WithContext(ctx).
		Scopes(preloadQuote).
		Where("status = ?", QuoteStatusApproved).
		Order("created_at DESC").
		Find(&quotes).Error
	if err != nil {
		return nil, r.log.TraceFromContext(ctx).Function("ListApproved").
			Err("failed to list approved quotes", err)
	}
	return quotes, nil
}

// GetOrCreateForCatalog returns the requester's quote for a catalog design,
// creating a draft priced at the base price when none exists. A concurrent
// insert that loses on the unique index reloads the winner. Call it outside
// an explicit transaction so the failed insert does not poison the reload.
func (r *quoteRepository) GetOrCreateForCatalog(
	ctx context.Context,
	tx *gorm.DB,
	requesterID uint,
	catalog *CatalogDesign,
) (*Quote, bool, error) {
	log := r.log.TraceFromContext(ctx).Function("GetOrCreateForCatalog")

	existing, err := r.findCatalogQuote(ctx, tx, requesterID, catalog.ID)
	if err == nil {
		return existing, false, r.backfillPrice(ctx, tx, existing, catalog)
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, false, log.Err("failed to look up catalog quote", err, "catalogID", catalog.ID)
	}

	price := catalog.BasePrice
	quote := &Quote{
		CatalogDesignID: &catalog.ID,
		RequestedByID:   requesterID,
		Price:           &price,
		Status:          QuoteStatusDraft,
	}

	err = tx.WithContext(ctx).Omit("Design", "CatalogDesign", "RequestedBy").Create(quote).Error
	if err == nil {
		quote.CatalogDesign = catalog
		return quote, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, log.Err("failed to create catalog quote", err, "catalogID", catalog.ID)
	}

	log.Info("catalog quote created concurrently, reloading", "catalogID", catalog.ID, "requesterID", requesterID)
	existing, err = r.findCatalogQuote(ctx, tx, requesterID, catalog.ID)
	if err != nil {
		return nil, false, log.Err("failed to reload catalog quote", err, "catalogID", catalog.ID)
	}
	return existing, false, r.backfillPrice(ctx, tx, existing, catalog)
}

func (r *quoteRepository) findCatalogQuote(
	ctx context.Context,
	tx *gorm.DB,
	requesterID uint,
	catalogID uint,
) (*Quote, error) {
	quote, err := gorm.G[Quote](tx).
		Preload("CatalogDesign", nil).
		Where("requested_by_id = ? AND catalog_design_id = ?", requesterID, catalogID).
		First(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return &quote, nil
}

func (r *quoteRepository) backfillPrice(
	ctx context.Context,
	tx *gorm.DB,
	quote *Quote,
	catalog *CatalogDesign,
) error {
	if quote.Price != nil {
		return nil
	}

	price := catalog.BasePrice
	err := tx.WithContext(ctx).Model(&Quote{}).Where("id = ?", quote.ID).UpdateColumn("price", price).Error
	if err != nil {
		return r.log.TraceFromContext(ctx).Function("backfillPrice").
			Err("failed to backfill quote price", err, "quoteID", quote.ID)
	}
	quote.Price = &price
	return nil
}
