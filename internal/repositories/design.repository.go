package repositories

import (
	"context"

	. "housemanagement/internal/models"
	"housemanagement/internal/policy"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type DesignRepository interface {
	List(ctx context.Context, tx *gorm.DB, scope policy.Scope) ([]HouseDesign, error)
	GetByID(ctx context.Context, tx *gorm.DB, scope policy.Scope, id uint) (*HouseDesign, error)
	Create(ctx context.Context, tx *gorm.DB, design *HouseDesign) error
	Update(ctx context.Context, tx *gorm.DB, design *HouseDesign) error
	Delete(ctx context.Context, tx *gorm.DB, scope policy.Scope, id uint) error
	Count(ctx context.Context, tx *gorm.DB, scope policy.Scope) (int64, error)
	Selectable(ctx context.Context, tx *gorm.DB, scope policy.Scope, requesterID uint) ([]HouseDesign, error)
	Recent(ctx context.Context, tx *gorm.DB, limit int) ([]HouseDesign, error)
}

type designRepository struct {
	log logger.Logger
}

func NewDesignRepository() DesignRepository {
	return &designRepository{log: logger.New("designRepository")}
}

func (r *designRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	scope policy.Scope,
) ([]HouseDesign, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	var designs []HouseDesign
	err := tx.WithContext(ctx).
		Scopes(scope.Apply).
		Preload("Owner").
		Order("house_designs.created_at DESC").
		Find(&designs).Error
	if err != nil {
		return nil, log.Err("failed to list designs", err)
	}

	return designs, nil
}

func (r *designRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	scope policy.Scope,
	id uint,
) (*HouseDesign, error) {
	var design HouseDesign
	err := tx.WithContext(ctx).
		Scopes(scope.Apply).
		Preload("Owner").
		Where("house_designs.id = ?", id).
		First(&design).Error
	if err != nil {
		return nil, notFound(err)
	}

	return &design, nil
}

func (r *designRepository) Create(ctx context.Context, tx *gorm.DB, design *HouseDesign) error {
	if err := tx.WithContext(ctx).Omit("Owner").Create(design).Error; err != nil {
		return r.log.TraceFromContext(ctx).Function("Create").
			Err("failed to create design", err, "ownerID", design.OwnerID)
	}
	return nil
}

func (r *designRepository) Update(ctx context.Context, tx *gorm.DB, design *HouseDesign) error {
	if err := tx.WithContext(ctx).Omit("Owner").Save(design).Error; err != nil {
		return r.log.TraceFromContext(ctx).Function("Update").
			Err("failed to update design", err, "designID", design.ID)
	}
	return nil
}

func (r *designRepository) Delete(
	ctx context.Context,
	tx *gorm.DB,
	scope policy.Scope,
	id uint,
) error {
	result := tx.WithContext(ctx).
		Scopes(scope.Apply).
		Where("house_designs.id = ?", id).
		Delete(&HouseDesign{})
	if result.Error != nil {
		return r.log.TraceFromContext(ctx).Function("Delete").
			Err("failed to delete design", result.Error, "designID", id)
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *designRepository) Count(
	ctx context.Context,
	tx *gorm.DB,
	scope policy.Scope,
) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&HouseDesign{}).Scopes(scope.Apply).Count(&count).Error
	if err != nil {
		return 0, r.log.TraceFromContext(ctx).Function("Count").Err("failed to count designs", err)
	}
	return count, nil
}

// Selectable lists visible designs the requester has not quoted yet.
func (r *designRepository) Selectable(
	ctx context.Context,
	tx *gorm.DB,
	scope policy.Scope,
	requesterID uint,
) ([]HouseDesign, error) {
	quoted := tx.Session(&gorm.Session{NewDB: true}).
		Model(&Quote{}).
		Select("design_id").
		Where("requested_by_id = ? AND design_id IS NOT NULL", requesterID)

	var designs []HouseDesign
	err := tx.WithContext(ctx).
		Scopes(scope.Apply).
		Where("house_designs.id NOT IN (?)", quoted).
		Order("house_designs.title ASC").
		Find(&designs).Error
	if err != nil {
		return nil, r.log.TraceFromContext(ctx).Function("Selectable").
			Err("failed to list selectable designs", err, "requesterID", requesterID)
	}

	return designs, nil
}

func (r *designRepository) Recent(ctx context.Context, tx *gorm.DB, limit int) ([]HouseDesign, error) {
	var designs []HouseDesign
	err := tx.WithContext(ctx).
		Preload("Owner").
		Order("created_at DESC").
		Limit(limit).
		Find(&designs).Error
	if err != nil {
		return nil, r.log.TraceFromContext(ctx).Function("Recent").
			Err("failed to load recent designs", err)
	}
	return designs, nil
}
