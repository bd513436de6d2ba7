package repositories

import (
	"context"

	. "housemanagement/internal/models"
	"housemanagement/internal/policy"
	"housemanagement/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	List(ctx context.Context, tx *gorm.DB, scope policy.Scope) ([]ConstructionProject, error)
	GetByID(ctx context.Context, tx *gorm.DB, scope policy.Scope, id uint) (*ConstructionProject, error)
	Create(ctx context.Context, tx *gorm.DB, project *ConstructionProject) error
	Update(ctx context.Context, tx *gorm.DB, project *ConstructionProject) error
	Delete(ctx context.Context, tx *gorm.DB, scope policy.Scope, id uint) error
	Count(ctx context.Context, tx *gorm.DB, scope policy.Scope) (int64, error)
	AverageProgress(ctx context.Context, tx *gorm.DB, scope policy.Scope) (float64, error)
	QuoteLinked(ctx context.Context, tx *gorm.DB, quoteID uint, excludeID uint) (bool, error)
	AddUpdate(ctx context.Context, tx *gorm.DB, update *ProgressUpdate) error
}

type projectRepository struct {
	log logger.Logger
}

func NewProjectRepository() ProjectRepository {
	return &projectRepository{log: logger.New("projectRepository")}
}

func (r *projectRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	scope policy.Scope,
) ([]ConstructionProject, error) {
	projects := []ConstructionProject{}
	err := tx.WithContext(ctx).
		Scopes(scope.Apply).
		Preload("Owner").
		Preload("Quote").
		Order("construction_projects.created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, r.log.TraceFromContext(ctx).Function("List").Err("failed to list projects", err)
	}
	return projects, nil
}

// GetByID loads the project with its quote references and updates, newest first.
func (r *projectRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	scope policy.Scope,
	id uint,
) (*ConstructionProject, error) {
	var project ConstructionProject
	err := tx.WithContext(ctx).
		Scopes(scope.Apply).
		Preload("Owner").
		Preload("Quote.Design").
		Preload("Quote.CatalogDesign").
		Preload("Updates", func(db *gorm.DB) *gorm.DB {
			return db.Order("update_date DESC, id DESC")
		}).
		Where("construction_projects.id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &project, nil
}

func (r *projectRepository) Create(ctx context.Context, tx *gorm.DB, project *ConstructionProject) error {
	err := tx.WithContext(ctx).Omit("Quote", "Owner", "Updates").Create(project).Error
	if err != nil {
		return r.log.TraceFromContext(ctx).Function("Create").
			Err("failed to create project", err, "ownerID", project.OwnerID)
	}
	return nil
}

func (r *projectRepository) Update(ctx context.Context, tx *gorm.DB, project *ConstructionProject) error {
	err := tx.WithContext(ctx).Omit("Quote", "Owner", "Updates").Save(project).Error
	if err != nil {
		return r.log.TraceFromContext(ctx).Function("Update").
			Err("failed to update project", err, "projectID", project.ID)
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, tx *gorm.DB, scope policy.Scope, id uint) error {
	result := tx.WithContext(ctx).
		Scopes(scope.Apply).
		Where("construction_projects.id = ?", id).
		Delete(&ConstructionProject{})
	if result.Error != nil {
		return r.log.TraceFromContext(ctx).Function("Delete").
			Err("failed to delete project", result.Error, "projectID", id)
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *projectRepository) Count(ctx context.Context, tx *gorm.DB, scope policy.Scope) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&ConstructionProject{}).Scopes(scope.Apply).Count(&count).Error
	if err != nil {
		return 0, r.log.TraceFromContext(ctx).Function("Count").Err("failed to count projects", err)
	}
	return count, nil
}

// AverageProgress is zero when no project is visible.
func (r *projectRepository) AverageProgress(
	ctx context.Context,
	tx *gorm.DB,
	scope policy.Scope,
) (float64, error) {
	var avg *float64
	err := tx.WithContext(ctx).
		Model(&ConstructionProject{}).
		Scopes(scope.Apply).
		Select("AVG(construction_projects.total_progress)").
		Scan(&avg).Error
	if err != nil {
		return 0, r.log.TraceFromContext(ctx).Function("AverageProgress").
			Err("failed to average progress", err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// QuoteLinked reports whether another project already uses the quote.
func (r *projectRepository) QuoteLinked(
	ctx context.Context,
	tx *gorm.DB,
	quoteID uint,
	excludeID uint,
) (bool, error) {
	query := tx.WithContext(ctx).Model(&ConstructionProject{}).Where("quote_id = ?", quoteID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, r.log.TraceFromContext(ctx).Function("QuoteLinked").
			Err("failed to check quote link", err, "quoteID", quoteID)
	}
	return count > 0, nil
}

func (r *projectRepository) AddUpdate(ctx context.Context, tx *gorm.DB, update *ProgressUpdate) error {
	if err := tx.WithContext(ctx).Omit("Project").Create(update).Error; err != nil {
		return r.log.TraceFromContext(ctx).Function("AddUpdate").
			Err("failed to create progress update", err, "projectID", update.ProjectID)
	}
	return nil
}
