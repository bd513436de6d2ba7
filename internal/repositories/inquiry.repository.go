package repositories

import (
	"context"

	. "housemanagement/internal/models"
	"housemanagement/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type InquiryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, inquiry *EstimateInquiry) error
	CountPending(ctx context.Context, tx *gorm.DB) (int64, error)
	ListPending(ctx context.Context, tx *gorm.DB, limit int, oldestFirst bool) ([]EstimateInquiry, error)
	List(ctx context.Context, tx *gorm.DB) ([]EstimateInquiry, error)
	MarkHandled(ctx context.Context, tx *gorm.DB, id uint) error
}

type inquiryRepository struct {
	log logger.Logger
}

func NewInquiryRepository() InquiryRepository {
	return &inquiryRepository{log: logger.New("inquiryRepository")}
}

func (r *inquiryRepository) Create(ctx context.Context, tx *gorm.DB, inquiry *EstimateInquiry) error {
	if err := gorm.G[EstimateInquiry](tx).Create(ctx, inquiry); err != nil {
		return r.log.TraceFromContext(ctx).Function("Create").Err("failed to create inquiry", err)
	}
	return nil
}

func (r *inquiryRepository) CountPending(ctx context.Context, tx *gorm.DB) (int64, error) {
	count, err := gorm.G[EstimateInquiry](tx).Where("is_handled = ?", false).Count(ctx, "*")
	if err != nil {
		return 0, r.log.TraceFromContext(ctx).Function("CountPending").
			Err("failed to count pending inquiries", err)
	}
	return count, nil
}

func (r *inquiryRepository) ListPending(
	ctx context.Context,
	tx *gorm.DB,
	limit int,
	oldestFirst bool,
) ([]EstimateInquiry, error) {
	order := "created_at DESC, id DESC"
	if oldestFirst {
		order = "created_at ASC, id ASC"
	}

	inquiries, err := gorm.G[EstimateInquiry](tx).
		Where("is_handled = ?", false).
		Order(order).
		Limit(limit).
		Find(ctx)
	if err != nil {
		return nil, r.log.TraceFromContext(ctx).Function("ListPending").
			Err("failed to list pending inquiries", err)
	}
	return inquiries, nil
}

func (r *inquiryRepository) List(ctx context.Context, tx *gorm.DB) ([]EstimateInquiry, error) {
	inquiries, err := gorm.G[EstimateInquiry](tx).Order("created_at DESC, id DESC").Find(ctx)
	if err != nil {
		return nil, r.log.TraceFromContext(ctx).Function("List").Err("failed to list inquiries", err)
	}
	return inquiries, nil
}

func (r *inquiryRepository) MarkHandled(ctx context.Context, tx *gorm.DB, id uint) error {
	rows, err := gorm.G[EstimateInquiry](tx).Where("id = ?", id).Update(ctx, "is_handled", true)
	if err != nil {
		return r.log.TraceFromContext(ctx).Function("MarkHandled").
			Err("failed to mark inquiry handled", err, "inquiryID", id)
	}
	if rows == 0 {
		return types.ErrNotFound
	}
	return nil
}
