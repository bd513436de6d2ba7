package repositories

import (
	"context"
	"errors"
	"time"

	"housemanagement/internal/database"
	. "housemanagement/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
)

const (
	DASHBOARD_CACHE_PREFIX = "dashboard"
	DASHBOARD_CACHE_EXPIRY = 60 * time.Second
)

// DashboardSummary is the role-scoped overview shown on the home page.
type DashboardSummary struct {
	DesignCount       int64             `json:"designCount"`
	QuoteCount        int64             `json:"quoteCount"`
	ProjectCount      int64             `json:"projectCount"`
	PendingQuoteCount int64             `json:"pendingQuoteCount"`
	AverageProgress   decimal.Decimal   `json:"averageProgress"`
	PendingInquiries  *int64            `json:"pendingInquiryCount,omitempty"`
	RecentInquiries   []EstimateInquiry `json:"pendingInquiries,omitempty"`
}

// DashboardRepository caches per-user summaries in the general cache.
type DashboardRepository interface {
	Get(ctx context.Context, userID uint) (*DashboardSummary, bool)
	Set(ctx context.Context, userID uint, summary *DashboardSummary)
	Invalidate(ctx context.Context, userID uint)
}

type dashboardRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewDashboardRepository(cache database.CacheClient) DashboardRepository {
	return &dashboardRepository{cache: cache, log: logger.New("dashboardRepository")}
}

func (r *dashboardRepository) Get(ctx context.Context, userID uint) (*DashboardSummary, bool) {
	var summary DashboardSummary
	found, err := database.NewCacheBuilder(r.cache, userID).
		WithContext(ctx).
		WithHash(DASHBOARD_CACHE_PREFIX).
		Get(&summary)
	if err != nil {
		if !errors.Is(err, database.ErrCacheDisabled) {
			r.log.TraceFromContext(ctx).Function("Get").
				Warn("failed to read dashboard cache", "userID", userID, "error", err)
		}
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &summary, true
}

func (r *dashboardRepository) Set(ctx context.Context, userID uint, summary *DashboardSummary) {
	err := database.NewCacheBuilder(r.cache, userID).
		WithContext(ctx).
		WithHash(DASHBOARD_CACHE_PREFIX).
		WithStruct(summary).
		WithTTL(DASHBOARD_CACHE_EXPIRY).
		Set()
	if err != nil && !errors.Is(err, database.ErrCacheDisabled) {
		r.log.TraceFromContext(ctx).Function("Set").
			Warn("failed to write dashboard cache", "userID", userID, "error", err)
	}
}

func (r *dashboardRepository) Invalidate(ctx context.Context, userID uint) {
	err := database.NewCacheBuilder(r.cache, userID).
		WithContext(ctx).
		WithHash(DASHBOARD_CACHE_PREFIX).
		Delete()
	if err != nil && !errors.Is(err, database.ErrCacheDisabled) {
		r.log.TraceFromContext(ctx).Function("Invalidate").
			Warn("failed to invalidate dashboard cache", "userID", userID, "error", err)
	}
}
