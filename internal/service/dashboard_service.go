package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dis-school/registry-api/internal/dto"
	appErrors "github.com/dis-school/registry-api/pkg/errors"
)

const dashboardSummaryKey = "dashboard:summary"

type dashboardCounter interface {
	CountByDeleted(ctx context.Context, deleted bool) (int, error)
	CountPerClassLevel(ctx context.Context) ([]dto.ClassCount, error)
}

type admissionUsage interface {
	UsedThisYear(ctx context.Context) (int, error)
}

// DashboardService aggregates headline counts for the admin dashboard,
// serving them from cache while fresh.
type DashboardService struct {
	repo       dashboardCounter
	admissions admissionUsage
	cache      *CacheService
	ttl        time.Duration
	logger     *zap.Logger
}

// NewDashboardService constructs the dashboard service. A nil admissions
// source leaves the yearly usage at zero.
func NewDashboardService(repo dashboardCounter, admissions admissionUsage, cache *CacheService, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DashboardService{repo: repo, admissions: admissions, cache: cache, ttl: ttl, logger: logger}
}

// Summary returns the dashboard payload along with a cache-hit flag.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, bool, error) {
	var cached dto.DashboardSummary
	if hit, err := s.cache.Get(ctx, dashboardSummaryKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	active, err := s.repo.CountByDeleted(ctx, false)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count active students")
	}
	recycled, err := s.repo.CountByDeleted(ctx, true)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count recycled students")
	}
	classCounts, err := s.repo.CountPerClassLevel(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count classes")
	}

	admitted := 0
	if s.admissions != nil {
		admitted, err = s.admissions.UsedThisYear(ctx)
		if err != nil {
			return nil, false, err
		}
	}

	summary := &dto.DashboardSummary{
		ActiveCount:        active,
		RecycledCount:      recycled,
		AdmissionsThisYear: admitted,
		ClassCounts:        classCounts,
		GeneratedAt:        time.Now().UTC(),
	}

	if err := s.cache.Set(ctx, dashboardSummaryKey, summary, s.ttl); err != nil {
		s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
	}
	return summary, false, nil
}

// InvalidateSummary drops the cached dashboard after any lifecycle write.
func (s *DashboardService) InvalidateSummary(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
