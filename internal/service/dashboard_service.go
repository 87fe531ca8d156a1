package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	appErrors "github.com/salemsharhan/university-management-system-sub002/pkg/errors"
)

type dashboardSessionLister interface {
	List(ctx context.Context, filter models.ClassSessionFilter) ([]models.ClassSession, int, error)
}

type conflictSummaryProvider interface {
	Summary(ctx context.Context, termID string) (*models.ConflictSummary, error)
}

type gradingProgressReader interface {
	ProgressByClass(ctx context.Context, classID, termID string) (*models.GradingProgress, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL            time.Duration
	UpcomingDays        int
	UpcomingSessionsMax int
}

// DashboardService composes reporting payloads out of the scheduling and grading services.
type DashboardService struct {
	sessions  dashboardSessionLister
	conflicts conflictSummaryProvider
	progress  gradingProgressReader
	metrics   *MetricsService
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
	cfg       DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Sessions  dashboardSessionLister
	Conflicts conflictSummaryProvider
	Progress  gradingProgressReader
	Metrics   *MetricsService
	Cache     *CacheService
	Logger    *zap.Logger
	Config    DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.UpcomingDays <= 0 {
		cfg.UpcomingDays = 7
	}
	if cfg.UpcomingSessionsMax <= 0 {
		cfg.UpcomingSessionsMax = 10
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		sessions:  params.Sessions,
		conflicts: params.Conflicts,
		progress:  params.Progress,
		metrics:   params.Metrics,
		cache:     params.Cache,
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
	}
}

func termOverviewCacheKey(termID string) string {
	return fmt.Sprintf("dashboard:term:%s", termID)
}

// TermOverview aggregates upcoming sessions and the conflict summary for a term.
// The second return value indicates whether the payload was served from cache.
func (s *DashboardService) TermOverview(ctx context.Context, termID string) (*models.TermOverview, bool, error) {
	if termID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "term id is required")
	}

	key := termOverviewCacheKey(termID)
	if s.cache.Enabled() {
		var cached models.TermOverview
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, true, nil
		}
	}

	now := s.now().UTC()
	from := now.Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, s.cfg.UpcomingDays)
	sessions, _, err := s.sessions.List(ctx, models.ClassSessionFilter{
		TermID:   termID,
		DateFrom: &from,
		DateTo:   &to,
		Status:   string(models.SessionStatusScheduled),
		Page:     1,
		PageSize: s.cfg.UpcomingSessionsMax,
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list upcoming sessions")
	}

	summary, err := s.conflicts.Summary(ctx, termID)
	if err != nil {
		return nil, false, err
	}

	overview := &models.TermOverview{
		TermID:           termID,
		UpcomingSessions: sessions,
		ConflictSummary:  *summary,
		GeneratedAt:      now,
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, overview, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("failed to cache term overview", zap.String("term_id", termID), zap.Error(err))
		}
	}
	return overview, false, nil
}

// GradingProgress reports graded versus pending records for a class.
func (s *DashboardService) GradingProgress(ctx context.Context, classID, termID string) (*models.GradingProgress, error) {
	if classID == "" || termID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class id and term id are required")
	}
	progress, err := s.progress.ProgressByClass(ctx, classID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grading progress")
	}
	return progress, nil
}

// SystemMetrics exposes the runtime metrics snapshot.
func (s *DashboardService) SystemMetrics() models.SystemMetrics {
	return s.metrics.Snapshot()
}
