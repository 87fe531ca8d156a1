package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	appErrors "github.com/salemsharhan/university-management-system-sub002/pkg/errors"
)

type scheduledSlotReader interface {
	ListScheduledByTerm(ctx context.Context, termID string) ([]models.ExaminationSlot, error)
}

// DetectConflicts runs both detection passes over the given slots. Callers
// are expected to pass only slots in status SCHEDULED. Output order is
// stable for a fixed input: slots are sorted by date, start time and id
// before pairing, and time-overlap records precede same-class records.
//
// A pair that both overlaps in time and shares a class on the same date is
// reported twice, once per pass.
func DetectConflicts(slots []models.ExaminationSlot) ([]models.ConflictRecord, error) {
	ordered := make([]models.ExaminationSlot, len(slots))
	copy(ordered, slots)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		if ordered[i].StartTime != ordered[j].StartTime {
			return ordered[i].StartTime < ordered[j].StartTime
		}
		return ordered[i].ID < ordered[j].ID
	})

	starts := make([]int, len(ordered))
	ends := make([]int, len(ordered))
	for i, slot := range ordered {
		start, err := models.MinuteOfDay(slot.StartTime)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("slot %s start_time is malformed", slot.ID))
		}
		end, err := models.MinuteOfDay(slot.EndTime)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("slot %s end_time is malformed", slot.ID))
		}
		starts[i], ends[i] = start, end
	}

	var records []models.ConflictRecord

	// Pass 1: pairwise time overlap on the same date. Any positive overlap
	// is reported, there is no minimum cutoff.
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			if !sameDay(ordered[i].Date, ordered[j].Date) {
				continue
			}
			overlap := min(ends[i], ends[j]) - max(starts[i], starts[j])
			if overlap <= 0 {
				continue
			}
			records = append(records, models.ConflictRecord{
				FirstSlotID:    ordered[i].ID,
				SecondSlotID:   ordered[j].ID,
				Kind:           models.ConflictKindTimeOverlap,
				Severity:       overlapSeverity(overlap),
				OverlapMinutes: overlap,
				Date:           ordered[i].Date,
			})
		}
	}

	// Pass 2: same class, same date. Always critical regardless of times.
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			if ordered[i].ClassID != ordered[j].ClassID || !sameDay(ordered[i].Date, ordered[j].Date) {
				continue
			}
			records = append(records, models.ConflictRecord{
				FirstSlotID:  ordered[i].ID,
				SecondSlotID: ordered[j].ID,
				Kind:         models.ConflictKindSameClass,
				Severity:     models.SeverityCritical,
				Date:         ordered[i].Date,
				ClassID:      ordered[i].ClassID,
			})
		}
	}

	return records, nil
}

func overlapSeverity(minutes int) models.ConflictSeverity {
	switch {
	case minutes > 60:
		return models.SeverityCritical
	case minutes > 30:
		return models.SeverityHigh
	case minutes > 15:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// SummarizeConflicts counts records by severity. It is a stateless view
// recomputed from the same detection output.
func SummarizeConflicts(records []models.ConflictRecord) models.ConflictSummary {
	summary := models.ConflictSummary{Total: len(records)}
	for _, record := range records {
		switch record.Severity {
		case models.SeverityCritical:
			summary.Critical++
		case models.SeverityHigh:
			summary.High++
		case models.SeverityMedium:
			summary.Medium++
		case models.SeverityLow:
			summary.Low++
		}
	}
	return summary
}

// ConflictService computes conflict reports over current slot data.
// Reports are never persisted; a short-lived cache only trims repeat reads.
type ConflictService struct {
	slots   scheduledSlotReader
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	ttl     time.Duration
}

// NewConflictService constructs ConflictService.
func NewConflictService(slots scheduledSlotReader, cache *CacheService, metrics *MetricsService, logger *zap.Logger, ttl time.Duration) *ConflictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &ConflictService{slots: slots, cache: cache, metrics: metrics, logger: logger, ttl: ttl}
}

func conflictCacheKey(termID string) string {
	return fmt.Sprintf("conflicts:term:%s", termID)
}

// Report detects conflicts across a term's scheduled slots. Set refresh to
// bypass the cache and force a fresh computation.
func (s *ConflictService) Report(ctx context.Context, termID string, refresh bool) (*models.ConflictReport, error) {
	if termID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "termId is required")
	}

	key := conflictCacheKey(termID)
	if !refresh && s.cache.Enabled() {
		var cached models.ConflictReport
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, nil
		}
	}

	slots, err := s.slots.ListScheduledByTerm(ctx, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load examination slots")
	}

	records, err := DetectConflicts(slots)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.AddConflictsDetected(len(records))
	}

	report := &models.ConflictReport{
		TermID:     termID,
		Conflicts:  records,
		Summary:    SummarizeConflicts(records),
		ComputedAt: time.Now().UTC(),
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, report, s.ttl); err != nil {
			s.logger.Warn("conflict report cache write failed", zap.String("term_id", termID), zap.Error(err))
		}
	}

	return report, nil
}

// Summary returns only the severity counts for a term.
func (s *ConflictService) Summary(ctx context.Context, termID string) (*models.ConflictSummary, error) {
	report, err := s.Report(ctx, termID, false)
	if err != nil {
		return nil, err
	}
	return &report.Summary, nil
}

// Invalidate drops the cached report after slot mutations.
func (s *ConflictService) Invalidate(ctx context.Context, termID string) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, conflictCacheKey(termID)); err != nil {
		s.logger.Warn("conflict cache invalidation failed", zap.String("term_id", termID), zap.Error(err))
	}
}
