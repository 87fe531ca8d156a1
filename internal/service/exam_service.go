package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	appErrors "github.com/salemsharhan/university-management-system-sub002/pkg/errors"
)

type examSlotRepository interface {
	List(ctx context.Context, filter models.ExamSlotFilter) ([]models.ExaminationSlot, int, error)
	FindByID(ctx context.Context, id string) (*models.ExaminationSlot, error)
	Create(ctx context.Context, slot *models.ExaminationSlot) error
	Update(ctx context.Context, slot *models.ExaminationSlot) error
	Delete(ctx context.Context, id string) error
}

// UpsertExamSlotRequest carries the slot create/update payload.
type UpsertExamSlotRequest struct {
	ClassID   string    `json:"class_id" validate:"required"`
	TermID    string    `json:"term_id" validate:"required"`
	ExamType  string    `json:"exam_type" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	StartTime string    `json:"start_time" validate:"required"`
	EndTime   string    `json:"end_time" validate:"required"`
	Status    string    `json:"status"`
}

// ExamService manages examination slots. Every mutation drops the cached
// conflict report for the affected term so reports always reflect current
// slot data.
type ExamService struct {
	repo      examSlotRepository
	conflicts *ConflictService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamService constructs ExamService.
func NewExamService(repo examSlotRepository, conflicts *ConflictService, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{repo: repo, conflicts: conflicts, validator: validate, logger: logger}
}

// List returns examination slots matching the filter.
func (s *ExamService) List(ctx context.Context, filter models.ExamSlotFilter) ([]models.ExaminationSlot, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	slots, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list examination slots")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return slots, pagination, nil
}

// Create inserts a new examination slot.
func (s *ExamService) Create(ctx context.Context, req UpsertExamSlotRequest) (*models.ExaminationSlot, error) {
	slot, err := s.buildSlot(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create examination slot")
	}
	if s.conflicts != nil {
		s.conflicts.Invalidate(ctx, slot.TermID)
	}
	return slot, nil
}

// Update persists slot mutations. Last write wins for concurrent edits;
// conflict reports self-correct on the next read.
func (s *ExamService) Update(ctx context.Context, id string, req UpsertExamSlotRequest) (*models.ExaminationSlot, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "examination slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load examination slot")
	}
	slot, err := s.buildSlot(req)
	if err != nil {
		return nil, err
	}
	slot.ID = existing.ID
	slot.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update examination slot")
	}
	if s.conflicts != nil {
		s.conflicts.Invalidate(ctx, slot.TermID)
	}
	return slot, nil
}

// Delete removes an examination slot.
func (s *ExamService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "examination slot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load examination slot")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete examination slot")
	}
	if s.conflicts != nil {
		s.conflicts.Invalidate(ctx, existing.TermID)
	}
	return nil
}

func (s *ExamService) buildSlot(req UpsertExamSlotRequest) (*models.ExaminationSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid examination slot payload")
	}
	startMin, err := models.MinuteOfDay(req.StartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start_time is malformed")
	}
	endMin, err := models.MinuteOfDay(req.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "end_time is malformed")
	}
	if endMin <= startMin {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	status := models.ExamStatus(req.Status)
	if req.Status == "" {
		status = models.ExamStatusScheduled
	}
	switch status {
	case models.ExamStatusScheduled, models.ExamStatusCancelled, models.ExamStatusCompleted:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown examination status")
	}
	return &models.ExaminationSlot{
		ClassID:   req.ClassID,
		TermID:    req.TermID,
		ExamType:  req.ExamType,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    status,
	}, nil
}
