package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	appErrors "github.com/salemsharhan/university-management-system-sub002/pkg/errors"
)

type scheduleTemplateRepository interface {
	List(ctx context.Context, filter models.ScheduleTemplateFilter) ([]models.ScheduleTemplate, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleTemplate, error)
	Create(ctx context.Context, tmpl *models.ScheduleTemplate) error
	Update(ctx context.Context, tmpl *models.ScheduleTemplate) error
	Delete(ctx context.Context, id string) error
}

// UpsertScheduleTemplateRequest carries the template create/update payload.
type UpsertScheduleTemplateRequest struct {
	ClassID   string  `json:"class_id" validate:"required"`
	TermID    string  `json:"term_id" validate:"required"`
	DayOfWeek string  `json:"day_of_week" validate:"required"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
	Location  *string `json:"location"`
}

// ScheduleTemplateService manages weekly recurring templates. A class may
// hold several templates (lecture Monday, lab Wednesday); generation runs
// once per template.
type ScheduleTemplateService struct {
	repo      scheduleTemplateRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleTemplateService constructs ScheduleTemplateService.
func NewScheduleTemplateService(repo scheduleTemplateRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleTemplateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleTemplateService{repo: repo, validator: validate, logger: logger}
}

// List returns templates for the filter.
func (s *ScheduleTemplateService) List(ctx context.Context, filter models.ScheduleTemplateFilter) ([]models.ScheduleTemplate, error) {
	templates, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule templates")
	}
	return templates, nil
}

// Create inserts a new template.
func (s *ScheduleTemplateService) Create(ctx context.Context, req UpsertScheduleTemplateRequest) (*models.ScheduleTemplate, error) {
	tmpl, err := s.buildTemplate(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, tmpl); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule template")
	}
	return tmpl, nil
}

// Update persists template mutations. Already generated sessions keep their
// dates; callers re-run generation explicitly to pick up the new times.
func (s *ScheduleTemplateService) Update(ctx context.Context, id string, req UpsertScheduleTemplateRequest) (*models.ScheduleTemplate, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule template")
	}
	tmpl, err := s.buildTemplate(req)
	if err != nil {
		return nil, err
	}
	tmpl.ID = existing.ID
	tmpl.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, tmpl); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule template")
	}
	return tmpl, nil
}

// Delete removes a template.
func (s *ScheduleTemplateService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule template not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule template")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule template")
	}
	return nil
}

func (s *ScheduleTemplateService) buildTemplate(req UpsertScheduleTemplateRequest) (*models.ScheduleTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule template payload")
	}
	day, err := models.ParseWeekday(req.DayOfWeek)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "day_of_week is invalid")
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
	return &models.ScheduleTemplate{
		ClassID:   req.ClassID,
		TermID:    req.TermID,
		DayOfWeek: day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
	}, nil
}
