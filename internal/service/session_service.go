package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	appErrors "github.com/salemsharhan/university-management-system-sub002/pkg/errors"
)

type sessionTemplateReader interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleTemplate, error)
}

type sessionTermReader interface {
	FindByID(ctx context.Context, id string) (*models.Term, error)
}

type classSessionRepo interface {
	List(ctx context.Context, filter models.ClassSessionFilter) ([]models.ClassSession, int, error)
	UpsertGenerated(ctx context.Context, sessions []models.ClassSession) (int, error)
	UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error
}

// GenerateSessions expands a weekly recurring template into dated class
// occurrences bounded by the term's inclusive date range. The function is
// pure: it always regenerates the full set, deterministically ordered by
// increasing date; deduplication against existing rows is the repository's
// concern (upsert keyed by class and date).
func GenerateSessions(template models.ScheduleTemplate, term models.Term) ([]models.ClassSession, error) {
	if !template.DayOfWeek.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("template %s: unknown day of week %q", template.ID, template.DayOfWeek))
	}
	startMin, err := models.MinuteOfDay(template.StartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "template start_time is malformed")
	}
	endMin, err := models.MinuteOfDay(template.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "template end_time is malformed")
	}
	if endMin <= startMin {
		return nil, appErrors.Clone(appErrors.ErrValidation, "template end_time must be after start_time")
	}

	start := truncateToDay(term.StartDate)
	end := truncateToDay(term.EndDate)
	if start.After(end) {
		return nil, nil
	}

	offset := (int(template.DayOfWeek.Time()) - int(start.Weekday()) + 7) % 7
	first := start.AddDate(0, 0, offset)

	var sessions []models.ClassSession
	for date := first; !date.After(end); date = date.AddDate(0, 0, 7) {
		sessions = append(sessions, models.ClassSession{
			ClassID:    template.ClassID,
			TermID:     term.ID,
			TemplateID: template.ID,
			Date:       date,
			StartTime:  template.StartTime,
			EndTime:    template.EndTime,
			Location:   template.Location,
			Status:     models.SessionStatusScheduled,
		})
	}
	return sessions, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GenerateSessionsResult summarises a generation run.
type GenerateSessionsResult struct {
	TemplateID string                `json:"template_id"`
	Generated  int                   `json:"generated"`
	Sessions   []models.ClassSession `json:"sessions"`
}

// SessionService materializes class sessions from schedule templates.
type SessionService struct {
	templates sessionTemplateReader
	terms     sessionTermReader
	sessions  classSessionRepo
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs SessionService.
func NewSessionService(templates sessionTemplateReader, terms sessionTermReader, sessions classSessionRepo, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{templates: templates, terms: terms, sessions: sessions, metrics: metrics, validator: validate, logger: logger}
}

// GenerateForTemplate expands one template against its term and upserts the
// resulting sessions. Re-running for the same template never duplicates
// sessions for a date the class already has.
func (s *SessionService) GenerateForTemplate(ctx context.Context, templateID string) (*GenerateSessionsResult, error) {
	template, err := s.templates.FindByID(ctx, templateID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule template")
	}
	term, err := s.terms.FindByID(ctx, template.TermID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "template term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}

	generated, err := GenerateSessions(*template, *term)
	if err != nil {
		return nil, err
	}
	if len(generated) == 0 {
		s.logger.Info("no sessions in range", zap.String("template_id", templateID), zap.String("term_id", term.ID))
		return &GenerateSessionsResult{TemplateID: templateID, Generated: 0, Sessions: nil}, nil
	}

	start := time.Now()
	count, err := s.sessions.UpsertGenerated(ctx, generated)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist generated sessions")
	}
	if s.metrics != nil {
		s.metrics.AddSessionsGenerated(len(generated))
		s.metrics.ObserveDBQuery("session_upsert", time.Since(start))
	}
	s.logger.Info("sessions generated",
		zap.String("template_id", templateID),
		zap.String("class_id", template.ClassID),
		zap.Int("count", len(generated)))

	return &GenerateSessionsResult{TemplateID: templateID, Generated: count, Sessions: generated}, nil
}

// List returns sessions matching the filter.
func (s *SessionService) List(ctx context.Context, filter models.ClassSessionFilter) ([]models.ClassSession, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	sessions, total, err := s.sessions.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return sessions, pagination, nil
}

// UpdateStatus mutates a single session's lifecycle status.
func (s *SessionService) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	switch status {
	case models.SessionStatusScheduled, models.SessionStatusCancelled, models.SessionStatusCompleted:
	default:
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown session status %q", status))
	}
	if err := s.sessions.UpdateStatus(ctx, id, status); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session status")
	}
	return nil
}
