package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
)

func springTerm() models.Term {
	// Monday 2026-01-05 through Sunday 2026-03-29, twelve full weeks.
	return models.Term{
		ID:        "term1",
		StartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC),
	}
}

func mondayTemplate() models.ScheduleTemplate {
	return models.ScheduleTemplate{
		ID:        "tpl1",
		ClassID:   "class1",
		TermID:    "term1",
		DayOfWeek: models.WeekdayMonday,
		StartTime: "09:00",
		EndTime:   "10:30",
	}
}

func TestGenerateSessionsWeeklyOccurrences(t *testing.T) {
	sessions, err := GenerateSessions(mondayTemplate(), springTerm())
	require.NoError(t, err)
	require.Len(t, sessions, 12)

	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), sessions[0].Date)
	for i, s := range sessions {
		assert.Equal(t, time.Monday, s.Date.Weekday())
		assert.Equal(t, "class1", s.ClassID)
		assert.Equal(t, "term1", s.TermID)
		assert.Equal(t, "tpl1", s.TemplateID)
		assert.Equal(t, "09:00", s.StartTime)
		assert.Equal(t, "10:30", s.EndTime)
		assert.Equal(t, models.SessionStatusScheduled, s.Status)
		if i > 0 {
			assert.Equal(t, sessions[i-1].Date.AddDate(0, 0, 7), s.Date)
		}
	}
}

func TestGenerateSessionsFirstOccurrenceAfterTermStart(t *testing.T) {
	template := mondayTemplate()
	template.DayOfWeek = models.WeekdayWednesday
	sessions, err := GenerateSessions(template, springTerm())
	require.NoError(t, err)
	require.NotEmpty(t, sessions)
	// Term starts Monday; the first Wednesday is two days in.
	assert.Equal(t, time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), sessions[0].Date)
}

func TestGenerateSessionsWeekdayEqualToTermStartIncluded(t *testing.T) {
	term := springTerm()
	sessions, err := GenerateSessions(mondayTemplate(), term)
	require.NoError(t, err)
	assert.Equal(t, term.StartDate, sessions[0].Date)
}

func TestGenerateSessionsSingleDayTerm(t *testing.T) {
	term := springTerm()
	term.EndDate = term.StartDate
	sessions, err := GenerateSessions(mondayTemplate(), term)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	template := mondayTemplate()
	template.DayOfWeek = models.WeekdayTuesday
	sessions, err = GenerateSessions(template, term)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestGenerateSessionsInvertedTermIsEmpty(t *testing.T) {
	term := springTerm()
	term.StartDate, term.EndDate = term.EndDate, term.StartDate
	sessions, err := GenerateSessions(mondayTemplate(), term)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestGenerateSessionsRejectsMalformedTemplate(t *testing.T) {
	template := mondayTemplate()
	template.DayOfWeek = "FUNDAY"
	_, err := GenerateSessions(template, springTerm())
	require.Error(t, err)

	template = mondayTemplate()
	template.StartTime = "25:00"
	_, err = GenerateSessions(template, springTerm())
	require.Error(t, err)

	template = mondayTemplate()
	template.StartTime = "10:30"
	template.EndTime = "09:00"
	_, err = GenerateSessions(template, springTerm())
	require.Error(t, err)

	// Clock values must be exactly HH:MM, nothing appended and no
	// single-digit hours.
	template = mondayTemplate()
	template.StartTime = "09:00xyz"
	_, err = GenerateSessions(template, springTerm())
	require.Error(t, err)

	template = mondayTemplate()
	template.StartTime = "9:00"
	_, err = GenerateSessions(template, springTerm())
	require.Error(t, err)
}

type mockTemplateReader struct {
	templates map[string]*models.ScheduleTemplate
}

func (m *mockTemplateReader) FindByID(ctx context.Context, id string) (*models.ScheduleTemplate, error) {
	if tpl, ok := m.templates[id]; ok {
		return tpl, nil
	}
	return nil, sql.ErrNoRows
}

type mockTermReader struct {
	terms map[string]*models.Term
}

func (m *mockTermReader) FindByID(ctx context.Context, id string) (*models.Term, error) {
	if term, ok := m.terms[id]; ok {
		return term, nil
	}
	return nil, sql.ErrNoRows
}

type mockSessionRepo struct {
	upserted []models.ClassSession
	listed   []models.ClassSession
	statuses map[string]models.SessionStatus
}

func (m *mockSessionRepo) List(ctx context.Context, filter models.ClassSessionFilter) ([]models.ClassSession, int, error) {
	return m.listed, len(m.listed), nil
}

func (m *mockSessionRepo) UpsertGenerated(ctx context.Context, sessions []models.ClassSession) (int, error) {
	m.upserted = append(m.upserted, sessions...)
	return len(sessions), nil
}

func (m *mockSessionRepo) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	if m.statuses == nil {
		m.statuses = make(map[string]models.SessionStatus)
	}
	m.statuses[id] = status
	return nil
}

func TestSessionServiceGenerateForTemplate(t *testing.T) {
	template := mondayTemplate()
	term := springTerm()
	templates := &mockTemplateReader{templates: map[string]*models.ScheduleTemplate{"tpl1": &template}}
	terms := &mockTermReader{terms: map[string]*models.Term{"term1": &term}}
	repo := &mockSessionRepo{}
	svc := NewSessionService(templates, terms, repo, nil, nil, nil)

	result, err := svc.GenerateForTemplate(context.Background(), "tpl1")
	require.NoError(t, err)
	assert.Equal(t, 12, result.Generated)
	assert.Len(t, repo.upserted, 12)
}

func TestSessionServiceGenerateForTemplateMissing(t *testing.T) {
	svc := NewSessionService(&mockTemplateReader{}, &mockTermReader{}, &mockSessionRepo{}, nil, nil, nil)
	_, err := svc.GenerateForTemplate(context.Background(), "absent")
	require.Error(t, err)
}

func TestSessionServiceUpdateStatusValidation(t *testing.T) {
	repo := &mockSessionRepo{}
	svc := NewSessionService(&mockTemplateReader{}, &mockTermReader{}, repo, nil, nil, nil)

	require.NoError(t, svc.UpdateStatus(context.Background(), "ses1", models.SessionStatusCancelled))
	assert.Equal(t, models.SessionStatusCancelled, repo.statuses["ses1"])

	require.Error(t, svc.UpdateStatus(context.Background(), "ses1", "POSTPONED"))
}
