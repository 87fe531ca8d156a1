package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
)

// ScheduleTemplateRepository persists weekly recurring schedule templates.
type ScheduleTemplateRepository struct {
	db *sqlx.DB
}

// NewScheduleTemplateRepository creates a new template repository.
func NewScheduleTemplateRepository(db *sqlx.DB) *ScheduleTemplateRepository {
	return &ScheduleTemplateRepository{db: db}
}

const templateColumns = "id, class_id, term_id, day_of_week, start_time, end_time, location, created_at, updated_at"

// List returns templates for the filter, ordered by day then start time.
func (r *ScheduleTemplateRepository) List(ctx context.Context, filter models.ScheduleTemplateFilter) ([]models.ScheduleTemplate, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_templates WHERE 1=1", templateColumns)
	var args []interface{}
	if filter.ClassID != "" {
		query += fmt.Sprintf(" AND class_id = $%d", len(args)+1)
		args = append(args, filter.ClassID)
	}
	if filter.TermID != "" {
		query += fmt.Sprintf(" AND term_id = $%d", len(args)+1)
		args = append(args, filter.TermID)
	}
	query += " ORDER BY day_of_week ASC, start_time ASC"
	var templates []models.ScheduleTemplate
	if err := r.db.SelectContext(ctx, &templates, query, args...); err != nil {
		return nil, fmt.Errorf("list schedule templates: %w", err)
	}
	return templates, nil
}

// FindByID loads a template by id.
func (r *ScheduleTemplateRepository) FindByID(ctx context.Context, id string) (*models.ScheduleTemplate, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_templates WHERE id = $1", templateColumns)
	var tmpl models.ScheduleTemplate
	if err := r.db.GetContext(ctx, &tmpl, query, id); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// Create inserts a new template.
func (r *ScheduleTemplateRepository) Create(ctx context.Context, tmpl *models.ScheduleTemplate) error {
	if tmpl.ID == "" {
		tmpl.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now
	const query = `INSERT INTO schedule_templates (id, class_id, term_id, day_of_week, start_time, end_time, location, created_at, updated_at)
        VALUES (:id, :class_id, :term_id, :day_of_week, :start_time, :end_time, :location, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, tmpl); err != nil {
		return fmt.Errorf("create schedule template: %w", err)
	}
	return nil
}

// Update persists template mutations.
func (r *ScheduleTemplateRepository) Update(ctx context.Context, tmpl *models.ScheduleTemplate) error {
	tmpl.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedule_templates SET day_of_week = :day_of_week, start_time = :start_time,
        end_time = :end_time, location = :location, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, tmpl); err != nil {
		return fmt.Errorf("update schedule template: %w", err)
	}
	return nil
}

// Delete removes a template.
func (r *ScheduleTemplateRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM schedule_templates WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete schedule template: %w", err)
	}
	return nil
}
