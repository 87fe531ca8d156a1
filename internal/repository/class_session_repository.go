package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
)

// ClassSessionRepository persists dated class occurrences.
type ClassSessionRepository struct {
	db *sqlx.DB
}

// NewClassSessionRepository creates a new class session repository.
func NewClassSessionRepository(db *sqlx.DB) *ClassSessionRepository {
	return &ClassSessionRepository{db: db}
}

const sessionColumns = "id, class_id, term_id, template_id, date, start_time, end_time, location, status, created_at, updated_at"

// List returns sessions with optional filtering and pagination.
func (r *ClassSessionRepository) List(ctx context.Context, filter models.ClassSessionFilter) ([]models.ClassSession, int, error) {
	base := "FROM class_sessions WHERE 1=1"
	var args []interface{}
	if filter.ClassID != "" {
		base += fmt.Sprintf(" AND class_id = $%d", len(args)+1)
		args = append(args, filter.ClassID)
	}
	if filter.TermID != "" {
		base += fmt.Sprintf(" AND term_id = $%d", len(args)+1)
		args = append(args, filter.TermID)
	}
	if filter.DateFrom != nil {
		base += fmt.Sprintf(" AND date >= $%d", len(args)+1)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		base += fmt.Sprintf(" AND date <= $%d", len(args)+1)
		args = append(args, *filter.DateTo)
	}
	if filter.Status != "" {
		base += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY date ASC, start_time ASC LIMIT %d OFFSET %d", sessionColumns, base, size, offset)
	var sessions []models.ClassSession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list class sessions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count class sessions: %w", err)
	}

	return sessions, total, nil
}

// FindByID loads a session by id.
func (r *ClassSessionRepository) FindByID(ctx context.Context, id string) (*models.ClassSession, error) {
	query := fmt.Sprintf("SELECT %s FROM class_sessions WHERE id = $1", sessionColumns)
	var session models.ClassSession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpsertGenerated bulk-inserts generated sessions. The unique index on
// (class_id, date) makes regeneration idempotent: an existing session for
// the same class and date keeps its id and status, only the time fields
// are refreshed from the template.
func (r *ClassSessionRepository) UpsertGenerated(ctx context.Context, sessions []models.ClassSession) (int, error) {
	if len(sessions) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin session upsert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	inserted := 0
	for i := range sessions {
		if sessions[i].ID == "" {
			sessions[i].ID = uuid.NewString()
		}
		now := time.Now().UTC()
		sessions[i].CreatedAt = now
		sessions[i].UpdatedAt = now
		const query = `INSERT INTO class_sessions (id, class_id, term_id, template_id, date, start_time, end_time, location, status, created_at, updated_at)
            VALUES (:id, :class_id, :term_id, :template_id, :date, :start_time, :end_time, :location, :status, :created_at, :updated_at)
            ON CONFLICT (class_id, date)
            DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
                location = EXCLUDED.location, template_id = EXCLUDED.template_id, updated_at = EXCLUDED.updated_at`
		res, err := tx.NamedExecContext(ctx, query, sessions[i])
		if err != nil {
			return 0, fmt.Errorf("upsert class session: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit session upsert: %w", err)
	}
	return inserted, nil
}

// UpdateStatus mutates a single session's lifecycle status.
func (r *ClassSessionRepository) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	res, err := r.db.ExecContext(ctx, "UPDATE class_sessions SET status = $1, updated_at = $2 WHERE id = $3", status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}
