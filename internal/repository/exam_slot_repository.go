package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
)

// ExamSlotRepository persists examination slots.
type ExamSlotRepository struct {
	db *sqlx.DB
}

// NewExamSlotRepository creates a new examination slot repository.
func NewExamSlotRepository(db *sqlx.DB) *ExamSlotRepository {
	return &ExamSlotRepository{db: db}
}

const examSlotColumns = "id, class_id, term_id, exam_type, date, start_time, end_time, status, created_at, updated_at"

// List returns examination slots with optional filtering and pagination.
func (r *ExamSlotRepository) List(ctx context.Context, filter models.ExamSlotFilter) ([]models.ExaminationSlot, int, error) {
	base := "FROM examination_slots WHERE 1=1"
	var args []interface{}
	if filter.TermID != "" {
		base += fmt.Sprintf(" AND term_id = $%d", len(args)+1)
		args = append(args, filter.TermID)
	}
	if filter.ClassID != "" {
		base += fmt.Sprintf(" AND class_id = $%d", len(args)+1)
		args = append(args, filter.ClassID)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY date ASC, start_time ASC LIMIT %d OFFSET %d", examSlotColumns, base, size, offset)
	var slots []models.ExaminationSlot
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list examination slots: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count examination slots: %w", err)
	}

	return slots, total, nil
}

// ListScheduledByTerm returns every slot in status SCHEDULED for a term,
// ordered deterministically for reproducible conflict reports.
func (r *ExamSlotRepository) ListScheduledByTerm(ctx context.Context, termID string) ([]models.ExaminationSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM examination_slots WHERE term_id = $1 AND status = $2 ORDER BY date ASC, start_time ASC, id ASC", examSlotColumns)
	var slots []models.ExaminationSlot
	if err := r.db.SelectContext(ctx, &slots, query, termID, models.ExamStatusScheduled); err != nil {
		return nil, fmt.Errorf("list scheduled slots: %w", err)
	}
	return slots, nil
}

// FindByID loads a slot by id.
func (r *ExamSlotRepository) FindByID(ctx context.Context, id string) (*models.ExaminationSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM examination_slots WHERE id = $1", examSlotColumns)
	var slot models.ExaminationSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create inserts a new examination slot.
func (r *ExamSlotRepository) Create(ctx context.Context, slot *models.ExaminationSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	const query = `INSERT INTO examination_slots (id, class_id, term_id, exam_type, date, start_time, end_time, status, created_at, updated_at)
        VALUES (:id, :class_id, :term_id, :exam_type, :date, :start_time, :end_time, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create examination slot: %w", err)
	}
	return nil
}

// Update persists slot mutations.
func (r *ExamSlotRepository) Update(ctx context.Context, slot *models.ExaminationSlot) error {
	slot.UpdatedAt = time.Now().UTC()
	const query = `UPDATE examination_slots SET exam_type = :exam_type, date = :date, start_time = :start_time,
        end_time = :end_time, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("update examination slot: %w", err)
	}
	return nil
}

// Delete removes an examination slot.
func (r *ExamSlotRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM examination_slots WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete examination slot: %w", err)
	}
	return nil
}
