package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
)

// GradeRecordRepository persists per-student grade records.
type GradeRecordRepository struct {
	db *sqlx.DB
}

// NewGradeRecordRepository creates a new grade record repository.
func NewGradeRecordRepository(db *sqlx.DB) *GradeRecordRepository {
	return &GradeRecordRepository{db: db}
}

const gradeRecordColumns = "id, student_id, class_id, subject_id, term_id, scores, composite, letter_grade, gpa_points, status, created_at, updated_at"

// List returns grade records with optional filtering and pagination.
func (r *GradeRecordRepository) List(ctx context.Context, filter models.GradeRecordFilter) ([]models.StudentGradeRecord, int, error) {
	base := "FROM student_grade_records WHERE 1=1"
	var args []interface{}
	if filter.StudentID != "" {
		base += fmt.Sprintf(" AND student_id = $%d", len(args)+1)
		args = append(args, filter.StudentID)
	}
	if filter.ClassID != "" {
		base += fmt.Sprintf(" AND class_id = $%d", len(args)+1)
		args = append(args, filter.ClassID)
	}
	if filter.SubjectID != "" {
		base += fmt.Sprintf(" AND subject_id = $%d", len(args)+1)
		args = append(args, filter.SubjectID)
	}
	if filter.TermID != "" {
		base += fmt.Sprintf(" AND term_id = $%d", len(args)+1)
		args = append(args, filter.TermID)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY updated_at DESC LIMIT %d OFFSET %d", gradeRecordColumns, base, size, offset)
	var records []models.StudentGradeRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list grade records: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count grade records: %w", err)
	}

	return records, total, nil
}

// ListAllByClassTerm returns every record for a class in a term with no
// pagination. Batch recompute and exports need the full roster; the
// paginated List is for interactive browsing only.
func (r *GradeRecordRepository) ListAllByClassTerm(ctx context.Context, classID, termID string) ([]models.StudentGradeRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM student_grade_records WHERE class_id = $1 AND term_id = $2 ORDER BY student_id", gradeRecordColumns)
	var records []models.StudentGradeRecord
	if err := r.db.SelectContext(ctx, &records, query, classID, termID); err != nil {
		return nil, fmt.Errorf("list grade records for class: %w", err)
	}
	return records, nil
}

// FindByID loads a grade record by id.
func (r *GradeRecordRepository) FindByID(ctx context.Context, id string) (*models.StudentGradeRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM student_grade_records WHERE id = $1", gradeRecordColumns)
	var record models.StudentGradeRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByStudentAndClass loads the single record for a (student, class) pair.
func (r *GradeRecordRepository) FindByStudentAndClass(ctx context.Context, studentID, classID string) (*models.StudentGradeRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM student_grade_records WHERE student_id = $1 AND class_id = $2", gradeRecordColumns)
	var record models.StudentGradeRecord
	if err := r.db.GetContext(ctx, &record, query, studentID, classID); err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert inserts or updates the record keyed by (student_id, class_id).
func (r *GradeRecordRepository) Upsert(ctx context.Context, record *models.StudentGradeRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	const query = `INSERT INTO student_grade_records (id, student_id, class_id, subject_id, term_id, scores, composite, letter_grade, gpa_points, status, created_at, updated_at)
        VALUES (:id, :student_id, :class_id, :subject_id, :term_id, :scores, :composite, :letter_grade, :gpa_points, :status, :created_at, :updated_at)
        ON CONFLICT (student_id, class_id)
        DO UPDATE SET scores = EXCLUDED.scores, composite = EXCLUDED.composite, letter_grade = EXCLUDED.letter_grade,
            gpa_points = EXCLUDED.gpa_points, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("upsert grade record: %w", err)
	}
	return nil
}

// UpdateStatus advances the workflow status of a record.
func (r *GradeRecordRepository) UpdateStatus(ctx context.Context, id string, status models.GradeStatus) error {
	res, err := r.db.ExecContext(ctx, "UPDATE student_grade_records SET status = $1, updated_at = $2 WHERE id = $3", status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update grade record status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("grade record %s not found", id)
	}
	return nil
}

// ProgressByClass counts graded (composite present) versus total records.
func (r *GradeRecordRepository) ProgressByClass(ctx context.Context, classID, termID string) (*models.GradingProgress, error) {
	const query = `SELECT COUNT(*) AS total, COUNT(composite) AS graded
        FROM student_grade_records WHERE class_id = $1 AND term_id = $2`
	var row struct {
		Total  int `db:"total"`
		Graded int `db:"graded"`
	}
	if err := r.db.GetContext(ctx, &row, query, classID, termID); err != nil {
		return nil, fmt.Errorf("grading progress: %w", err)
	}
	return &models.GradingProgress{
		ClassID: classID,
		TermID:  termID,
		Graded:  row.Graded,
		Pending: row.Total - row.Graded,
		Total:   row.Total,
	}, nil
}
