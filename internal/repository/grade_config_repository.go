package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
)

// GradeConfigRepository persists per-subject grade component configuration.
type GradeConfigRepository struct {
	db *sqlx.DB
}

// NewGradeConfigRepository creates a new grade config repository.
func NewGradeConfigRepository(db *sqlx.DB) *GradeConfigRepository {
	return &GradeConfigRepository{db: db}
}

const gradeConfigColumns = "id, subject_id, position, code, name, maximum, minimum, pass_score, fail_score, weight, created_at, updated_at"

// ListBySubject returns a subject's components in configured order.
func (r *GradeConfigRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.GradeComponentConfig, error) {
	query := fmt.Sprintf("SELECT %s FROM grade_component_configs WHERE subject_id = $1 ORDER BY position ASC", gradeConfigColumns)
	var components []models.GradeComponentConfig
	if err := r.db.SelectContext(ctx, &components, query, subjectID); err != nil {
		return nil, fmt.Errorf("list grade components: %w", err)
	}
	return components, nil
}

// ReplaceForSubject swaps the subject's component set atomically. Edits are
// whole-config replacements; no version history is kept.
func (r *GradeConfigRepository) ReplaceForSubject(ctx context.Context, subjectID string, components []models.GradeComponentConfig) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin config replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM grade_component_configs WHERE subject_id = $1", subjectID); err != nil {
		return fmt.Errorf("clear grade components: %w", err)
	}

	now := time.Now().UTC()
	for i := range components {
		components[i].SubjectID = subjectID
		components[i].Position = i
		if components[i].ID == "" {
			components[i].ID = uuid.NewString()
		}
		components[i].CreatedAt = now
		components[i].UpdatedAt = now
		const query = `INSERT INTO grade_component_configs (id, subject_id, position, code, name, maximum, minimum, pass_score, fail_score, weight, created_at, updated_at)
            VALUES (:id, :subject_id, :position, :code, :name, :maximum, :minimum, :pass_score, :fail_score, :weight, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, components[i]); err != nil {
			return fmt.Errorf("insert grade component: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit config replace: %w", err)
	}
	return nil
}
