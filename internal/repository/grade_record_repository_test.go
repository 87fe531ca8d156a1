package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
)

func newGradeRecordRepoMock(t *testing.T) (*GradeRecordRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewGradeRecordRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func gradeRecordRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "student_id", "class_id", "subject_id", "term_id", "scores",
		"composite", "letter_grade", "gpa_points", "status", "created_at", "updated_at",
	})
}

func TestGradeRecordRepositoryList(t *testing.T) {
	repo, mock := newGradeRecordRepoMock(t)

	composite := 74.0
	letter := "C"
	points := 2.0
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, class_id, subject_id, term_id, scores, composite, letter_grade, gpa_points, status, created_at, updated_at FROM student_grade_records WHERE 1=1 AND class_id = $1 AND term_id = $2 ORDER BY updated_at DESC LIMIT 50 OFFSET 0")).
		WithArgs("class-1", "term-1").
		WillReturnRows(gradeRecordRows().AddRow(
			"rec-1", "student-1", "class-1", "subject-1", "term-1", []byte(`{"midterm":80,"final":70}`),
			composite, letter, points, "DRAFT", now, now,
		))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM student_grade_records WHERE 1=1 AND class_id = $1 AND term_id = $2")).
		WithArgs("class-1", "term-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	records, total, err := repo.List(context.Background(), models.GradeRecordFilter{ClassID: "class-1", TermID: "term-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, records, 1)
	assert.Equal(t, "student-1", records[0].StudentID)
	assert.Equal(t, models.ScoreMap{"midterm": 80, "final": 70}, records[0].Scores)
	require.NotNil(t, records[0].Composite)
	assert.InDelta(t, 74.0, *records[0].Composite, 0.0001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRecordRepositoryListAllByClassTerm(t *testing.T) {
	repo, mock := newGradeRecordRepoMock(t)

	now := time.Now().UTC()
	rows := gradeRecordRows()
	for i := 0; i < 3; i++ {
		rows.AddRow(
			fmt.Sprintf("rec-%d", i), fmt.Sprintf("student-%d", i), "class-1", "subject-1", "term-1",
			[]byte(`{}`), nil, nil, nil, "DRAFT", now, now,
		)
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, class_id, subject_id, term_id, scores, composite, letter_grade, gpa_points, status, created_at, updated_at FROM student_grade_records WHERE class_id = $1 AND term_id = $2 ORDER BY student_id")).
		WithArgs("class-1", "term-1").
		WillReturnRows(rows)

	records, err := repo.ListAllByClassTerm(context.Background(), "class-1", "term-1")
	require.NoError(t, err)
	require.Len(t, records, 3, "no LIMIT clause, every row comes back")
	assert.Equal(t, "student-0", records[0].StudentID)
	assert.Nil(t, records[0].Composite)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRecordRepositoryUpsertInsert(t *testing.T) {
	repo, mock := newGradeRecordRepoMock(t)

	mock.ExpectExec("INSERT INTO student_grade_records").
		WillReturnResult(sqlmock.NewResult(0, 1))

	record := &models.StudentGradeRecord{
		StudentID: "student-1",
		ClassID:   "class-1",
		SubjectID: "subject-1",
		TermID:    "term-1",
		Scores:    models.ScoreMap{"midterm": 80},
		Status:    models.GradeStatusDraft,
	}
	require.NoError(t, repo.Upsert(context.Background(), record))
	assert.NotEmpty(t, record.ID, "upsert assigns id to new records")
	assert.False(t, record.CreatedAt.IsZero())
	assert.False(t, record.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRecordRepositoryUpsertKeepsExistingID(t *testing.T) {
	repo, mock := newGradeRecordRepoMock(t)

	mock.ExpectExec("INSERT INTO student_grade_records").
		WillReturnResult(sqlmock.NewResult(0, 1))

	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	record := &models.StudentGradeRecord{
		ID:        "rec-1",
		StudentID: "student-1",
		ClassID:   "class-1",
		SubjectID: "subject-1",
		TermID:    "term-1",
		Scores:    models.ScoreMap{"midterm": 85},
		Status:    models.GradeStatusDraft,
		CreatedAt: created,
	}
	require.NoError(t, repo.Upsert(context.Background(), record))
	assert.Equal(t, "rec-1", record.ID)
	assert.Equal(t, created, record.CreatedAt)
	assert.True(t, record.UpdatedAt.After(created))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRecordRepositoryUpdateStatus(t *testing.T) {
	repo, mock := newGradeRecordRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_grade_records SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs("SUBMITTED", sqlmock.AnyArg(), "rec-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "rec-1", models.GradeStatusSubmitted))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRecordRepositoryUpdateStatusMissing(t *testing.T) {
	repo, mock := newGradeRecordRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_grade_records SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs("SUBMITTED", sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.GradeStatusSubmitted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRecordRepositoryProgressByClass(t *testing.T) {
	repo, mock := newGradeRecordRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) AS total, COUNT(composite) AS graded")).
		WithArgs("class-1", "term-1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "graded"}).AddRow(30, 22))

	progress, err := repo.ProgressByClass(context.Background(), "class-1", "term-1")
	require.NoError(t, err)
	assert.Equal(t, "class-1", progress.ClassID)
	assert.Equal(t, 22, progress.Graded)
	assert.Equal(t, 8, progress.Pending)
	assert.Equal(t, 30, progress.Total)
	require.NoError(t, mock.ExpectationsWereMet())
}
