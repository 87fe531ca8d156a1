package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
)

func newSessionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestClassSessionRepositoryList(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewClassSessionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "class_id", "term_id", "template_id", "date", "start_time", "end_time", "location", "status", "created_at", "updated_at"}).
		AddRow("s1", "class1", "term1", "tpl1", now, "09:00", "10:30", nil, "SCHEDULED", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, class_id, term_id, template_id, date, start_time, end_time, location, status, created_at, updated_at FROM class_sessions WHERE 1=1 AND class_id = $1 ORDER BY date ASC, start_time ASC LIMIT 50 OFFSET 0")).
		WithArgs("class1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM class_sessions WHERE 1=1 AND class_id = $1")).
		WithArgs("class1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	sessions, total, err := repo.List(context.Background(), models.ClassSessionFilter{ClassID: "class1"})
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassSessionRepositoryUpsertGenerated(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewClassSessionRepository(db)

	sessions := []models.ClassSession{
		{ClassID: "class1", TermID: "term1", TemplateID: "tpl1", Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), StartTime: "09:00", EndTime: "10:30", Status: models.SessionStatusScheduled},
		{ClassID: "class1", TermID: "term1", TemplateID: "tpl1", Date: time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), StartTime: "09:00", EndTime: "10:30", Status: models.SessionStatusScheduled},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO class_sessions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO class_sessions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	count, err := repo.UpsertGenerated(context.Background(), sessions)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NotEmpty(t, sessions[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassSessionRepositoryUpsertGeneratedEmpty(t *testing.T) {
	db, _, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewClassSessionRepository(db)

	count, err := repo.UpsertGenerated(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestClassSessionRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewClassSessionRepository(db)

	mock.ExpectExec("UPDATE class_sessions SET status").
		WithArgs("COMPLETED", sqlmock.AnyArg(), "s1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateStatus(context.Background(), "s1", models.SessionStatusCompleted))

	mock.ExpectExec("UPDATE class_sessions SET status").
		WithArgs("COMPLETED", sqlmock.AnyArg(), "absent").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.Error(t, repo.UpdateStatus(context.Background(), "absent", models.SessionStatusCompleted))

	assert.NoError(t, mock.ExpectationsWereMet())
}
