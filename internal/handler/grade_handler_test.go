package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	"github.com/salemsharhan/university-management-system-sub002/internal/service"
)

type gradeConfigReaderMock struct {
	components []models.GradeComponentConfig
}

func (m *gradeConfigReaderMock) ListBySubject(ctx context.Context, subjectID string) ([]models.GradeComponentConfig, error) {
	return m.components, nil
}

type gradeRecordRepoMock struct {
	upserted *models.StudentGradeRecord
}

func (m *gradeRecordRepoMock) List(ctx context.Context, filter models.GradeRecordFilter) ([]models.StudentGradeRecord, int, error) {
	return nil, 0, nil
}

func (m *gradeRecordRepoMock) ListAllByClassTerm(ctx context.Context, classID, termID string) ([]models.StudentGradeRecord, error) {
	return nil, nil
}

func (m *gradeRecordRepoMock) FindByID(ctx context.Context, id string) (*models.StudentGradeRecord, error) {
	return nil, sql.ErrNoRows
}

func (m *gradeRecordRepoMock) FindByStudentAndClass(ctx context.Context, studentID, classID string) (*models.StudentGradeRecord, error) {
	return nil, sql.ErrNoRows
}

func (m *gradeRecordRepoMock) Upsert(ctx context.Context, record *models.StudentGradeRecord) error {
	m.upserted = record
	return nil
}

func (m *gradeRecordRepoMock) UpdateStatus(ctx context.Context, id string, status models.GradeStatus) error {
	return nil
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func newGradeHandler(components []models.GradeComponentConfig) (*GradeHandler, *gradeRecordRepoMock) {
	records := &gradeRecordRepoMock{}
	svc := service.NewGradeService(&gradeConfigReaderMock{components: components}, records, nil, nil, nil)
	return NewGradeHandler(svc), records
}

func scorePayload(scores models.ScoreMap) []byte {
	payload, _ := json.Marshal(service.UpsertScoresRequest{
		StudentID: "student-1",
		ClassID:   "class-1",
		SubjectID: "subject-1",
		TermID:    "term-1",
		Scores:    scores,
	})
	return payload
}

func TestGradeHandlerUpsertScoresWarningsInMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	max := 100.0
	handler, records := newGradeHandler([]models.GradeComponentConfig{
		{Code: "final", Name: "Final", Weight: 100, Maximum: &max},
	})

	c, w := newGinContext(http.MethodPut, "/grade-records/scores", scorePayload(models.ScoreMap{"final": 120}))
	handler.UpsertScores(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, records.upserted)

	var envelope struct {
		Data map[string]interface{} `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	// The record rides in data, the advisory bound warnings in meta.
	require.Equal(t, "student-1", envelope.Data["student_id"])
	require.NotContains(t, envelope.Data, "warnings")
	warnings, ok := envelope.Meta["warnings"].([]interface{})
	require.True(t, ok)
	require.Len(t, warnings, 1)
}

func TestGradeHandlerUpsertScoresCleanSaveOmitsMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	max := 100.0
	handler, _ := newGradeHandler([]models.GradeComponentConfig{
		{Code: "final", Name: "Final", Weight: 100, Maximum: &max},
	})

	c, w := newGinContext(http.MethodPut, "/grade-records/scores", scorePayload(models.ScoreMap{"final": 85}))
	handler.UpsertScores(c)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Contains(t, envelope, "data")
	require.NotContains(t, envelope, "meta")
}
