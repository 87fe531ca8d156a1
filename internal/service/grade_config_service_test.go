package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	appErrors "github.com/salemsharhan/university-management-system-sub002/pkg/errors"
)

type mockGradeConfigRepo struct {
	stored   []models.GradeComponentConfig
	replaced bool
}

func (m *mockGradeConfigRepo) ListBySubject(ctx context.Context, subjectID string) ([]models.GradeComponentConfig, error) {
	return m.stored, nil
}

func (m *mockGradeConfigRepo) ReplaceForSubject(ctx context.Context, subjectID string, components []models.GradeComponentConfig) error {
	m.stored = components
	m.replaced = true
	return nil
}

func replaceRequest() ReplaceGradeConfigRequest {
	return ReplaceGradeConfigRequest{
		SubjectID: "subject-1",
		Components: []GradeComponentRequest{
			{Code: "Midterm", Name: "Midterm Exam", Weight: 40},
			{Code: "final", Name: "Final Exam", Weight: 60},
		},
	}
}

func TestGradeConfigReplaceNormalizesComponents(t *testing.T) {
	repo := &mockGradeConfigRepo{}
	svc := NewGradeConfigService(repo, nil, nil)

	components, weightTotal, err := svc.Replace(context.Background(), replaceRequest())
	require.NoError(t, err)
	assert.True(t, repo.replaced)
	assert.InDelta(t, 100.0, weightTotal, 0.0001)
	require.Len(t, components, 2)
	assert.Equal(t, "midterm", components[0].Code)
	assert.Equal(t, 0, components[0].Position)
	assert.Equal(t, "final", components[1].Code)
	assert.Equal(t, 1, components[1].Position)
	assert.Equal(t, "subject-1", components[1].SubjectID)
}

func TestGradeConfigReplaceWeightTotalIsAdvisory(t *testing.T) {
	repo := &mockGradeConfigRepo{}
	svc := NewGradeConfigService(repo, nil, nil)

	req := replaceRequest()
	req.Components[1].Weight = 30
	_, weightTotal, err := svc.Replace(context.Background(), req)
	require.NoError(t, err, "weights need not sum to 100")
	assert.InDelta(t, 70.0, weightTotal, 0.0001)
}

func TestGradeConfigReplaceRejectsDuplicateCodes(t *testing.T) {
	svc := NewGradeConfigService(&mockGradeConfigRepo{}, nil, nil)

	req := replaceRequest()
	req.Components[1].Code = " MIDTERM "
	_, _, err := svc.Replace(context.Background(), req)
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "duplicate")
}

func TestGradeConfigReplaceRejectsInvertedBounds(t *testing.T) {
	svc := NewGradeConfigService(&mockGradeConfigRepo{}, nil, nil)

	minimum := 50.0
	maximum := 40.0
	req := replaceRequest()
	req.Components[0].Minimum = &minimum
	req.Components[0].Maximum = &maximum
	_, _, err := svc.Replace(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minimum exceeds maximum")
}

func TestGradeConfigReplaceRequiresSubject(t *testing.T) {
	svc := NewGradeConfigService(&mockGradeConfigRepo{}, nil, nil)

	req := replaceRequest()
	req.SubjectID = ""
	_, _, err := svc.Replace(context.Background(), req)
	require.Error(t, err)
}

func TestGradeConfigListRequiresSubject(t *testing.T) {
	svc := NewGradeConfigService(&mockGradeConfigRepo{}, nil, nil)

	_, err := svc.ListBySubject(context.Background(), "")
	require.Error(t, err)
}
