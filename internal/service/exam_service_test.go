package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	appErrors "github.com/salemsharhan/university-management-system-sub002/pkg/errors"
)

type mockExamSlotRepo struct {
	slots map[string]*models.ExaminationSlot
}

func newMockExamSlotRepo() *mockExamSlotRepo {
	return &mockExamSlotRepo{slots: map[string]*models.ExaminationSlot{}}
}

func (m *mockExamSlotRepo) List(ctx context.Context, filter models.ExamSlotFilter) ([]models.ExaminationSlot, int, error) {
	var out []models.ExaminationSlot
	for _, s := range m.slots {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *mockExamSlotRepo) FindByID(ctx context.Context, id string) (*models.ExaminationSlot, error) {
	s, ok := m.slots[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *s
	return &copied, nil
}

func (m *mockExamSlotRepo) Create(ctx context.Context, slot *models.ExaminationSlot) error {
	if slot.ID == "" {
		slot.ID = "slot-1"
	}
	stored := *slot
	m.slots[slot.ID] = &stored
	return nil
}

func (m *mockExamSlotRepo) Update(ctx context.Context, slot *models.ExaminationSlot) error {
	stored := *slot
	m.slots[slot.ID] = &stored
	return nil
}

func (m *mockExamSlotRepo) Delete(ctx context.Context, id string) error {
	delete(m.slots, id)
	return nil
}

type mockCacheRepo struct {
	deleted []string
}

func (m *mockCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (m *mockCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (m *mockCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	return nil
}

func examRequest() UpsertExamSlotRequest {
	return UpsertExamSlotRequest{
		ClassID:   "class-1",
		TermID:    "term-1",
		ExamType:  "MIDTERM",
		Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "11:00",
	}
}

func TestExamServiceCreateDefaultsStatus(t *testing.T) {
	repo := newMockExamSlotRepo()
	svc := NewExamService(repo, nil, nil, nil)

	slot, err := svc.Create(context.Background(), examRequest())
	require.NoError(t, err)
	assert.Equal(t, models.ExamStatusScheduled, slot.Status)
	assert.Len(t, repo.slots, 1)
}

func TestExamServiceCreateInvalidatesConflictCache(t *testing.T) {
	cacheRepo := &mockCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	conflicts := NewConflictService(&mockSlotReader{}, cache, nil, nil, time.Minute)
	svc := NewExamService(newMockExamSlotRepo(), conflicts, nil, nil)

	_, err := svc.Create(context.Background(), examRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"conflicts:term:term-1"}, cacheRepo.deleted)
}

func TestExamServiceUpdatePreservesIdentity(t *testing.T) {
	repo := newMockExamSlotRepo()
	created := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	repo.slots["slot-1"] = &models.ExaminationSlot{
		ID: "slot-1", ClassID: "class-1", TermID: "term-1", ExamType: "MIDTERM",
		Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), StartTime: "09:00", EndTime: "11:00",
		Status: models.ExamStatusScheduled, CreatedAt: created,
	}
	cacheRepo := &mockCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	conflicts := NewConflictService(&mockSlotReader{}, cache, nil, nil, time.Minute)
	svc := NewExamService(repo, conflicts, nil, nil)

	req := examRequest()
	req.StartTime = "13:00"
	req.EndTime = "15:00"
	slot, err := svc.Update(context.Background(), "slot-1", req)
	require.NoError(t, err)
	assert.Equal(t, "slot-1", slot.ID)
	assert.Equal(t, created, slot.CreatedAt)
	assert.Equal(t, "13:00", slot.StartTime)
	assert.Contains(t, cacheRepo.deleted, "conflicts:term:term-1")
}

func TestExamServiceUpdateMissingSlot(t *testing.T) {
	svc := NewExamService(newMockExamSlotRepo(), nil, nil, nil)

	_, err := svc.Update(context.Background(), "missing", examRequest())
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestExamServiceDeleteInvalidatesConflictCache(t *testing.T) {
	repo := newMockExamSlotRepo()
	repo.slots["slot-1"] = &models.ExaminationSlot{ID: "slot-1", ClassID: "class-1", TermID: "term-9"}
	cacheRepo := &mockCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	conflicts := NewConflictService(&mockSlotReader{}, cache, nil, nil, time.Minute)
	svc := NewExamService(repo, conflicts, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "slot-1"))
	assert.Empty(t, repo.slots)
	assert.Equal(t, []string{"conflicts:term:term-9"}, cacheRepo.deleted)
}

func TestExamServiceRejectsInvalidTimes(t *testing.T) {
	svc := NewExamService(newMockExamSlotRepo(), nil, nil, nil)

	req := examRequest()
	req.EndTime = "09:00"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)

	req = examRequest()
	req.StartTime = "9am"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)

	req = examRequest()
	req.Status = "POSTPONED"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
}
