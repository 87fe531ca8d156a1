package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
)

func examDay() time.Time {
	return time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
}

func slot(id, classID, start, end string) models.ExaminationSlot {
	return models.ExaminationSlot{
		ID:        id,
		ClassID:   classID,
		TermID:    "term1",
		ExamType:  "FINAL",
		Date:      examDay(),
		StartTime: start,
		EndTime:   end,
		Status:    models.ExamStatusScheduled,
	}
}

func TestDetectConflictsOverlapSeverity(t *testing.T) {
	cases := []struct {
		name     string
		second   models.ExaminationSlot
		overlap  int
		severity models.ConflictSeverity
	}{
		{"critical above sixty", slot("b", "classB", "09:00", "11:00"), 61, models.SeverityCritical},
		{"high above thirty", slot("b", "classB", "09:30", "11:00"), 31, models.SeverityHigh},
		{"medium above fifteen", slot("b", "classB", "09:45", "11:00"), 16, models.SeverityMedium},
		{"low at fifteen", slot("b", "classB", "09:46", "11:00"), 15, models.SeverityLow},
		{"low single minute", slot("b", "classB", "10:00", "11:00"), 1, models.SeverityLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first := slot("a", "classA", "08:00", "10:01")
			records, err := DetectConflicts([]models.ExaminationSlot{first, tc.second})
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, models.ConflictKindTimeOverlap, records[0].Kind)
			assert.Equal(t, tc.overlap, records[0].OverlapMinutes)
			assert.Equal(t, tc.severity, records[0].Severity)
		})
	}
}

func TestDetectConflictsAdjacentSlotsDoNotOverlap(t *testing.T) {
	records, err := DetectConflicts([]models.ExaminationSlot{
		slot("a", "classA", "08:00", "10:00"),
		slot("b", "classB", "10:00", "12:00"),
	})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDetectConflictsDifferentDatesNeverConflict(t *testing.T) {
	second := slot("b", "classA", "08:00", "10:00")
	second.Date = examDay().AddDate(0, 0, 1)
	records, err := DetectConflicts([]models.ExaminationSlot{
		slot("a", "classA", "08:00", "10:00"),
		second,
	})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDetectConflictsSameClassAlwaysCritical(t *testing.T) {
	// Non-overlapping sittings for the same class on one day.
	records, err := DetectConflicts([]models.ExaminationSlot{
		slot("a", "classA", "08:00", "09:00"),
		slot("b", "classA", "14:00", "15:00"),
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.ConflictKindSameClass, records[0].Kind)
	assert.Equal(t, models.SeverityCritical, records[0].Severity)
	assert.Equal(t, "classA", records[0].ClassID)
}

func TestDetectConflictsBothPassesReportSamePair(t *testing.T) {
	// Overlapping sittings for the same class produce one record per pass.
	records, err := DetectConflicts([]models.ExaminationSlot{
		slot("a", "classA", "08:00", "10:00"),
		slot("b", "classA", "09:00", "11:00"),
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.ConflictKindTimeOverlap, records[0].Kind)
	assert.Equal(t, models.ConflictKindSameClass, records[1].Kind)
}

func TestDetectConflictsDeterministicOrdering(t *testing.T) {
	slots := []models.ExaminationSlot{
		slot("c", "classC", "10:00", "12:00"),
		slot("a", "classA", "08:00", "10:30"),
		slot("b", "classB", "09:00", "11:00"),
	}
	first, err := DetectConflicts(slots)
	require.NoError(t, err)

	// Shuffled input yields the same report.
	shuffled := []models.ExaminationSlot{slots[2], slots[0], slots[1]}
	second, err := DetectConflicts(shuffled)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NotEmpty(t, first)
	assert.Equal(t, "a", first[0].FirstSlotID)
	assert.Equal(t, "b", first[0].SecondSlotID)
}

func TestDetectConflictsMalformedTime(t *testing.T) {
	bad := slot("b", "classB", "9am", "11:00")
	_, err := DetectConflicts([]models.ExaminationSlot{slot("a", "classA", "08:00", "10:00"), bad})
	require.Error(t, err)
}

func TestSummarizeConflicts(t *testing.T) {
	summary := SummarizeConflicts([]models.ConflictRecord{
		{Severity: models.SeverityCritical},
		{Severity: models.SeverityCritical},
		{Severity: models.SeverityHigh},
		{Severity: models.SeverityMedium},
		{Severity: models.SeverityLow},
	})
	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 2, summary.Critical)
	assert.Equal(t, 1, summary.High)
	assert.Equal(t, 1, summary.Medium)
	assert.Equal(t, 1, summary.Low)

	assert.Equal(t, models.ConflictSummary{}, SummarizeConflicts(nil))
}

type mockSlotReader struct {
	slots []models.ExaminationSlot
	calls int
}

func (m *mockSlotReader) ListScheduledByTerm(ctx context.Context, termID string) ([]models.ExaminationSlot, error) {
	m.calls++
	return m.slots, nil
}

func TestConflictServiceReportWithoutCache(t *testing.T) {
	reader := &mockSlotReader{slots: []models.ExaminationSlot{
		slot("a", "classA", "08:00", "10:00"),
		slot("b", "classB", "09:00", "11:00"),
	}}
	svc := NewConflictService(reader, nil, nil, nil, time.Minute)

	report, err := svc.Report(context.Background(), "term1", false)
	require.NoError(t, err)
	assert.Equal(t, "term1", report.TermID)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, 1, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.High)

	// No cache configured, each report recomputes.
	_, err = svc.Report(context.Background(), "term1", false)
	require.NoError(t, err)
	assert.Equal(t, 2, reader.calls)
}

func TestConflictServiceReportRequiresTerm(t *testing.T) {
	svc := NewConflictService(&mockSlotReader{}, nil, nil, nil, time.Minute)
	_, err := svc.Report(context.Background(), "", false)
	require.Error(t, err)
}

func TestConflictServiceSummary(t *testing.T) {
	reader := &mockSlotReader{slots: []models.ExaminationSlot{
		slot("a", "classA", "08:00", "11:00"),
		slot("b", "classA", "09:00", "12:00"),
	}}
	svc := NewConflictService(reader, nil, nil, nil, time.Minute)

	summary, err := svc.Summary(context.Background(), "term1")
	require.NoError(t, err)
	// 120 minute overlap plus the same-class record.
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Critical)
}
