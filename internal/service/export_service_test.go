package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
)

type mockConflictReports struct {
	report *models.ConflictReport
}

func (m *mockConflictReports) Report(ctx context.Context, termID string, refresh bool) (*models.ConflictReport, error) {
	return m.report, nil
}

type mockExportRecords struct {
	records []models.StudentGradeRecord
}

func (m *mockExportRecords) ListAllByClassTerm(ctx context.Context, classID, termID string) ([]models.StudentGradeRecord, error) {
	return m.records, nil
}

func sampleConflictReport() *models.ConflictReport {
	return &models.ConflictReport{
		TermID: "term-1",
		Conflicts: []models.ConflictRecord{
			{
				FirstSlotID: "slot-a", SecondSlotID: "slot-b",
				Kind: models.ConflictKindTimeOverlap, Severity: models.SeverityHigh,
				OverlapMinutes: 45,
				Date:           time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			},
		},
		Summary: models.ConflictSummary{Total: 1, High: 1},
	}
}

func TestExportConflictReportCSV(t *testing.T) {
	svc := NewExportService(&mockConflictReports{report: sampleConflictReport()}, &mockExportRecords{}, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 11, 14, 30, 5, 0, time.UTC) }

	result, err := svc.ConflictReport(context.Background(), "term-1", ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "conflicts-term-1-20260311-143005.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)

	body := string(result.Payload)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "first_slot,second_slot,kind,severity,overlap_minutes,date,class", lines[0])
	assert.Equal(t, "slot-a,slot-b,time_overlap,high,45,2026-03-10,", lines[1])
}

func TestExportConflictReportPDF(t *testing.T) {
	svc := NewExportService(&mockConflictReports{report: sampleConflictReport()}, &mockExportRecords{}, nil, nil, nil)

	result, err := svc.ConflictReport(context.Background(), "term-1", ReportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "conflicts-term-1-"))
	assert.True(t, strings.HasPrefix(string(result.Payload), "%PDF"))
}

func TestExportGradeSheetCSV(t *testing.T) {
	composite := 74.0
	letter := "C"
	points := 2.0
	records := &mockExportRecords{records: []models.StudentGradeRecord{
		{StudentID: "student-1", Composite: &composite, LetterGrade: &letter, GPAPoints: &points, Status: models.GradeStatusSubmitted},
		{StudentID: "student-2", Status: models.GradeStatusDraft},
	}}
	svc := NewExportService(&mockConflictReports{report: sampleConflictReport()}, records, nil, nil, nil)

	result, err := svc.GradeSheet(context.Background(), "class-1", "term-1", ReportFormatCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(result.Payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "student,composite,letter,gpa_points,status", lines[0])
	assert.Equal(t, "student-1,74.00,C,2.00,SUBMITTED", lines[1])
	assert.Equal(t, "student-2,,,,DRAFT", lines[2], "ungraded students export with empty derived columns")
}

func TestExportGradeSheetCoversFullRoster(t *testing.T) {
	// Exports must never be cut off at an interactive page size.
	roster := make([]models.StudentGradeRecord, 0, 120)
	for i := 0; i < 120; i++ {
		roster = append(roster, models.StudentGradeRecord{
			StudentID: fmt.Sprintf("student-%03d", i),
			Status:    models.GradeStatusDraft,
		})
	}
	svc := NewExportService(&mockConflictReports{report: sampleConflictReport()}, &mockExportRecords{records: roster}, nil, nil, nil)

	result, err := svc.GradeSheet(context.Background(), "class-1", "term-1", ReportFormatCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(result.Payload)), "\n")
	require.Len(t, lines, 121, "one header line plus every roster row")
	assert.Equal(t, "student-000,,,,DRAFT", lines[1])
	assert.Equal(t, "student-119,,,,DRAFT", lines[120])
}

func TestExportGradeSheetRequiresClass(t *testing.T) {
	svc := NewExportService(&mockConflictReports{}, &mockExportRecords{}, nil, nil, nil)

	_, err := svc.GradeSheet(context.Background(), "", "term-1", ReportFormatCSV)
	require.Error(t, err)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(&mockConflictReports{report: sampleConflictReport()}, &mockExportRecords{}, nil, nil, nil)

	_, err := svc.ConflictReport(context.Background(), "term-1", ReportFormat("xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}
