package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	appErrors "github.com/salemsharhan/university-management-system-sub002/pkg/errors"
	"github.com/salemsharhan/university-management-system-sub002/pkg/export"
)

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type conflictReportProvider interface {
	Report(ctx context.Context, termID string, refresh bool) (*models.ConflictReport, error)
}

type exportGradeRecordLister interface {
	ListAllByClassTerm(ctx context.Context, classID, termID string) ([]models.StudentGradeRecord, error)
}

// ExportResult carries a rendered export payload.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders conflict reports and grade sheets for download.
type ExportService struct {
	conflicts conflictReportProvider
	records   exportGradeRecordLister
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(conflicts conflictReportProvider, records exportGradeRecordLister, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		conflicts: conflicts,
		records:   records,
		csv:       csv,
		pdf:       pdf,
		logger:    logger,
		now:       time.Now,
	}
}

// ConflictReport renders the conflict report for a term in the requested format.
func (s *ExportService) ConflictReport(ctx context.Context, termID string, format ReportFormat) (*ExportResult, error) {
	report, err := s.conflicts.Report(ctx, termID, false)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"first_slot", "second_slot", "kind", "severity", "overlap_minutes", "date", "class"},
	}
	for _, c := range report.Conflicts {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"first_slot":      c.FirstSlotID,
			"second_slot":     c.SecondSlotID,
			"kind":            string(c.Kind),
			"severity":        string(c.Severity),
			"overlap_minutes": strconv.Itoa(c.OverlapMinutes),
			"date":            c.Date.Format("2006-01-02"),
			"class":           c.ClassID,
		})
	}

	title := fmt.Sprintf("Examination Conflict Report - Term %s", termID)
	return s.render(dataset, title, fmt.Sprintf("conflicts-%s", termID), format)
}

// GradeSheet renders the full grade roster of a class in the requested
// format. The sheet always covers every record in scope, never one page.
func (s *ExportService) GradeSheet(ctx context.Context, classID, termID string, format ReportFormat) (*ExportResult, error) {
	if classID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class id is required")
	}
	records, err := s.records.ListAllByClassTerm(ctx, classID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grade records")
	}

	dataset := export.Dataset{
		Headers: []string{"student", "composite", "letter", "gpa_points", "status"},
	}
	for _, rec := range records {
		row := map[string]string{
			"student":    rec.StudentID,
			"composite":  "",
			"letter":     "",
			"gpa_points": "",
			"status":     string(rec.Status),
		}
		if rec.Composite != nil {
			row["composite"] = strconv.FormatFloat(*rec.Composite, 'f', 2, 64)
		}
		if rec.LetterGrade != nil {
			row["letter"] = *rec.LetterGrade
		}
		if rec.GPAPoints != nil {
			row["gpa_points"] = strconv.FormatFloat(*rec.GPAPoints, 'f', 2, 64)
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	title := fmt.Sprintf("Grade Sheet - Class %s", classID)
	return s.render(dataset, title, fmt.Sprintf("grades-%s", classID), format)
}

func (s *ExportService) render(dataset export.Dataset, title, stem string, format ReportFormat) (*ExportResult, error) {
	timestamp := s.now().UTC().Format("20060102-150405")
	switch format {
	case ReportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("%s-%s.csv", stem, timestamp),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	case ReportFormatPDF:
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("%s-%s.pdf", stem, timestamp),
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
