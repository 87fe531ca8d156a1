package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	appErrors "github.com/salemsharhan/university-management-system-sub002/pkg/errors"
)

type gradeConfigReader interface {
	ListBySubject(ctx context.Context, subjectID string) ([]models.GradeComponentConfig, error)
}

type gradeRecordRepo interface {
	List(ctx context.Context, filter models.GradeRecordFilter) ([]models.StudentGradeRecord, int, error)
	ListAllByClassTerm(ctx context.Context, classID, termID string) ([]models.StudentGradeRecord, error)
	FindByID(ctx context.Context, id string) (*models.StudentGradeRecord, error)
	FindByStudentAndClass(ctx context.Context, studentID, classID string) (*models.StudentGradeRecord, error)
	Upsert(ctx context.Context, record *models.StudentGradeRecord) error
	UpdateStatus(ctx context.Context, id string, status models.GradeStatus) error
}

// legacyComponentCodes is the fixed component set summed directly when a
// subject has no configured components.
var legacyComponentCodes = []string{"midterm", "final", "assignments", "quizzes", "participation", "project", "lab", "other"}

// ComputeComposite aggregates raw component scores into a composite on a
// 0-100 scale. Bound violations produce advisory warnings; the offending
// score still participates in aggregation. A nil composite means no
// weighted component was entered, which is distinct from a zero score.
func ComputeComposite(components []models.GradeComponentConfig, scores models.ScoreMap) models.CompositeResult {
	result := models.CompositeResult{}

	for _, comp := range components {
		score, entered := scores[comp.Code]
		if !entered {
			continue
		}
		if comp.Minimum != nil && score < *comp.Minimum {
			result.Warnings = append(result.Warnings, models.ValidationWarning{
				ComponentCode: comp.Code,
				Bound:         "minimum",
				Limit:         *comp.Minimum,
				Score:         score,
				Message:       fmt.Sprintf("%s score %.2f is below the minimum %.2f", comp.Code, score, *comp.Minimum),
			})
		}
		if comp.Maximum != nil && score > *comp.Maximum {
			result.Warnings = append(result.Warnings, models.ValidationWarning{
				ComponentCode: comp.Code,
				Bound:         "maximum",
				Limit:         *comp.Maximum,
				Score:         score,
				Message:       fmt.Sprintf("%s score %.2f exceeds the maximum %.2f", comp.Code, score, *comp.Maximum),
			})
		}
	}

	if len(components) == 0 {
		result.Composite = legacyComposite(scores)
		return result
	}

	weightedSum := 0.0
	weightTotal := 0.0
	for _, comp := range components {
		if comp.Weight <= 0 {
			continue
		}
		score, entered := scores[comp.Code]
		if !entered || score <= 0 {
			continue
		}
		maximum := 100.0
		if comp.Maximum != nil && *comp.Maximum > 0 {
			maximum = *comp.Maximum
		}
		normalized := score / maximum * 100
		weightedSum += normalized * (comp.Weight / 100)
		weightTotal += comp.Weight / 100
	}

	if weightTotal == 0 {
		return result
	}
	composite := clampPercent(weightedSum / weightTotal)
	result.Composite = &composite
	return result
}

// legacyComposite sums the fixed component codes directly as percentages.
func legacyComposite(scores models.ScoreMap) *float64 {
	sum := 0.0
	any := false
	for _, code := range legacyComponentCodes {
		if score, ok := scores[code]; ok && score > 0 {
			sum += score
			any = true
		}
	}
	if !any {
		return nil
	}
	sum = clampPercent(sum)
	return &sum
}

func clampPercent(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

// ClassifyLetter resolves the first scale band containing the composite.
// Classification is best effort: with no composite or no containing band
// it returns the ungraded sentinel (empty letter, nil points) rather than
// an error, so a save workflow is never aborted by a scale gap.
func ClassifyLetter(scale []models.GradeScaleBand, composite *float64) (string, *float64, bool) {
	if composite == nil {
		return "", nil, false
	}
	for _, band := range scale {
		if *composite >= band.MinPercent && *composite <= band.MaxPercent {
			points := band.Points
			return band.Letter, &points, band.Passing
		}
	}
	return "", nil, false
}

// UpsertScoresRequest carries one grade entry submission.
type UpsertScoresRequest struct {
	StudentID string          `json:"student_id" validate:"required"`
	ClassID   string          `json:"class_id" validate:"required"`
	SubjectID string          `json:"subject_id" validate:"required"`
	TermID    string          `json:"term_id" validate:"required"`
	Scores    models.ScoreMap `json:"scores" validate:"required"`
}

// UpsertScoresResult bundles the stored record with advisory warnings.
type UpsertScoresResult struct {
	Record   *models.StudentGradeRecord `json:"record"`
	Warnings []models.ValidationWarning `json:"warnings,omitempty"`
}

// RecalculateFailure captures one record that failed during batch recompute.
type RecalculateFailure struct {
	RecordID string `json:"record_id"`
	Reason   string `json:"reason"`
}

// RecalculateResult summarises a batch recompute run.
type RecalculateResult struct {
	Processed int                  `json:"processed"`
	Failures  []RecalculateFailure `json:"failures,omitempty"`
}

// GradeService orchestrates grade entry, composite computation and the
// draft/submitted/approved/final workflow.
type GradeService struct {
	configs   gradeConfigReader
	records   gradeRecordRepo
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	scale     []models.GradeScaleBand
	rounding  func(float64) float64
}

// NewGradeService constructs GradeService.
func NewGradeService(configs gradeConfigReader, records gradeRecordRepo, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{
		configs:   configs,
		records:   records,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		scale:     models.DefaultGradeScale,
		rounding:  func(v float64) float64 { return math.RoundToEven(v*100) / 100 },
	}
}

// SetRoundDecimals overrides the rounding precision applied to composites.
func (s *GradeService) SetRoundDecimals(decimals int) {
	if decimals < 0 {
		return
	}
	factor := math.Pow10(decimals)
	s.rounding = func(v float64) float64 { return math.RoundToEven(v*factor) / factor }
}

// List returns grade records.
func (s *GradeService) List(ctx context.Context, filter models.GradeRecordFilter) ([]models.StudentGradeRecord, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	records, total, err := s.records.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grade records")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return records, pagination, nil
}

// UpsertScores stores entered scores and refreshes the derived composite,
// letter grade and GPA points. Bound warnings are returned alongside the
// record, never blocking the save.
func (s *GradeService) UpsertScores(ctx context.Context, req UpsertScoresRequest) (*UpsertScoresResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	record, err := s.records.FindByStudentAndClass(ctx, req.StudentID, req.ClassID)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade record")
		}
		record = &models.StudentGradeRecord{
			StudentID: req.StudentID,
			ClassID:   req.ClassID,
			SubjectID: req.SubjectID,
			TermID:    req.TermID,
			Status:    models.GradeStatusDraft,
		}
	}
	if record.Status == models.GradeStatusFinal {
		return nil, appErrors.Clone(appErrors.ErrFinalized, "grade record is final and cannot be modified")
	}

	if record.Scores == nil {
		record.Scores = models.ScoreMap{}
	}
	for code, score := range req.Scores {
		record.Scores[code] = score
	}

	warnings, err := s.recompute(ctx, record)
	if err != nil {
		return nil, err
	}

	if err := s.records.Upsert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save grade record")
	}
	return &UpsertScoresResult{Record: record, Warnings: warnings}, nil
}

// Transition advances a record through the grading workflow. Only the
// draft -> submitted -> approved -> final chain is legal.
func (s *GradeService) Transition(ctx context.Context, id string, target models.GradeStatus) (*models.StudentGradeRecord, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade record")
	}
	next, ok := record.Status.Next()
	if !ok || next != target {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move record from %s to %s", record.Status, target))
	}
	if err := s.records.UpdateStatus(ctx, id, target); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade status")
	}
	record.Status = target
	return record, nil
}

// RecalculateClass recomputes every non-final record in a class scope.
// Failures are isolated per record so one bad row never aborts the batch.
func (s *GradeService) RecalculateClass(ctx context.Context, classID, termID string) (*RecalculateResult, error) {
	if classID == "" || termID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classId and termId are required")
	}
	records, err := s.records.ListAllByClassTerm(ctx, classID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grade records")
	}

	result := &RecalculateResult{}
	for i := range records {
		record := &records[i]
		if record.Status == models.GradeStatusFinal {
			continue
		}
		if _, err := s.recompute(ctx, record); err != nil {
			result.Failures = append(result.Failures, RecalculateFailure{RecordID: record.ID, Reason: err.Error()})
			continue
		}
		if err := s.records.Upsert(ctx, record); err != nil {
			result.Failures = append(result.Failures, RecalculateFailure{RecordID: record.ID, Reason: err.Error()})
			continue
		}
		result.Processed++
	}
	return result, nil
}

func (s *GradeService) recompute(ctx context.Context, record *models.StudentGradeRecord) ([]models.ValidationWarning, error) {
	components, err := s.configs.ListBySubject(ctx, record.SubjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade components")
	}

	computed := ComputeComposite(components, record.Scores)
	if computed.Composite != nil {
		rounded := s.rounding(*computed.Composite)
		computed.Composite = &rounded
	}
	record.Composite = computed.Composite

	letter, points, _ := ClassifyLetter(s.scale, record.Composite)
	if letter == "" {
		record.LetterGrade = nil
		record.GPAPoints = nil
	} else {
		record.LetterGrade = &letter
		record.GPAPoints = points
	}

	if s.metrics != nil {
		s.metrics.IncCompositesComputed()
	}
	return computed.Warnings, nil
}
