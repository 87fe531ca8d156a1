package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	appErrors "github.com/salemsharhan/university-management-system-sub002/pkg/errors"
)

type gradeConfigRepository interface {
	ListBySubject(ctx context.Context, subjectID string) ([]models.GradeComponentConfig, error)
	ReplaceForSubject(ctx context.Context, subjectID string, components []models.GradeComponentConfig) error
}

// GradeComponentRequest captures one component in a config replacement.
type GradeComponentRequest struct {
	Code      string   `json:"code" validate:"required"`
	Name      string   `json:"name" validate:"required"`
	Maximum   *float64 `json:"maximum"`
	Minimum   *float64 `json:"minimum"`
	PassScore *float64 `json:"pass_score"`
	FailScore *float64 `json:"fail_score"`
	Weight    float64  `json:"weight" validate:"gte=0,lte=100"`
}

// ReplaceGradeConfigRequest swaps a subject's full component list.
type ReplaceGradeConfigRequest struct {
	SubjectID  string                  `json:"subject_id" validate:"required"`
	Components []GradeComponentRequest `json:"components" validate:"required,dive"`
}

// GradeConfigService manages per-subject grading configuration.
type GradeConfigService struct {
	repo      gradeConfigRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeConfigService constructs GradeConfigService.
func NewGradeConfigService(repo gradeConfigRepository, validate *validator.Validate, logger *zap.Logger) *GradeConfigService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeConfigService{repo: repo, validator: validate, logger: logger}
}

// ListBySubject returns the subject's components in configured order.
func (s *GradeConfigService) ListBySubject(ctx context.Context, subjectID string) ([]models.GradeComponentConfig, error) {
	if subjectID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subjectId is required")
	}
	components, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grade components")
	}
	return components, nil
}

// Replace swaps the subject's component set. Weights do not need to sum to
// 100; the aggregation formula divides by the entered weight total. A
// weight sum far from 100 is still worth surfacing, so the total is
// returned for the handler to expose as metadata.
func (s *GradeConfigService) Replace(ctx context.Context, req ReplaceGradeConfigRequest) ([]models.GradeComponentConfig, float64, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade config payload")
	}

	seen := make(map[string]bool, len(req.Components))
	weightTotal := 0.0
	components := make([]models.GradeComponentConfig, 0, len(req.Components))
	for i, comp := range req.Components {
		code := strings.ToLower(strings.TrimSpace(comp.Code))
		if code == "" {
			return nil, 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("component %d has an empty code", i))
		}
		if seen[code] {
			return nil, 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate component code %q", code))
		}
		seen[code] = true
		if comp.Minimum != nil && comp.Maximum != nil && *comp.Minimum > *comp.Maximum {
			return nil, 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("component %q minimum exceeds maximum", code))
		}
		weightTotal += comp.Weight
		components = append(components, models.GradeComponentConfig{
			SubjectID: req.SubjectID,
			Position:  i,
			Code:      code,
			Name:      comp.Name,
			Maximum:   comp.Maximum,
			Minimum:   comp.Minimum,
			PassScore: comp.PassScore,
			FailScore: comp.FailScore,
			Weight:    comp.Weight,
		})
	}

	if err := s.repo.ReplaceForSubject(ctx, req.SubjectID, components); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace grade config")
	}
	s.logger.Info("grade config replaced", zap.String("subject_id", req.SubjectID), zap.Int("components", len(components)), zap.Float64("weight_total", weightTotal))
	return components, weightTotal, nil
}
