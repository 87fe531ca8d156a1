package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	"github.com/salemsharhan/university-management-system-sub002/internal/service"
	appErrors "github.com/salemsharhan/university-management-system-sub002/pkg/errors"
	"github.com/salemsharhan/university-management-system-sub002/pkg/response"
)

// GradeHandler exposes grade record endpoints.
type GradeHandler struct {
	grades *service.GradeService
}

// NewGradeHandler constructs handler.
func NewGradeHandler(grades *service.GradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// List godoc
// @Summary List student grade records
// @Tags Grades
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param classId query string false "Filter by class"
// @Param subjectId query string false "Filter by subject"
// @Param termId query string false "Filter by term"
// @Param status query string false "Filter by workflow status"
// @Success 200 {object} response.Envelope
// @Router /grade-records [get]
func (h *GradeHandler) List(c *gin.Context) {
	filter := models.GradeRecordFilter{
		StudentID: c.Query("studentId"),
		ClassID:   c.Query("classId"),
		SubjectID: c.Query("subjectId"),
		TermID:    c.Query("termId"),
		Status:    c.Query("status"),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "pageSize", 20),
	}
	records, pagination, err := h.grades.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// UpsertScores godoc
// @Summary Enter or update component scores for a student
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.UpsertScoresRequest true "Scores payload"
// @Success 200 {object} response.Envelope
// @Router /grade-records/scores [put]
func (h *GradeHandler) UpsertScores(c *gin.Context) {
	var req service.UpsertScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.grades.UpsertScores(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	// Warnings are advisory, so they ride in the envelope meta rather than
	// the record payload.
	var meta map[string]interface{}
	if len(result.Warnings) > 0 {
		meta = map[string]interface{}{"warnings": result.Warnings}
	}
	response.JSON(c, http.StatusOK, result.Record, nil, meta)
}

type transitionRequest struct {
	Status models.GradeStatus `json:"status" binding:"required"`
}

// Transition godoc
// @Summary Advance a grade record through its workflow
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body transitionRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Router /grade-records/{id}/transition [post]
func (h *GradeHandler) Transition(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.grades.Transition(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Recalculate godoc
// @Summary Recompute composites for an entire class
// @Tags Grades
// @Produce json
// @Param classId path string true "Class ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/recalculate [post]
func (h *GradeHandler) Recalculate(c *gin.Context) {
	result, err := h.grades.RecalculateClass(c.Request.Context(), c.Param("classId"), c.Query("termId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
