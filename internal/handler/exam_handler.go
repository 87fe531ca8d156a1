package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	"github.com/salemsharhan/university-management-system-sub002/internal/service"
	appErrors "github.com/salemsharhan/university-management-system-sub002/pkg/errors"
	"github.com/salemsharhan/university-management-system-sub002/pkg/response"
)

// ExamHandler exposes examination slot endpoints.
type ExamHandler struct {
	exams *service.ExamService
}

// NewExamHandler constructs handler.
func NewExamHandler(exams *service.ExamService) *ExamHandler {
	return &ExamHandler{exams: exams}
}

// List godoc
// @Summary List examination slots
// @Tags Exams
// @Produce json
// @Param termId query string false "Filter by term"
// @Param classId query string false "Filter by class"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /exam-slots [get]
func (h *ExamHandler) List(c *gin.Context) {
	filter := models.ExamSlotFilter{
		TermID:   c.Query("termId"),
		ClassID:  c.Query("classId"),
		Status:   c.Query("status"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 20),
	}
	slots, pagination, err := h.exams.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, pagination)
}

// Create godoc
// @Summary Create examination slot
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body service.UpsertExamSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Router /exam-slots [post]
func (h *ExamHandler) Create(c *gin.Context) {
	var req service.UpsertExamSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.exams.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Update godoc
// @Summary Update examination slot
// @Tags Exams
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param payload body service.UpsertExamSlotRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Router /exam-slots/{id} [put]
func (h *ExamHandler) Update(c *gin.Context) {
	var req service.UpsertExamSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.exams.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Delete godoc
// @Summary Delete examination slot
// @Tags Exams
// @Param id path string true "Slot ID"
// @Success 204
// @Router /exam-slots/{id} [delete]
func (h *ExamHandler) Delete(c *gin.Context) {
	if err := h.exams.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
