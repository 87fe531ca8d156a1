package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	"github.com/salemsharhan/university-management-system-sub002/internal/service"
	appErrors "github.com/salemsharhan/university-management-system-sub002/pkg/errors"
	"github.com/salemsharhan/university-management-system-sub002/pkg/response"
)

// ScheduleTemplateHandler exposes weekly schedule template endpoints.
type ScheduleTemplateHandler struct {
	templates *service.ScheduleTemplateService
}

// NewScheduleTemplateHandler constructs handler.
func NewScheduleTemplateHandler(templates *service.ScheduleTemplateService) *ScheduleTemplateHandler {
	return &ScheduleTemplateHandler{templates: templates}
}

// List godoc
// @Summary List schedule templates
// @Tags Schedule Templates
// @Produce json
// @Param classId query string false "Filter by class"
// @Param termId query string false "Filter by term"
// @Success 200 {object} response.Envelope
// @Router /schedule-templates [get]
func (h *ScheduleTemplateHandler) List(c *gin.Context) {
	filter := models.ScheduleTemplateFilter{ClassID: c.Query("classId"), TermID: c.Query("termId")}
	templates, err := h.templates.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, templates, nil)
}

// Create godoc
// @Summary Create schedule template
// @Tags Schedule Templates
// @Accept json
// @Produce json
// @Param payload body service.UpsertScheduleTemplateRequest true "Template payload"
// @Success 201 {object} response.Envelope
// @Router /schedule-templates [post]
func (h *ScheduleTemplateHandler) Create(c *gin.Context) {
	var req service.UpsertScheduleTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	template, err := h.templates.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, template)
}

// Update godoc
// @Summary Update schedule template
// @Tags Schedule Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param payload body service.UpsertScheduleTemplateRequest true "Template payload"
// @Success 200 {object} response.Envelope
// @Router /schedule-templates/{id} [put]
func (h *ScheduleTemplateHandler) Update(c *gin.Context) {
	var req service.UpsertScheduleTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	template, err := h.templates.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}

// Delete godoc
// @Summary Delete schedule template
// @Tags Schedule Templates
// @Param id path string true "Template ID"
// @Success 204
// @Router /schedule-templates/{id} [delete]
func (h *ScheduleTemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
