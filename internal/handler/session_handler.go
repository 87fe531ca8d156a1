package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	"github.com/salemsharhan/university-management-system-sub002/internal/service"
	appErrors "github.com/salemsharhan/university-management-system-sub002/pkg/errors"
	"github.com/salemsharhan/university-management-system-sub002/pkg/response"
)

// SessionHandler exposes class session endpoints.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// List godoc
// @Summary List class sessions
// @Tags Sessions
// @Produce json
// @Param classId query string false "Filter by class"
// @Param termId query string false "Filter by term"
// @Param dateFrom query string false "Start of date range (YYYY-MM-DD)"
// @Param dateTo query string false "End of date range (YYYY-MM-DD)"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	filter := models.ClassSessionFilter{
		ClassID:  c.Query("classId"),
		TermID:   c.Query("termId"),
		Status:   c.Query("status"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 20),
	}
	for _, bound := range []struct {
		key  string
		dest **time.Time
	}{
		{"dateFrom", &filter.DateFrom},
		{"dateTo", &filter.DateTo},
	} {
		if raw := c.Query(bound.key); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				response.Error(c, appErrors.Clone(appErrors.ErrValidation, bound.key+" must be formatted YYYY-MM-DD"))
				return
			}
			*bound.dest = &parsed
		}
	}
	sessions, pagination, err := h.sessions.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, pagination)
}

// Generate godoc
// @Summary Generate sessions from a schedule template
// @Tags Sessions
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Envelope
// @Router /schedule-templates/{id}/generate [post]
func (h *SessionHandler) Generate(c *gin.Context) {
	result, err := h.sessions.GenerateForTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

type updateSessionStatusRequest struct {
	Status models.SessionStatus `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary Update class session status
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body updateSessionStatusRequest true "Status payload"
// @Success 204
// @Router /sessions/{id}/status [patch]
func (h *SessionHandler) UpdateStatus(c *gin.Context) {
	var req updateSessionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.sessions.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
