package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salemsharhan/university-management-system-sub002/internal/service"
	"github.com/salemsharhan/university-management-system-sub002/pkg/response"
)

// DashboardHandler exposes reporting endpoints.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// TermOverview godoc
// @Summary Scheduling and conflict overview for a term
// @Tags Dashboard
// @Produce json
// @Param termId path string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /dashboard/terms/{termId} [get]
func (h *DashboardHandler) TermOverview(c *gin.Context) {
	overview, cached, err := h.dashboard.TermOverview(c.Request.Context(), c.Param("termId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil, map[string]interface{}{"cached": cached})
}

// GradingProgress godoc
// @Summary Graded versus pending counts for a class
// @Tags Dashboard
// @Produce json
// @Param classId path string true "Class ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /dashboard/classes/{classId}/grading-progress [get]
func (h *DashboardHandler) GradingProgress(c *gin.Context) {
	progress, err := h.dashboard.GradingProgress(c.Request.Context(), c.Param("classId"), c.Query("termId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}

// SystemMetrics godoc
// @Summary Runtime metrics snapshot
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/system [get]
func (h *DashboardHandler) SystemMetrics(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.dashboard.SystemMetrics(), nil)
}
