package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/salemsharhan/university-management-system-sub002/internal/service"
	"github.com/salemsharhan/university-management-system-sub002/pkg/response"
)

// ConflictHandler exposes examination conflict report endpoints.
type ConflictHandler struct {
	conflicts *service.ConflictService
}

// NewConflictHandler constructs handler.
func NewConflictHandler(conflicts *service.ConflictService) *ConflictHandler {
	return &ConflictHandler{conflicts: conflicts}
}

// Report godoc
// @Summary Conflict report for a term
// @Tags Conflicts
// @Produce json
// @Param id path string true "Term ID"
// @Param refresh query bool false "Bypass cache and recompute"
// @Success 200 {object} response.Envelope
// @Router /terms/{id}/conflicts [get]
func (h *ConflictHandler) Report(c *gin.Context) {
	refresh, _ := strconv.ParseBool(c.Query("refresh"))
	report, err := h.conflicts.Report(c.Request.Context(), c.Param("id"), refresh)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Summary godoc
// @Summary Conflict severity summary for a term
// @Tags Conflicts
// @Produce json
// @Param id path string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /terms/{id}/conflicts/summary [get]
func (h *ConflictHandler) Summary(c *gin.Context) {
	summary, err := h.conflicts.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
