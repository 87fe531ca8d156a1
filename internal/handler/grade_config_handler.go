package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salemsharhan/university-management-system-sub002/internal/service"
	appErrors "github.com/salemsharhan/university-management-system-sub002/pkg/errors"
	"github.com/salemsharhan/university-management-system-sub002/pkg/response"
)

// GradeConfigHandler exposes grade component configuration endpoints.
type GradeConfigHandler struct {
	configs *service.GradeConfigService
}

// NewGradeConfigHandler constructs handler.
func NewGradeConfigHandler(configs *service.GradeConfigService) *GradeConfigHandler {
	return &GradeConfigHandler{configs: configs}
}

// List godoc
// @Summary List grade components for a subject
// @Tags Grade Configs
// @Produce json
// @Param subjectId path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/grade-config [get]
func (h *GradeConfigHandler) List(c *gin.Context) {
	components, err := h.configs.ListBySubject(c.Request.Context(), c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, components, nil)
}

// Replace godoc
// @Summary Replace the grade component configuration of a subject
// @Tags Grade Configs
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject ID"
// @Param payload body service.ReplaceGradeConfigRequest true "Component list"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/grade-config [put]
func (h *GradeConfigHandler) Replace(c *gin.Context) {
	var req service.ReplaceGradeConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.SubjectID = c.Param("subjectId")
	components, weightTotal, err := h.configs.Replace(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, components, nil, map[string]interface{}{"weight_total": weightTotal})
}
