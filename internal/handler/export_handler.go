package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/salemsharhan/university-management-system-sub002/internal/service"
	"github.com/salemsharhan/university-management-system-sub002/pkg/response"
)

// ExportHandler exposes report download endpoints.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ConflictReport godoc
// @Summary Download the conflict report for a term
// @Tags Exports
// @Produce text/csv,application/pdf
// @Param termId path string true "Term ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /exports/conflicts/{termId} [get]
func (h *ExportHandler) ConflictReport(c *gin.Context) {
	result, err := h.exports.ConflictReport(c.Request.Context(), c.Param("termId"), exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveExport(c, result)
}

// GradeSheet godoc
// @Summary Download the grade sheet for a class
// @Tags Exports
// @Produce text/csv,application/pdf
// @Param classId path string true "Class ID"
// @Param termId query string false "Term ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /exports/grades/{classId} [get]
func (h *ExportHandler) GradeSheet(c *gin.Context) {
	result, err := h.exports.GradeSheet(c.Request.Context(), c.Param("classId"), c.Query("termId"), exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveExport(c, result)
}

func exportFormat(c *gin.Context) service.ReportFormat {
	return service.ReportFormat(c.DefaultQuery("format", string(service.ReportFormatCSV)))
}

func serveExport(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(200, result.ContentType, result.Payload)
}
