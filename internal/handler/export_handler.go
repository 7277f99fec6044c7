package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dis-school/registry-api/internal/service"
	"github.com/dis-school/registry-api/pkg/response"
)

type rosterExporter interface {
	Roster(ctx context.Context, format, classLevel string) (*service.RosterExport, error)
}

// ExportHandler streams roster exports.
type ExportHandler struct {
	exports rosterExporter
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports rosterExporter) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Roster godoc
// @Summary Export the active roster
// @Tags Students
// @Produce application/octet-stream
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Param classLevel query string false "Filter by class level"
// @Success 200 {file} binary
// @Router /students/export [get]
func (h *ExportHandler) Roster(c *gin.Context) {
	format := strings.TrimSpace(c.DefaultQuery("format", "csv"))
	classLevel := strings.TrimSpace(c.Query("classLevel"))
	export, err := h.exports.Roster(c.Request.Context(), format, classLevel)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(200, export.ContentType, export.Data)
}
