package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/services"
)

type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportCSV sends every task as a CSV attachment. The file is rendered in
// memory first so a storage failure still yields a proper error response.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.exportService.WriteCSV(c.Request.Context(), &buf); err != nil {
		_ = c.Error(err)
		apierrors.InternalError(c, "Failed to export tasks")
		return
	}

	filename := fmt.Sprintf("tasks_export_%s.csv", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
