package handler

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vhoward/training-plan-api/internal/dto"
	appErrors "github.com/vhoward/training-plan-api/pkg/errors"
	"github.com/vhoward/training-plan-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, scheduleID, format string) (*dto.ExportResponse, error)
	OpenArtifact(token string) (*os.File, error)
}

// ExportHandler exposes schedule export and download endpoints.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export godoc
// @Summary Queue a schedule export and return its signed download URL
// @Tags Exports
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.ExportScheduleRequest true "Format"
// @Success 202 {object} response.Envelope
// @Router /schedules/{id}/export [post]
func (h *ExportHandler) Export(c *gin.Context) {
	var req dto.ExportScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid export payload"))
		return
	}
	resp, err := h.service.Export(c.Request.Context(), c.Param("id"), req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, resp, nil)
}

// Download godoc
// @Summary Download an export artifact through its signed token
// @Tags Exports
// @Produce octet-stream
// @Param file path string true "Signed token"
// @Success 200
// @Router /exports/{file} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, err := h.service.OpenArtifact(c.Param("file"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	name := filepath.Base(file.Name())
	contentType := "application/octet-stream"
	switch {
	case strings.HasSuffix(name, ".csv"):
		contentType = "text/csv"
	case strings.HasSuffix(name, ".pdf"):
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
