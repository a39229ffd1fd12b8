package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vhoward/training-plan-api/internal/dto"
	"github.com/vhoward/training-plan-api/internal/models"
	appErrors "github.com/vhoward/training-plan-api/pkg/errors"
	"github.com/vhoward/training-plan-api/pkg/response"
)

type subjectService interface {
	Create(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error)
	Get(ctx context.Context, id string) (*models.Subject, error)
	List(ctx context.Context) ([]models.SubjectSummary, error)
	Update(ctx context.Context, id string, req dto.UpdateSubjectRequest) (*models.Subject, error)
	Delete(ctx context.Context, id string) error
	AddLesson(ctx context.Context, subjectID string, req dto.LessonRequest) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, subjectID, lessonID string, req dto.LessonRequest) (*models.Lesson, error)
	RemoveLesson(ctx context.Context, subjectID, lessonID string) error
}

// SubjectHandler exposes the subject and lesson management endpoints.
type SubjectHandler struct {
	service subjectService
}

// NewSubjectHandler constructs the handler.
func NewSubjectHandler(service subjectService) *SubjectHandler {
	return &SubjectHandler{service: service}
}

// List godoc
// @Summary List subject summaries
// @Tags Subjects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	summaries, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, nil)
}

// Create godoc
// @Summary Create a subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubjectRequest true "Subject"
// @Success 201 {object} response.Envelope
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid subject payload"))
		return
	}
	subject, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// Get godoc
// @Summary Fetch a subject with its lessons
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	subject, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Update godoc
// @Summary Update subject metadata
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body dto.UpdateSubjectRequest true "Subject"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [put]
func (h *SubjectHandler) Update(c *gin.Context) {
	var req dto.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid subject payload"))
		return
	}
	subject, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Delete godoc
// @Summary Delete a subject
// @Tags Subjects
// @Param id path string true "Subject ID"
// @Success 204
// @Router /subjects/{id} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddLesson godoc
// @Summary Add a lesson to a subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body dto.LessonRequest true "Lesson"
// @Success 201 {object} response.Envelope
// @Router /subjects/{id}/lessons [post]
func (h *SubjectHandler) AddLesson(c *gin.Context) {
	var req dto.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid lesson payload"))
		return
	}
	lesson, err := h.service.AddLesson(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param lessonId path string true "Lesson ID"
// @Param payload body dto.LessonRequest true "Lesson"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id}/lessons/{lessonId} [put]
func (h *SubjectHandler) UpdateLesson(c *gin.Context) {
	var req dto.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid lesson payload"))
		return
	}
	lesson, err := h.service.UpdateLesson(c.Request.Context(), c.Param("id"), c.Param("lessonId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// RemoveLesson godoc
// @Summary Remove a lesson
// @Tags Subjects
// @Param id path string true "Subject ID"
// @Param lessonId path string true "Lesson ID"
// @Success 204
// @Router /subjects/{id}/lessons/{lessonId} [delete]
func (h *SubjectHandler) RemoveLesson(c *gin.Context) {
	if err := h.service.RemoveLesson(c.Request.Context(), c.Param("id"), c.Param("lessonId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
