package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vhoward/training-plan-api/internal/dto"
	"github.com/vhoward/training-plan-api/internal/models"
	"github.com/vhoward/training-plan-api/internal/service"
	appErrors "github.com/vhoward/training-plan-api/pkg/errors"
	"github.com/vhoward/training-plan-api/pkg/response"
)

type scheduleService interface {
	Create(ctx context.Context, req dto.BuildScheduleRequest) (*models.Schedule, error)
	Get(ctx context.Context, id string) (*models.Schedule, error)
	List(ctx context.Context) ([]models.ScheduleSummary, error)
	Delete(ctx context.Context, id string) error
	SetDaySubjects(ctx context.Context, scheduleID string, week, day int, req dto.SetDaySubjectsRequest) (*models.Schedule, error)
	SetDaySubjectTime(ctx context.Context, scheduleID string, week, day int, subjectID string, req dto.SetSubjectTimeRequest) (*models.Schedule, error)
	SetDaySubjectLesson(ctx context.Context, scheduleID string, week, day int, subjectID string, req dto.SetSubjectLessonRequest) (*models.Schedule, error)
	CopyWeek(ctx context.Context, scheduleID string, fromWeek int, req dto.CopyWeekRequest) (*models.Schedule, error)
	MaterializeWeek(ctx context.Context, scheduleID string, week int) (*models.Schedule, error)
	AddLesson(ctx context.Context, scheduleID string, req dto.AddLessonRequest) (*models.Schedule, error)
	AvailableLessons(ctx context.Context, scheduleID, subjectID string) ([]models.Lesson, error)
	ValidateWeek(ctx context.Context, scheduleID string, week int) ([]service.DayValidation, error)
	SuggestForDay(ctx context.Context, scheduleID string, week, day int, subjectID string) ([]service.Suggestion, error)
}

// ScheduleHandler exposes schedule construction and planning endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(service scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

func pathInt(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid "+name+" parameter"))
		return 0, false
	}
	return value, true
}

// List godoc
// @Summary List schedule summaries
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	summaries, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, nil)
}

// Create godoc
// @Summary Build a schedule skeleton for a Monday-to-Sunday range
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.BuildScheduleRequest true "Date range"
// @Success 201 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.BuildScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule payload"))
		return
	}
	schedule, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// Get godoc
// @Summary Fetch a full schedule document
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Delete godoc
// @Summary Delete a schedule
// @Tags Schedules
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetDaySubjects godoc
// @Summary Replace the subject selection of one day
// @Tags Planning
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param week path int true "Week number (1-based)"
// @Param day path int true "Day index (0=Monday..5=Saturday)"
// @Param payload body dto.SetDaySubjectsRequest true "Subject ids"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/weeks/{week}/days/{day}/subjects [put]
func (h *ScheduleHandler) SetDaySubjects(c *gin.Context) {
	week, ok := pathInt(c, "week")
	if !ok {
		return
	}
	day, ok := pathInt(c, "day")
	if !ok {
		return
	}
	var req dto.SetDaySubjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid selection payload"))
		return
	}
	schedule, err := h.service.SetDaySubjects(c.Request.Context(), c.Param("id"), week, day, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// SetSubjectTime godoc
// @Summary Assign or clear a subject's start time on one day
// @Tags Planning
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param week path int true "Week number (1-based)"
// @Param day path int true "Day index (0=Monday..5=Saturday)"
// @Param subjectId path string true "Subject ID"
// @Param payload body dto.SetSubjectTimeRequest true "Time slot"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/weeks/{week}/days/{day}/subjects/{subjectId}/time [put]
func (h *ScheduleHandler) SetSubjectTime(c *gin.Context) {
	week, ok := pathInt(c, "week")
	if !ok {
		return
	}
	day, ok := pathInt(c, "day")
	if !ok {
		return
	}
	var req dto.SetSubjectTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid time payload"))
		return
	}
	schedule, err := h.service.SetDaySubjectTime(c.Request.Context(), c.Param("id"), week, day, c.Param("subjectId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// SetSubjectLesson godoc
// @Summary Assign or clear a subject's lesson on one day
// @Tags Planning
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param week path int true "Week number (1-based)"
// @Param day path int true "Day index (0=Monday..5=Saturday)"
// @Param subjectId path string true "Subject ID"
// @Param payload body dto.SetSubjectLessonRequest true "Lesson"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/weeks/{week}/days/{day}/subjects/{subjectId}/lesson [put]
func (h *ScheduleHandler) SetSubjectLesson(c *gin.Context) {
	week, ok := pathInt(c, "week")
	if !ok {
		return
	}
	day, ok := pathInt(c, "day")
	if !ok {
		return
	}
	var req dto.SetSubjectLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid lesson payload"))
		return
	}
	schedule, err := h.service.SetDaySubjectLesson(c.Request.Context(), c.Param("id"), week, day, c.Param("subjectId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// CopyWeek godoc
// @Summary Copy subject selections and time slots to another week
// @Tags Planning
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param week path int true "Source week number (1-based)"
// @Param payload body dto.CopyWeekRequest true "Target week"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/weeks/{week}/copy [post]
func (h *ScheduleHandler) CopyWeek(c *gin.Context) {
	week, ok := pathInt(c, "week")
	if !ok {
		return
	}
	var req dto.CopyWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid copy payload"))
		return
	}
	schedule, err := h.service.CopyWeek(c.Request.Context(), c.Param("id"), week, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Materialize godoc
// @Summary Materialize a week's draft assignments into schedule items
// @Tags Planning
// @Produce json
// @Param id path string true "Schedule ID"
// @Param week path int true "Week number (1-based)"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope "Partially materialized; error lists failed subject-days"
// @Router /schedules/{id}/weeks/{week}/materialize [post]
func (h *ScheduleHandler) Materialize(c *gin.Context) {
	week, ok := pathInt(c, "week")
	if !ok {
		return
	}
	schedule, err := h.service.MaterializeWeek(c.Request.Context(), c.Param("id"), week)
	if err != nil {
		// Partial materializations return both the error and the
		// committed document.
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrMaterializeFailed.Code && schedule != nil {
			c.JSON(appErr.Status, response.Envelope{Data: schedule, Error: appErr})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// AddLesson godoc
// @Summary Place a lesson directly onto a day
// @Tags Planning
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.AddLessonRequest true "Placement"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/lessons [post]
func (h *ScheduleHandler) AddLesson(c *gin.Context) {
	var req dto.AddLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid placement payload"))
		return
	}
	schedule, err := h.service.AddLesson(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// AvailableLessons godoc
// @Summary List a subject's lessons not yet placed in the schedule
// @Tags Planning
// @Produce json
// @Param id path string true "Schedule ID"
// @Param subjectId path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/subjects/{subjectId}/available-lessons [get]
func (h *ScheduleHandler) AvailableLessons(c *gin.Context) {
	lessons, err := h.service.AvailableLessons(c.Request.Context(), c.Param("id"), c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, nil)
}

// ValidateWeek godoc
// @Summary Validate the daily workload of every day in a week
// @Tags Planning
// @Produce json
// @Param id path string true "Schedule ID"
// @Param week path int true "Week number (1-based)"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/weeks/{week}/validation [get]
func (h *ScheduleHandler) ValidateWeek(c *gin.Context) {
	week, ok := pathInt(c, "week")
	if !ok {
		return
	}
	results, err := h.service.ValidateWeek(c.Request.Context(), c.Param("id"), week)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// Suggestions godoc
// @Summary Suggest lesson substitutions for a subject on one day
// @Tags Planning
// @Produce json
// @Param id path string true "Schedule ID"
// @Param week path int true "Week number (1-based)"
// @Param day path int true "Day index (0=Monday..5=Saturday)"
// @Param subjectId query string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/weeks/{week}/days/{day}/suggestions [get]
func (h *ScheduleHandler) Suggestions(c *gin.Context) {
	week, ok := pathInt(c, "week")
	if !ok {
		return
	}
	day, ok := pathInt(c, "day")
	if !ok {
		return
	}
	subjectID := c.Query("subjectId")
	if subjectID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "subjectId query parameter is required"))
		return
	}
	suggestions, err := h.service.SuggestForDay(c.Request.Context(), c.Param("id"), week, day, subjectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, suggestions, nil)
}
