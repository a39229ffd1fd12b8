package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vhoward/training-plan-api/internal/dto"
	"github.com/vhoward/training-plan-api/internal/models"
	appErrors "github.com/vhoward/training-plan-api/pkg/errors"
	"github.com/vhoward/training-plan-api/pkg/timeutil"
)

const scheduleSummaryCacheKey = "schedules:summaries"

type scheduleRepository interface {
	Save(ctx context.Context, schedule *models.Schedule) error
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	List(ctx context.Context) ([]models.ScheduleSummary, error)
	Delete(ctx context.Context, id string) error
}

type SummaryCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ScheduleService orchestrates the planner over persisted schedule documents.
// Every mutating operation loads the document, applies the in-memory planner
// and writes the whole document back; the last writer wins.
type ScheduleService struct {
	repo      scheduleRepository
	subjects  subjectRepository
	planner   *PlannerService
	cache     SummaryCache
	cacheTTL  time.Duration
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService instance. The cache and
// metrics are optional; a nil cache disables summary caching.
func NewScheduleService(repo scheduleRepository, subjects subjectRepository, planner *PlannerService,
	cache SummaryCache, cacheTTL time.Duration, metrics *MetricsService,
	validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		repo:      repo,
		subjects:  subjects,
		planner:   planner,
		cache:     cache,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// Create builds a schedule skeleton for the requested range and persists it.
func (s *ScheduleService) Create(ctx context.Context, req dto.BuildScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	startDate, err := time.ParseInLocation("2006-01-02", req.StartDate, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start date")
	}
	endDate, err := time.ParseInLocation("2006-01-02", req.EndDate, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid end date")
	}

	schedule, err := s.planner.Build(startDate, endDate, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule")
	}
	s.invalidateSummaries(ctx)
	return schedule, nil
}

// Get loads a schedule document.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

// List returns schedule summaries, served from the cache when warm.
func (s *ScheduleService) List(ctx context.Context) ([]models.ScheduleSummary, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, scheduleSummaryCacheKey).Result(); err == nil {
			var cached []models.ScheduleSummary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				s.metrics.RecordCacheLookup(true)
				return cached, nil
			}
		}
		s.metrics.RecordCacheLookup(false)
	}

	summaries, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	if s.cache != nil {
		if encoded, err := json.Marshal(summaries); err == nil {
			if err := s.cache.Set(ctx, scheduleSummaryCacheKey, encoded, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache schedule summaries", zap.Error(err))
			}
		}
	}
	return summaries, nil
}

// Delete removes a schedule document.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	s.invalidateSummaries(ctx)
	return nil
}

// SetDaySubjects replaces a day's subject selection and persists the result.
func (s *ScheduleService) SetDaySubjects(ctx context.Context, scheduleID string, week, day int, req dto.SetDaySubjectsRequest) (*models.Schedule, error) {
	return s.mutate(ctx, scheduleID, func(schedule *models.Schedule) error {
		return s.planner.SetDaySubjects(schedule, week, day, req.SubjectIDs)
	})
}

// SetDaySubjectTime assigns or clears a subject's time slot.
func (s *ScheduleService) SetDaySubjectTime(ctx context.Context, scheduleID string, week, day int, subjectID string, req dto.SetSubjectTimeRequest) (*models.Schedule, error) {
	return s.mutate(ctx, scheduleID, func(schedule *models.Schedule) error {
		return s.planner.SetDaySubjectTime(schedule, week, day, subjectID, req.Time)
	})
}

// SetDaySubjectLesson assigns or clears a subject's lesson.
func (s *ScheduleService) SetDaySubjectLesson(ctx context.Context, scheduleID string, week, day int, subjectID string, req dto.SetSubjectLessonRequest) (*models.Schedule, error) {
	return s.mutate(ctx, scheduleID, func(schedule *models.Schedule) error {
		return s.planner.SetDaySubjectLesson(schedule, week, day, subjectID, req.LessonID)
	})
}

// CopyWeek copies subject selections and time slots between weeks.
func (s *ScheduleService) CopyWeek(ctx context.Context, scheduleID string, fromWeek int, req dto.CopyWeekRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid copy payload")
	}
	return s.mutate(ctx, scheduleID, func(schedule *models.Schedule) error {
		return s.planner.CopyWeekAssignments(schedule, fromWeek, req.TargetWeek)
	})
}

// MaterializeWeek converts the week's draft assignments into schedule items.
// Partially materialized days are persisted even when some subjects fail, so
// the caller sees exactly what was placed alongside the error report.
func (s *ScheduleService) MaterializeWeek(ctx context.Context, scheduleID string, week int) (*models.Schedule, error) {
	schedule, err := s.Get(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	buildErr := s.planner.BuildWeekItems(ctx, schedule, week)
	var appErr *appErrors.Error
	if buildErr != nil && (!errors.As(buildErr, &appErr) || appErr.Code != appErrors.ErrMaterializeFailed.Code) {
		return nil, buildErr
	}
	if err := s.repo.Save(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule")
	}
	s.invalidateSummaries(ctx)
	if buildErr != nil {
		return schedule, buildErr
	}
	return schedule, nil
}

// AddLesson places a lesson directly onto a day, bypassing the draft flow.
func (s *ScheduleService) AddLesson(ctx context.Context, scheduleID string, req dto.AddLessonRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson placement payload")
	}
	start, err := timeutil.ParseClock(req.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start time")
	}

	subject, err := s.loadSubject(ctx, req.SubjectID)
	if err != nil {
		return nil, err
	}
	lesson := subject.FindLesson(req.LessonID)
	if lesson == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
	}

	return s.mutate(ctx, scheduleID, func(schedule *models.Schedule) error {
		return s.planner.AddLessonToDay(schedule, req.Week, req.Day, subject, lesson, start)
	})
}

// AvailableLessons lists a subject's lessons not yet placed in the schedule.
func (s *ScheduleService) AvailableLessons(ctx context.Context, scheduleID, subjectID string) ([]models.Lesson, error) {
	schedule, err := s.Get(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	subject, err := s.loadSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	return s.planner.AvailableLessons(schedule, subject), nil
}

// ValidateWeek reports the workload verdict for every day of the week.
func (s *ScheduleService) ValidateWeek(ctx context.Context, scheduleID string, week int) ([]DayValidation, error) {
	schedule, err := s.Get(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return s.planner.ValidateWeek(schedule, week)
}

// SuggestForDay proposes lesson substitutions for one subject on one day.
func (s *ScheduleService) SuggestForDay(ctx context.Context, scheduleID string, week, day int, subjectID string) ([]Suggestion, error) {
	schedule, err := s.Get(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	target := schedule.Day(week, day)
	if target == nil {
		return nil, appErrors.Clone(appErrors.ErrDayOutOfRange, "week or day out of range")
	}
	subject, err := s.loadSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	return s.planner.SuggestAdjustments(target, subject), nil
}

func (s *ScheduleService) mutate(ctx context.Context, scheduleID string, apply func(*models.Schedule) error) (*models.Schedule, error) {
	schedule, err := s.Get(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if err := apply(schedule); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule")
	}
	s.invalidateSummaries(ctx)
	return schedule, nil
}

func (s *ScheduleService) loadSubject(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.subjects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

func (s *ScheduleService) invalidateSummaries(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, scheduleSummaryCacheKey).Err(); err != nil {
		s.logger.Warn("failed to invalidate schedule summary cache", zap.Error(err))
	}
}
