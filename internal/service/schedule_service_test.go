package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vhoward/training-plan-api/internal/dto"
	"github.com/vhoward/training-plan-api/internal/models"
	appErrors "github.com/vhoward/training-plan-api/pkg/errors"
)

type stubScheduleRepo struct {
	schedules map[string]*models.Schedule
	saves     int
}

func newStubScheduleRepo() *stubScheduleRepo {
	return &stubScheduleRepo{schedules: make(map[string]*models.Schedule)}
}

func (r *stubScheduleRepo) Save(_ context.Context, schedule *models.Schedule) error {
	r.schedules[schedule.ID] = schedule
	r.saves++
	return nil
}

func (r *stubScheduleRepo) FindByID(_ context.Context, id string) (*models.Schedule, error) {
	schedule, ok := r.schedules[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return schedule, nil
}

func (r *stubScheduleRepo) List(_ context.Context) ([]models.ScheduleSummary, error) {
	summaries := make([]models.ScheduleSummary, 0, len(r.schedules))
	for _, schedule := range r.schedules {
		summaries = append(summaries, models.ScheduleSummary{
			ID: schedule.ID, Name: schedule.Name, WeekCount: len(schedule.Weeks),
		})
	}
	return summaries, nil
}

func (r *stubScheduleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.schedules[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.schedules, id)
	return nil
}

type stubSummaryCache struct {
	data map[string]string
}

func newStubSummaryCache() *stubSummaryCache {
	return &stubSummaryCache{data: make(map[string]string)}
}

func (c *stubSummaryCache) Get(_ context.Context, key string) *redis.StringCmd {
	if v, ok := c.data[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (c *stubSummaryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	if b, ok := value.([]byte); ok {
		c.data[key] = string(b)
	}
	return redis.NewStatusResult("OK", nil)
}

func (c *stubSummaryCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(c.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func newScheduleService(repo *stubScheduleRepo, subjects *stubSubjectRepo) *ScheduleService {
	planner := NewPlannerService(subjects, nil, zap.NewNop())
	return NewScheduleService(repo, subjects, planner, nil, 0, nil, nil, zap.NewNop())
}

func TestScheduleServiceCreate(t *testing.T) {
	repo := newStubScheduleRepo()
	svc := newScheduleService(repo, newStubSubjectRepo())

	schedule, err := svc.Create(context.Background(), dto.BuildScheduleRequest{
		Name:      "September plan",
		StartDate: "2025-09-01",
		EndDate:   "2025-09-14",
	})
	require.NoError(t, err)
	assert.Len(t, schedule.Weeks, 2)
	assert.Equal(t, 1, repo.saves)
}

func TestScheduleServiceCreateRejectsBadRange(t *testing.T) {
	svc := newScheduleService(newStubScheduleRepo(), newStubSubjectRepo())

	_, err := svc.Create(context.Background(), dto.BuildScheduleRequest{
		StartDate: "2025-09-02",
		EndDate:   "2025-09-14",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidDateRange.Code, appErr.Code)
}

func TestScheduleServiceAssignmentFlow(t *testing.T) {
	subject := &models.Subject{
		ID:   "subj-1",
		Name: "Topography",
		Lessons: []models.Lesson{
			{ID: "lesson-1", Name: "Map reading", Duration: hoursPtr(2.0)},
		},
	}
	repo := newStubScheduleRepo()
	svc := newScheduleService(repo, newStubSubjectRepo(subject))

	schedule, err := svc.Create(context.Background(), dto.BuildScheduleRequest{
		StartDate: "2025-09-01",
		EndDate:   "2025-09-14",
	})
	require.NoError(t, err)

	_, err = svc.SetDaySubjects(context.Background(), schedule.ID, 1, 1,
		dto.SetDaySubjectsRequest{SubjectIDs: []string{"subj-1"}})
	require.NoError(t, err)

	slot := "07:00"
	_, err = svc.SetDaySubjectTime(context.Background(), schedule.ID, 1, 1, "subj-1",
		dto.SetSubjectTimeRequest{Time: &slot})
	require.NoError(t, err)

	_, err = svc.SetDaySubjectLesson(context.Background(), schedule.ID, 1, 1, "subj-1",
		dto.SetSubjectLessonRequest{LessonID: "lesson-1"})
	require.NoError(t, err)

	materialized, err := svc.MaterializeWeek(context.Background(), schedule.ID, 1)
	require.NoError(t, err)
	items := materialized.Day(1, 1).Items
	require.Len(t, items, 2)
	assert.Equal(t, "lesson-1", items[0].LessonID)

	// The persisted document carries the materialized items.
	stored, err := svc.Get(context.Background(), schedule.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Day(1, 1).Items, 2)
}

func TestScheduleServiceMaterializePersistsPartialResult(t *testing.T) {
	subject := &models.Subject{
		ID:   "subj-1",
		Name: "Topography",
		Lessons: []models.Lesson{
			{ID: "lesson-1", Name: "Map reading", Duration: hoursPtr(2.0)},
		},
	}
	repo := newStubScheduleRepo()
	svc := newScheduleService(repo, newStubSubjectRepo(subject))

	schedule, err := svc.Create(context.Background(), dto.BuildScheduleRequest{
		StartDate: "2025-09-01",
		EndDate:   "2025-09-14",
	})
	require.NoError(t, err)

	slot := "07:00"
	_, err = svc.SetDaySubjects(context.Background(), schedule.ID, 1, 1,
		dto.SetDaySubjectsRequest{SubjectIDs: []string{"subj-1", "subj-ghost"}})
	require.NoError(t, err)
	_, err = svc.SetDaySubjectTime(context.Background(), schedule.ID, 1, 1, "subj-1",
		dto.SetSubjectTimeRequest{Time: &slot})
	require.NoError(t, err)
	_, err = svc.SetDaySubjectLesson(context.Background(), schedule.ID, 1, 1, "subj-1",
		dto.SetSubjectLessonRequest{LessonID: "lesson-1"})
	require.NoError(t, err)

	partial, err := svc.MaterializeWeek(context.Background(), schedule.ID, 1)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrMaterializeFailed.Code, appErr.Code)
	require.NotNil(t, partial)

	stored, err := svc.Get(context.Background(), schedule.ID)
	require.NoError(t, err)
	items := stored.Day(1, 1).Items
	require.Len(t, items, 2)
	assert.Equal(t, "lesson-1", items[0].LessonID)
}

func TestScheduleServiceAddLessonAndAvailable(t *testing.T) {
	subject := &models.Subject{
		ID:   "subj-1",
		Name: "Topography",
		Lessons: []models.Lesson{
			{ID: "lesson-1", Name: "Map reading", Duration: hoursPtr(2.0)},
			{ID: "lesson-2", Name: "Terrain models", Duration: hoursPtr(1.0)},
		},
	}
	svc := newScheduleService(newStubScheduleRepo(), newStubSubjectRepo(subject))

	schedule, err := svc.Create(context.Background(), dto.BuildScheduleRequest{
		StartDate: "2025-09-01",
		EndDate:   "2025-09-14",
	})
	require.NoError(t, err)

	_, err = svc.AddLesson(context.Background(), schedule.ID, dto.AddLessonRequest{
		Week: 1, Day: 1, SubjectID: "subj-1", LessonID: "lesson-1", StartTime: "07:00",
	})
	require.NoError(t, err)

	available, err := svc.AvailableLessons(context.Background(), schedule.ID, "subj-1")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "lesson-2", available[0].ID)
}

func TestScheduleServiceValidationAndSuggestions(t *testing.T) {
	subject := &models.Subject{
		ID:   "subj-1",
		Name: "Topography",
		Lessons: []models.Lesson{
			{ID: "lesson-1", Name: "Map reading", Duration: hoursPtr(2.0)},
			{ID: "lesson-2", Name: "Terrain models", Duration: hoursPtr(3.0)},
		},
	}
	svc := newScheduleService(newStubScheduleRepo(), newStubSubjectRepo(subject))

	schedule, err := svc.Create(context.Background(), dto.BuildScheduleRequest{
		StartDate: "2025-09-01",
		EndDate:   "2025-09-14",
	})
	require.NoError(t, err)

	results, err := svc.ValidateWeek(context.Background(), schedule.ID, 2)
	require.NoError(t, err)
	require.Len(t, results, models.DaysPerWeek)
	assert.False(t, results[0].IsValid)

	_, err = svc.AddLesson(context.Background(), schedule.ID, dto.AddLessonRequest{
		Week: 2, Day: 1, SubjectID: "subj-1", LessonID: "lesson-1", StartTime: "07:00",
	})
	require.NoError(t, err)

	suggestions, err := svc.SuggestForDay(context.Background(), schedule.ID, 2, 1, "subj-1")
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "Terrain models", suggestions[0].SuggestedLessonName)
}

func TestScheduleServiceListCountsCacheHitsAndMisses(t *testing.T) {
	subjects := newStubSubjectRepo()
	repo := newStubScheduleRepo()
	planner := NewPlannerService(subjects, nil, zap.NewNop())
	metrics := NewMetricsService()
	svc := NewScheduleService(repo, subjects, planner, newStubSummaryCache(), time.Minute,
		metrics, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), dto.BuildScheduleRequest{
		StartDate: "2025-09-01",
		EndDate:   "2025-09-14",
	})
	require.NoError(t, err)

	// Cold cache: the first list misses and warms it, the second hits.
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	_, err = svc.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheHits))
}

func TestScheduleServiceGetMissing(t *testing.T) {
	svc := newScheduleService(newStubScheduleRepo(), newStubSubjectRepo())

	_, err := svc.Get(context.Background(), "ghost")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
