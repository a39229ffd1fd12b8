package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vhoward/training-plan-api/internal/models"
	appErrors "github.com/vhoward/training-plan-api/pkg/errors"
	"github.com/vhoward/training-plan-api/pkg/timeutil"
)

type stubSubjectSource struct {
	subjects map[string]*models.Subject
}

func (s *stubSubjectSource) FindByID(_ context.Context, id string) (*models.Subject, error) {
	subject, ok := s.subjects[id]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return subject, nil
}

func hoursPtr(v float64) *float64 { return &v }

func newTestPlanner(subjects ...*models.Subject) *PlannerService {
	source := &stubSubjectSource{subjects: make(map[string]*models.Subject)}
	for _, subject := range subjects {
		source.subjects[subject.ID] = subject
	}
	return NewPlannerService(source, nil, zap.NewNop())
}

func mustBuild(t *testing.T, planner *PlannerService, start, end time.Time) *models.Schedule {
	t.Helper()
	schedule, err := planner.Build(start, end, "test plan")
	require.NoError(t, err)
	return schedule
}

var (
	// 2025-09-01 is a Monday, 2025-09-14 a Sunday.
	monday = time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2025, time.September, 14, 0, 0, 0, 0, time.UTC)
)

func TestBuildCreatesWeeksAndDays(t *testing.T) {
	planner := newTestPlanner()
	schedule := mustBuild(t, planner, monday, sunday)

	require.Len(t, schedule.Weeks, 2)
	for wi, week := range schedule.Weeks {
		assert.Equal(t, wi+1, week.WeekNumber)
		require.Len(t, week.Days, models.DaysPerWeek)
		for di, day := range week.Days {
			assert.Equal(t, week.StartDate.AddDate(0, 0, di), day.Date)
		}
	}

	// Monday carries flag raising then lunch, both fixed.
	mondayItems := schedule.Weeks[0].Days[0].Items
	require.Len(t, mondayItems, 2)
	assert.Equal(t, "Flag raising", mondayItems[0].SubjectName)
	assert.True(t, mondayItems[0].IsFixed())
	assert.Equal(t, "Lunch break", mondayItems[1].SubjectName)

	// 2025-09-04 is the first Thursday: political session plus lunch.
	thursdayItems := schedule.Weeks[0].Days[3].Items
	require.Len(t, thursdayItems, 3)
	assert.Equal(t, "Political education day", thursdayItems[0].SubjectName)
}

func TestBuildRejectsInvalidRanges(t *testing.T) {
	planner := newTestPlanner()

	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"start not Monday", monday.AddDate(0, 0, 1), sunday},
		{"end not Sunday", monday, sunday.AddDate(0, 0, -1)},
		{"start after end", monday.AddDate(0, 0, 7), monday.AddDate(0, 0, -1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := planner.Build(tc.start, tc.end, "")
			require.Error(t, err)
			var appErr *appErrors.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, appErrors.ErrInvalidDateRange.Code, appErr.Code)
		})
	}
}

func TestOverlapAllowsAdjacency(t *testing.T) {
	a := models.ScheduleItem{StartTime: timeutil.NewClock(7, 0), EndTime: timeutil.NewClock(8, 0)}
	b := models.ScheduleItem{StartTime: timeutil.NewClock(8, 0), EndTime: timeutil.NewClock(9, 0)}

	assert.False(t, a.Overlaps(b.StartTime, b.EndTime))
	assert.False(t, b.Overlaps(a.StartTime, a.EndTime))

	c := models.ScheduleItem{StartTime: timeutil.NewClock(7, 0), EndTime: timeutil.NewClock(9, 0)}
	d := models.ScheduleItem{StartTime: timeutil.NewClock(8, 0), EndTime: timeutil.NewClock(10, 0)}

	assert.True(t, c.Overlaps(d.StartTime, d.EndTime))
	assert.True(t, d.Overlaps(c.StartTime, c.EndTime))
}

func TestSetDaySubjectsPrunesStaleAssignments(t *testing.T) {
	planner := newTestPlanner()
	schedule := mustBuild(t, planner, monday, sunday)

	require.NoError(t, planner.SetDaySubjects(schedule, 1, 0, []string{"subj-a", "subj-b", "subj-a"}))
	day := schedule.Day(1, 0)
	assert.Equal(t, []string{"subj-a", "subj-b"}, day.Draft.SubjectIDs)

	slot := "08:00"
	require.NoError(t, planner.SetDaySubjectTime(schedule, 1, 0, "subj-b", &slot))
	require.NoError(t, planner.SetDaySubjectLesson(schedule, 1, 0, "subj-b", "lesson-1"))

	require.NoError(t, planner.SetDaySubjects(schedule, 1, 0, []string{"subj-a"}))
	assert.Empty(t, day.Draft.TimeSlots)
	assert.Empty(t, day.Draft.LessonMap)
}

func TestSetDaySubjectTimePreconditions(t *testing.T) {
	planner := newTestPlanner()
	schedule := mustBuild(t, planner, monday, sunday)

	slot := "08:00"
	err := planner.SetDaySubjectTime(schedule, 1, 0, "subj-a", &slot)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrSubjectNotSelected.Code, appErr.Code)

	require.NoError(t, planner.SetDaySubjects(schedule, 1, 0, []string{"subj-a"}))

	bad := "25:99"
	err = planner.SetDaySubjectTime(schedule, 1, 0, "subj-a", &bad)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	require.NoError(t, planner.SetDaySubjectTime(schedule, 1, 0, "subj-a", &slot))
	assert.Equal(t, "08:00", schedule.Day(1, 0).Draft.TimeSlots["subj-a"])

	require.NoError(t, planner.SetDaySubjectTime(schedule, 1, 0, "subj-a", nil))
	_, ok := schedule.Day(1, 0).Draft.TimeSlots["subj-a"]
	assert.False(t, ok)
}

func TestRangeErrors(t *testing.T) {
	planner := newTestPlanner()
	schedule := mustBuild(t, planner, monday, sunday)

	var appErr *appErrors.Error

	err := planner.SetDaySubjects(schedule, 3, 0, nil)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrWeekOutOfRange.Code, appErr.Code)

	err = planner.SetDaySubjects(schedule, 1, 6, nil)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDayOutOfRange.Code, appErr.Code)
}

func TestCopyWeekAssignmentsClearsLessons(t *testing.T) {
	planner := newTestPlanner()
	schedule := mustBuild(t, planner, monday, sunday)

	slot := "09:00"
	require.NoError(t, planner.SetDaySubjects(schedule, 1, 1, []string{"subj-a"}))
	require.NoError(t, planner.SetDaySubjectTime(schedule, 1, 1, "subj-a", &slot))
	require.NoError(t, planner.SetDaySubjectLesson(schedule, 1, 1, "subj-a", "lesson-1"))

	require.NoError(t, planner.CopyWeekAssignments(schedule, 1, 2))

	target := schedule.Day(2, 1)
	assert.Equal(t, []string{"subj-a"}, target.Draft.SubjectIDs)
	assert.Equal(t, "09:00", target.Draft.TimeSlots["subj-a"])
	assert.Empty(t, target.Draft.LessonMap)

	// Deep copy: mutating the target must not leak into the source.
	target.Draft.TimeSlots["subj-a"] = "10:00"
	assert.Equal(t, "09:00", schedule.Day(1, 1).Draft.TimeSlots["subj-a"])
}

func TestBuildWeekItemsRoundTrip(t *testing.T) {
	subject := &models.Subject{
		ID:   "subj-a",
		Name: "Topography",
		Lessons: []models.Lesson{
			{ID: "lesson-1", Name: "Map reading", Duration: hoursPtr(2.0)},
		},
	}
	planner := newTestPlanner(subject)
	schedule := mustBuild(t, planner, monday, sunday)

	// Tuesday has only the lunch break as a fixed item.
	slot := "07:00"
	require.NoError(t, planner.SetDaySubjects(schedule, 1, 1, []string{"subj-a"}))
	require.NoError(t, planner.SetDaySubjectTime(schedule, 1, 1, "subj-a", &slot))
	require.NoError(t, planner.SetDaySubjectLesson(schedule, 1, 1, "subj-a", "lesson-1"))

	require.NoError(t, planner.BuildWeekItems(context.Background(), schedule, 1))

	items := schedule.Day(1, 1).Items
	require.Len(t, items, 2)
	assert.Equal(t, "lesson-1", items[0].LessonID)
	assert.Equal(t, timeutil.NewClock(7, 0), items[0].StartTime)
	assert.Equal(t, timeutil.NewClock(9, 0), items[0].EndTime)
	assert.Equal(t, "Lunch break", items[1].SubjectName)
	assert.True(t, items[1].IsFixed())
}

func TestBuildWeekItemsPartialCommit(t *testing.T) {
	subject := &models.Subject{
		ID:   "subj-a",
		Name: "Topography",
		Lessons: []models.Lesson{
			{ID: "lesson-1", Name: "Map reading", Duration: hoursPtr(2.0)},
		},
	}
	planner := newTestPlanner(subject)
	schedule := mustBuild(t, planner, monday, sunday)

	slot := "07:00"
	require.NoError(t, planner.SetDaySubjects(schedule, 1, 1, []string{"subj-a", "subj-missing"}))
	require.NoError(t, planner.SetDaySubjectTime(schedule, 1, 1, "subj-a", &slot))
	require.NoError(t, planner.SetDaySubjectLesson(schedule, 1, 1, "subj-a", "lesson-1"))

	err := planner.BuildWeekItems(context.Background(), schedule, 1)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrMaterializeFailed.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "unknown subject subj-missing")

	// The resolvable subject was still materialized.
	items := schedule.Day(1, 1).Items
	require.Len(t, items, 2)
	assert.Equal(t, "lesson-1", items[0].LessonID)
}

func TestBuildWeekItemsReportsMissingAssignments(t *testing.T) {
	subject := &models.Subject{
		ID:   "subj-a",
		Name: "Topography",
		Lessons: []models.Lesson{
			{ID: "lesson-1", Name: "Map reading", Duration: hoursPtr(2.0)},
		},
	}
	planner := newTestPlanner(subject)
	schedule := mustBuild(t, planner, monday, sunday)

	require.NoError(t, planner.SetDaySubjects(schedule, 1, 1, []string{"subj-a"}))

	err := planner.BuildWeekItems(context.Background(), schedule, 1)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Message, "Topography: no lesson assigned")
}

func TestBuildWeekItemsConflictSkipsSubject(t *testing.T) {
	long := &models.Subject{
		ID:   "subj-a",
		Name: "Topography",
		Lessons: []models.Lesson{
			{ID: "lesson-1", Name: "Map reading", Duration: hoursPtr(3.0)},
		},
	}
	short := &models.Subject{
		ID:   "subj-b",
		Name: "First aid",
		Lessons: []models.Lesson{
			{ID: "lesson-2", Name: "Bandaging", Duration: hoursPtr(1.0)},
		},
	}
	planner := newTestPlanner(long, short)
	schedule := mustBuild(t, planner, monday, sunday)

	slotA := "07:00"
	slotB := "08:00"
	require.NoError(t, planner.SetDaySubjects(schedule, 1, 1, []string{"subj-a", "subj-b"}))
	require.NoError(t, planner.SetDaySubjectTime(schedule, 1, 1, "subj-a", &slotA))
	require.NoError(t, planner.SetDaySubjectLesson(schedule, 1, 1, "subj-a", "lesson-1"))
	require.NoError(t, planner.SetDaySubjectTime(schedule, 1, 1, "subj-b", &slotB))
	require.NoError(t, planner.SetDaySubjectLesson(schedule, 1, 1, "subj-b", "lesson-2"))

	err := planner.BuildWeekItems(context.Background(), schedule, 1)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Message, "First aid")
	assert.Contains(t, appErr.Message, "conflicts with")

	items := schedule.Day(1, 1).Items
	require.Len(t, items, 2)
	assert.Equal(t, "lesson-1", items[0].LessonID)
}

func TestAddLessonToDayGlobalUniqueness(t *testing.T) {
	subject := &models.Subject{
		ID:   "subj-a",
		Name: "Topography",
		Lessons: []models.Lesson{
			{ID: "lesson-1", Name: "Map reading", Duration: hoursPtr(2.0)},
		},
	}
	planner := newTestPlanner(subject)
	schedule := mustBuild(t, planner, monday, sunday)
	lesson := &subject.Lessons[0]

	require.NoError(t, planner.AddLessonToDay(schedule, 1, 1, subject, lesson, timeutil.NewClock(8, 0)))

	err := planner.AddLessonToDay(schedule, 2, 1, subject, lesson, timeutil.NewClock(8, 0))
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrLessonAlreadyPlanned.Code, appErr.Code)
}

func TestAddLessonToDayConflict(t *testing.T) {
	subject := &models.Subject{
		ID:   "subj-a",
		Name: "Topography",
		Lessons: []models.Lesson{
			{ID: "lesson-1", Name: "Map reading", Duration: hoursPtr(2.0)},
		},
	}
	planner := newTestPlanner(subject)
	schedule := mustBuild(t, planner, monday, sunday)

	// Overlaps the lunch break on Tuesday.
	err := planner.AddLessonToDay(schedule, 1, 1, subject, &subject.Lessons[0], timeutil.NewClock(11, 0))
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrTimeConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Lunch break")
}

func TestAvailableLessonsExcludesPlaced(t *testing.T) {
	subject := &models.Subject{
		ID:   "subj-a",
		Name: "Topography",
		Lessons: []models.Lesson{
			{ID: "lesson-1", Name: "Map reading", Duration: hoursPtr(2.0)},
			{ID: "lesson-2", Name: "Terrain models", Duration: hoursPtr(1.0)},
		},
	}
	planner := newTestPlanner(subject)
	schedule := mustBuild(t, planner, monday, sunday)

	require.NoError(t, planner.AddLessonToDay(schedule, 1, 1, subject, &subject.Lessons[0], timeutil.NewClock(8, 0)))

	available := planner.AvailableLessons(schedule, subject)
	require.Len(t, available, 1)
	assert.Equal(t, "lesson-2", available[0].ID)
}

func validationDay(items ...models.ScheduleItem) *models.DaySchedule {
	day := &models.DaySchedule{Date: monday}
	for _, item := range items {
		day.InsertItem(item)
	}
	return day
}

func TestValidateDayTolerance(t *testing.T) {
	planner := newTestPlanner()

	// 4.5h + 3.45h = 7.95h, inside the tolerance band.
	nearTarget := validationDay(
		models.ScheduleItem{SubjectID: "s", LessonID: "l1", SubjectName: "Topography",
			StartTime: timeutil.NewClock(7, 0), EndTime: timeutil.NewClock(11, 30)},
		models.ScheduleItem{SubjectID: "s", LessonID: "l2", SubjectName: "Topography",
			StartTime: timeutil.NewClock(12, 30), EndTime: timeutil.NewClock(15, 57)},
	)
	verdict := planner.ValidateDay(nearTarget)
	assert.True(t, verdict.IsValid)
	assert.InDelta(t, 7.95, verdict.TotalHours, 1e-9)
	assert.Empty(t, verdict.Message)

	// 4.5h + 2.5h = 7.0h, one hour short.
	short := validationDay(
		models.ScheduleItem{SubjectID: "s", LessonID: "l1", SubjectName: "Topography",
			StartTime: timeutil.NewClock(7, 0), EndTime: timeutil.NewClock(11, 30)},
		models.ScheduleItem{SubjectID: "s", LessonID: "l2", SubjectName: "Topography",
			StartTime: timeutil.NewClock(12, 30), EndTime: timeutil.NewClock(15, 0)},
	)
	verdict = planner.ValidateDay(short)
	assert.False(t, verdict.IsValid)
	assert.InDelta(t, 7.0, verdict.TotalHours, 1e-9)
	assert.Contains(t, verdict.Message, "1.0")
	assert.Contains(t, verdict.Message, "short")
}

func TestValidateDayExcludesBreaksAndOutOfWindowItems(t *testing.T) {
	planner := newTestPlanner()

	day := validationDay(
		models.ScheduleItem{SubjectName: "Lunch break",
			StartTime: timeutil.NewClock(11, 30), EndTime: timeutil.NewClock(12, 30)},
		models.ScheduleItem{SubjectName: "Field march",
			StartTime: timeutil.NewClock(19, 0), EndTime: timeutil.NewClock(21, 0)},
		models.ScheduleItem{SubjectID: "s", LessonID: "l1", SubjectName: "Topography",
			StartTime: timeutil.NewClock(7, 0), EndTime: timeutil.NewClock(11, 0)},
	)
	verdict := planner.ValidateDay(day)
	assert.InDelta(t, 4.0, verdict.TotalHours, 1e-9)
	assert.False(t, verdict.IsValid)
}

func TestValidateDayIdempotent(t *testing.T) {
	planner := newTestPlanner()
	day := validationDay(
		models.ScheduleItem{SubjectID: "s", LessonID: "l1", SubjectName: "Topography",
			StartTime: timeutil.NewClock(7, 0), EndTime: timeutil.NewClock(11, 0)},
	)

	first := planner.ValidateDay(day)
	second := planner.ValidateDay(day)
	assert.Equal(t, first, second)
}

func TestValidateWeek(t *testing.T) {
	planner := newTestPlanner()
	schedule := mustBuild(t, planner, monday, sunday)

	// Week 1 contains the first Thursday, whose political session alone
	// fills the 8-hour target.
	results, err := planner.ValidateWeek(schedule, 1)
	require.NoError(t, err)
	require.Len(t, results, models.DaysPerWeek)
	assert.True(t, results[3].IsValid)

	// Week 2 has no full day anywhere.
	results, err = planner.ValidateWeek(schedule, 2)
	require.NoError(t, err)
	for _, verdict := range results {
		assert.False(t, verdict.IsValid)
	}

	_, err = planner.ValidateWeek(schedule, 9)
	assert.Error(t, err)
}

func TestSuggestAdjustmentsShortage(t *testing.T) {
	subject := &models.Subject{
		ID:   "subj-a",
		Name: "Topography",
		Lessons: []models.Lesson{
			{ID: "lesson-1", Name: "Map reading", Duration: hoursPtr(2.5)},
			{ID: "lesson-2", Name: "Terrain models", Duration: hoursPtr(3.5)},
			{ID: "lesson-3", Name: "Field exercise", Duration: hoursPtr(4.5)},
		},
	}
	planner := newTestPlanner(subject)

	// 4.5h + 2.5h = 7.0h, shortage of 1.0h. Replacing lesson-1 with
	// lesson-2 adds 1.0h; lesson-3 overshoots the 1.5h search window.
	day := validationDay(
		models.ScheduleItem{SubjectID: "other", LessonID: "x", SubjectName: "Drill",
			StartTime: timeutil.NewClock(7, 0), EndTime: timeutil.NewClock(11, 30)},
		models.ScheduleItem{SubjectID: "subj-a", LessonID: "lesson-1", SubjectName: "Topography",
			StartTime: timeutil.NewClock(12, 30), EndTime: timeutil.NewClock(15, 0)},
	)

	suggestions := planner.SuggestAdjustments(day, subject)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "replace", suggestions[0].Type)
	assert.Equal(t, "Map reading", suggestions[0].CurrentLessonName)
	assert.Equal(t, "Terrain models", suggestions[0].SuggestedLessonName)
	assert.Contains(t, suggestions[0].Reason, "1.0")
}

func TestSuggestAdjustmentsExcess(t *testing.T) {
	subject := &models.Subject{
		ID:   "subj-a",
		Name: "Topography",
		Lessons: []models.Lesson{
			{ID: "lesson-1", Name: "Field exercise", Duration: hoursPtr(4.5)},
			{ID: "lesson-2", Name: "Map reading", Duration: hoursPtr(3.5)},
			{ID: "lesson-3", Name: "Orientation basics", Duration: hoursPtr(1.0)},
		},
	}
	planner := newTestPlanner(subject)

	// 4.5h + 4.5h = 9.0h, excess of 1.0h. Lesson-2 frees 1.0h; lesson-3
	// would free 3.5h, outside the 1.5h search window.
	day := validationDay(
		models.ScheduleItem{SubjectID: "other", LessonID: "x", SubjectName: "Drill",
			StartTime: timeutil.NewClock(7, 0), EndTime: timeutil.NewClock(11, 30)},
		models.ScheduleItem{SubjectID: "subj-a", LessonID: "lesson-1", SubjectName: "Topography",
			StartTime: timeutil.NewClock(11, 30), EndTime: timeutil.NewClock(16, 0)},
	)

	suggestions := planner.SuggestAdjustments(day, subject)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Map reading", suggestions[0].SuggestedLessonName)
}

func TestSuggestAdjustmentsNoOpWhenValid(t *testing.T) {
	subject := &models.Subject{ID: "subj-a", Name: "Topography"}
	planner := newTestPlanner(subject)

	day := validationDay(
		models.ScheduleItem{SubjectID: "subj-a", LessonID: "l1", SubjectName: "Topography",
			StartTime: timeutil.NewClock(7, 0), EndTime: timeutil.NewClock(15, 0)},
	)
	assert.Nil(t, planner.SuggestAdjustments(day, subject))
}
