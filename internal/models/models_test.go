package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhoward/training-plan-api/pkg/timeutil"
)

func hoursPtr(v float64) *float64 { return &v }

func TestLessonDurationFallback(t *testing.T) {
	subject := &Subject{DefaultDuration: hoursPtr(1.5)}

	withOwn := &Lesson{Duration: hoursPtr(2.0)}
	assert.Equal(t, 2.0, subject.LessonDuration(withOwn))

	withoutOwn := &Lesson{}
	assert.Equal(t, 1.5, subject.LessonDuration(withoutOwn))

	bare := &Subject{}
	assert.Equal(t, 0.0, bare.LessonDuration(withoutOwn))
	assert.Equal(t, 0.0, bare.LessonDuration(nil))
}

func TestSubjectValidate(t *testing.T) {
	assert.Error(t, (&Subject{Name: "   "}).Validate())
	assert.NoError(t, (&Subject{Name: "Topography"}).Validate())

	oversized := &Subject{Name: "Topography", Lessons: make([]Lesson, MaxLessonsPerSubject+1)}
	assert.Error(t, oversized.Validate())
}

func TestInsertItemKeepsStartOrder(t *testing.T) {
	day := &DaySchedule{}
	day.InsertItem(ScheduleItem{SubjectName: "b", StartTime: timeutil.NewClock(10, 0), EndTime: timeutil.NewClock(11, 0)})
	day.InsertItem(ScheduleItem{SubjectName: "a", StartTime: timeutil.NewClock(8, 0), EndTime: timeutil.NewClock(9, 0)})
	day.InsertItem(ScheduleItem{SubjectName: "c", StartTime: timeutil.NewClock(9, 0), EndTime: timeutil.NewClock(10, 0)})
	// Same start as "a": keeps insertion order among equals.
	day.InsertItem(ScheduleItem{SubjectName: "d", StartTime: timeutil.NewClock(8, 0), EndTime: timeutil.NewClock(8, 30)})

	names := make([]string, 0, len(day.Items))
	for _, item := range day.Items {
		names = append(names, item.SubjectName)
	}
	assert.Equal(t, []string{"a", "d", "c", "b"}, names)
}

func TestDraftSetSubjectsDedupesAndPrunes(t *testing.T) {
	draft := DraftAssignment{
		TimeSlots: map[string]string{"a": "08:00", "b": "09:00"},
		LessonMap: map[string]string{"b": "l1"},
	}
	draft.SetSubjects([]string{"a", "", "b", "a"})
	assert.Equal(t, []string{"a", "b"}, draft.SubjectIDs)

	draft.SetSubjects([]string{"a"})
	assert.Equal(t, []string{"a"}, draft.SubjectIDs)
	assert.Equal(t, map[string]string{"a": "08:00"}, draft.TimeSlots)
	assert.Empty(t, draft.LessonMap)
}

func TestScheduleDayAddressing(t *testing.T) {
	schedule := &Schedule{Weeks: []WeekSchedule{
		{WeekNumber: 1, Days: make([]DaySchedule, DaysPerWeek)},
	}}

	require.NotNil(t, schedule.Day(1, 0))
	require.NotNil(t, schedule.Day(1, 5))
	assert.Nil(t, schedule.Day(0, 0))
	assert.Nil(t, schedule.Day(2, 0))
	assert.Nil(t, schedule.Day(1, -1))
	assert.Nil(t, schedule.Day(1, 6))
}

func TestContainsLesson(t *testing.T) {
	schedule := &Schedule{Weeks: []WeekSchedule{
		{Days: []DaySchedule{{Items: []ScheduleItem{
			{SubjectID: "s1", LessonID: "l1"},
		}}}},
	}}

	assert.True(t, schedule.ContainsLesson("s1", "l1"))
	assert.False(t, schedule.ContainsLesson("s1", "l2"))
	assert.False(t, schedule.ContainsLesson("s2", "l1"))
}

func TestTouchBumpsUpdatedAt(t *testing.T) {
	schedule := &Schedule{UpdatedAt: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}
	schedule.Touch()
	assert.True(t, schedule.UpdatedAt.After(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
}
