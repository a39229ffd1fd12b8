package models

import (
	"time"

	"github.com/vhoward/training-plan-api/pkg/timeutil"
)

// DaysPerWeek is the number of scheduled days in a week (Monday-Saturday).
const DaysPerWeek = 6

// ScheduleItem is one concrete time-blocked occupation of a day. Items with
// an empty subject and lesson id are fixed recurring events.
type ScheduleItem struct {
	SubjectID   string             `json:"subject_id"`
	LessonID    string             `json:"lesson_id"`
	SubjectName string             `json:"subject_name"`
	LessonName  string             `json:"lesson_name"`
	StartTime   timeutil.ClockTime `json:"start_time"`
	EndTime     timeutil.ClockTime `json:"end_time"`
	Location    string             `json:"location,omitempty"`
}

// IsFixed reports whether the item is a fixed recurring event rather than an
// assigned lesson.
func (i ScheduleItem) IsFixed() bool {
	return i.SubjectID == "" && i.LessonID == ""
}

// Overlaps reports whether the [start,end) span collides with the item.
// Touching endpoints do not overlap.
func (i ScheduleItem) Overlaps(start, end timeutil.ClockTime) bool {
	return !(end.Minutes() <= i.StartTime.Minutes() || start.Minutes() >= i.EndTime.Minutes())
}

// DraftAssignment is the planning state of a day, kept apart from the
// materialized item list. Subjects are selected in order; time slots and
// lesson choices are keyed by subject id and must refer to selected
// subjects only.
type DraftAssignment struct {
	SubjectIDs []string          `json:"subject_ids,omitempty"`
	TimeSlots  map[string]string `json:"time_slots,omitempty"`
	LessonMap  map[string]string `json:"lesson_map,omitempty"`
}

// SetSubjects replaces the selection, deduplicating while preserving
// first-seen order, and prunes slot/lesson entries for dropped subjects.
func (d *DraftAssignment) SetSubjects(subjectIDs []string) {
	seen := make(map[string]struct{}, len(subjectIDs))
	selected := make([]string, 0, len(subjectIDs))
	for _, id := range subjectIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		selected = append(selected, id)
	}
	d.SubjectIDs = selected

	for id := range d.TimeSlots {
		if _, ok := seen[id]; !ok {
			delete(d.TimeSlots, id)
		}
	}
	for id := range d.LessonMap {
		if _, ok := seen[id]; !ok {
			delete(d.LessonMap, id)
		}
	}
}

// HasSubject reports whether the subject is part of the selection.
func (d *DraftAssignment) HasSubject(subjectID string) bool {
	for _, id := range d.SubjectIDs {
		if id == subjectID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the draft.
func (d *DraftAssignment) Clone() DraftAssignment {
	clone := DraftAssignment{SubjectIDs: append([]string(nil), d.SubjectIDs...)}
	if d.TimeSlots != nil {
		clone.TimeSlots = make(map[string]string, len(d.TimeSlots))
		for k, v := range d.TimeSlots {
			clone.TimeSlots[k] = v
		}
	}
	if d.LessonMap != nil {
		clone.LessonMap = make(map[string]string, len(d.LessonMap))
		for k, v := range d.LessonMap {
			clone.LessonMap[k] = v
		}
	}
	return clone
}

// DaySchedule holds the materialized items of one day plus its draft
// assignment state. Items stay sorted by start time.
type DaySchedule struct {
	Date        time.Time       `json:"date"`
	Items       []ScheduleItem  `json:"items"`
	IsCompleted bool            `json:"is_completed"`
	Draft       DraftAssignment `json:"draft"`
}

// InsertItem places the item keeping the list ordered by start time. Equal
// start times keep insertion order.
func (d *DaySchedule) InsertItem(item ScheduleItem) {
	for i := range d.Items {
		if item.StartTime.Before(d.Items[i].StartTime) {
			d.Items = append(d.Items[:i], append([]ScheduleItem{item}, d.Items[i:]...)...)
			return
		}
	}
	d.Items = append(d.Items, item)
}

// FindConflict returns the first item overlapping [start,end), or nil.
func (d *DaySchedule) FindConflict(start, end timeutil.ClockTime) *ScheduleItem {
	for i := range d.Items {
		if d.Items[i].Overlaps(start, end) {
			return &d.Items[i]
		}
	}
	return nil
}

// WeekSchedule is one Monday-to-Sunday stripe of the schedule with six
// scheduled days (Monday through Saturday).
type WeekSchedule struct {
	WeekNumber int           `json:"week_number"`
	StartDate  time.Time     `json:"start_date"`
	EndDate    time.Time     `json:"end_date"`
	Days       []DaySchedule `json:"days"`
}

// Schedule is a complete multi-week training schedule.
type Schedule struct {
	ID        string         `json:"id"`
	Name      string         `json:"name,omitempty"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	Weeks     []WeekSchedule `json:"weeks"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Touch bumps the modification timestamp.
func (s *Schedule) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// Day resolves the (week 1-based, day 0-based Monday..Saturday) address, or
// nil when either index is out of bounds.
func (s *Schedule) Day(weekNumber, dayIndex int) *DaySchedule {
	if weekNumber < 1 || weekNumber > len(s.Weeks) {
		return nil
	}
	week := &s.Weeks[weekNumber-1]
	if dayIndex < 0 || dayIndex >= len(week.Days) {
		return nil
	}
	return &week.Days[dayIndex]
}

// ContainsLesson reports whether the (subject, lesson) pair is already
// materialized anywhere in the schedule.
func (s *Schedule) ContainsLesson(subjectID, lessonID string) bool {
	for wi := range s.Weeks {
		for di := range s.Weeks[wi].Days {
			for _, item := range s.Weeks[wi].Days[di].Items {
				if item.SubjectID == subjectID && item.LessonID == lessonID {
					return true
				}
			}
		}
	}
	return false
}

// ScheduleSummary is the listing projection of a schedule.
type ScheduleSummary struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name,omitempty"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	WeekCount int       `db:"week_count" json:"week_count"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
