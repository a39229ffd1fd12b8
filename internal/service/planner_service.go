package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vhoward/training-plan-api/internal/models"
	"github.com/vhoward/training-plan-api/internal/recurrence"
	appErrors "github.com/vhoward/training-plan-api/pkg/errors"
	"github.com/vhoward/training-plan-api/pkg/timeutil"
)

// Daily workload policy. Only hours inside the day window count toward the
// target, and the target is met within a small tolerance band.
const (
	DailyTargetHours = 8.0
	HoursTolerance   = 0.1

	// suggestionSlack widens the duration match when searching for
	// substitute lessons.
	suggestionSlack = 0.5
)

var (
	dayWindowStart = timeutil.NewClock(7, 0)
	dayWindowEnd   = timeutil.NewClock(16, 0)
)

// SubjectSource resolves subjects during materialization.
type SubjectSource interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// PlannerService builds schedule skeletons, runs the per-day assignment
// workflow and validates daily workloads. All schedule mutations happen on
// the caller-supplied object graph; persistence is the caller's concern.
type PlannerService struct {
	subjects   SubjectSource
	rules      []recurrence.Rule
	breakNames map[string]struct{}
	logger     *zap.Logger
}

// NewPlannerService wires the planner with its recurring-event rule set.
func NewPlannerService(subjects SubjectSource, rules []recurrence.Rule, logger *zap.Logger) *PlannerService {
	if len(rules) == 0 {
		rules = recurrence.DefaultRules()
	}
	return &PlannerService{
		subjects:   subjects,
		rules:      rules,
		breakNames: recurrence.BreakNames(rules),
		logger:     logger,
	}
}

// Build constructs a schedule skeleton for the date range. The range must run
// from a Monday to a later Sunday. Each week gets six days, Monday through
// Saturday, pre-seeded with the expanded recurring events in time order.
func (s *PlannerService) Build(startDate, endDate time.Time, name string) (*models.Schedule, error) {
	startDate = timeutil.DateOnly(startDate)
	endDate = timeutil.DateOnly(endDate)

	if !timeutil.IsMonday(startDate) {
		return nil, appErrors.Clone(appErrors.ErrInvalidDateRange, "start date must be a Monday")
	}
	if !timeutil.IsSunday(endDate) {
		return nil, appErrors.Clone(appErrors.ErrInvalidDateRange, "end date must be a Sunday")
	}
	if !startDate.Before(endDate) {
		return nil, appErrors.Clone(appErrors.ErrInvalidDateRange, "start date must be before end date")
	}

	now := time.Now().UTC()
	schedule := &models.Schedule{
		ID:        uuid.NewString(),
		Name:      name,
		StartDate: startDate,
		EndDate:   endDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for wi, span := range timeutil.WeeksInRange(startDate, endDate) {
		week := models.WeekSchedule{
			WeekNumber: wi + 1,
			StartDate:  span.Monday,
			EndDate:    span.Sunday,
			Days:       make([]models.DaySchedule, 0, models.DaysPerWeek),
		}
		for di := 0; di < models.DaysPerWeek; di++ {
			date := span.Monday.AddDate(0, 0, di)
			day := models.DaySchedule{Date: date}
			for _, block := range recurrence.ExpandDay(s.rules, date) {
				day.Items = append(day.Items, models.ScheduleItem{
					SubjectName: block.Name,
					StartTime:   block.Start,
					EndTime:     block.End,
				})
			}
			week.Days = append(week.Days, day)
		}
		schedule.Weeks = append(schedule.Weeks, week)
	}

	if s.logger != nil {
		s.logger.Info("schedule skeleton built",
			zap.String("schedule_id", schedule.ID),
			zap.Int("weeks", len(schedule.Weeks)))
	}
	return schedule, nil
}

// day resolves the (week 1-based, day 0-based) address with range checks.
func (s *PlannerService) day(schedule *models.Schedule, week, dayIndex int) (*models.DaySchedule, error) {
	if week < 1 || week > len(schedule.Weeks) {
		return nil, appErrors.Clone(appErrors.ErrWeekOutOfRange,
			fmt.Sprintf("week %d out of range 1..%d", week, len(schedule.Weeks)))
	}
	days := schedule.Weeks[week-1].Days
	if dayIndex < 0 || dayIndex >= len(days) {
		return nil, appErrors.Clone(appErrors.ErrDayOutOfRange,
			fmt.Sprintf("day index %d out of range 0..%d", dayIndex, len(days)-1))
	}
	return &schedule.Weeks[week-1].Days[dayIndex], nil
}

// SetDaySubjects replaces the day's subject selection, deduplicating while
// preserving first-seen order and pruning stale slot/lesson entries.
func (s *PlannerService) SetDaySubjects(schedule *models.Schedule, week, dayIndex int, subjectIDs []string) error {
	day, err := s.day(schedule, week, dayIndex)
	if err != nil {
		return err
	}
	day.Draft.SetSubjects(subjectIDs)
	schedule.Touch()
	return nil
}

// SetDaySubjectTime assigns a start time slot to a selected subject. A nil
// slot clears the assignment.
func (s *PlannerService) SetDaySubjectTime(schedule *models.Schedule, week, dayIndex int, subjectID string, slot *string) error {
	day, err := s.day(schedule, week, dayIndex)
	if err != nil {
		return err
	}
	if !day.Draft.HasSubject(subjectID) {
		return appErrors.Clone(appErrors.ErrSubjectNotSelected,
			fmt.Sprintf("subject %s is not selected for this day", subjectID))
	}
	if slot == nil || *slot == "" {
		delete(day.Draft.TimeSlots, subjectID)
		schedule.Touch()
		return nil
	}
	parsed, err := timeutil.ParseClock(*slot)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid time slot %q", *slot))
	}
	if day.Draft.TimeSlots == nil {
		day.Draft.TimeSlots = make(map[string]string)
	}
	day.Draft.TimeSlots[subjectID] = parsed.String()
	schedule.Touch()
	return nil
}

// SetDaySubjectLesson assigns a lesson to a selected subject. An empty lesson
// id clears the assignment.
func (s *PlannerService) SetDaySubjectLesson(schedule *models.Schedule, week, dayIndex int, subjectID, lessonID string) error {
	day, err := s.day(schedule, week, dayIndex)
	if err != nil {
		return err
	}
	if !day.Draft.HasSubject(subjectID) {
		return appErrors.Clone(appErrors.ErrSubjectNotSelected,
			fmt.Sprintf("subject %s is not selected for this day", subjectID))
	}
	if lessonID == "" {
		delete(day.Draft.LessonMap, subjectID)
		schedule.Touch()
		return nil
	}
	if day.Draft.LessonMap == nil {
		day.Draft.LessonMap = make(map[string]string)
	}
	day.Draft.LessonMap[subjectID] = lessonID
	schedule.Touch()
	return nil
}

// CopyWeekAssignments copies subject selections and time slots from one week
// to another, day by day. Lesson assignments are cleared on the target since
// curriculum progress differs between weeks.
func (s *PlannerService) CopyWeekAssignments(schedule *models.Schedule, fromWeek, toWeek int) error {
	if fromWeek < 1 || fromWeek > len(schedule.Weeks) {
		return appErrors.Clone(appErrors.ErrWeekOutOfRange,
			fmt.Sprintf("source week %d out of range 1..%d", fromWeek, len(schedule.Weeks)))
	}
	if toWeek < 1 || toWeek > len(schedule.Weeks) {
		return appErrors.Clone(appErrors.ErrWeekOutOfRange,
			fmt.Sprintf("target week %d out of range 1..%d", toWeek, len(schedule.Weeks)))
	}

	source := schedule.Weeks[fromWeek-1].Days
	target := schedule.Weeks[toWeek-1].Days
	for di := range target {
		if di >= len(source) {
			break
		}
		copied := source[di].Draft.Clone()
		copied.LessonMap = nil
		target[di].Draft = copied
	}
	schedule.Touch()
	return nil
}

// BuildWeekItems materializes the draft assignments of one week into concrete
// schedule items. Fixed recurring items are preserved; each selected subject
// needs a lesson and a time slot and must not overlap anything already placed
// that day. Failures are accumulated per subject-day and reported together,
// while days are still overwritten with whatever could be placed. There is no
// rollback of partially materialized days.
func (s *PlannerService) BuildWeekItems(ctx context.Context, schedule *models.Schedule, week int) error {
	if week < 1 || week > len(schedule.Weeks) {
		return appErrors.Clone(appErrors.ErrWeekOutOfRange,
			fmt.Sprintf("week %d out of range 1..%d", week, len(schedule.Weeks)))
	}

	var problems []string
	days := schedule.Weeks[week-1].Days
	for di := range days {
		day := &days[di]
		dateLabel := day.Date.Format("2006-01-02")

		rebuilt := models.DaySchedule{Date: day.Date}
		for _, item := range day.Items {
			if item.IsFixed() {
				rebuilt.InsertItem(item)
			}
		}

		for _, subjectID := range day.Draft.SubjectIDs {
			subject, err := s.subjects.FindByID(ctx, subjectID)
			if err != nil || subject == nil {
				problems = append(problems, fmt.Sprintf("%s: unknown subject %s", dateLabel, subjectID))
				continue
			}
			lessonID := day.Draft.LessonMap[subjectID]
			if lessonID == "" {
				problems = append(problems, fmt.Sprintf("%s %s: no lesson assigned", dateLabel, subject.Name))
				continue
			}
			lesson := subject.FindLesson(lessonID)
			if lesson == nil {
				problems = append(problems, fmt.Sprintf("%s %s: unknown lesson %s", dateLabel, subject.Name, lessonID))
				continue
			}
			slot, ok := day.Draft.TimeSlots[subjectID]
			if !ok || slot == "" {
				problems = append(problems, fmt.Sprintf("%s %s: no start time assigned", dateLabel, subject.Name))
				continue
			}
			start, err := timeutil.ParseClock(slot)
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s %s: invalid start time %q", dateLabel, subject.Name, slot))
				continue
			}
			end := start.AddHours(subject.LessonDuration(lesson))

			if conflict := rebuilt.FindConflict(start, end); conflict != nil {
				problems = append(problems, fmt.Sprintf("%s %s: %s-%s conflicts with %s (%s-%s)",
					dateLabel, subject.Name, start, end,
					conflictLabel(conflict), conflict.StartTime, conflict.EndTime))
				continue
			}

			rebuilt.InsertItem(models.ScheduleItem{
				SubjectID:   subject.ID,
				LessonID:    lesson.ID,
				SubjectName: subject.Name,
				LessonName:  lesson.Name,
				StartTime:   start,
				EndTime:     end,
				Location:    subject.Location,
			})
		}

		// The day is overwritten even when some of its subjects failed.
		day.Items = rebuilt.Items
	}

	if len(problems) > 0 {
		if s.logger != nil {
			s.logger.Warn("week materialization incomplete",
				zap.String("schedule_id", schedule.ID),
				zap.Int("week", week),
				zap.Int("failures", len(problems)))
		}
		return appErrors.Clone(appErrors.ErrMaterializeFailed, strings.Join(problems, "\n"))
	}
	schedule.Touch()
	return nil
}

func conflictLabel(item *models.ScheduleItem) string {
	if item.LessonName != "" {
		return fmt.Sprintf("%s / %s", item.SubjectName, item.LessonName)
	}
	return item.SubjectName
}

// AddLessonToDay places a lesson directly, bypassing the draft workflow. The
// slot must be conflict-free and the (subject, lesson) pair must not already
// appear anywhere in the schedule.
func (s *PlannerService) AddLessonToDay(schedule *models.Schedule, week, dayIndex int, subject *models.Subject, lesson *models.Lesson, start timeutil.ClockTime) error {
	day, err := s.day(schedule, week, dayIndex)
	if err != nil {
		return err
	}
	end := start.AddHours(subject.LessonDuration(lesson))

	if conflict := day.FindConflict(start, end); conflict != nil {
		return appErrors.Clone(appErrors.ErrTimeConflict,
			fmt.Sprintf("%s-%s conflicts with %s (%s-%s)",
				start, end, conflictLabel(conflict), conflict.StartTime, conflict.EndTime))
	}
	if schedule.ContainsLesson(subject.ID, lesson.ID) {
		return appErrors.Clone(appErrors.ErrLessonAlreadyPlanned,
			fmt.Sprintf("lesson %q of subject %q is already scheduled", lesson.Name, subject.Name))
	}

	day.InsertItem(models.ScheduleItem{
		SubjectID:   subject.ID,
		LessonID:    lesson.ID,
		SubjectName: subject.Name,
		LessonName:  lesson.Name,
		StartTime:   start,
		EndTime:     end,
		Location:    subject.Location,
	})
	schedule.Touch()
	return nil
}

// AvailableLessons returns the subject's lessons not yet placed anywhere in
// the schedule.
func (s *PlannerService) AvailableLessons(schedule *models.Schedule, subject *models.Subject) []models.Lesson {
	placed := make(map[string]struct{})
	for wi := range schedule.Weeks {
		for di := range schedule.Weeks[wi].Days {
			for _, item := range schedule.Weeks[wi].Days[di].Items {
				if item.LessonID != "" {
					placed[item.LessonID] = struct{}{}
				}
			}
		}
	}
	available := make([]models.Lesson, 0, len(subject.Lessons))
	for _, lesson := range subject.Lessons {
		if _, ok := placed[lesson.ID]; !ok {
			available = append(available, lesson)
		}
	}
	return available
}

// DayValidation is the workload verdict for one day.
type DayValidation struct {
	Date       time.Time `json:"date"`
	IsValid    bool      `json:"is_valid"`
	TotalHours float64   `json:"total_hours"`
	Message    string    `json:"message,omitempty"`
}

// ValidateDay sums the day's non-break hours inside the 07:00-16:00 window
// and checks them against the daily target. Items outside the window, such as
// evening marches, do not count.
func (s *PlannerService) ValidateDay(day *models.DaySchedule) DayValidation {
	total := 0.0
	for _, item := range day.Items {
		if _, isBreak := s.breakNames[item.SubjectName]; isBreak {
			continue
		}
		if item.StartTime.Minutes() < dayWindowStart.Minutes() ||
			item.EndTime.Minutes() > dayWindowEnd.Minutes() {
			continue
		}
		total += item.StartTime.HoursUntil(item.EndTime)
	}

	result := DayValidation{Date: day.Date, TotalHours: total}
	delta := DailyTargetHours - total
	if math.Abs(delta) < HoursTolerance {
		result.IsValid = true
		return result
	}
	if delta > 0 {
		result.Message = fmt.Sprintf("scheduled %.1f hours, %.1f hours short of the %.0f-hour daily target",
			total, delta, DailyTargetHours)
	} else {
		result.Message = fmt.Sprintf("scheduled %.1f hours, %.1f hours over the %.0f-hour daily target",
			total, -delta, DailyTargetHours)
	}
	return result
}

// ValidateWeek runs ValidateDay over every day of the week.
func (s *PlannerService) ValidateWeek(schedule *models.Schedule, week int) ([]DayValidation, error) {
	if week < 1 || week > len(schedule.Weeks) {
		return nil, appErrors.Clone(appErrors.ErrWeekOutOfRange,
			fmt.Sprintf("week %d out of range 1..%d", week, len(schedule.Weeks)))
	}
	days := schedule.Weeks[week-1].Days
	results := make([]DayValidation, 0, len(days))
	for di := range days {
		results = append(results, s.ValidateDay(&days[di]))
	}
	return results, nil
}

// Suggestion proposes replacing a scheduled lesson with a sibling lesson of
// the same subject to close a workload gap.
type Suggestion struct {
	Type                string `json:"type"`
	CurrentLessonName   string `json:"current_lesson_name"`
	SuggestedLessonName string `json:"suggested_lesson_name"`
	Reason              string `json:"reason"`
}

// SuggestAdjustments searches the subject's other lessons for substitutions
// that would move the day toward the daily target. Longer lessons are
// suggested for a shortage, shorter ones for an excess. Candidates are
// reported in the subject's lesson order without ranking.
func (s *PlannerService) SuggestAdjustments(day *models.DaySchedule, subject *models.Subject) []Suggestion {
	verdict := s.ValidateDay(day)
	if verdict.IsValid {
		return nil
	}
	delta := DailyTargetHours - verdict.TotalHours

	var suggestions []Suggestion
	for _, item := range day.Items {
		if item.SubjectID != subject.ID {
			continue
		}
		current := subject.FindLesson(item.LessonID)
		if current == nil {
			continue
		}
		currentDuration := subject.LessonDuration(current)

		for ci := range subject.Lessons {
			candidate := &subject.Lessons[ci]
			if candidate.ID == current.ID {
				continue
			}
			candidateDuration := subject.LessonDuration(candidate)

			if delta > 0 {
				diff := candidateDuration - currentDuration
				if diff > 0 && diff <= delta+suggestionSlack {
					suggestions = append(suggestions, Suggestion{
						Type:                "replace",
						CurrentLessonName:   current.Name,
						SuggestedLessonName: candidate.Name,
						Reason:              fmt.Sprintf("adds %.1f hours toward the daily target", diff),
					})
				}
			} else {
				diff := currentDuration - candidateDuration
				if diff > 0 && diff <= -delta+suggestionSlack {
					suggestions = append(suggestions, Suggestion{
						Type:                "replace",
						CurrentLessonName:   current.Name,
						SuggestedLessonName: candidate.Name,
						Reason:              fmt.Sprintf("frees %.1f hours of the daily overload", diff),
					})
				}
			}
		}
	}
	return suggestions
}
