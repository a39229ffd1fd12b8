package dto

// BuildScheduleRequest is the payload for constructing a schedule skeleton.
// Dates use the YYYY-MM-DD form; the range must run Monday to Sunday.
type BuildScheduleRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// SetDaySubjectsRequest replaces the subject selection of one day.
type SetDaySubjectsRequest struct {
	SubjectIDs []string `json:"subjectIds"`
}

// SetSubjectTimeRequest assigns or clears a start time slot. A null time
// clears the assignment.
type SetSubjectTimeRequest struct {
	Time *string `json:"time" validate:"omitempty,len=5"`
}

// SetSubjectLessonRequest assigns or clears a lesson. An empty lesson id
// clears the assignment.
type SetSubjectLessonRequest struct {
	LessonID string `json:"lessonId"`
}

// CopyWeekRequest names the target week for a week-to-week assignment copy.
type CopyWeekRequest struct {
	TargetWeek int `json:"targetWeek" validate:"required,min=1"`
}

// AddLessonRequest is the payload for the direct lesson placement path.
type AddLessonRequest struct {
	Week      int    `json:"week" validate:"required,min=1"`
	Day       int    `json:"day" validate:"min=0,max=5"`
	SubjectID string `json:"subjectId" validate:"required"`
	LessonID  string `json:"lessonId" validate:"required"`
	StartTime string `json:"startTime" validate:"required,len=5"`
}

// ExportScheduleRequest selects the export format for a schedule.
type ExportScheduleRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportResponse reports the queued export job and its signed download URL.
type ExportResponse struct {
	JobID       string `json:"jobId"`
	Status      string `json:"status"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}
