package dto

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	Name            string   `json:"name" validate:"required"`
	Code            string   `json:"code"`
	Location        string   `json:"location"`
	DefaultDuration *float64 `json:"defaultDuration" validate:"omitempty,gt=0"`
	Prerequisites   []string `json:"prerequisites"`
	CategoryMain    string   `json:"categoryMain"`
	CategorySub     string   `json:"categorySub"`
}

// UpdateSubjectRequest is the payload for updating subject metadata. Lessons
// are managed through the lesson endpoints.
type UpdateSubjectRequest struct {
	Name            string   `json:"name" validate:"required"`
	Code            string   `json:"code"`
	Location        string   `json:"location"`
	DefaultDuration *float64 `json:"defaultDuration" validate:"omitempty,gt=0"`
	Prerequisites   []string `json:"prerequisites"`
	CategoryMain    string   `json:"categoryMain"`
	CategorySub     string   `json:"categorySub"`
}

// LessonRequest is the payload for adding or updating a lesson.
type LessonRequest struct {
	Name      string   `json:"name" validate:"required"`
	Duration  *float64 `json:"duration" validate:"omitempty,gt=0"`
	Materials []string `json:"materials"`
}
