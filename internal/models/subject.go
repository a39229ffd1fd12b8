package models

import (
	"strings"
	"time"

	appErrors "github.com/vhoward/training-plan-api/pkg/errors"
)

// MaxLessonsPerSubject caps the lesson list of a single subject.
const MaxLessonsPerSubject = 500

// Subject groups lessons under a common name, location and category.
type Subject struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Code            string    `json:"code,omitempty"`
	Location        string    `json:"location,omitempty"`
	DefaultDuration *float64  `json:"default_duration,omitempty"`
	Prerequisites   []string  `json:"prerequisites,omitempty"`
	CategoryMain    string    `json:"category_main,omitempty"`
	CategorySub     string    `json:"category_sub,omitempty"`
	Lessons         []Lesson  `json:"lessons"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Validate enforces the construction invariants: a non-empty name and at
// most MaxLessonsPerSubject lessons.
func (s *Subject) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "subject name is required")
	}
	if len(s.Lessons) > MaxLessonsPerSubject {
		return appErrors.ErrTooManyLessons
	}
	return nil
}

// LessonDuration returns the lesson's duration in hours, falling back to the
// subject default and finally to zero.
func (s *Subject) LessonDuration(lesson *Lesson) float64 {
	if lesson != nil && lesson.Duration != nil {
		return *lesson.Duration
	}
	if s.DefaultDuration != nil {
		return *s.DefaultDuration
	}
	return 0.0
}

// FindLesson returns the lesson with the given id, or nil.
func (s *Subject) FindLesson(lessonID string) *Lesson {
	for i := range s.Lessons {
		if s.Lessons[i].ID == lessonID {
			return &s.Lessons[i]
		}
	}
	return nil
}

// SubjectSummary is the lightweight listing projection of a subject.
type SubjectSummary struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Code            string    `db:"code" json:"code,omitempty"`
	Location        string    `db:"location" json:"location,omitempty"`
	DefaultDuration *float64  `db:"default_duration" json:"default_duration,omitempty"`
	CategoryMain    string    `db:"category_main" json:"category_main,omitempty"`
	CategorySub     string    `db:"category_sub" json:"category_sub,omitempty"`
	LessonCount     int       `db:"lesson_count" json:"lesson_count"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
