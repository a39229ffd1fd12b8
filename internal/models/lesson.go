package models

import "time"

// Lesson is a single teachable unit within a subject. Duration is optional;
// when unset the owning subject's default duration applies.
type Lesson struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Duration  *float64  `json:"duration,omitempty"`
	Materials []string  `json:"materials,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
