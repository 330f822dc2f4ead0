package models

import "time"

// LessonType classifies a lesson independently of any filtering. It is
// authoritative input from the lesson service, never derived from the lesson
// date versus the current time.
type LessonType string

const (
	LessonHistoric  LessonType = "Historic"
	LessonUpcoming  LessonType = "Upcoming"
	LessonAvailable LessonType = "Available"
)

// Valid reports whether the type is one of the three known classifications.
func (t LessonType) Valid() bool {
	switch t {
	case LessonHistoric, LessonUpcoming, LessonAvailable:
		return true
	}
	return false
}

// LessonStatus tracks the booking state of a lesson.
type LessonStatus string

const (
	StatusCompleted LessonStatus = "Completed"
	StatusConfirmed LessonStatus = "Confirmed"
	StatusAvailable LessonStatus = "Available"
)

// CanonicalStatus returns the status the lesson service contract pairs with
// each type: Available lessons are Available, Upcoming are Confirmed and
// Historic are Completed.
func (t LessonType) CanonicalStatus() LessonStatus {
	switch t {
	case LessonAvailable:
		return StatusAvailable
	case LessonUpcoming:
		return StatusConfirmed
	default:
		return StatusCompleted
	}
}

// Lesson is one bookable, booked or completed tutoring session. Date is the
// sole ordering and filtering key.
type Lesson struct {
	ID       string       `json:"id" validate:"required"`
	Date     time.Time    `json:"date" validate:"required"`
	Type     LessonType   `json:"type" validate:"required"`
	Subject  string       `json:"subject"`
	Students []string     `json:"students"`
	Tutor    *string      `json:"tutor"`
	Status   LessonStatus `json:"status"`
}

// LessonPatch is the possibly-partial lesson representation returned by the
// claim service. Pointer fields distinguish "omitted" from zero values so the
// claim merge can apply its defaults.
type LessonPatch struct {
	Date     *time.Time    `json:"date,omitempty"`
	Type     *LessonType   `json:"type,omitempty"`
	Subject  *string       `json:"subject,omitempty"`
	Students []string      `json:"students,omitempty"`
	Tutor    *string       `json:"tutor,omitempty"`
	Status   *LessonStatus `json:"status,omitempty"`
}
