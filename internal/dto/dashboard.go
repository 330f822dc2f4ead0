package dto

import (
	"time"

	"github.com/tutorlane/tutor-dash-api/internal/models"
)

// DashboardResponse carries the four display buckets plus the selection that
// produced them.
type DashboardResponse struct {
	Today     []models.Lesson        `json:"today"`
	Available []models.Lesson        `json:"available"`
	Upcoming  []models.Lesson        `json:"upcoming"`
	Historic  []models.Lesson        `json:"historic"`
	Filter    models.FilterSelection `json:"filter"`
}

// MonthSlot describes one position of the 12-slot month picker.
type MonthSlot struct {
	Index   int       `json:"index"`
	Key     string    `json:"key"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	HasData bool      `json:"hasData"`
	Current bool      `json:"current"`
}

// MonthWindowResponse wraps the full picker window.
type MonthWindowResponse struct {
	Slots []MonthSlot `json:"slots"`
}

// FilterUpdateRequest selects either a month slot or an explicit range,
// never both.
type FilterUpdateRequest struct {
	MonthIndex *int       `json:"monthIndex"`
	Start      *time.Time `json:"start"`
	End        *time.Time `json:"end"`
}

// LessonListResponse is the filtered lesson listing.
type LessonListResponse struct {
	Lessons []models.Lesson `json:"lessons"`
	Count   int             `json:"count"`
}

// StoreStateResponse reports the store's load state after a refresh.
type StoreStateResponse struct {
	Count     int        `json:"count"`
	Loading   string     `json:"loading"`
	LastError string     `json:"lastError,omitempty"`
	FetchedAt *time.Time `json:"fetchedAt,omitempty"`
}
