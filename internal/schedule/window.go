package schedule

import (
	"time"

	"github.com/tutorlane/tutor-dash-api/internal/models"
	appErrors "github.com/tutorlane/tutor-dash-api/pkg/errors"
)

// The month picker exposes a fixed rolling window of twelve calendar months
// centred on "now": slot indices 0-5 are offsets -5..0 from the current
// month, 6-11 are offsets +1..+6. The window is recomputed from the wall
// clock on every read; the only state is the selected index.
const (
	WindowSlots = 12
	slotsBack   = 5
)

// monthKeyLayout formats a year-month pair, e.g. "2026-08".
const monthKeyLayout = "2006-01"

// MonthKey returns the year-month key for the month containing t.
func MonthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// ResolveWindowSlot maps a window slot index to the concrete month range it
// denotes relative to now. Index 5 is the current month, 0 is five months
// back, 11 is six months ahead.
func ResolveWindowSlot(index int, now time.Time) (models.DateRange, error) {
	if index < 0 || index >= WindowSlots {
		return models.DateRange{}, appErrors.Clone(appErrors.ErrValidation, "month index out of range")
	}
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	target := current.AddDate(0, index-slotsBack, 0)
	start, end := MonthRange(target)
	return models.DateRange{Start: start, End: end}, nil
}

// AvailableSlots records the year-month key of every lesson whose month falls
// within the window. It only drives picker affordance (disabling empty
// slots); it never gates the filter itself.
func AvailableSlots(lessons []models.Lesson, now time.Time) map[string]struct{} {
	first, _ := ResolveWindowSlot(0, now)
	last, _ := ResolveWindowSlot(WindowSlots-1, now)

	keys := make(map[string]struct{})
	for _, lesson := range lessons {
		if InRange(lesson.Date, first.Start, last.End) {
			keys[MonthKey(lesson.Date)] = struct{}{}
		}
	}
	return keys
}

// Slot describes one window position for the picker.
type Slot struct {
	Index   int
	Key     string
	Range   models.DateRange
	HasData bool
	Current bool
}

// Slots expands the full window into picker descriptors with availability
// flags derived from the lesson collection.
func Slots(lessons []models.Lesson, now time.Time) []Slot {
	available := AvailableSlots(lessons, now)

	slots := make([]Slot, 0, WindowSlots)
	for i := 0; i < WindowSlots; i++ {
		rng, _ := ResolveWindowSlot(i, now)
		key := MonthKey(rng.Start)
		_, hasData := available[key]
		slots = append(slots, Slot{
			Index:   i,
			Key:     key,
			Range:   rng,
			HasData: hasData,
			Current: i == slotsBack,
		})
	}
	return slots
}
